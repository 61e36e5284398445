package service_test

import (
	"context"
	"testing"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"securestore-backend/internal/security"
)

type MockTokenManager struct{ mock.Mock }

func (m *MockTokenManager) GenerateAccessToken(userID int32, email string, role domain.Role, orgID *int32) (string, error) {
	args := m.Called(userID, email, role, orgID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) GenerateRefreshToken(userID int32, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) ValidateToken(tokenString string) (*security.UserClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := service.NewAuthService(userRepo, tokens)

		userRepo.On("GetByEmail", ctx, "new@test.com").Return(nil, domain.ErrNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
		tokens.On("GenerateAccessToken", int32(0), "new@test.com", domain.RoleUser, (*int32)(nil)).Return("access", nil)
		tokens.On("GenerateRefreshToken", int32(0), "new@test.com").Return("refresh", nil)

		user, access, refresh, err := svc.Signup(ctx, "New User", "new@test.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Nil(t, user.OrgID)
		assert.Equal(t, "access", access)
		assert.Equal(t, "refresh", refresh)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, new(MockTokenManager))

		userRepo.On("GetByEmail", ctx, "taken@test.com").Return(&domain.User{ID: 1}, nil)

		_, _, _, err := svc.Signup(ctx, "Dup", "taken@test.com", "password123")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Missing Password", func(t *testing.T) {
		svc := service.NewAuthService(new(MockUserRepo), new(MockTokenManager))

		_, _, _, err := svc.Signup(ctx, "Nameless", "new@test.com", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	stored := &domain.User{ID: 7, Email: "user@test.com", PasswordHash: string(hash), Role: domain.RoleUser}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := service.NewAuthService(userRepo, tokens)

		userRepo.On("GetByEmail", ctx, "user@test.com").Return(stored, nil)
		tokens.On("GenerateAccessToken", int32(7), "user@test.com", domain.RoleUser, (*int32)(nil)).Return("access", nil)
		tokens.On("GenerateRefreshToken", int32(7), "user@test.com").Return("refresh", nil)

		access, refresh, err := svc.Login(ctx, "user@test.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "access", access)
		assert.Equal(t, "refresh", refresh)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, new(MockTokenManager))

		userRepo.On("GetByEmail", ctx, "user@test.com").Return(stored, nil)

		_, _, err := svc.Login(ctx, "user@test.com", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, new(MockTokenManager))

		userRepo.On("GetByEmail", ctx, "ghost@test.com").Return(nil, domain.ErrNotFound)

		_, _, err := svc.Login(ctx, "ghost@test.com", "whatever")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Reloads Current Role", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		tokens := new(MockTokenManager)
		svc := service.NewAuthService(userRepo, tokens)

		claims := &security.UserClaims{UserID: 7, Type: security.TokenTypeRefresh}
		promoted := &domain.User{ID: 7, Email: "user@test.com", Role: domain.RoleDeptAdmin, OrgID: ptr(int32(3))}

		tokens.On("ValidateToken", "refresh-token").Return(claims, nil)
		userRepo.On("GetByID", ctx, int32(7)).Return(promoted, nil)
		tokens.On("GenerateAccessToken", int32(7), "user@test.com", domain.RoleDeptAdmin, promoted.OrgID).Return("access", nil)
		tokens.On("GenerateRefreshToken", int32(7), "user@test.com").Return("refresh", nil)

		access, _, err := svc.Refresh(ctx, "refresh-token")
		require.NoError(t, err)
		assert.Equal(t, "access", access)
	})

	t.Run("Access Token Rejected", func(t *testing.T) {
		tokens := new(MockTokenManager)
		svc := service.NewAuthService(new(MockUserRepo), tokens)

		claims := &security.UserClaims{UserID: 7, Type: security.TokenTypeAccess}
		tokens.On("ValidateToken", "access-token").Return(claims, nil)

		_, _, err := svc.Refresh(ctx, "access-token")
		assert.ErrorIs(t, err, security.ErrWrongTokenType)
	})
}
