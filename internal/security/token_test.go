package security_test

import (
	"testing"
	"time"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough!"

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Hour, 24*time.Hour)
	orgID := int32(5)

	token, err := tm.GenerateAccessToken(7, "user@test.com", domain.RoleDeptAdmin, &orgID)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int32(7), claims.UserID)
	assert.Equal(t, "user@test.com", claims.Email)
	assert.Equal(t, security.TokenTypeAccess, claims.Type)
	assert.Equal(t, domain.RoleDeptAdmin, claims.Role)
	require.NotNil(t, claims.OrgID)
	assert.Equal(t, int32(5), *claims.OrgID)
}

func TestTokenManager_RefreshTokenType(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Hour, 24*time.Hour)

	token, err := tm.GenerateRefreshToken(7, "user@test.com")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, security.TokenTypeRefresh, claims.Type)
	assert.Nil(t, claims.OrgID)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Nanosecond, 24*time.Hour)

	token, err := tm.GenerateAccessToken(7, "user@test.com", domain.RoleUser, nil)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, security.ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Hour, 24*time.Hour)
	other := security.NewTokenManager("another-secret-that-is-long-enough", time.Hour, 24*time.Hour)

	token, err := tm.GenerateAccessToken(7, "user@test.com", domain.RoleUser, nil)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Hour, 24*time.Hour)

	_, err := tm.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}
