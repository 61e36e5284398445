package service

import (
	"context"
	"errors"
	"fmt"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
}

func NewUserService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository) UserService {
	return &userService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, *domain.Organization, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var org *domain.Organization
	if user.OrgID != nil {
		org, err = s.orgRepo.GetByID(ctx, *user.OrgID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
	}
	return user, org, nil
}

// UpdateProfile touches name and email only. Role and org stay under the
// request workflow's control.
func (s *userService) UpdateProfile(ctx context.Context, userID int32, name, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
			return nil, fmt.Errorf("%w: email already in use", domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
