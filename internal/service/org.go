package service

import (
	"context"
	"errors"
	"fmt"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/repository"

	"github.com/google/uuid"
)

type organizationService struct {
	store    repository.Store
	resolver HierarchyResolver
}

func NewOrganizationService(store repository.Store, resolver HierarchyResolver) OrganizationService {
	return &organizationService{store: store, resolver: resolver}
}

// CreateOrganization applies one rule: superAdmin creates top-level orgs, and
// a superAdmin or an admin of the parent org creates departments under it.
func (s *organizationService) CreateOrganization(ctx context.Context, actorID int32, org *domain.Organization) (*domain.Organization, error) {
	if org.Name == "" || !domain.ValidOrgType(org.Type) {
		return nil, fmt.Errorf("%w: organization requires a name and a valid type", domain.ErrValidation)
	}

	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if org.Type == domain.OrgTypeDepartment {
		if org.ParentID == nil {
			return nil, fmt.Errorf("%w: a department requires a parent org", domain.ErrValidation)
		}
		parent, err := s.store.Organizations().GetByID(ctx, *org.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent org %d does not exist", domain.ErrValidation, *org.ParentID)
			}
			return nil, err
		}
		if parent.Type == domain.OrgTypeDepartment {
			return nil, fmt.Errorf("%w: departments cannot nest under departments", domain.ErrValidation)
		}
		if actor.Role != domain.RoleSuperAdmin {
			if !actor.Role.IsAdmin() || actor.OrgID == nil || *actor.OrgID != parent.ID {
				return nil, fmt.Errorf("%w: only a superAdmin or the parent-org admin may create a department", domain.ErrAuthorization)
			}
		}
	} else {
		if org.ParentID != nil {
			return nil, fmt.Errorf("%w: top-level orgs cannot have a parent", domain.ErrValidation)
		}
		if actor.Role != domain.RoleSuperAdmin {
			return nil, fmt.Errorf("%w: only a superAdmin may create a top-level org", domain.ErrAuthorization)
		}
		org.AdminIDs = []int32{actor.ID}
	}

	if err := s.store.Organizations().Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, id int32) (*domain.Organization, error) {
	return s.store.Organizations().GetByID(ctx, id)
}

func (s *organizationService) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return s.store.Organizations().List(ctx)
}

func (s *organizationService) ListChildren(ctx context.Context, id int32) ([]domain.Organization, error) {
	if _, err := s.store.Organizations().GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Organizations().ListChildren(ctx, id)
}

// UpdateOrganization rejects reparenting that would place an org under itself
// or under one of its own descendants.
func (s *organizationService) UpdateOrganization(ctx context.Context, actorID int32, org *domain.Organization) (*domain.Organization, error) {
	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(actor, org.ID); err != nil {
		return nil, err
	}

	current, err := s.store.Organizations().GetByID(ctx, org.ID)
	if err != nil {
		return nil, err
	}

	if org.ParentID != nil {
		if *org.ParentID == org.ID {
			return nil, fmt.Errorf("%w: an org cannot be its own parent", domain.ErrValidation)
		}
		descendants, err := s.resolver.DescendantIDs(ctx, org.ID)
		if err != nil {
			return nil, err
		}
		if _, ok := descendants[*org.ParentID]; ok {
			return nil, fmt.Errorf("%w: reparenting under a descendant would create a cycle", domain.ErrValidation)
		}
	}

	if org.Name == "" {
		org.Name = current.Name
	}
	if org.Type == "" {
		org.Type = current.Type
	}
	if !domain.ValidOrgType(org.Type) {
		return nil, fmt.Errorf("%w: unknown org type %q", domain.ErrValidation, org.Type)
	}
	if org.JoinCode == "" {
		org.JoinCode = current.JoinCode
	}
	if org.AdminIDs == nil {
		org.AdminIDs = current.AdminIDs
	}
	org.CreatedOn = current.CreatedOn

	if err := s.store.Organizations().Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// GenerateJoinCode mints a fresh code for the org, replacing any previous one.
func (s *organizationService) GenerateJoinCode(ctx context.Context, actorID, orgID int32) (string, error) {
	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return "", err
	}
	if err := s.authorizeManage(actor, orgID); err != nil {
		return "", err
	}

	org, err := s.store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return "", err
	}
	org.JoinCode = uuid.NewString()
	if err := s.store.Organizations().Update(ctx, org); err != nil {
		return "", err
	}
	return org.JoinCode, nil
}

// DeleteOrganization refuses to orphan children, strand members, or break
// pending requests that still reference the org.
func (s *organizationService) DeleteOrganization(ctx context.Context, actorID, orgID int32) error {
	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleSuperAdmin {
		return fmt.Errorf("%w: only a superAdmin may delete an org", domain.ErrAuthorization)
	}

	if _, err := s.store.Organizations().GetByID(ctx, orgID); err != nil {
		return err
	}

	children, err := s.store.Organizations().CountChildren(ctx, orgID)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: org %d still has child orgs", domain.ErrConflict, orgID)
	}

	members, err := s.store.Users().CountByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	if members > 0 {
		return fmt.Errorf("%w: org %d still has members", domain.ErrConflict, orgID)
	}

	pending, err := s.store.Requests().CountPendingByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%w: org %d is referenced by pending requests", domain.ErrConflict, orgID)
	}

	return s.store.Organizations().Delete(ctx, orgID)
}

func (s *organizationService) authorizeManage(actor *domain.User, orgID int32) error {
	if actor.Role == domain.RoleSuperAdmin {
		return nil
	}
	if actor.Role.IsAdmin() && actor.OrgID != nil && *actor.OrgID == orgID {
		return nil
	}
	return fmt.Errorf("%w: not an admin of org %d", domain.ErrAuthorization, orgID)
}
