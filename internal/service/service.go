package service

import (
	"context"

	"securestore-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, *domain.Organization, error)
	UpdateProfile(ctx context.Context, userID int32, name, email string) (*domain.User, error)
}

type OrganizationService interface {
	CreateOrganization(ctx context.Context, actorID int32, org *domain.Organization) (*domain.Organization, error)
	GetOrganization(ctx context.Context, id int32) (*domain.Organization, error)
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
	ListChildren(ctx context.Context, id int32) ([]domain.Organization, error)
	UpdateOrganization(ctx context.Context, actorID int32, org *domain.Organization) (*domain.Organization, error)
	GenerateJoinCode(ctx context.Context, actorID, orgID int32) (string, error)
	DeleteOrganization(ctx context.Context, actorID, orgID int32) error
}

// HierarchyResolver computes the descendant-id closure of an org node. Every
// org-scoped visibility decision goes through it.
type HierarchyResolver interface {
	DescendantIDs(ctx context.Context, rootID int32) (map[int32]struct{}, error)
}

// RequestWorkflow is the state machine governing request creation, duplicate
// detection, listing scopes, and approval side effects.
type RequestWorkflow interface {
	Create(ctx context.Context, actorID int32, input *domain.RequestInput) (*domain.Request, error)
	List(ctx context.Context, actorID int32, scope domain.ListScope) ([]domain.Request, error)
	// Act approves or rejects a pending request. For join and admin approvals
	// the mutated user is returned alongside the request.
	Act(ctx context.Context, actorID, requestID int32, action domain.RequestAction) (*domain.Request, *domain.User, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendRequestReceived(ctx context.Context, email, name, orgName string, reqType domain.RequestType) error
	SendRequestDecision(ctx context.Context, email, name, orgName string, status domain.RequestStatus, message string) error
}
