package repository

import (
	"context"
	"time"

	"securestore-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	CountByOrg(ctx context.Context, orgID int32) (int32, error)
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int32) (*domain.Organization, error)
	GetByJoinCode(ctx context.Context, code string) (*domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	ListChildren(ctx context.Context, parentID int32) ([]domain.Organization, error)
	// ListEdges returns the (id, parent_id) pair of every organization, the
	// raw material for one descendant resolution.
	ListEdges(ctx context.Context) ([]domain.OrgEdge, error)
	Update(ctx context.Context, org *domain.Organization) error
	Delete(ctx context.Context, id int32) error
	CountChildren(ctx context.Context, id int32) (int32, error)
}

type RequestRepository interface {
	// Create inserts a pending request. A unique-violation on the partial
	// pending indexes surfaces as domain.ErrConflict.
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id int32) (*domain.Request, error)
	// HasPendingDuplicate reports whether a pending request with the same
	// (type, discriminator) tuple already exists.
	HasPendingDuplicate(ctx context.Context, req *domain.Request) (bool, error)
	ListPending(ctx context.Context) ([]domain.Request, error)
	ListPendingByOrgIDs(ctx context.Context, orgIDs []int32) ([]domain.Request, error)
	ListPendingForUser(ctx context.Context, userID int32, email string) ([]domain.Request, error)
	// FinishIfPending flips a pending request to the given terminal status and
	// stamps processed_at. It reports false without error when the request was
	// no longer pending, which callers treat as a lost race.
	FinishIfPending(ctx context.Context, id int32, status domain.RequestStatus, processedAt time.Time) (bool, error)
	CountPendingByOrg(ctx context.Context, orgID int32) (int32, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Request, error)
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByUser(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

// Store bundles the repositories and provides transaction scoping. InTx runs
// fn against a Store whose repositories share one database transaction; the
// transaction commits when fn returns nil and rolls back otherwise.
type Store interface {
	Users() UserRepository
	Organizations() OrganizationRepository
	Requests() RequestRepository
	Notifications() NotificationRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
