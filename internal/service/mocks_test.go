package service_test

import (
	"context"
	"time"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) CountByOrg(ctx context.Context, orgID int32) (int32, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int32), args.Error(1)
}

type MockOrganizationRepo struct{ mock.Mock }

func (m *MockOrganizationRepo) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepo) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepo) GetByJoinCode(ctx context.Context, code string) (*domain.Organization, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepo) List(ctx context.Context) ([]domain.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepo) ListChildren(ctx context.Context, parentID int32) ([]domain.Organization, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepo) ListEdges(ctx context.Context) ([]domain.OrgEdge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrgEdge), args.Error(1)
}

func (m *MockOrganizationRepo) Update(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrganizationRepo) CountChildren(ctx context.Context, id int32) (int32, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Error(1)
}

type MockRequestRepo struct{ mock.Mock }

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepo) GetByID(ctx context.Context, id int32) (*domain.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockRequestRepo) HasPendingDuplicate(ctx context.Context, req *domain.Request) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepo) ListPending(ctx context.Context) ([]domain.Request, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockRequestRepo) ListPendingByOrgIDs(ctx context.Context, orgIDs []int32) ([]domain.Request, error) {
	args := m.Called(ctx, orgIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockRequestRepo) ListPendingForUser(ctx context.Context, userID int32, email string) ([]domain.Request, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockRequestRepo) FinishIfPending(ctx context.Context, id int32, status domain.RequestStatus, processedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, status, processedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepo) CountPendingByOrg(ctx context.Context, orgID int32) (int32, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockRequestRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Request, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockRequestRepo) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepo struct{ mock.Mock }

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendRequestReceived(ctx context.Context, email, name, orgName string, reqType domain.RequestType) error {
	args := m.Called(ctx, email, name, orgName, reqType)
	return args.Error(0)
}

func (m *MockEmailService) SendRequestDecision(ctx context.Context, email, name, orgName string, status domain.RequestStatus, message string) error {
	args := m.Called(ctx, email, name, orgName, status, message)
	return args.Error(0)
}

// fakeStore bundles the mock repositories. InTx hands the same store back to
// fn, which is what a transaction-bound store looks like from the service's
// point of view.
type fakeStore struct {
	users         *MockUserRepo
	orgs          *MockOrganizationRepo
	requests      *MockRequestRepo
	notifications *MockNotificationRepo
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         new(MockUserRepo),
		orgs:          new(MockOrganizationRepo),
		requests:      new(MockRequestRepo),
		notifications: new(MockNotificationRepo),
	}
}

func (s *fakeStore) Users() repository.UserRepository                 { return s.users }
func (s *fakeStore) Organizations() repository.OrganizationRepository { return s.orgs }
func (s *fakeStore) Requests() repository.RequestRepository           { return s.requests }
func (s *fakeStore) Notifications() repository.NotificationRepository { return s.notifications }

func (s *fakeStore) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// stubResolver returns a fixed descendant closure for any root.
type stubResolver struct {
	ids map[int32]struct{}
	err error
}

func (r *stubResolver) DescendantIDs(ctx context.Context, rootID int32) (map[int32]struct{}, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.ids, nil
}

func idSet(ids ...int32) map[int32]struct{} {
	out := make(map[int32]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func ptr[T any](v T) *T { return &v }
