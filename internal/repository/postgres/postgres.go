package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, letting
// every repository run against either a connection pool or one transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db            *sql.DB
	users         repository.UserRepository
	orgs          repository.OrganizationRepository
	requests      repository.RequestRepository
	notifications repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:            db,
		users:         NewUserRepository(db),
		orgs:          NewOrganizationRepository(db),
		requests:      NewRequestRepository(db),
		notifications: NewNotificationRepository(db),
	}
}

func (s *Store) Users() repository.UserRepository                 { return s.users }
func (s *Store) Organizations() repository.OrganizationRepository { return s.orgs }
func (s *Store) Requests() repository.RequestRepository           { return s.requests }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }

// InTx runs fn against a Store bound to a single transaction. Commit happens
// when fn returns nil, rollback otherwise. Must not be nested.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", translateErr(err))
	}

	txStore := &Store{
		db:            s.db,
		users:         NewUserRepository(tx),
		orgs:          NewOrganizationRepository(tx),
		requests:      NewRequestRepository(tx),
		notifications: NewNotificationRepository(tx),
	}

	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", translateErr(err))
	}
	return nil
}

// translateErr maps driver-level failures onto the domain error taxonomy:
// missing rows become ErrNotFound, unique violations become ErrConflict, and
// everything else is a store failure.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrConflict
	}
	return fmt.Errorf("%w: %v", domain.ErrStore, err)
}
