package postgres

import (
	"context"
	"fmt"
	"time"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (name, email, password_hash, role, org_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().Format("2006-01-02")
	u.CreatedOn = now
	u.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role, u.OrgID, u.CreatedOn, u.UpdatedOn).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("create user: %w", translateErr(err))
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, password_hash, role, org_id, created_on, updated_on FROM users WHERE id = $1`
	var createdOn, updatedOn time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.OrgID, &createdOn, &updatedOn)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, translateErr(err))
	}
	u.CreatedOn = createdOn.Format("2006-01-02")
	u.UpdatedOn = updatedOn.Format("2006-01-02")
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, password_hash, role, org_id, created_on, updated_on FROM users WHERE LOWER(email) = LOWER($1)`
	var createdOn, updatedOn time.Time
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.OrgID, &createdOn, &updatedOn)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", translateErr(err))
	}
	u.CreatedOn = createdOn.Format("2006-01-02")
	u.UpdatedOn = updatedOn.Format("2006-01-02")
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, email=$2, role=$3, org_id=$4, updated_on=$5 WHERE id=$6`
	u.UpdatedOn = time.Now().Format("2006-01-02")
	res, err := r.db.ExecContext(ctx, query, u.Name, u.Email, u.Role, u.OrgID, u.UpdatedOn, u.ID)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, translateErr(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update user %d: %w", u.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *userRepository) CountByOrg(ctx context.Context, orgID int32) (int32, error) {
	query := `SELECT COUNT(*) FROM users WHERE org_id = $1`
	var count int32
	if err := r.db.QueryRowContext(ctx, query, orgID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users by org %d: %w", orgID, translateErr(err))
	}
	return count, nil
}
