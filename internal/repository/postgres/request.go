package postgres

import (
	"context"
	"fmt"
	"time"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/repository"

	"github.com/lib/pq"
)

type requestRepository struct {
	db DBTX
}

func NewRequestRepository(db DBTX) repository.RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `id, type, sender_id, target_user_id, COALESCE(email, ''), org_id, department_id, requested_role, COALESCE(message, ''), status, created_at, processed_at`

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	query := `INSERT INTO requests (type, sender_id, target_user_id, email, org_id, department_id, requested_role, message, status, created_at)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10) RETURNING id`
	req.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		req.Type, req.SenderID, req.TargetUserID, req.Email, req.OrgID, req.DepartmentID,
		req.RequestedRole, req.Message, req.Status, req.CreatedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("create request: %w", translateErr(err))
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int32) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req := &domain.Request{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.Type, &req.SenderID, &req.TargetUserID, &req.Email, &req.OrgID,
		&req.DepartmentID, &req.RequestedRole, &req.Message, &req.Status, &req.CreatedAt, &req.ProcessedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get request %d: %w", id, translateErr(err))
	}
	return req, nil
}

// HasPendingDuplicate checks the type-specific discriminator tuple. The
// partial unique indexes in the schema close the remaining race window
// between this check and the insert.
func (r *requestRepository) HasPendingDuplicate(ctx context.Context, req *domain.Request) (bool, error) {
	var query string
	var args []any
	switch req.Type {
	case domain.RequestTypeJoin:
		query = `SELECT EXISTS (SELECT 1 FROM requests WHERE type = $1 AND status = 'pending' AND LOWER(email) = LOWER($2) AND org_id = $3)`
		args = []any{req.Type, req.Email, req.OrgID}
	case domain.RequestTypeAdmin:
		query = `SELECT EXISTS (SELECT 1 FROM requests WHERE type = $1 AND status = 'pending' AND target_user_id = $2 AND department_id = $3)`
		args = []any{req.Type, req.TargetUserID, req.DepartmentID}
	case domain.RequestTypeRoleChange:
		query = `SELECT EXISTS (SELECT 1 FROM requests WHERE type = $1 AND status = 'pending' AND target_user_id = $2)`
		args = []any{req.Type, req.TargetUserID}
	default:
		return false, fmt.Errorf("%w: unknown request type %q", domain.ErrValidation, req.Type)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pending duplicate: %w", translateErr(err))
	}
	return exists, nil
}

func (r *requestRepository) ListPending(ctx context.Context) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE status = 'pending' ORDER BY created_at DESC, id DESC`
	return r.listRequests(ctx, query)
}

func (r *requestRepository) ListPendingByOrgIDs(ctx context.Context, orgIDs []int32) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests
	          WHERE status = 'pending' AND (org_id = ANY($1) OR department_id = ANY($1))
	          ORDER BY created_at DESC, id DESC`
	return r.listRequests(ctx, query, pq.Array(orgIDs))
}

func (r *requestRepository) ListPendingForUser(ctx context.Context, userID int32, email string) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests
	          WHERE status = 'pending' AND (target_user_id = $1 OR LOWER(email) = LOWER($2))
	          ORDER BY created_at DESC, id DESC`
	return r.listRequests(ctx, query, userID, email)
}

func (r *requestRepository) listRequests(ctx context.Context, query string, args ...any) ([]domain.Request, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", translateErr(err))
	}
	defer rows.Close()

	var reqs []domain.Request
	for rows.Next() {
		var req domain.Request
		if err := rows.Scan(
			&req.ID, &req.Type, &req.SenderID, &req.TargetUserID, &req.Email, &req.OrgID,
			&req.DepartmentID, &req.RequestedRole, &req.Message, &req.Status, &req.CreatedAt, &req.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("list requests: %w", translateErr(err))
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// FinishIfPending is the compare-and-set guarding against double processing:
// the WHERE clause only matches while the row is still pending, so exactly one
// of two concurrent approvers observes a row flip.
func (r *requestRepository) FinishIfPending(ctx context.Context, id int32, status domain.RequestStatus, processedAt time.Time) (bool, error) {
	query := `UPDATE requests SET status = $1, processed_at = $2 WHERE id = $3 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, status, processedAt, id)
	if err != nil {
		return false, fmt.Errorf("finish request %d: %w", id, translateErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("finish request %d: %w", id, translateErr(err))
	}
	return n == 1, nil
}

func (r *requestRepository) CountPendingByOrg(ctx context.Context, orgID int32) (int32, error) {
	query := `SELECT COUNT(*) FROM requests WHERE status = 'pending' AND (org_id = $1 OR department_id = $1)`
	var count int32
	if err := r.db.QueryRowContext(ctx, query, orgID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending requests for org %d: %w", orgID, translateErr(err))
	}
	return count, nil
}

func (r *requestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests
	          WHERE status = 'pending' AND created_at < $1
	          ORDER BY created_at DESC, id DESC`
	return r.listRequests(ctx, query, cutoff)
}

func (r *requestRepository) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM requests WHERE status <> 'pending' AND processed_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune processed requests: %w", translateErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune processed requests: %w", translateErr(err))
	}
	return n, nil
}
