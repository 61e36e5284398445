package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/repository"

	"github.com/lib/pq"
)

type organizationRepository struct {
	db DBTX
}

func NewOrganizationRepository(db DBTX) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

const orgColumns = `id, name, type, parent_id, COALESCE(join_code, ''), admin_ids, created_on`

func (r *organizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO orgs (name, type, parent_id, join_code, admin_ids, created_on)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6) RETURNING id`
	o.CreatedOn = time.Now().Format("2006-01-02")
	err := r.db.QueryRowContext(ctx, query, o.Name, o.Type, o.ParentID, o.JoinCode, pq.Array(o.AdminIDs), o.CreatedOn).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("create org: %w", translateErr(err))
	}
	return nil
}

func (r *organizationRepository) scanOrg(row *sql.Row) (*domain.Organization, error) {
	o := &domain.Organization{}
	var createdOn time.Time
	var admins pq.Int32Array
	if err := row.Scan(&o.ID, &o.Name, &o.Type, &o.ParentID, &o.JoinCode, &admins, &createdOn); err != nil {
		return nil, err
	}
	o.AdminIDs = []int32(admins)
	o.CreatedOn = createdOn.Format("2006-01-02")
	return o, nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM orgs WHERE id = $1`
	o, err := r.scanOrg(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get org %d: %w", id, translateErr(err))
	}
	return o, nil
}

func (r *organizationRepository) GetByJoinCode(ctx context.Context, code string) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM orgs WHERE join_code = $1`
	o, err := r.scanOrg(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, fmt.Errorf("get org by join code: %w", translateErr(err))
	}
	return o, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM orgs ORDER BY id`
	return r.listOrgs(ctx, query)
}

func (r *organizationRepository) ListChildren(ctx context.Context, parentID int32) ([]domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM orgs WHERE parent_id = $1 ORDER BY id`
	return r.listOrgs(ctx, query, parentID)
}

func (r *organizationRepository) listOrgs(ctx context.Context, query string, args ...any) ([]domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orgs: %w", translateErr(err))
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var o domain.Organization
		var createdOn time.Time
		var admins pq.Int32Array
		if err := rows.Scan(&o.ID, &o.Name, &o.Type, &o.ParentID, &o.JoinCode, &admins, &createdOn); err != nil {
			return nil, fmt.Errorf("list orgs: %w", translateErr(err))
		}
		o.AdminIDs = []int32(admins)
		o.CreatedOn = createdOn.Format("2006-01-02")
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *organizationRepository) ListEdges(ctx context.Context) ([]domain.OrgEdge, error) {
	query := `SELECT id, parent_id FROM orgs`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list org edges: %w", translateErr(err))
	}
	defer rows.Close()

	var edges []domain.OrgEdge
	for rows.Next() {
		var e domain.OrgEdge
		if err := rows.Scan(&e.ID, &e.ParentID); err != nil {
			return nil, fmt.Errorf("list org edges: %w", translateErr(err))
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.Organization) error {
	query := `UPDATE orgs SET name=$1, type=$2, parent_id=$3, join_code=NULLIF($4, ''), admin_ids=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, o.Name, o.Type, o.ParentID, o.JoinCode, pq.Array(o.AdminIDs), o.ID)
	if err != nil {
		return fmt.Errorf("update org %d: %w", o.ID, translateErr(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update org %d: %w", o.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *organizationRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orgs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete org %d: %w", id, translateErr(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete org %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *organizationRepository) CountChildren(ctx context.Context, id int32) (int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orgs WHERE parent_id = $1`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count children of org %d: %w", id, translateErr(err))
	}
	return count, nil
}
