package postgres

import (
	"context"
	"fmt"
	"time"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	query := `INSERT INTO notifications (user_id, message, read, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	note.CreatedAt = time.Now().UTC()
	if err := r.db.QueryRowContext(ctx, query, note.UserID, note.Message, note.Read, note.CreatedAt).Scan(&note.ID); err != nil {
		return fmt.Errorf("create notification: %w", translateErr(err))
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", translateErr(err))
	}

	query := `SELECT id, user_id, message, read, created_at FROM notifications
	          WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", translateErr(err))
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("list notifications: %w", translateErr(err))
		}
		notes = append(notes, n)
	}
	return notes, total, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification %d read: %w", id, translateErr(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark notification %d read: %w", id, domain.ErrNotFound)
	}
	return nil
}
