// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tutorhub/internal/domain/notification"
)

var ErrNotificationNotFound = errors.New("notification not found")

const notificationColumns = `id, user_id, type, title, message, related_class_id, is_read, created_at`

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `INSERT INTO notifications (id, user_id, type, title, message, related_class_id, is_read)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.RelatedClassID, n.IsRead).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) BulkCreate(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for bulk create: %w", err)
	}
	defer txn.Rollback() // No-op once committed

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO notifications (id, user_id, type, title, message, related_class_id, is_read)
                                         VALUES ($1, $2, $3, $4, $5, $6, $7)
                                         RETURNING created_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for bulk create: %w", err)
	}
	defer stmt.Close()

	for _, n := range ns {
		if err := stmt.QueryRowContext(ctx, n.ID, n.UserID, n.Type, n.Title, n.Message, n.RelatedClassID, n.IsRead).Scan(&n.CreatedAt); err != nil {
			return fmt.Errorf("error inserting notification for user %s: %w", n.UserID, err)
		}
	}

	return txn.Commit()
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + `
               FROM notifications
               WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)
               ORDER BY created_at DESC
               LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying notifications: %w", err)
	}
	defer rows.Close()

	ns := make([]*notification.Notification, 0)
	for rows.Next() {
		n := &notification.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.RelatedClassID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		ns = append(ns, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return ns, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	return rowsAffectedOr(res, ErrNotificationNotFound)
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("error marking all notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %w", err)
	}
	return n, nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return n, nil
}
