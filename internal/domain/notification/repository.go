// internal/domain/notification/repository.go
package notification

import "context"

// Repository defines operations for stored notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	BulkCreate(ctx context.Context, ns []*Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*Notification, error)
	// MarkRead only touches notifications owned by userID.
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}
