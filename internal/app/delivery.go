package app

import (
	"context"

	"tutorhub/internal/domain/notification"
	"tutorhub/internal/domain/profile"
)

// DeliveryChannel pushes a stored notification to the recipient outside the
// dashboard (Telegram, e-mail). Implementations skip recipients they cannot
// reach and return nil.
type DeliveryChannel interface {
	Name() string
	Deliver(ctx context.Context, recipient *profile.Profile, n *notification.Notification) error
}
