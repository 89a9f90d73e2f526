package billing

import "context"

type Repository interface {
	// GetLatestByTutor returns the most recent subscription of a tutor.
	GetLatestByTutor(ctx context.Context, tutorID string) (*Subscription, error)
}
