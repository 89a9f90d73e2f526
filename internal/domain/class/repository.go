package class

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]*Event, error)
	// HasOverlap reports whether the tutor has a scheduled event intersecting
	// [start, end). excludeID is skipped when non-empty.
	HasOverlap(ctx context.Context, tutorID string, start, end time.Time, excludeID string) (bool, error)
	// ClaimUpcoming marks scheduled, not yet reminded events starting in
	// [from, to] as reminded and returns them. Each event is returned once.
	ClaimUpcoming(ctx context.Context, from, to time.Time) ([]*Event, error)
	CountByStatus(ctx context.Context, from, to time.Time) (Counts, error)
	CountForTutor(ctx context.Context, tutorID string, from, to time.Time) (int, error)
}
