package relationship

import "time"

// Relationship is a tutor-student pairing. Scheduling, notes and shared
// content all require an active pairing.
type Relationship struct {
	ID        string
	TutorID   string
	StudentID string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
