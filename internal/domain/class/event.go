package class

import (
	"database/sql"
	"time"
)

// Status is the lifecycle state of a class.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Event is a scheduled tutoring session. Rows live in the 'class_logs' table;
// completed events double as the class log.
type Event struct {
	ID           string
	TutorID      string
	StudentID    string
	Title        string
	Subject      string
	StartTime    time.Time
	EndTime      time.Time
	Status       Status
	Notes        sql.NullString
	ReminderSent bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Duration of the class.
func (e *Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Editable reports whether the event can still be rescheduled.
func (e *Event) Editable() bool {
	return e.Status == StatusScheduled
}

// Filter narrows a listing. Zero values are ignored.
type Filter struct {
	TutorID   string
	StudentID string
	From      time.Time
	To        time.Time
	Status    Status
}

// Counts is an aggregate used by the daily report.
type Counts struct {
	Scheduled int
	Completed int
	Cancelled int
}
