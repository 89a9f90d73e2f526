package content

import "time"

// Note is a private note a tutor keeps about a student.
type Note struct {
	ID        string
	TutorID   string
	StudentID string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShareItem is a link a tutor shares with a student.
type ShareItem struct {
	ID          string
	TutorID     string
	StudentID   string
	Title       string
	URL         string
	Description string
	CreatedAt   time.Time
}
