package httpapi

import "time"

type classRequest struct {
	TutorID   string    `json:"tutor_id" validate:"omitempty,uuid"`
	StudentID string    `json:"student_id" validate:"omitempty,uuid"`
	Title     string    `json:"title" validate:"required,max=200"`
	Subject   string    `json:"subject" validate:"max=100"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type duplicateRequest struct {
	StartTime *time.Time `json:"start_time"`
}

type completeRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

type relationshipRequest struct {
	TutorID   string `json:"tutor_id" validate:"omitempty,uuid"`
	StudentID string `json:"student_id" validate:"required,uuid"`
}

type noteRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type shareRequest struct {
	StudentID   string `json:"student_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,max=200"`
	URL         string `json:"url" validate:"required,max=2048"`
	Description string `json:"description" validate:"max=1000"`
}

type messageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Body        string `json:"body" validate:"required"`
}

type tutorDetailsRequest struct {
	Subjects        []string `json:"subjects" validate:"max=20,dive,max=100"`
	HourlyRateCents int      `json:"hourly_rate_cents" validate:"gte=0"`
	Bio             string   `json:"bio"`
}

type studentDetailsRequest struct {
	GradeLevel  string `json:"grade_level" validate:"max=32"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
}
