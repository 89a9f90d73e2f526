package httpapi

import (
	"time"

	"tutorhub/internal/domain/backup"
	"tutorhub/internal/domain/class"
	"tutorhub/internal/domain/content"
	"tutorhub/internal/domain/message"
	"tutorhub/internal/domain/notification"
	"tutorhub/internal/domain/profile"
	"tutorhub/internal/domain/relationship"
)

type eventView struct {
	ID           string       `json:"id"`
	TutorID      string       `json:"tutor_id"`
	StudentID    string       `json:"student_id"`
	Title        string       `json:"title"`
	Subject      string       `json:"subject,omitempty"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      time.Time    `json:"end_time"`
	Status       class.Status `json:"status"`
	Notes        *string      `json:"notes,omitempty"`
	ReminderSent bool         `json:"reminder_sent"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func toEventView(e *class.Event) eventView {
	v := eventView{
		ID:           e.ID,
		TutorID:      e.TutorID,
		StudentID:    e.StudentID,
		Title:        e.Title,
		Subject:      e.Subject,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Status:       e.Status,
		ReminderSent: e.ReminderSent,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.Notes.Valid {
		v.Notes = &e.Notes.String
	}
	return v
}

type notificationView struct {
	ID             string            `json:"id"`
	Type           notification.Type `json:"type"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	RelatedClassID *string           `json:"related_class_id,omitempty"`
	IsRead         bool              `json:"is_read"`
	CreatedAt      time.Time         `json:"created_at"`
}

func toNotificationView(n *notification.Notification) notificationView {
	v := notificationView{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedClassID.Valid {
		v.RelatedClassID = &n.RelatedClassID.String
	}
	return v
}

type relationshipView struct {
	ID        string    `json:"id"`
	TutorID   string    `json:"tutor_id"`
	StudentID string    `json:"student_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toRelationshipView(r *relationship.Relationship) relationshipView {
	return relationshipView{ID: r.ID, TutorID: r.TutorID, StudentID: r.StudentID, Active: r.Active, CreatedAt: r.CreatedAt}
}

type profileView struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	FullName       string       `json:"full_name"`
	Role           profile.Role `json:"role"`
	Timezone       string       `json:"timezone"`
	Active         bool         `json:"active"`
	TelegramLinked bool         `json:"telegram_linked"`
	CreatedAt      time.Time    `json:"created_at"`
}

func toProfileView(p *profile.Profile) profileView {
	return profileView{
		ID:             p.ID,
		Email:          p.Email,
		FullName:       p.FullName,
		Role:           p.Role,
		Timezone:       p.Timezone,
		Active:         p.Active,
		TelegramLinked: p.TelegramChatID.Valid,
		CreatedAt:      p.CreatedAt,
	}
}

type noteView struct {
	ID        string    `json:"id"`
	TutorID   string    `json:"tutor_id"`
	StudentID string    `json:"student_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type shareView struct {
	ID          string    `json:"id"`
	TutorID     string    `json:"tutor_id"`
	StudentID   string    `json:"student_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toNoteView(n *content.Note) noteView {
	return noteView{ID: n.ID, TutorID: n.TutorID, StudentID: n.StudentID, Content: n.Content, CreatedAt: n.CreatedAt}
}

func toShareView(s *content.ShareItem) shareView {
	return shareView{
		ID:          s.ID,
		TutorID:     s.TutorID,
		StudentID:   s.StudentID,
		Title:       s.Title,
		URL:         s.URL,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

type backupView struct {
	ID           string         `json:"id"`
	Trigger      backup.Trigger `json:"trigger"`
	Status       backup.Status  `json:"status"`
	FilePath     string         `json:"file_path,omitempty"`
	SizeBytes    int64          `json:"size_bytes"`
	TablesCount  int            `json:"tables_count"`
	ErrorMessage string         `json:"error_message,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

func toBackupView(l *backup.Log) backupView {
	v := backupView{
		ID:           l.ID,
		Trigger:      l.Trigger,
		Status:       l.Status,
		FilePath:     l.FilePath.String,
		SizeBytes:    l.SizeBytes,
		TablesCount:  l.TablesCount,
		ErrorMessage: l.ErrorMessage.String,
		StartedAt:    l.StartedAt,
	}
	if l.CompletedAt.Valid {
		v.CompletedAt = &l.CompletedAt.Time
	}
	return v
}

type messageView struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toMessageView(m *message.Message) messageView {
	v := messageView{ID: m.ID, SenderID: m.SenderID, RecipientID: m.RecipientID, Body: m.Body, CreatedAt: m.CreatedAt}
	if m.ReadAt.Valid {
		v.ReadAt = &m.ReadAt.Time
	}
	return v
}

type tutorView struct {
	ProfileID       string   `json:"profile_id"`
	FullName        string   `json:"full_name"`
	Subjects        []string `json:"subjects"`
	HourlyRateCents int      `json:"hourly_rate_cents"`
	Bio             string   `json:"bio"`
}

func toTutorView(d *profile.TutorDetails) tutorView {
	subjects := d.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	return tutorView{ProfileID: d.ProfileID, FullName: d.FullName, Subjects: subjects, HourlyRateCents: d.HourlyRateCents, Bio: d.Bio}
}

type studentView struct {
	ProfileID   string  `json:"profile_id"`
	GradeLevel  *string `json:"grade_level"`
	ParentEmail *string `json:"parent_email"`
}

func toStudentView(d *profile.StudentDetails) studentView {
	v := studentView{ProfileID: d.ProfileID}
	if d.GradeLevel.Valid {
		v.GradeLevel = &d.GradeLevel.String
	}
	if d.ParentEmail.Valid {
		v.ParentEmail = &d.ParentEmail.String
	}
	return v
}

func mapSlice[T any, V any](in []T, f func(T) V) []V {
	out := make([]V, 0, len(in))
	for _, x := range in {
		out = append(out, f(x))
	}
	return out
}
