package httpapi

import (
	"context"
	"time"

	"tutorhub/internal/app"
	"tutorhub/internal/domain/backup"
	"tutorhub/internal/domain/billing"
	"tutorhub/internal/domain/class"
	"tutorhub/internal/domain/content"
	"tutorhub/internal/domain/message"
	"tutorhub/internal/domain/notification"
	"tutorhub/internal/domain/profile"
	"tutorhub/internal/domain/relationship"
)

// The interfaces below are the slices of the app services the handlers call.

type Scheduler interface {
	CreateEvent(ctx context.Context, actor profile.Actor, in app.ClassInput) (*class.Event, error)
	UpdateEvent(ctx context.Context, actor profile.Actor, id string, in app.ClassInput) (*class.Event, error)
	DeleteEvent(ctx context.Context, actor profile.Actor, id string) error
	DuplicateEvent(ctx context.Context, actor profile.Actor, id string, newStart time.Time) (*class.Event, error)
	CompleteEvent(ctx context.Context, actor profile.Actor, id, notes string) (*class.Event, error)
	CancelEvent(ctx context.Context, actor profile.Actor, id string) (*class.Event, error)
	GetEvent(ctx context.Context, actor profile.Actor, id string) (*class.Event, error)
	ListEvents(ctx context.Context, actor profile.Actor, f class.Filter) ([]*class.Event, error)
}

type Notifications interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*notification.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	CheckUpcomingClasses(ctx context.Context) (int, error)
	SendNextDayReminders(ctx context.Context) (int, error)
	SendDailyReport(ctx context.Context) (int, error)
}

type Relationships interface {
	Create(ctx context.Context, actor profile.Actor, tutorID, studentID string) (*relationship.Relationship, error)
	Deactivate(ctx context.Context, actor profile.Actor, id string) error
	List(ctx context.Context, actor profile.Actor, profileID string) ([]*relationship.Relationship, error)
}

type Content interface {
	AddNote(ctx context.Context, actor profile.Actor, studentID, text string) (*content.Note, error)
	ListNotes(ctx context.Context, actor profile.Actor, studentID string) ([]*content.Note, error)
	DeleteNote(ctx context.Context, actor profile.Actor, id string) error
	Share(ctx context.Context, actor profile.Actor, item content.ShareItem) (*content.ShareItem, error)
	ListShared(ctx context.Context, actor profile.Actor, studentID string) ([]*content.ShareItem, error)
	Unshare(ctx context.Context, actor profile.Actor, id string) error
}

type Billing interface {
	ListPlans() []billing.Plan
	GetSubscription(ctx context.Context, actor profile.Actor, tutorID string) (*app.SubscriptionView, error)
}

type Admin interface {
	ListProfiles(ctx context.Context, actor profile.Actor, role profile.Role) ([]*profile.Profile, error)
	GetProfile(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error)
	PromoteToAdmin(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error)
	Deactivate(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error)
	Activate(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error)
}

type Backups interface {
	Run(ctx context.Context, trigger backup.Trigger) (*backup.Log, error)
	List(ctx context.Context, limit int) ([]*backup.Log, error)
	Prune(ctx context.Context, retentionDays int) (int, error)
}

type Messages interface {
	Send(ctx context.Context, actor profile.Actor, recipientID, body string) (*message.Message, error)
	Conversation(ctx context.Context, actor profile.Actor, peerID string, page message.Page) ([]*message.Message, error)
	MarkRead(ctx context.Context, actor profile.Actor, peerID string) (int64, error)
	UnreadCounts(ctx context.Context, actor profile.Actor) (map[string]int, error)
}

type Directory interface {
	GetTutor(ctx context.Context, tutorID string) (*profile.TutorDetails, error)
	ListTutors(ctx context.Context, subject string) ([]*profile.TutorDetails, error)
	UpdateTutor(ctx context.Context, actor profile.Actor, d profile.TutorDetails) (*profile.TutorDetails, error)
	GetStudent(ctx context.Context, actor profile.Actor, studentID string) (*profile.StudentDetails, error)
	UpdateStudent(ctx context.Context, actor profile.Actor, d profile.StudentDetails) (*profile.StudentDetails, error)
}

// LinkIssuer hands out the codes the Telegram bot accepts in /start.
type LinkIssuer interface {
	Issue(profileID string) (string, time.Time, error)
}
