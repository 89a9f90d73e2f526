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

	"github.com/stretchr/testify/mock"
)

type MockScheduler struct{ mock.Mock }

func (m *MockScheduler) CreateEvent(ctx context.Context, actor profile.Actor, in app.ClassInput) (*class.Event, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*class.Event), args.Error(1)
}

func (m *MockScheduler) UpdateEvent(ctx context.Context, actor profile.Actor, id string, in app.ClassInput) (*class.Event, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*class.Event), args.Error(1)
}

func (m *MockScheduler) DeleteEvent(ctx context.Context, actor profile.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockScheduler) DuplicateEvent(ctx context.Context, actor profile.Actor, id string, newStart time.Time) (*class.Event, error) {
	args := m.Called(ctx, actor, id, newStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*class.Event), args.Error(1)
}

func (m *MockScheduler) CompleteEvent(ctx context.Context, actor profile.Actor, id, notes string) (*class.Event, error) {
	args := m.Called(ctx, actor, id, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*class.Event), args.Error(1)
}

func (m *MockScheduler) CancelEvent(ctx context.Context, actor profile.Actor, id string) (*class.Event, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*class.Event), args.Error(1)
}

func (m *MockScheduler) GetEvent(ctx context.Context, actor profile.Actor, id string) (*class.Event, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*class.Event), args.Error(1)
}

func (m *MockScheduler) ListEvents(ctx context.Context, actor profile.Actor, f class.Filter) ([]*class.Event, error) {
	args := m.Called(ctx, actor, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*class.Event), args.Error(1)
}

type MockNotifications struct{ mock.Mock }

func (m *MockNotifications) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

func (m *MockNotifications) MarkRead(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockNotifications) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotifications) UnreadCount(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotifications) CheckUpcomingClasses(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockNotifications) SendNextDayReminders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockNotifications) SendDailyReport(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockRelationships struct{ mock.Mock }

func (m *MockRelationships) Create(ctx context.Context, actor profile.Actor, tutorID, studentID string) (*relationship.Relationship, error) {
	args := m.Called(ctx, actor, tutorID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*relationship.Relationship), args.Error(1)
}

func (m *MockRelationships) Deactivate(ctx context.Context, actor profile.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockRelationships) List(ctx context.Context, actor profile.Actor, profileID string) ([]*relationship.Relationship, error) {
	args := m.Called(ctx, actor, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*relationship.Relationship), args.Error(1)
}

type MockContent struct{ mock.Mock }

func (m *MockContent) AddNote(ctx context.Context, actor profile.Actor, studentID, text string) (*content.Note, error) {
	args := m.Called(ctx, actor, studentID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Note), args.Error(1)
}

func (m *MockContent) ListNotes(ctx context.Context, actor profile.Actor, studentID string) ([]*content.Note, error) {
	args := m.Called(ctx, actor, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*content.Note), args.Error(1)
}

func (m *MockContent) DeleteNote(ctx context.Context, actor profile.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockContent) Share(ctx context.Context, actor profile.Actor, item content.ShareItem) (*content.ShareItem, error) {
	args := m.Called(ctx, actor, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.ShareItem), args.Error(1)
}

func (m *MockContent) ListShared(ctx context.Context, actor profile.Actor, studentID string) ([]*content.ShareItem, error) {
	args := m.Called(ctx, actor, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*content.ShareItem), args.Error(1)
}

func (m *MockContent) Unshare(ctx context.Context, actor profile.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockBilling struct{ mock.Mock }

func (m *MockBilling) ListPlans() []billing.Plan {
	return m.Called().Get(0).([]billing.Plan)
}

func (m *MockBilling) GetSubscription(ctx context.Context, actor profile.Actor, tutorID string) (*app.SubscriptionView, error) {
	args := m.Called(ctx, actor, tutorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.SubscriptionView), args.Error(1)
}

type MockAdmin struct{ mock.Mock }

func (m *MockAdmin) profileResult(args mock.Arguments) (*profile.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockAdmin) ListProfiles(ctx context.Context, actor profile.Actor, role profile.Role) ([]*profile.Profile, error) {
	args := m.Called(ctx, actor, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*profile.Profile), args.Error(1)
}

func (m *MockAdmin) GetProfile(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error) {
	return m.profileResult(m.Called(ctx, actor, id))
}

func (m *MockAdmin) PromoteToAdmin(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error) {
	return m.profileResult(m.Called(ctx, actor, id))
}

func (m *MockAdmin) Deactivate(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error) {
	return m.profileResult(m.Called(ctx, actor, id))
}

func (m *MockAdmin) Activate(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error) {
	return m.profileResult(m.Called(ctx, actor, id))
}

type MockBackups struct{ mock.Mock }

func (m *MockBackups) Run(ctx context.Context, trigger backup.Trigger) (*backup.Log, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backup.Log), args.Error(1)
}

func (m *MockBackups) List(ctx context.Context, limit int) ([]*backup.Log, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*backup.Log), args.Error(1)
}

func (m *MockBackups) Prune(ctx context.Context, retentionDays int) (int, error) {
	args := m.Called(ctx, retentionDays)
	return args.Int(0), args.Error(1)
}

type MockMessages struct{ mock.Mock }

func (m *MockMessages) Send(ctx context.Context, actor profile.Actor, recipientID, body string) (*message.Message, error) {
	args := m.Called(ctx, actor, recipientID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*message.Message), args.Error(1)
}

func (m *MockMessages) Conversation(ctx context.Context, actor profile.Actor, peerID string, page message.Page) ([]*message.Message, error) {
	args := m.Called(ctx, actor, peerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*message.Message), args.Error(1)
}

func (m *MockMessages) MarkRead(ctx context.Context, actor profile.Actor, peerID string) (int64, error) {
	args := m.Called(ctx, actor, peerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessages) UnreadCounts(ctx context.Context, actor profile.Actor) (map[string]int, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockDirectory struct{ mock.Mock }

func (m *MockDirectory) tutorResult(args mock.Arguments) (*profile.TutorDetails, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.TutorDetails), args.Error(1)
}

func (m *MockDirectory) GetTutor(ctx context.Context, tutorID string) (*profile.TutorDetails, error) {
	return m.tutorResult(m.Called(ctx, tutorID))
}

func (m *MockDirectory) ListTutors(ctx context.Context, subject string) ([]*profile.TutorDetails, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*profile.TutorDetails), args.Error(1)
}

func (m *MockDirectory) UpdateTutor(ctx context.Context, actor profile.Actor, d profile.TutorDetails) (*profile.TutorDetails, error) {
	return m.tutorResult(m.Called(ctx, actor, d))
}

func (m *MockDirectory) GetStudent(ctx context.Context, actor profile.Actor, studentID string) (*profile.StudentDetails, error) {
	args := m.Called(ctx, actor, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.StudentDetails), args.Error(1)
}

func (m *MockDirectory) UpdateStudent(ctx context.Context, actor profile.Actor, d profile.StudentDetails) (*profile.StudentDetails, error) {
	args := m.Called(ctx, actor, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.StudentDetails), args.Error(1)
}

type MockLinkIssuer struct{ mock.Mock }

func (m *MockLinkIssuer) Issue(profileID string) (string, time.Time, error) {
	args := m.Called(profileID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
