package app

import (
	"context"
	"encoding/json"
	"time"

	"tutorhub/internal/domain/backup"
	"tutorhub/internal/domain/billing"
	"tutorhub/internal/domain/class"
	"tutorhub/internal/domain/content"
	"tutorhub/internal/domain/message"
	"tutorhub/internal/domain/notification"
	"tutorhub/internal/domain/profile"
	"tutorhub/internal/domain/relationship"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
)

func nullLog() *logrus.Entry {
	l, _ := test.NewNullLogger()
	return logrus.NewEntry(l)
}

// MockClassRepository is a mock implementation of class.Repository.
type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) Create(ctx context.Context, e *class.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockClassRepository) GetByID(ctx context.Context, id string) (*class.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*class.Event), args.Error(1)
}

func (m *MockClassRepository) Update(ctx context.Context, e *class.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockClassRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockClassRepository) List(ctx context.Context, f class.Filter) ([]*class.Event, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*class.Event), args.Error(1)
}

func (m *MockClassRepository) HasOverlap(ctx context.Context, tutorID string, start, end time.Time, excludeID string) (bool, error) {
	args := m.Called(ctx, tutorID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClassRepository) ClaimUpcoming(ctx context.Context, from, to time.Time) ([]*class.Event, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*class.Event), args.Error(1)
}

func (m *MockClassRepository) CountByStatus(ctx context.Context, from, to time.Time) (class.Counts, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(class.Counts), args.Error(1)
}

func (m *MockClassRepository) CountForTutor(ctx context.Context, tutorID string, from, to time.Time) (int, error) {
	args := m.Called(ctx, tutorID, from, to)
	return args.Int(0), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context, role profile.Role) ([]*profile.Profile, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*profile.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListByRole(ctx context.Context, role profile.Role) ([]*profile.Profile, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*profile.Profile), args.Error(1)
}

func (m *MockProfileRepository) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockProfileRepository) SetTelegramChatID(ctx context.Context, id string, chatID int64) error {
	return m.Called(ctx, id, chatID).Error(0)
}

func (m *MockProfileRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*profile.Profile, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileRepository) PromoteToAdmin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockRelationshipRepository struct {
	mock.Mock
}

func (m *MockRelationshipRepository) Create(ctx context.Context, r *relationship.Relationship) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRelationshipRepository) GetByID(ctx context.Context, id string) (*relationship.Relationship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*relationship.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) GetByPair(ctx context.Context, tutorID, studentID string) (*relationship.Relationship, error) {
	args := m.Called(ctx, tutorID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*relationship.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockRelationshipRepository) ListByTutor(ctx context.Context, tutorID string) ([]*relationship.Relationship, error) {
	args := m.Called(ctx, tutorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*relationship.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) ListByStudent(ctx context.Context, studentID string) ([]*relationship.Relationship, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*relationship.Relationship), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) BulkCreate(ctx context.Context, ns []*notification.Notification) error {
	return m.Called(ctx, ns).Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, n *content.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id string) (*content.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByStudent(ctx context.Context, studentID string) ([]*content.Note, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*content.Note), args.Error(1)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, s *content.ShareItem) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShareRepository) GetByID(ctx context.Context, id string) (*content.ShareItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.ShareItem), args.Error(1)
}

func (m *MockShareRepository) ListByStudent(ctx context.Context, studentID string) ([]*content.ShareItem, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*content.ShareItem), args.Error(1)
}

func (m *MockShareRepository) ListByTutor(ctx context.Context, tutorID string) ([]*content.ShareItem, error) {
	args := m.Called(ctx, tutorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*content.ShareItem), args.Error(1)
}

func (m *MockShareRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockBillingRepository struct {
	mock.Mock
}

func (m *MockBillingRepository) GetLatestByTutor(ctx context.Context, tutorID string) (*billing.Subscription, error) {
	args := m.Called(ctx, tutorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

type MockBackupRepository struct {
	mock.Mock
}

func (m *MockBackupRepository) Create(ctx context.Context, l *backup.Log) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockBackupRepository) Update(ctx context.Context, l *backup.Log) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockBackupRepository) List(ctx context.Context, limit int) ([]*backup.Log, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*backup.Log), args.Error(1)
}

func (m *MockBackupRepository) ListOlderThan(ctx context.Context, before time.Time) ([]*backup.Log, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*backup.Log), args.Error(1)
}

func (m *MockBackupRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBackupRepository) ExportTable(ctx context.Context, table string) (json.RawMessage, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *message.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMessageRepository) ListBetween(ctx context.Context, a, b string, p message.Page) ([]*message.Message, error) {
	args := m.Called(ctx, a, b, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*message.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, recipientID, senderID string) (int64, error) {
	args := m.Called(ctx, recipientID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) UnreadBySender(ctx context.Context, recipientID string) (map[string]int, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) GetTutor(ctx context.Context, profileID string) (*profile.TutorDetails, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.TutorDetails), args.Error(1)
}

func (m *MockDirectoryRepository) ListTutors(ctx context.Context, subject string) ([]*profile.TutorDetails, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*profile.TutorDetails), args.Error(1)
}

func (m *MockDirectoryRepository) UpsertTutor(ctx context.Context, d *profile.TutorDetails) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDirectoryRepository) GetStudent(ctx context.Context, profileID string) (*profile.StudentDetails, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.StudentDetails), args.Error(1)
}

func (m *MockDirectoryRepository) UpsertStudent(ctx context.Context, d *profile.StudentDetails) error {
	return m.Called(ctx, d).Error(0)
}

type MockRelationshipChecker struct {
	mock.Mock
}

func (m *MockRelationshipChecker) IsActive(ctx context.Context, tutorID, studentID string) (bool, error) {
	args := m.Called(ctx, tutorID, studentID)
	return args.Bool(0), args.Error(1)
}

type MockQuotaChecker struct {
	mock.Mock
}

func (m *MockQuotaChecker) CanSchedule(ctx context.Context, tutorID string, at time.Time) (bool, error) {
	args := m.Called(ctx, tutorID, at)
	return args.Bool(0), args.Error(1)
}

type MockChangeNotifier struct {
	mock.Mock
}

func (m *MockChangeNotifier) NotifyClassChanged(ctx context.Context, e *class.Event, change string) error {
	return m.Called(ctx, e, change).Error(0)
}

type MockAdminNotifier struct {
	mock.Mock
}

func (m *MockAdminNotifier) NotifyAdmins(ctx context.Context, typ notification.Type, title, message string) (int, error) {
	args := m.Called(ctx, typ, title, message)
	return args.Int(0), args.Error(1)
}

// recordingChannel is a DeliveryChannel that remembers what it delivered.
type recordingChannel struct {
	err       error
	delivered []string // "<user id>:<notification type>"
}

func (c *recordingChannel) Name() string { return "recording" }

func (c *recordingChannel) Deliver(_ context.Context, to *profile.Profile, n *notification.Notification) error {
	c.delivered = append(c.delivered, to.ID+":"+string(n.Type))
	return c.err
}
