// internal/app/notification_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"tutorhub/internal/domain/class"
	"tutorhub/internal/domain/notification"
	"tutorhub/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultListLimit = 50

// NotificationService creates dashboard notifications and pushes them out
// through the configured delivery channels.
type NotificationService struct {
	classRepo   class.Repository
	notifRepo   notification.Repository
	profileRepo profile.Repository
	channels    []DeliveryChannel
	window      time.Duration
	log         *logrus.Entry
	now         func() time.Time
	newID       func() string
}

func NewNotificationService(
	cr class.Repository,
	nr notification.Repository,
	pr profile.Repository,
	channels []DeliveryChannel,
	window time.Duration,
	log *logrus.Entry,
) *NotificationService {
	return &NotificationService{
		classRepo:   cr,
		notifRepo:   nr,
		profileRepo: pr,
		channels:    channels,
		window:      window,
		log:         log,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// profileSet memoizes profile lookups during one job run.
type profileSet struct {
	repo profile.Repository
	byID map[string]*profile.Profile
	ctx  context.Context
}

func (s *NotificationService) newProfileSet(ctx context.Context) *profileSet {
	return &profileSet{repo: s.profileRepo, byID: map[string]*profile.Profile{}, ctx: ctx}
}

func (ps *profileSet) get(id string) (*profile.Profile, error) {
	if p, ok := ps.byID[id]; ok {
		return p, nil
	}
	p, err := ps.repo.GetByID(ps.ctx, id)
	if err != nil {
		return nil, err
	}
	ps.byID[id] = p
	return p, nil
}

func location(p *profile.Profile) *time.Location {
	if p == nil || p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func displayName(p *profile.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CheckUpcomingClasses reminds both participants of every scheduled class
// starting within the reminder window. Each class is reminded at most once.
// It returns the number of classes reminded.
func (s *NotificationService) CheckUpcomingClasses(ctx context.Context) (int, error) {
	now := s.now().UTC()
	events, err := s.classRepo.ClaimUpcoming(ctx, now, now.Add(s.window))
	if err != nil {
		return 0, fmt.Errorf("failed to claim upcoming classes: %w", err)
	}
	if len(events) == 0 {
		s.log.Debug("No upcoming classes to remind")
		return 0, nil
	}

	profiles := s.newProfileSet(ctx)
	var (
		batch      []*notification.Notification
		recipients []*profile.Profile
	)
	for _, e := range events {
		tutor, err := profiles.get(e.TutorID)
		if err != nil {
			s.log.WithError(err).WithField("class_id", e.ID).Error("Failed to load tutor for reminder")
			continue
		}
		student, err := profiles.get(e.StudentID)
		if err != nil {
			s.log.WithError(err).WithField("class_id", e.ID).Error("Failed to load student for reminder")
			continue
		}
		for _, pair := range [][2]*profile.Profile{{tutor, student}, {student, tutor}} {
			to, other := pair[0], pair[1]
			if !to.Active {
				continue
			}
			minutes := int(e.StartTime.Sub(now).Round(time.Minute) / time.Minute)
			batch = append(batch, &notification.Notification{
				ID:     s.newID(),
				UserID: to.ID,
				Type:   notification.TypeClassReminder,
				Title:  "Upcoming class",
				Message: fmt.Sprintf("Your class \"%s\" with %s starts at %s (in %d min).",
					e.Title, displayName(other), e.StartTime.In(location(to)).Format("15:04"), minutes),
				RelatedClassID: sql.NullString{String: e.ID, Valid: true},
			})
			recipients = append(recipients, to)
		}
	}

	if len(batch) > 0 {
		if err := s.notifRepo.BulkCreate(ctx, batch); err != nil {
			return 0, fmt.Errorf("failed to store class reminders: %w", err)
		}
	}
	for i, n := range batch {
		s.deliver(ctx, recipients[i], n)
	}
	s.log.WithFields(logrus.Fields{"classes": len(events), "notifications": len(batch)}).Info("Upcoming class reminders sent")
	return len(events), nil
}

// SendNextDayReminders sends every participant a digest of tomorrow's classes.
// It returns the number of notifications created.
func (s *NotificationService) SendNextDayReminders(ctx context.Context) (int, error) {
	from := startOfDay(s.now().UTC()).AddDate(0, 0, 1)
	events, err := s.classRepo.List(ctx, class.Filter{From: from, To: from.AddDate(0, 0, 1), Status: class.StatusScheduled})
	if err != nil {
		return 0, fmt.Errorf("failed to list tomorrow's classes: %w", err)
	}

	byUser := map[string][]*class.Event{}
	for _, e := range events {
		byUser[e.TutorID] = append(byUser[e.TutorID], e)
		byUser[e.StudentID] = append(byUser[e.StudentID], e)
	}
	userIDs := make([]string, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	profiles := s.newProfileSet(ctx)
	var (
		batch      []*notification.Notification
		recipients []*profile.Profile
	)
	for _, id := range userIDs {
		p, err := profiles.get(id)
		if err != nil {
			s.log.WithError(err).WithField("user_id", id).Error("Failed to load profile for daily schedule")
			continue
		}
		if !p.Active {
			continue
		}
		loc := location(p)
		lines := make([]string, 0, len(byUser[id]))
		for _, e := range byUser[id] {
			lines = append(lines, fmt.Sprintf("%s-%s %s",
				e.StartTime.In(loc).Format("15:04"), e.EndTime.In(loc).Format("15:04"), e.Title))
		}
		batch = append(batch, &notification.Notification{
			ID:      s.newID(),
			UserID:  id,
			Type:    notification.TypeDailySchedule,
			Title:   fmt.Sprintf("Tomorrow: %d class(es)", len(lines)),
			Message: strings.Join(lines, "\n"),
		})
		recipients = append(recipients, p)
	}

	if len(batch) == 0 {
		return 0, nil
	}
	if err := s.notifRepo.BulkCreate(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed to store daily schedules: %w", err)
	}
	for i, n := range batch {
		s.deliver(ctx, recipients[i], n)
	}
	s.log.WithField("notifications", len(batch)).Info("Next-day reminders sent")
	return len(batch), nil
}

// SendDailyReport gives every active admin today's scheduled count and
// yesterday's completed and cancelled counts.
func (s *NotificationService) SendDailyReport(ctx context.Context) (int, error) {
	today := startOfDay(s.now().UTC())
	todayCounts, err := s.classRepo.CountByStatus(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return 0, fmt.Errorf("failed to count today's classes: %w", err)
	}
	yesterdayCounts, err := s.classRepo.CountByStatus(ctx, today.AddDate(0, 0, -1), today)
	if err != nil {
		return 0, fmt.Errorf("failed to count yesterday's classes: %w", err)
	}

	message := fmt.Sprintf("Scheduled today: %d\nCompleted yesterday: %d\nCancelled yesterday: %d",
		todayCounts.Scheduled, yesterdayCounts.Completed, yesterdayCounts.Cancelled)
	return s.NotifyAdmins(ctx, notification.TypeDailyReport, "Daily report "+today.Format("2006-01-02"), message)
}

// NotifyAdmins stores and delivers the same notification for every active admin.
func (s *NotificationService) NotifyAdmins(ctx context.Context, typ notification.Type, title, message string) (int, error) {
	admins, err := s.profileRepo.ListByRole(ctx, profile.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("failed to list admins: %w", err)
	}
	var (
		batch      []*notification.Notification
		recipients []*profile.Profile
	)
	for _, a := range admins {
		if !a.Active {
			continue
		}
		batch = append(batch, &notification.Notification{
			ID:      s.newID(),
			UserID:  a.ID,
			Type:    typ,
			Title:   title,
			Message: message,
		})
		recipients = append(recipients, a)
	}
	if len(batch) == 0 {
		s.log.WithField("type", typ).Warn("No active admins to notify")
		return 0, nil
	}
	if err := s.notifRepo.BulkCreate(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed to store admin notifications: %w", err)
	}
	for i, n := range batch {
		s.deliver(ctx, recipients[i], n)
	}
	return len(batch), nil
}

// NotifyClassChanged tells the student that the tutor rescheduled or cancelled a class.
func (s *NotificationService) NotifyClassChanged(ctx context.Context, e *class.Event, change string) error {
	student, err := s.profileRepo.GetByID(ctx, e.StudentID)
	if err != nil {
		return fmt.Errorf("failed to load student %s: %w", e.StudentID, err)
	}
	message := fmt.Sprintf("Your class \"%s\" was %s.", e.Title, change)
	if e.Status == class.StatusScheduled {
		message = fmt.Sprintf("Your class \"%s\" was %s to %s.", e.Title, change,
			e.StartTime.In(location(student)).Format("Mon 02 Jan 15:04"))
	}
	n := &notification.Notification{
		ID:             s.newID(),
		UserID:         student.ID,
		Type:           notification.TypeClassChanged,
		Title:          "Class " + change,
		Message:        message,
		RelatedClassID: sql.NullString{String: e.ID, Valid: true},
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store class change notification: %w", err)
	}
	s.deliver(ctx, student, n)
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, to *profile.Profile, n *notification.Notification) {
	for _, ch := range s.channels {
		if err := ch.Deliver(ctx, to, n); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"channel":         ch.Name(),
				"user_id":         to.ID,
				"notification_id": n.ID,
			}).Warn("Notification delivery failed")
		}
	}
}

// List returns the newest notifications of a user. limit <= 0 selects the default.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}
	ns, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return ns, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.notifRepo.MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.notifRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}
