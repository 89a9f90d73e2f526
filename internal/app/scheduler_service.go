package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tutorhub/internal/domain/class"
	"tutorhub/internal/domain/profile"
	"tutorhub/internal/infra/cache"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultDuplicateOffset is where DuplicateEvent puts the copy when no start is given.
const DefaultDuplicateOffset = 7 * 24 * time.Hour

// RelationshipChecker reports whether a tutor-student pairing is active.
type RelationshipChecker interface {
	IsActive(ctx context.Context, tutorID, studentID string) (bool, error)
}

// QuotaChecker reports whether a tutor may schedule another class in the month of at.
type QuotaChecker interface {
	CanSchedule(ctx context.Context, tutorID string, at time.Time) (bool, error)
}

// ChangeNotifier tells the student that a tutor moved or cancelled their class.
type ChangeNotifier interface {
	NotifyClassChanged(ctx context.Context, e *class.Event, change string) error
}

// ClassInput carries the editable fields of a class.
type ClassInput struct {
	TutorID   string
	StudentID string
	Title     string
	Subject   string
	StartTime time.Time
	EndTime   time.Time
}

// SchedulerService implements the tutor class scheduler: event CRUD gated by
// relationships, cache invalidation after every write.
type SchedulerService struct {
	classRepo     class.Repository
	relationships RelationshipChecker
	quota         QuotaChecker
	notifier      ChangeNotifier
	cache         cache.Cache
	cacheTTL      time.Duration
	log           *logrus.Entry
	newID         func() string
}

func NewSchedulerService(
	cr class.Repository,
	rc RelationshipChecker,
	qc QuotaChecker,
	cn ChangeNotifier,
	c cache.Cache,
	cacheTTL time.Duration,
	log *logrus.Entry,
) *SchedulerService {
	return &SchedulerService{
		classRepo:     cr,
		relationships: rc,
		quota:         qc,
		notifier:      cn,
		cache:         c,
		cacheTTL:      cacheTTL,
		log:           log,
		newID:         uuid.NewString,
	}
}

func canWrite(actor profile.Actor, tutorID string) bool {
	return actor.IsAdmin() || (actor.IsTutor() && actor.ID == tutorID)
}

func canSee(actor profile.Actor, e *class.Event) bool {
	return actor.IsAdmin() || actor.ID == e.TutorID || actor.ID == e.StudentID
}

func (s *SchedulerService) validate(in ClassInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.StudentID == "" {
		return fmt.Errorf("%w: student is required", ErrInvalidInput)
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() || !in.EndTime.After(in.StartTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

func (s *SchedulerService) checkRelationship(ctx context.Context, tutorID, studentID string) error {
	active, err := s.relationships.IsActive(ctx, tutorID, studentID)
	if err != nil {
		return fmt.Errorf("failed to check relationship: %w", err)
	}
	if !active {
		return ErrNoActiveRelationship
	}
	return nil
}

func (s *SchedulerService) checkConflict(ctx context.Context, tutorID string, start, end time.Time, excludeID string) error {
	overlap, err := s.classRepo.HasOverlap(ctx, tutorID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check schedule conflicts: %w", err)
	}
	if overlap {
		return ErrScheduleConflict
	}
	return nil
}

func (s *SchedulerService) checkQuota(ctx context.Context, tutorID string, at time.Time) error {
	if s.quota == nil {
		return nil
	}
	ok, err := s.quota.CanSchedule(ctx, tutorID, at)
	if err != nil {
		return fmt.Errorf("failed to check plan quota: %w", err)
	}
	if !ok {
		return ErrQuotaExceeded
	}
	return nil
}

// sameMonth reports whether both instants fall in one UTC calendar month.
func sameMonth(a, b time.Time) bool {
	ay, am, _ := a.UTC().Date()
	by, bm, _ := b.UTC().Date()
	return ay == by && am == bm
}

// CreateEvent schedules a new class.
func (s *SchedulerService) CreateEvent(ctx context.Context, actor profile.Actor, in ClassInput) (*class.Event, error) {
	if in.TutorID == "" && actor.IsTutor() {
		in.TutorID = actor.ID
	}
	if !canWrite(actor, in.TutorID) {
		return nil, ErrForbidden
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if err := s.checkRelationship(ctx, in.TutorID, in.StudentID); err != nil {
		return nil, err
	}
	if err := s.checkQuota(ctx, in.TutorID, in.StartTime); err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, in.TutorID, in.StartTime, in.EndTime, ""); err != nil {
		return nil, err
	}

	e := &class.Event{
		ID:        s.newID(),
		TutorID:   in.TutorID,
		StudentID: in.StudentID,
		Title:     strings.TrimSpace(in.Title),
		Subject:   strings.TrimSpace(in.Subject),
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
		Status:    class.StatusScheduled,
	}
	if err := s.classRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}

	s.log.WithFields(logrus.Fields{"class_id": e.ID, "tutor_id": e.TutorID, "student_id": e.StudentID}).Info("Class created")
	s.invalidate(ctx, e.TutorID, e.StudentID)
	return e, nil
}

// UpdateEvent reschedules or renames a scheduled class. Moving the start
// re-arms the upcoming-class reminder.
func (s *SchedulerService) UpdateEvent(ctx context.Context, actor profile.Actor, id string, in ClassInput) (*class.Event, error) {
	e, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canWrite(actor, e.TutorID) {
		return nil, ErrForbidden
	}
	if !e.Editable() {
		return nil, ErrEventNotEditable
	}
	if in.StudentID == "" {
		in.StudentID = e.StudentID
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	previousStudent := e.StudentID
	if err := s.checkRelationship(ctx, e.TutorID, in.StudentID); err != nil {
		return nil, err
	}
	if !sameMonth(e.StartTime, in.StartTime) {
		if err := s.checkQuota(ctx, e.TutorID, in.StartTime); err != nil {
			return nil, err
		}
	}
	if err := s.checkConflict(ctx, e.TutorID, in.StartTime, in.EndTime, e.ID); err != nil {
		return nil, err
	}

	moved := !e.StartTime.Equal(in.StartTime) || !e.EndTime.Equal(in.EndTime)
	e.StudentID = in.StudentID
	e.Title = strings.TrimSpace(in.Title)
	e.Subject = strings.TrimSpace(in.Subject)
	e.StartTime = in.StartTime.UTC()
	e.EndTime = in.EndTime.UTC()
	if moved {
		e.ReminderSent = false
	}
	if err := s.classRepo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update class %s: %w", id, err)
	}

	s.log.WithFields(logrus.Fields{"class_id": e.ID, "moved": moved}).Info("Class updated")
	s.invalidate(ctx, e.TutorID, e.StudentID, previousStudent)
	if moved {
		s.notifyChange(ctx, e, "rescheduled")
	}
	return e, nil
}

// DeleteEvent removes a class permanently.
func (s *SchedulerService) DeleteEvent(ctx context.Context, actor profile.Actor, id string) error {
	e, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canWrite(actor, e.TutorID) {
		return ErrForbidden
	}
	if err := s.classRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete class %s: %w", id, err)
	}
	s.log.WithField("class_id", id).Info("Class deleted")
	s.invalidate(ctx, e.TutorID, e.StudentID)
	return nil
}

// DuplicateEvent copies a class to newStart, keeping its duration. A zero
// newStart places the copy one week after the original.
func (s *SchedulerService) DuplicateEvent(ctx context.Context, actor profile.Actor, id string, newStart time.Time) (*class.Event, error) {
	src, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canWrite(actor, src.TutorID) {
		return nil, ErrForbidden
	}
	if newStart.IsZero() {
		newStart = src.StartTime.Add(DefaultDuplicateOffset)
	}
	return s.CreateEvent(ctx, actor, ClassInput{
		TutorID:   src.TutorID,
		StudentID: src.StudentID,
		Title:     src.Title,
		Subject:   src.Subject,
		StartTime: newStart,
		EndTime:   newStart.Add(src.Duration()),
	})
}

// CompleteEvent marks a scheduled class as held, storing the tutor's notes.
func (s *SchedulerService) CompleteEvent(ctx context.Context, actor profile.Actor, id, notes string) (*class.Event, error) {
	return s.transition(ctx, actor, id, class.StatusCompleted, func(e *class.Event) {
		if notes = strings.TrimSpace(notes); notes != "" {
			e.Notes = sql.NullString{String: notes, Valid: true}
		}
	})
}

// CancelEvent marks a scheduled class as cancelled and tells the student.
func (s *SchedulerService) CancelEvent(ctx context.Context, actor profile.Actor, id string) (*class.Event, error) {
	e, err := s.transition(ctx, actor, id, class.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	s.notifyChange(ctx, e, "cancelled")
	return e, nil
}

func (s *SchedulerService) transition(ctx context.Context, actor profile.Actor, id string, to class.Status, mutate func(*class.Event)) (*class.Event, error) {
	e, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canWrite(actor, e.TutorID) {
		return nil, ErrForbidden
	}
	if !e.Editable() {
		return nil, ErrEventNotEditable
	}
	e.Status = to
	if mutate != nil {
		mutate(e)
	}
	if err := s.classRepo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to mark class %s %s: %w", id, to, err)
	}
	s.log.WithFields(logrus.Fields{"class_id": id, "status": to}).Info("Class status changed")
	s.invalidate(ctx, e.TutorID, e.StudentID)
	return e, nil
}

// GetEvent returns a class visible to the actor.
func (s *SchedulerService) GetEvent(ctx context.Context, actor profile.Actor, id string) (*class.Event, error) {
	e, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, e) {
		return nil, ErrForbidden
	}
	return e, nil
}

// ListEvents returns the classes visible to the actor. Per-user lists are
// served from the cache and narrowed in memory.
func (s *SchedulerService) ListEvents(ctx context.Context, actor profile.Actor, f class.Filter) ([]*class.Event, error) {
	switch {
	case actor.IsAdmin():
	case actor.IsTutor():
		if f.TutorID != "" && f.TutorID != actor.ID {
			return nil, ErrForbidden
		}
		f.TutorID = actor.ID
	case actor.IsStudent():
		if f.StudentID != "" && f.StudentID != actor.ID {
			return nil, ErrForbidden
		}
		f.StudentID = actor.ID
	default:
		return nil, ErrForbidden
	}

	var key string
	base := class.Filter{}
	switch {
	case f.TutorID != "" && f.StudentID == "":
		key, base.TutorID = cache.TutorClassesKey(f.TutorID), f.TutorID
	case f.StudentID != "" && f.TutorID == "":
		key, base.StudentID = cache.StudentClassesKey(f.StudentID), f.StudentID
	default:
		return s.classRepo.List(ctx, f)
	}

	events, err := s.cachedList(ctx, key, base)
	if err != nil {
		return nil, err
	}
	return narrow(events, f), nil
}

func (s *SchedulerService) cachedList(ctx context.Context, key string, f class.Filter) ([]*class.Event, error) {
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Cache read failed, falling back to database")
	} else if ok {
		var events []*class.Event
		if err := json.Unmarshal(raw, &events); err == nil {
			return events, nil
		}
		s.log.WithField("key", key).Warn("Discarding undecodable cache entry")
	}

	events, err := s.classRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	if raw, err := json.Marshal(events); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}
	return events, nil
}

func narrow(events []*class.Event, f class.Filter) []*class.Event {
	out := make([]*class.Event, 0, len(events))
	for _, e := range events {
		if !f.From.IsZero() && e.StartTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !e.StartTime.Before(f.To) {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *SchedulerService) invalidate(ctx context.Context, tutorID string, studentIDs ...string) {
	keys := []string{cache.TutorClassesKey(tutorID)}
	seen := map[string]bool{}
	for _, id := range studentIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			keys = append(keys, cache.StudentClassesKey(id))
		}
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WithError(err).WithField("keys", keys).Warn("Failed to invalidate cache keys")
	}
}

func (s *SchedulerService) notifyChange(ctx context.Context, e *class.Event, change string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyClassChanged(ctx, e, change); err != nil {
		s.log.WithError(err).WithField("class_id", e.ID).Warn("Failed to notify student about class change")
	}
}
