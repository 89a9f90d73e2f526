package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"tutorhub/internal/domain/content"
	"tutorhub/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ContentService manages tutor notes about students and the links tutors share with them.
type ContentService struct {
	notes         content.NoteRepository
	shares        content.ShareRepository
	relationships RelationshipChecker
	log           *logrus.Entry
	newID         func() string
}

func NewContentService(nr content.NoteRepository, sr content.ShareRepository, rc RelationshipChecker, log *logrus.Entry) *ContentService {
	return &ContentService{
		notes:         nr,
		shares:        sr,
		relationships: rc,
		log:           log,
		newID:         uuid.NewString,
	}
}

func (s *ContentService) requirePair(ctx context.Context, tutorID, studentID string) error {
	active, err := s.relationships.IsActive(ctx, tutorID, studentID)
	if err != nil {
		return fmt.Errorf("failed to check relationship: %w", err)
	}
	if !active {
		return ErrNoActiveRelationship
	}
	return nil
}

// AddNote stores a note by the acting tutor about a student.
func (s *ContentService) AddNote(ctx context.Context, actor profile.Actor, studentID, text string) (*content.Note, error) {
	if !actor.IsTutor() {
		return nil, ErrForbidden
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: note is empty", ErrInvalidInput)
	}
	if err := s.requirePair(ctx, actor.ID, studentID); err != nil {
		return nil, err
	}
	n := &content.Note{ID: s.newID(), TutorID: actor.ID, StudentID: studentID, Content: text}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return n, nil
}

// ListNotes returns the notes about a student. Tutors only see their own notes.
func (s *ContentService) ListNotes(ctx context.Context, actor profile.Actor, studentID string) ([]*content.Note, error) {
	if !actor.IsAdmin() && !actor.IsTutor() {
		return nil, ErrForbidden
	}
	all, err := s.notes.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	if actor.IsAdmin() {
		return all, nil
	}
	own := make([]*content.Note, 0, len(all))
	for _, n := range all {
		if n.TutorID == actor.ID {
			own = append(own, n)
		}
	}
	return own, nil
}

// DeleteNote removes a note. Only its author or an admin may do so.
func (s *ContentService) DeleteNote(ctx context.Context, actor profile.Actor, id string) error {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canWrite(actor, n.TutorID) {
		return ErrForbidden
	}
	return s.notes.Delete(ctx, id)
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Share publishes a link to one of the tutor's students.
func (s *ContentService) Share(ctx context.Context, actor profile.Actor, item content.ShareItem) (*content.ShareItem, error) {
	if !actor.IsTutor() {
		return nil, ErrForbidden
	}
	item.Title = strings.TrimSpace(item.Title)
	item.URL = strings.TrimSpace(item.URL)
	if item.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !validURL(item.URL) {
		return nil, ErrInvalidURL
	}
	if err := s.requirePair(ctx, actor.ID, item.StudentID); err != nil {
		return nil, err
	}
	item.ID = s.newID()
	item.TutorID = actor.ID
	if err := s.shares.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to share item: %w", err)
	}
	s.log.WithFields(logrus.Fields{"share_id": item.ID, "student_id": item.StudentID}).Info("Content shared")
	return &item, nil
}

// ListShared returns what the actor can see: the items shared with a student,
// the items a tutor shared, or for admins the items of studentID.
func (s *ContentService) ListShared(ctx context.Context, actor profile.Actor, studentID string) ([]*content.ShareItem, error) {
	switch {
	case actor.IsStudent():
		return s.shares.ListByStudent(ctx, actor.ID)
	case actor.IsTutor():
		items, err := s.ListSharedByTutor(ctx, actor, actor.ID)
		if err != nil || studentID == "" {
			return items, err
		}
		filtered := make([]*content.ShareItem, 0, len(items))
		for _, it := range items {
			if it.StudentID == studentID {
				filtered = append(filtered, it)
			}
		}
		return filtered, nil
	case actor.IsAdmin():
		if studentID == "" {
			return nil, fmt.Errorf("%w: student is required", ErrInvalidInput)
		}
		return s.shares.ListByStudent(ctx, studentID)
	}
	return nil, ErrForbidden
}

// ListSharedByTutor returns everything tutorID has shared.
func (s *ContentService) ListSharedByTutor(ctx context.Context, actor profile.Actor, tutorID string) ([]*content.ShareItem, error) {
	if !canWrite(actor, tutorID) {
		return nil, ErrForbidden
	}
	return s.shares.ListByTutor(ctx, tutorID)
}

// Unshare removes a shared item.
func (s *ContentService) Unshare(ctx context.Context, actor profile.Actor, id string) error {
	item, err := s.shares.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canWrite(actor, item.TutorID) {
		return ErrForbidden
	}
	return s.shares.Delete(ctx, id)
}
