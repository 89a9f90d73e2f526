package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tutorhub/internal/domain/profile"
	"tutorhub/internal/domain/relationship"
	"tutorhub/internal/infra/cache"
	idb "tutorhub/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RelationshipService struct {
	relRepo     relationship.Repository
	profileRepo profile.Repository
	cache       cache.Cache
	cacheTTL    time.Duration
	log         *logrus.Entry
	newID       func() string
}

func NewRelationshipService(rr relationship.Repository, pr profile.Repository, c cache.Cache, cacheTTL time.Duration, log *logrus.Entry) *RelationshipService {
	return &RelationshipService{
		relRepo:     rr,
		profileRepo: pr,
		cache:       c,
		cacheTTL:    cacheTTL,
		log:         log,
		newID:       uuid.NewString,
	}
}

// IsActive reports whether the pair exists and is active. Answers are cached
// under the pair key until the relationship changes.
func (s *RelationshipService) IsActive(ctx context.Context, tutorID, studentID string) (bool, error) {
	key := cache.RelationshipPairKey(tutorID, studentID)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return string(raw) == "1", nil
	}

	active := false
	rel, err := s.relRepo.GetByPair(ctx, tutorID, studentID)
	switch {
	case err == nil:
		active = rel.Active
	case !errors.Is(err, idb.ErrRelationshipNotFound):
		return false, err
	}

	val := []byte("0")
	if active {
		val = []byte("1")
	}
	if err := s.cache.Set(ctx, key, val, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("Cache write failed")
	}
	return active, nil
}

// Create pairs a tutor with a student. An inactive pair is reactivated.
func (s *RelationshipService) Create(ctx context.Context, actor profile.Actor, tutorID, studentID string) (*relationship.Relationship, error) {
	if actor.IsTutor() && tutorID == "" {
		tutorID = actor.ID
	}
	if !canWrite(actor, tutorID) {
		return nil, ErrForbidden
	}
	if err := s.checkRoles(ctx, tutorID, studentID); err != nil {
		return nil, err
	}

	existing, err := s.relRepo.GetByPair(ctx, tutorID, studentID)
	switch {
	case err == nil && existing.Active:
		return nil, ErrRelationshipExists
	case err == nil:
		if err := s.relRepo.SetActive(ctx, existing.ID, true); err != nil {
			return nil, fmt.Errorf("failed to reactivate relationship: %w", err)
		}
		existing.Active = true
		s.log.WithField("relationship_id", existing.ID).Info("Relationship reactivated")
		s.invalidate(ctx, tutorID, studentID)
		return existing, nil
	case !errors.Is(err, idb.ErrRelationshipNotFound):
		return nil, fmt.Errorf("failed to check existing relationship: %w", err)
	}

	rel := &relationship.Relationship{ID: s.newID(), TutorID: tutorID, StudentID: studentID, Active: true}
	if err := s.relRepo.Create(ctx, rel); err != nil {
		if errors.Is(err, idb.ErrDuplicateRelationship) {
			return nil, ErrRelationshipExists
		}
		return nil, fmt.Errorf("failed to create relationship: %w", err)
	}
	s.log.WithFields(logrus.Fields{"relationship_id": rel.ID, "tutor_id": tutorID, "student_id": studentID}).Info("Relationship created")
	s.invalidate(ctx, tutorID, studentID)
	return rel, nil
}

func (s *RelationshipService) checkRoles(ctx context.Context, tutorID, studentID string) error {
	if tutorID == "" || studentID == "" || tutorID == studentID {
		return ErrInvalidRelationship
	}
	tutor, err := s.profileRepo.GetByID(ctx, tutorID)
	if err != nil {
		return err
	}
	student, err := s.profileRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if tutor.Role != profile.RoleTutor || student.Role != profile.RoleStudent {
		return ErrInvalidRelationship
	}
	return nil
}

// Deactivate soft-deletes a relationship.
func (s *RelationshipService) Deactivate(ctx context.Context, actor profile.Actor, id string) error {
	rel, err := s.relRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canWrite(actor, rel.TutorID) {
		return ErrForbidden
	}
	if !rel.Active {
		return nil
	}
	if err := s.relRepo.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("failed to deactivate relationship: %w", err)
	}
	s.log.WithField("relationship_id", id).Info("Relationship deactivated")
	s.invalidate(ctx, rel.TutorID, rel.StudentID)
	return nil
}

// List returns the relationships of profileID; an empty id means the actor.
// Only admins may list somebody else's.
func (s *RelationshipService) List(ctx context.Context, actor profile.Actor, profileID string) ([]*relationship.Relationship, error) {
	if profileID == "" {
		profileID = actor.ID
	}
	target := actor
	if profileID != actor.ID {
		if !actor.IsAdmin() {
			return nil, ErrForbidden
		}
		p, err := s.profileRepo.GetByID(ctx, profileID)
		if err != nil {
			return nil, err
		}
		target = profile.Actor{ID: p.ID, Role: p.Role}
	}

	key := cache.RelationshipsKey(target.ID)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var rels []*relationship.Relationship
		if json.Unmarshal(raw, &rels) == nil {
			return rels, nil
		}
	}

	var (
		rels []*relationship.Relationship
		err  error
	)
	switch target.Role {
	case profile.RoleTutor:
		rels, err = s.relRepo.ListByTutor(ctx, target.ID)
	case profile.RoleStudent:
		rels, err = s.relRepo.ListByStudent(ctx, target.ID)
	default:
		return []*relationship.Relationship{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	if raw, err := json.Marshal(rels); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("Cache write failed")
		}
	}
	return rels, nil
}

func (s *RelationshipService) invalidate(ctx context.Context, tutorID, studentID string) {
	keys := []string{
		cache.RelationshipsKey(tutorID),
		cache.RelationshipsKey(studentID),
		cache.RelationshipPairKey(tutorID, studentID),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate relationship cache")
	}
}
