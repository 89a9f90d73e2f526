package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"tutorhub/internal/domain/profile"
	idb "tutorhub/internal/infra/database"

	"github.com/sirupsen/logrus"
)

const (
	maxSubjects    = 20
	maxBioLength   = 2000
	maxGradeLength = 32
)

// DirectoryService exposes tutor listings and the role-specific profile details.
type DirectoryService struct {
	directory     profile.DirectoryRepository
	profiles      profile.Repository
	relationships RelationshipChecker
	log           *logrus.Entry
}

func NewDirectoryService(dr profile.DirectoryRepository, pr profile.Repository, rc RelationshipChecker, log *logrus.Entry) *DirectoryService {
	return &DirectoryService{directory: dr, profiles: pr, relationships: rc, log: log}
}

// GetTutor returns the public details of an active tutor. A tutor who never
// filled in details gets an empty record.
func (s *DirectoryService) GetTutor(ctx context.Context, tutorID string) (*profile.TutorDetails, error) {
	p, err := s.profiles.GetByID(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	if p.Role != profile.RoleTutor || !p.Active {
		return nil, idb.ErrProfileNotFound
	}
	d, err := s.directory.GetTutor(ctx, tutorID)
	if errors.Is(err, idb.ErrTutorDetailsNotFound) {
		return &profile.TutorDetails{ProfileID: p.ID, FullName: p.FullName, Subjects: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor details: %w", err)
	}
	return d, nil
}

// ListTutors returns the active tutors, optionally teaching subject.
func (s *DirectoryService) ListTutors(ctx context.Context, subject string) ([]*profile.TutorDetails, error) {
	tutors, err := s.directory.ListTutors(ctx, strings.TrimSpace(subject))
	if err != nil {
		return nil, fmt.Errorf("failed to list tutors: %w", err)
	}
	return tutors, nil
}

func normalizeSubjects(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// UpdateTutor replaces the details of tutorID.
func (s *DirectoryService) UpdateTutor(ctx context.Context, actor profile.Actor, d profile.TutorDetails) (*profile.TutorDetails, error) {
	if !canWrite(actor, d.ProfileID) {
		return nil, ErrForbidden
	}
	d.Subjects = normalizeSubjects(d.Subjects)
	d.Bio = strings.TrimSpace(d.Bio)
	switch {
	case d.HourlyRateCents < 0:
		return nil, fmt.Errorf("%w: hourly rate cannot be negative", ErrInvalidInput)
	case len(d.Subjects) > maxSubjects:
		return nil, fmt.Errorf("%w: at most %d subjects", ErrInvalidInput, maxSubjects)
	case utf8.RuneCountInString(d.Bio) > maxBioLength:
		return nil, fmt.Errorf("%w: bio is longer than %d characters", ErrInvalidInput, maxBioLength)
	}

	p, err := s.profiles.GetByID(ctx, d.ProfileID)
	if err != nil {
		return nil, err
	}
	if p.Role != profile.RoleTutor {
		return nil, fmt.Errorf("%w: profile is not a tutor", ErrInvalidInput)
	}
	if err := s.directory.UpsertTutor(ctx, &d); err != nil {
		return nil, fmt.Errorf("failed to save tutor details: %w", err)
	}
	d.FullName = p.FullName
	s.log.WithField("tutor_id", d.ProfileID).Info("Tutor details updated")
	return &d, nil
}

func (s *DirectoryService) canSeeStudent(ctx context.Context, actor profile.Actor, studentID string) error {
	if actor.IsAdmin() || actor.ID == studentID {
		return nil
	}
	if !actor.IsTutor() {
		return ErrForbidden
	}
	active, err := s.relationships.IsActive(ctx, actor.ID, studentID)
	if err != nil {
		return fmt.Errorf("failed to check relationship: %w", err)
	}
	if !active {
		return ErrForbidden
	}
	return nil
}

// GetStudent returns a student's details to the student, their tutors and admins.
func (s *DirectoryService) GetStudent(ctx context.Context, actor profile.Actor, studentID string) (*profile.StudentDetails, error) {
	if err := s.canSeeStudent(ctx, actor, studentID); err != nil {
		return nil, err
	}
	d, err := s.directory.GetStudent(ctx, studentID)
	if errors.Is(err, idb.ErrStudentDetailsNotFound) {
		if _, err := s.profiles.GetByID(ctx, studentID); err != nil {
			return nil, err
		}
		return &profile.StudentDetails{ProfileID: studentID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student details: %w", err)
	}
	return d, nil
}

// UpdateStudent replaces a student's details. Only the student or an admin may.
func (s *DirectoryService) UpdateStudent(ctx context.Context, actor profile.Actor, d profile.StudentDetails) (*profile.StudentDetails, error) {
	if !actor.IsAdmin() && actor.ID != d.ProfileID {
		return nil, ErrForbidden
	}
	grade := strings.TrimSpace(d.GradeLevel.String)
	if utf8.RuneCountInString(grade) > maxGradeLength {
		return nil, fmt.Errorf("%w: grade level is longer than %d characters", ErrInvalidInput, maxGradeLength)
	}
	d.GradeLevel = sql.NullString{String: grade, Valid: grade != ""}

	email := strings.TrimSpace(d.ParentEmail.String)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, fmt.Errorf("%w: parent e-mail is not a valid address", ErrInvalidInput)
		}
	}
	d.ParentEmail = sql.NullString{String: email, Valid: email != ""}

	p, err := s.profiles.GetByID(ctx, d.ProfileID)
	if err != nil {
		return nil, err
	}
	if p.Role != profile.RoleStudent {
		return nil, fmt.Errorf("%w: profile is not a student", ErrInvalidInput)
	}
	if err := s.directory.UpsertStudent(ctx, &d); err != nil {
		return nil, fmt.Errorf("failed to save student details: %w", err)
	}
	return &d, nil
}
