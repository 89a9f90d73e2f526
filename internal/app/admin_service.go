package app

import (
	"context"
	"fmt"

	"tutorhub/internal/domain/profile"

	"github.com/sirupsen/logrus"
)

type AdminService struct {
	profileRepo profile.Repository
	log         *logrus.Entry
}

func NewAdminService(pr profile.Repository, log *logrus.Entry) *AdminService {
	return &AdminService{
		profileRepo: pr,
		log:         log,
	}
}

// ListProfiles lists every profile, or only those with role when it is set.
func (s *AdminService) ListProfiles(ctx context.Context, actor profile.Actor, role profile.Role) ([]*profile.Profile, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminNotAuthorized
	}
	if role != "" && !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	profiles, err := s.profileRepo.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// GetProfile returns any profile to an admin and the caller's own profile to everyone else.
func (s *AdminService) GetProfile(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, ErrAdminNotAuthorized
	}
	return s.profileRepo.GetByID(ctx, id)
}

// PromoteToAdmin grants the admin role through the promote_user_to_admin procedure.
func (s *AdminService) PromoteToAdmin(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminNotAuthorized
	}
	if err := s.profileRepo.PromoteToAdmin(ctx, id); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"profile_id": id, "by": actor.ID}).Info("Profile promoted to admin")
	return s.profileRepo.GetByID(ctx, id)
}

// Deactivate disables a profile. Admins cannot deactivate themselves.
func (s *AdminService) Deactivate(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminNotAuthorized
	}
	if actor.ID == id {
		return nil, fmt.Errorf("%w: cannot deactivate your own profile", ErrInvalidInput)
	}
	return s.setActive(ctx, actor, id, false)
}

// Activate re-enables a deactivated profile.
func (s *AdminService) Activate(ctx context.Context, actor profile.Actor, id string) (*profile.Profile, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminNotAuthorized
	}
	return s.setActive(ctx, actor, id, true)
}

func (s *AdminService) setActive(ctx context.Context, actor profile.Actor, id string, active bool) (*profile.Profile, error) {
	target, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target.Active == active {
		if active {
			return nil, ErrProfileAlreadyActive
		}
		return nil, ErrProfileAlreadyInactive
	}
	if err := s.profileRepo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to update profile status: %w", err)
	}
	target.Active = active
	s.log.WithFields(logrus.Fields{"profile_id": id, "active": active, "by": actor.ID}).Info("Profile status changed")
	return target, nil
}
