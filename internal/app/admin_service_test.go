package app

import (
	"context"
	"testing"

	"tutorhub/internal/domain/profile"
	idb "tutorhub/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_RequiresAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewAdminService(new(MockProfileRepository), nullLog())

	_, err := svc.ListProfiles(ctx, tutor, "")
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	_, err = svc.PromoteToAdmin(ctx, tutor, student.ID)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	_, err = svc.Deactivate(ctx, student, tutor.ID)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	_, err = svc.GetProfile(ctx, student, tutor.ID)
	assert.True(t, IsForbidden(err))
}

func TestAdminService_ListProfiles(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepository)
	svc := NewAdminService(repo, nullLog())
	repo.On("List", ctx, profile.RoleTutor).Return([]*profile.Profile{testProfile(tutor.ID, profile.RoleTutor)}, nil)

	got, err := svc.ListProfiles(ctx, admin, profile.RoleTutor)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListProfiles(ctx, admin, "mentor")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdminService_PromoteToAdmin(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProfileRepository)
	svc := NewAdminService(repo, nullLog())
	repo.On("PromoteToAdmin", ctx, tutor.ID).Return(nil)
	repo.On("GetByID", ctx, tutor.ID).Return(testProfile(tutor.ID, profile.RoleAdmin), nil)
	repo.On("PromoteToAdmin", ctx, "ghost").Return(idb.ErrProfileNotFound)

	p, err := svc.PromoteToAdmin(ctx, admin, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.RoleAdmin, p.Role)

	_, err = svc.PromoteToAdmin(ctx, admin, "ghost")
	assert.True(t, IsNotFound(err))
}

func TestAdminService_SetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivate", func(t *testing.T) {
		repo := new(MockProfileRepository)
		svc := NewAdminService(repo, nullLog())
		repo.On("GetByID", ctx, tutor.ID).Return(testProfile(tutor.ID, profile.RoleTutor), nil)
		repo.On("SetActive", ctx, tutor.ID, false).Return(nil)

		p, err := svc.Deactivate(ctx, admin, tutor.ID)
		require.NoError(t, err)
		assert.False(t, p.Active)
	})

	t.Run("already inactive", func(t *testing.T) {
		repo := new(MockProfileRepository)
		svc := NewAdminService(repo, nullLog())
		inactive := testProfile(tutor.ID, profile.RoleTutor)
		inactive.Active = false
		repo.On("GetByID", ctx, tutor.ID).Return(inactive, nil)

		_, err := svc.Deactivate(ctx, admin, tutor.ID)
		assert.ErrorIs(t, err, ErrProfileAlreadyInactive)
	})

	t.Run("already active", func(t *testing.T) {
		repo := new(MockProfileRepository)
		svc := NewAdminService(repo, nullLog())
		repo.On("GetByID", ctx, tutor.ID).Return(testProfile(tutor.ID, profile.RoleTutor), nil)

		_, err := svc.Activate(ctx, admin, tutor.ID)
		assert.ErrorIs(t, err, ErrProfileAlreadyActive)
	})

	t.Run("self", func(t *testing.T) {
		svc := NewAdminService(new(MockProfileRepository), nullLog())
		_, err := svc.Deactivate(ctx, admin, admin.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
