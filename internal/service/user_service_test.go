package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

func TestUserService_RegisterAndUpdate(t *testing.T) {
	users := newMemUsers()
	svc := NewUserService(users, zap.NewNop())
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, 555, "anna", "Anna", "", "ru")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, u.Role)

	again, err := svc.RegisterUser(ctx, 555, "anna_new", "Anna", "S", "ru")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "anna_new", again.Username)
	assert.Len(t, users.users, 1)
}

func TestUserService_MakeConsultant(t *testing.T) {
	users := newMemUsers()
	svc := NewUserService(users, zap.NewNop())
	ctx := context.Background()

	_, err := svc.MakeConsultant(ctx, 1)
	assert.True(t, errors.Is(err, ErrUserNotFound))

	u, err := svc.RegisterUser(ctx, 1, "c", "C", "", "")
	require.NoError(t, err)

	c, err := svc.MakeConsultant(ctx, 1)
	require.NoError(t, err)
	assert.True(t, c.IsConsultant())

	list, err := svc.Consultants(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, u.ID, list[0].ID)
}

func TestUserService_SetTimeZone(t *testing.T) {
	users := newMemUsers(&model.User{ID: 1, Role: model.RoleClient})
	svc := NewUserService(users, zap.NewNop())
	ctx := context.Background()

	u, err := svc.SetTimeZone(ctx, 1, "UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", u.TimeZone)

	_, err = svc.SetTimeZone(ctx, 1, "Mars/Olympus")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = svc.SetTimeZone(ctx, 1, "")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = svc.SetTimeZone(ctx, 99, "UTC")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
