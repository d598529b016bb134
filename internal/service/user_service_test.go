package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewUserService(memUsers{store}, []int64{777}, zap.NewNop())

	telegramID := gofakeit.Int64()
	if telegramID == 777 {
		telegramID++
	}

	user, err := svc.RegisterUser(ctx, telegramID, gofakeit.Username(), "Ivan", "", "ru")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)

	again, err := svc.RegisterUser(ctx, telegramID, "renamed", "Ivan", "Petrov", "ru")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "renamed", again.Username)
	assert.Len(t, store.users, 1)

	staff, err := svc.RegisterUser(ctx, 777, "boss", "", "", "en")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, staff.Role)
}

func TestRegisterUser_PromotesExistingAdmin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	plain := NewUserService(memUsers{store}, nil, zap.NewNop())
	user, err := plain.RegisterUser(ctx, 42, "late_admin", "", "", "")
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, user.Role)

	promoting := NewUserService(memUsers{store}, []int64{42}, zap.NewNop())
	user, err = promoting.RegisterUser(ctx, 42, "late_admin", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewUserService(memUsers{store}, nil, zap.NewNop())

	user, err := svc.RegisterUser(ctx, 100, "player", "", "", "")
	require.NoError(t, err)

	_, err = svc.SetRole(ctx, admin, user.ID, model.RoleAdmin)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SetRole(ctx, owner, 999, model.RoleAdmin)
	require.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.SetRole(ctx, owner, user.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	stored, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, stored.Role)
}

func TestNames(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewUserService(memUsers{store}, nil, zap.NewNop())

	named, err := svc.RegisterUser(ctx, 1, "", "Anna", "Smirnova", "")
	require.NoError(t, err)
	handle, err := svc.RegisterUser(ctx, 2, "striker", "", "", "")
	require.NoError(t, err)

	names, err := svc.Names(ctx, []int64{named.ID, handle.ID, 12345})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{
		named.ID:  "Anna Smirnova",
		handle.ID: "@striker",
	}, names)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want string
	}{
		{"nil", nil, ""},
		{"first name", &model.User{FirstName: "Oleg"}, "Oleg"},
		{"full name", &model.User{FirstName: "Oleg", LastName: "Ivanov", Username: "oleg"}, "Oleg Ivanov"},
		{"username only", &model.User{Username: "keeper"}, "@keeper"},
		{"nothing", &model.User{ID: 9}, "#9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.user))
		})
	}
}
