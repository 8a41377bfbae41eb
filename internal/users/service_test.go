package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/db/dbtest"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/security"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo, config.PasswordConfig{})
	require.NoError(t, err)
	return svc, repo
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterRequest{
		Name:     " Suresh ",
		Email:    "Suresh@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Suresh", dto.Name)
	assert.Equal(t, "suresh@example.com", dto.Email)
	assert.Equal(t, enums.UserRoleWorker, dto.Role)
	assert.True(t, dto.IsActive)

	stored, err := repo.FindByEmail(ctx, "suresh@example.com")
	require.NoError(t, err)
	ok, err := security.VerifyPassword("secret1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{name: "blank name", req: RegisterRequest{Name: " ", Email: "a@b.co", Password: "secret1"}, field: "name"},
		{name: "bad email", req: RegisterRequest{Name: "A", Email: "nope", Password: "secret1"}, field: "email"},
		{name: "short password", req: RegisterRequest{Name: "A", Email: "a@b.co", Password: "12345"}, field: "password"},
		{name: "unknown role", req: RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret1", Role: "owner"}, field: "role"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
			details, ok := pkgerrors.As(err).Details().(pkgerrors.FieldErrors)
			require.True(t, ok)
			assert.Contains(t, details, tc.field)
		})
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "dup@example.com", Password: "secret1", Role: "admin"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "B", Email: "DUP@example.com", Password: "secret2"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "", "admin@rasoi.in", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "Other", "admin@rasoi.in", "different")
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := repo.FindByEmail(ctx, "admin@rasoi.in")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", stored.Name)
	assert.Equal(t, enums.UserRoleAdmin, stored.Role)
	ok, err := security.VerifyPassword("admin123", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Register(ctx, RegisterRequest{Name: "Bhavna", Email: "b@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Name: "Amit", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", got.Email)

	_, err = svc.Get(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Amit", list[0].Name)
}
