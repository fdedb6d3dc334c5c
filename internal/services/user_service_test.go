package services

import (
	"context"
	"testing"

	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Register(ctx, "  Ada  ", "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)

	_, err = f.users.Register(ctx, "Ada Again", "ada@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.users.Register(ctx, "A", "not-an-email", "short")
	assert.ErrorIs(t, err, ErrValidation)

	pair, got, err := f.users.Login(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, _, err = f.users.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, _, err = f.users.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	fresh, err := f.users.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = f.users.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated, "access token is not a refresh token")
}

func TestCreateProviderRequiresAdminAndKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateProvider(ctx, f.lender, "Shop", "shop@example.com", "password1", models.KindLender)
	assert.ErrorIs(t, err, ErrPermission)

	_, err = f.users.CreateProvider(ctx, f.admin, "Shop", "shop@example.com", "password1", "")
	assert.ErrorIs(t, err, ErrValidation)

	p, err := f.users.CreateProvider(ctx, f.admin, "Shop", "shop@example.com", "password1", models.KindPayer)
	require.NoError(t, err)
	id := p.Identity()
	assert.Equal(t, models.RoleProvider, id.Role)
	assert.True(t, id.Caps.CanManageEmployers)
	assert.False(t, id.Caps.CanCreateDebt)
}

func TestListUsersAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.List(ctx, f.client, 10, 0)
	assert.ErrorIs(t, err, ErrPermission)

	all, err := f.users.List(ctx, f.admin, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	page, err := f.users.List(ctx, f.admin, 2, 4)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	_, err = f.users.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
