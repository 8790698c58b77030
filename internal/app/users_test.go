package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"barzinhos/internal/adapters/security"
	"barzinhos/internal/app"
	"barzinhos/internal/domain"
)

func newUsers(t *testing.T) (fixture, *app.UserService, *fakeCache) {
	t.Helper()
	f := newFixture(t)
	cache := &fakeCache{}
	return f, app.NewUserService(f.store, security.NewHasher(bcrypt.MinCost), cache), cache
}

func TestUserService_CreateRoles(t *testing.T) {
	_, svc, _ := newUsers(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "ana", " Ana@Bar.com ", "segredo", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, "ana@bar.com", u.Email)

	ops, err := svc.Create(ctx, "ops", "ops@barzinhos.com", "segredo", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, ops.Role)

	_, err = svc.Create(ctx, "x", "x@bar.com", "segredo", "root")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "role", ve.Field)

	_, err = svc.Create(ctx, "ana2", "ana@bar.com", "segredo", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserService_UpdateRehashesPassword(t *testing.T) {
	f, svc, _ := newUsers(t)
	ctx := context.Background()
	hasher := security.NewHasher(bcrypt.MinCost)

	u, err := svc.Update(ctx, f.owner.ID, app.UserUpdate{Password: ptr("nova-senha"), Email: ptr(" NOVO@bar.com")})
	require.NoError(t, err)
	assert.Equal(t, "novo@bar.com", u.Email)
	assert.NotEqual(t, "nova-senha", u.PasswordHash)
	assert.NoError(t, hasher.Compare(u.PasswordHash, "nova-senha"))

	stored, err := f.store.GetUserByID(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestUserService_UpdateValidation(t *testing.T) {
	f, svc, _ := newUsers(t)
	ctx := context.Background()
	bad := domain.Role("root")
	for _, tc := range []struct {
		in    app.UserUpdate
		field string
	}{
		{app.UserUpdate{Username: ptr("  ")}, "username"},
		{app.UserUpdate{Email: ptr("nope")}, "email"},
		{app.UserUpdate{Password: ptr("123")}, "password"},
		{app.UserUpdate{Role: &bad}, "role"},
	} {
		_, err := svc.Update(ctx, f.owner.ID, tc.in)
		var ve *domain.ValidationError
		if assert.ErrorAs(t, err, &ve, tc.field) {
			assert.Equal(t, tc.field, ve.Field)
		}
	}

	u, err := svc.Update(ctx, f.owner.ID, app.UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, f.owner.Email, u.Email)

	_, err = svc.Update(ctx, 9999, app.UserUpdate{Username: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_DeleteCascadesAndInvalidates(t *testing.T) {
	f, svc, cache := newUsers(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, f.owner.ID))
	_, err := f.store.GetEstablishment(ctx, f.bar.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ElementsMatch(t, []string{"taxonomy:neighborhoods", "taxonomy:types", "establishments:stats"}, cache.dels)

	assert.ErrorIs(t, svc.Delete(ctx, f.owner.ID), domain.ErrNotFound)
}
