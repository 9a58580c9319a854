package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdminIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	again, err := f.Boot.EnsureAdmin(ctx, "ADMIN@fountainheadschools.org", "Different1!")
	require.NoError(t, err)
	require.Equal(t, f.Admin.ID, again.ID)

	// The stored password is left alone
	_, err = f.Accounts.Login(ctx, testAdminEmail, testPassword)
	require.NoError(t, err)

	all, err := f.Accounts.ListAccounts(ctx, f.Admin)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestEnsureAdminPromotesExistingAccount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	acc, err := f.Accounts.Signup(ctx, "head@fountainheadschools.org", testPassword)
	require.NoError(t, err)

	got, err := f.Boot.EnsureAdmin(ctx, "head@fountainheadschools.org", "")
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)
	require.Equal(t, domain.RoleAdmin, got.Role)

	stored, err := f.Store.Accounts().GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, stored.Role)
	require.True(t, stored.Approved)
	require.True(t, stored.Active)

	res, err := f.Accounts.Login(ctx, "head@fountainheadschools.org", testPassword)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, res.Role)
}

func TestEnsureAdminGeneratesPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	acc, err := f.Boot.EnsureAdmin(ctx, "second@fountainheadschools.org", "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, acc.Role)
	require.NotEmpty(t, acc.PasswordHash)

	_, err = f.Boot.EnsureAdmin(ctx, "  ", "")
	require.ErrorIs(t, err, ErrBootstrapNoEmail)
}
