package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/pkg/cryptox"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T, cfg Config) *Application {
	t.Helper()

	dir := t.TempDir()
	cfg.DatabaseFile = filepath.Join(dir, "castrack.db")
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	app := &Application{cfg: cfg, logger: slogx.Discard()}
	require.NoError(t, app.initDatabase())
	t.Cleanup(func() { _ = app.db.Close() })
	require.NoError(t, app.initSender(context.Background()))
	app.initServices()
	return app
}

func TestBootstrapSeedsDefaultAdmin(t *testing.T) {
	cfg := fromViper(newViper())
	app := newTestApplication(t, cfg)

	require.NoError(t, app.bootstrapAdmin(context.Background()))

	acc, err := app.db.Accounts().GetAccountByEmail(context.Background(), service.DefaultAdminEmail)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, acc.Role)
	require.True(t, acc.Approved)
	require.True(t, acc.Active)

	// A second start keeps the same account.
	require.NoError(t, app.bootstrapAdmin(context.Background()))
	again, err := app.db.Accounts().GetAccountByEmail(context.Background(), service.DefaultAdminEmail)
	require.NoError(t, err)
	require.Equal(t, acc.ID, again.ID)
}

func TestBootstrapWithoutAdminEmailFails(t *testing.T) {
	cfg := fromViper(newViper())
	cfg.AdminEmail = ""
	app := newTestApplication(t, cfg)

	err := app.bootstrapAdmin(context.Background())
	require.ErrorIs(t, err, service.ErrBootstrapNoEmail)
}
