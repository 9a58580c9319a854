package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/notify"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	stale := f.member(t, "stale@fountainheadschools.org", domain.RoleStudent)
	fresh := f.member(t, "fresh@fountainheadschools.org", domain.RoleStudent)

	// Deliver the approval mails
	w := f.worker(notify.NewConsole(slogx.Discard()))
	require.Equal(t, 2, w.DeliverDue(ctx))

	require.NoError(t, f.Recovery.RequestPasswordReset(ctx, "stale@fountainheadschools.org"))
	f.Clock.Advance(DefaultOTPTTL)
	require.NoError(t, f.Recovery.RequestPasswordReset(ctx, "fresh@fountainheadschools.org"))

	hk := NewHousekeepingService(f.Store, slogx.Discard(), time.Hour)
	hk.Clock = f.Clock.Now
	hk.Retention = 24 * time.Hour
	hk.Cleanup(ctx)

	_, err := f.Store.PasswordResets().GetPasswordReset(ctx, stale.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.Store.PasswordResets().GetPasswordReset(ctx, fresh.ID)
	require.NoError(t, err)

	// Sent rows survive until the retention window has passed
	require.Len(t, f.outboxFor(t, "fresh@fountainheadschools.org"), 2)

	f.Clock.Advance(25 * time.Hour)
	hk.Cleanup(ctx)

	rows := f.outboxFor(t, "fresh@fountainheadschools.org")
	require.Len(t, rows, 1)
	require.Equal(t, domain.NotifyPasswordResetCode, rows[0].Kind)
	require.Equal(t, domain.NotificationPending, rows[0].Status)
}
