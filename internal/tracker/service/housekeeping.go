package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/store"
)

// DefaultNotificationRetention is how long delivered notifications are kept.
const DefaultNotificationRetention = 7 * 24 * time.Hour

// HousekeepingService periodically removes expired reset codes and old
// delivered notifications.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Clock     Clock

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: DefaultNotificationRetention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes expired records. Each deletion is independent; a failure
// in one does not stop the other.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := s.Clock.Now()
	retention := s.Retention
	if retention <= 0 {
		retention = DefaultNotificationRetention
	}

	resets, err := s.Store.PasswordResets().DeleteExpiredPasswordResets(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired reset codes", "error", err)
	}

	sent, err := s.Store.Notifications().DeleteSentNotificationsBefore(ctx, now.Add(-retention))
	if err != nil {
		s.Logger.Error("failed to delete old notifications", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"expired_reset_codes", resets,
		"sent_notifications", sent,
	)
}
