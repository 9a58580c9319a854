package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/notify"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
)

const (
	DefaultOutboxInterval = 10 * time.Second
	DefaultMaxAttempts    = 5
	DefaultOutboxBatch    = 50

	retryBase = 30 * time.Second
	retryCap  = time.Hour
)

// NotificationWorker delivers pending outbox rows through a notify.Sender.
// Failed sends are retried with exponential backoff until MaxAttempts.
type NotificationWorker struct {
	Store       store.Store
	Sender      notify.Sender
	Logger      *slog.Logger
	Interval    time.Duration
	MaxAttempts int
	BatchSize   int
	Clock       Clock

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewNotificationWorker fills in defaults for zero interval and attempts.
func NewNotificationWorker(s store.Store, sender notify.Sender, logger *slog.Logger, interval time.Duration, maxAttempts int) *NotificationWorker {
	if interval <= 0 {
		interval = DefaultOutboxInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &NotificationWorker{
		Store:       s,
		Sender:      sender,
		Logger:      logger,
		Interval:    interval,
		MaxAttempts: maxAttempts,
		BatchSize:   DefaultOutboxBatch,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start runs the delivery loop in the background until Stop.
func (w *NotificationWorker) Start() {
	go w.run()
	w.Logger.Info("notification worker started", "interval", w.Interval)
}

// Stop blocks until an in-flight batch has finished.
func (w *NotificationWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.Logger.Info("notification worker stopped")
}

func (w *NotificationWorker) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	ctx := context.Background()

	w.DeliverDue(ctx)
	for {
		select {
		case <-ticker.C:
			w.DeliverDue(ctx)
		case <-w.stopCh:
			return
		}
	}
}

// DeliverDue sends every due row once and returns how many were sent.
func (w *NotificationWorker) DeliverDue(ctx context.Context) int {
	now := w.Clock.Now()
	limit := w.BatchSize
	if limit <= 0 {
		limit = DefaultOutboxBatch
	}

	due, err := w.Store.Notifications().ListDueNotifications(ctx, now, limit)
	if err != nil {
		w.Logger.Error("failed to list due notifications", "error", err)
		return 0
	}

	sent := 0
	for _, n := range due {
		if w.deliver(ctx, n) {
			sent++
		}
	}
	if len(due) > 0 {
		w.Logger.Debug("outbox batch delivered", "due", len(due), "sent", sent)
	}
	return sent
}

func (w *NotificationWorker) deliver(ctx context.Context, n domain.Notification) bool {
	msg := notify.Message{To: n.Recipient, Subject: n.Subject, Body: n.Body}
	sendErr := w.Sender.Send(ctx, msg)
	now := w.Clock.Now()

	if sendErr == nil {
		if err := w.Store.Notifications().MarkNotificationSent(ctx, n.ID, now); err != nil {
			w.Logger.Error("failed to mark notification sent", "id", n.ID, "error", err)
		}
		return true
	}

	attempts := n.Attempts + 1
	maxAttempts := w.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	if attempts >= maxAttempts {
		w.Logger.Error("giving up on notification",
			"id", n.ID, "kind", n.Kind, "attempts", attempts, "error", sendErr)
		if err := w.Store.Notifications().MarkNotificationFailed(ctx, n.ID, attempts, sendErr.Error()); err != nil {
			w.Logger.Error("failed to mark notification failed", "id", n.ID, "error", err)
		}
		return false
	}

	next := now.Add(RetryBackoff(attempts))
	w.Logger.Warn("notification send failed, will retry",
		"id", n.ID, "kind", n.Kind, "attempts", attempts, "next_attempt_at", next, "error", sendErr)
	if err := w.Store.Notifications().MarkNotificationRetry(ctx, n.ID, attempts, next, sendErr.Error()); err != nil {
		w.Logger.Error("failed to schedule notification retry", "id", n.ID, "error", err)
	}
	return false
}

// RetryBackoff is the delay after the given number of failed attempts:
// 30s doubling per attempt, capped at one hour.
func RetryBackoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := retryBase
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= retryCap {
			return retryCap
		}
	}
	return d
}
