package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store/drivers/sqlite/gen"
)

type notificationsRepo struct {
	q *gen.Queries
}

func (r *notificationsRepo) EnqueueNotification(ctx context.Context, n domain.Notification) error {
	return r.q.EnqueueNotification(ctx, gen.EnqueueNotificationParams{
		ID:            n.ID,
		Kind:          string(n.Kind),
		Recipient:     n.Recipient,
		Subject:       n.Subject,
		Body:          n.Body,
		NextAttemptAt: n.NextAttemptAt.UTC(),
		CreatedAt:     n.CreatedAt.UTC(),
	})
}

func (r *notificationsRepo) ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error) {
	rows, err := r.q.ListDueNotifications(ctx, gen.ListDueNotificationsParams{
		NextAttemptAt: now.UTC(),
		Limit:         int64(limit),
	})
	if err != nil {
		return nil, err
	}
	return mapNotifications(rows), nil
}

func (r *notificationsRepo) ListNotificationsByRecipient(ctx context.Context, recipient string) ([]domain.Notification, error) {
	rows, err := r.q.ListNotificationsByRecipient(ctx, recipient)
	if err != nil {
		return nil, err
	}
	return mapNotifications(rows), nil
}

func (r *notificationsRepo) MarkNotificationSent(ctx context.Context, id string, at time.Time) error {
	return requireRow(r.q.MarkNotificationSent(ctx, gen.MarkNotificationSentParams{
		SentAt: sql.NullTime{Time: at.UTC(), Valid: true},
		ID:     id,
	}))
}

func (r *notificationsRepo) MarkNotificationRetry(
	ctx context.Context,
	id string,
	attempts int,
	next time.Time,
	lastErr string,
) error {
	return requireRow(r.q.MarkNotificationRetry(ctx, gen.MarkNotificationRetryParams{
		Attempts:      int64(attempts),
		NextAttemptAt: next.UTC(),
		LastError:     lastErr,
		ID:            id,
	}))
}

func (r *notificationsRepo) MarkNotificationFailed(ctx context.Context, id string, attempts int, lastErr string) error {
	return requireRow(r.q.MarkNotificationFailed(ctx, gen.MarkNotificationFailedParams{
		Attempts:  int64(attempts),
		LastError: lastErr,
		ID:        id,
	}))
}

func (r *notificationsRepo) DeleteSentNotificationsBefore(ctx context.Context, before time.Time) (int64, error) {
	return r.q.DeleteSentNotificationsBefore(ctx, mapTimeNull(before))
}

func mapNotifications(rows []gen.Notification) []domain.Notification {
	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapNotification(row))
	}
	return out
}
