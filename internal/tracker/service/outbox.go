package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/notify"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/pkg/idx"
)

// OutboxService writes notifications inside the caller's transaction. The
// NotificationWorker delivers them later.
type OutboxService struct {
	Clock Clock
}

// Enqueue stores msg as a pending notification using s, which is normally
// the store.Tx of the mutation being reported.
func (o *OutboxService) Enqueue(ctx context.Context, s store.Store, kind domain.NotificationKind, msg notify.Message) error {
	if msg.To == "" {
		return notify.ErrNoRecipient
	}

	now := o.Clock.Now()
	return s.Notifications().EnqueueNotification(ctx, domain.Notification{
		ID:            idx.NewAt(now).String(),
		Kind:          kind,
		Recipient:     msg.To,
		Subject:       msg.Subject,
		Body:          msg.Body,
		Status:        domain.NotificationPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	})
}

func resetCodeMessage(to, code string, ttl time.Duration) notify.Message {
	return notify.Message{
		To:      to,
		Subject: "Password Reset OTP",
		Body: fmt.Sprintf(
			"Your OTP for password reset is: %s\n\nIt expires in %d minutes. If you did not ask for a reset you can ignore this email.",
			code, int(ttl.Minutes()),
		),
	}
}

func adminRecoveryMessage(to, adminEmail, password string) notify.Message {
	return notify.Message{
		To:      to,
		Subject: "Admin Password Reset",
		Body: fmt.Sprintf(
			"A password reset was requested for %s.\n\nThe new admin password is: %s\n\nSign in and keep it somewhere safe.",
			adminEmail, password,
		),
	}
}

func accountApprovedMessage(to string, role domain.Role) notify.Message {
	return notify.Message{
		To:      to,
		Subject: "Your CAS account has been approved",
		Body:    fmt.Sprintf("Your account has been approved as a %s. You can now sign in.", role),
	}
}

func submissionReviewedMessage(to, title string, status domain.ReviewStatus, comments string) notify.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Your project %q has been %s.", title, status)
	if comments != "" {
		fmt.Fprintf(&b, "\n\nTeacher comments:\n%s", comments)
	}
	return notify.Message{
		To:      to,
		Subject: fmt.Sprintf("Project %s: %s", status, title),
		Body:    b.String(),
	}
}
