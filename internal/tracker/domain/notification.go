package domain

import "time"

type NotificationKind string

const (
	NotifyPasswordResetCode     NotificationKind = "password_reset_code"
	NotifyAdminPasswordRecovery NotificationKind = "admin_password_recovery"
	NotifyAccountApproved       NotificationKind = "account_approved"
	NotifySubmissionReviewed    NotificationKind = "submission_reviewed"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Notification is an outbox row. It is written in the same transaction as
// the change it reports and delivered later by the notification worker.
type Notification struct {
	ID            string
	Kind          NotificationKind
	Recipient     string
	Subject       string
	Body          string
	Status        NotificationStatus
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	SentAt        *time.Time
}
