package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// one sub-repository per table group. Sub-repositories obtained from a Tx
// run inside that transaction.
type Store interface {
	Accounts() Accounts
	PasswordResets() PasswordResets
	Sections() Sections
	Submissions() Submissions
	Notifications() Notifications

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST call Commit() or
	// Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account. Returns ErrAlreadyExists when the
	// email is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail expects an already lower-cased email.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// ListAccounts returns every account, oldest first.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListPendingAccounts returns the accounts still waiting for approval.
	ListPendingAccounts(ctx context.Context) ([]domain.Account, error)

	UpdatePasswordHash(ctx context.Context, id, hash string, now time.Time) error

	// Approve sets approved=true and the given role.
	Approve(ctx context.Context, id string, role domain.Role, now time.Time) error

	SetActive(ctx context.Context, id string, active bool, now time.Time) error

	// PromoteAdmin forces role admin, approved and active.
	PromoteAdmin(ctx context.Context, id string, now time.Time) error
}

type PasswordResets interface {
	// UpsertPasswordReset replaces any pending code for the account.
	UpsertPasswordReset(ctx context.Context, r domain.PasswordReset) error

	GetPasswordReset(ctx context.Context, accountID string) (domain.PasswordReset, error)

	// DeletePasswordReset is a no-op when nothing is pending.
	DeletePasswordReset(ctx context.Context, accountID string) error

	// DeleteExpiredPasswordResets is housekeeping.
	DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error)
}

type Sections interface {
	// CreateSection returns ErrAlreadyExists when the name is taken.
	CreateSection(ctx context.Context, s domain.Section) error

	// GetSectionByID includes the student ids.
	GetSectionByID(ctx context.Context, id string) (domain.Section, error)

	ListSections(ctx context.Context) ([]domain.Section, error)
	ListSectionsByTeacher(ctx context.Context, teacherID string) ([]domain.Section, error)

	// GetSectionByStudent returns the section the student is placed in.
	GetSectionByStudent(ctx context.Context, studentID string) (domain.Section, error)

	UpdateSectionTeacher(ctx context.Context, id, teacherID string, now time.Time) error

	// AddStudent returns ErrAlreadyExists when the student is already placed
	// in any section.
	AddStudent(ctx context.Context, sectionID, studentID string, now time.Time) error

	// RemoveStudent returns ErrNotFound when the student is not a member.
	RemoveStudent(ctx context.Context, sectionID, studentID string) error
}

type Submissions interface {
	// CreateSubmission inserts the submission row. Evidence is added separately.
	CreateSubmission(ctx context.Context, s domain.Submission) error

	// GetSubmissionByID includes the evidence list.
	GetSubmissionByID(ctx context.Context, id string) (domain.Submission, error)

	// ListSubmissionsByStudent returns the student's submissions, newest first.
	ListSubmissionsByStudent(ctx context.Context, studentID string) ([]domain.Submission, error)

	// ListSubmissionsByTeacher returns submissions bound to sections the
	// teacher runs. An empty status matches every status.
	ListSubmissionsByTeacher(ctx context.Context, teacherID string, status domain.ReviewStatus) ([]domain.Submission, error)

	// ResubmitSubmission replaces the project details and resets the review
	// to pending.
	ResubmitSubmission(ctx context.Context, id string, d domain.ProjectDetails, now time.Time) error

	// SetReview records a decision on a pending submission. Returns
	// ErrNotFound when the submission is missing or no longer pending.
	SetReview(ctx context.Context, id string, status domain.ReviewStatus, comments, reviewerID string, at time.Time) error

	AddEvidence(ctx context.Context, e domain.Evidence) error

	// DeleteEvidence removes every evidence row of a submission.
	DeleteEvidence(ctx context.Context, submissionID string) error

	GetEvidenceByObjectKey(ctx context.Context, key string) (domain.Evidence, error)
}

type Notifications interface {
	EnqueueNotification(ctx context.Context, n domain.Notification) error

	// ListDueNotifications returns pending rows whose next attempt is due.
	ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error)

	// ListNotificationsByRecipient returns every row for a recipient, newest first.
	ListNotificationsByRecipient(ctx context.Context, recipient string) ([]domain.Notification, error)

	MarkNotificationSent(ctx context.Context, id string, at time.Time) error

	// MarkNotificationRetry records a failed attempt and schedules the next.
	MarkNotificationRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string) error

	// MarkNotificationFailed gives up on a row.
	MarkNotificationFailed(ctx context.Context, id string, attempts int, lastErr string) error

	// DeleteSentNotificationsBefore is housekeeping.
	DeleteSentNotificationsBefore(ctx context.Context, before time.Time) (int64, error)
}
