package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/internal/tracker/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens the database at dsn. SQLite allows one writer, so the pool
// is held to a single connection; this also keeps ":memory:" databases
// shared across every query.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction. Inside fn only the tx repos may
// be used: the pool has one connection and the transaction holds it.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Accounts() store.Accounts             { return &accountsRepo{q: s.q} }
func (s *Store) PasswordResets() store.PasswordResets { return &passwordResetsRepo{q: s.q} }
func (s *Store) Sections() store.Sections             { return &sectionsRepo{q: s.q} }
func (s *Store) Submissions() store.Submissions       { return &submissionsRepo{q: s.q} }
func (s *Store) Notifications() store.Notifications   { return &notificationsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns UNIQUE and PRIMARY KEY violations into ErrAlreadyExists.
func mapConstraint(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}

// requireRow maps an UPDATE/DELETE that touched nothing to ErrNotFound.
func requireRow(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapTimeNull(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// encodeList stores a string list as a JSON array column.
func encodeList[T ~string](items []T) string {
	if len(items) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func decodeList[T ~string](raw string) []T {
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func mapAccount(row gen.Account) domain.Account {
	return domain.Account{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
		Approved:     row.Approved,
		Active:       row.Active,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

func mapAccounts(rows []gen.Account) []domain.Account {
	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAccount(row))
	}
	return out
}

func mapPasswordReset(row gen.PasswordReset) domain.PasswordReset {
	return domain.PasswordReset{
		AccountID: row.AccountID,
		CodeHash:  row.CodeHash,
		ExpiresAt: row.ExpiresAt.UTC(),
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func mapSection(row gen.Section, students []string) domain.Section {
	return domain.Section{
		ID:         row.ID,
		Name:       row.Name,
		TeacherID:  row.TeacherID,
		StudentIDs: students,
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}

func mapSubmission(row gen.Submission) domain.Submission {
	return domain.Submission{
		ID:        row.ID,
		StudentID: row.StudentID,
		SectionID: row.SectionID,
		ProjectDetails: domain.ProjectDetails{
			Title:            row.Title,
			Description:      row.Description,
			Categories:       decodeList[domain.Category](row.Categories),
			Location:         row.Location,
			StartDate:        row.StartDate.UTC(),
			EndDate:          row.EndDate.UTC(),
			LearningOutcomes: decodeList[string](row.LearningOutcomes),
			UNGoals:          decodeList[string](row.UnGoals),
			Investigation:    row.Investigation,
			LearnerProfile:   row.LearnerProfile,
			SupervisorName:   row.SupervisorName,
			Progress:         row.Progress,
		},
		ReviewStatus:   domain.ReviewStatus(row.ReviewStatus),
		ReviewComments: row.ReviewComments,
		ReviewedBy:     mapNullStringPtr(row.ReviewedBy),
		ReviewedAt:     mapNullTimePtr(row.ReviewedAt),
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}

func mapEvidence(row gen.Evidence) domain.Evidence {
	return domain.Evidence{
		ID:           row.ID,
		SubmissionID: row.SubmissionID,
		ObjectKey:    row.ObjectKey,
		OriginalName: row.OriginalName,
		MimeType:     row.MimeType,
		Size:         row.Size,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

func mapNotification(row gen.Notification) domain.Notification {
	return domain.Notification{
		ID:            row.ID,
		Kind:          domain.NotificationKind(row.Kind),
		Recipient:     row.Recipient,
		Subject:       row.Subject,
		Body:          row.Body,
		Status:        domain.NotificationStatus(row.Status),
		Attempts:      int(row.Attempts),
		NextAttemptAt: row.NextAttemptAt.UTC(),
		LastError:     row.LastError,
		CreatedAt:     row.CreatedAt.UTC(),
		SentAt:        mapNullTimePtr(row.SentAt),
	}
}
