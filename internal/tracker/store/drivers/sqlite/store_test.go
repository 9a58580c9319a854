package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/internal/tracker/store/drivers/sqlite"
	"github.com/aussiebroadwan/castrack/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func createAccount(t *testing.T, s store.Store, email string, role domain.Role) domain.Account {
	t.Helper()

	now := time.Now().UTC()
	a := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Approved:     true,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Accounts().CreateAccount(context.Background(), a))
	return a
}

func createSection(t *testing.T, s store.Store, name, teacherID string) domain.Section {
	t.Helper()

	now := time.Now().UTC()
	sec := domain.Section{ID: idx.New().String(), Name: name, TeacherID: teacherID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Sections().CreateSection(context.Background(), sec))
	return sec
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	a := createAccount(t, s, "a@fountainheadschools.org", domain.RoleStudent)

	t.Run("duplicate email", func(t *testing.T) {
		dup := a
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.Accounts().CreateAccount(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("lookup", func(t *testing.T) {
		got, err := s.Accounts().GetAccountByEmail(ctx, a.Email)
		require.NoError(t, err)
		require.Equal(t, a.ID, got.ID)
		require.Equal(t, domain.RoleStudent, got.Role)
		require.True(t, got.Approved)
		require.True(t, got.Active)

		_, err = s.Accounts().GetAccountByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("pending list", func(t *testing.T) {
		now := time.Now().UTC()
		p := domain.Account{
			ID: idx.New().String(), Email: "p@fountainheadschools.org", PasswordHash: "h",
			Role: domain.RoleStudent, Active: true, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, s.Accounts().CreateAccount(ctx, p))

		pending, err := s.Accounts().ListPendingAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		require.Equal(t, p.ID, pending[0].ID)

		require.NoError(t, s.Accounts().Approve(ctx, p.ID, domain.RoleTeacher, now))
		pending, err = s.Accounts().ListPendingAccounts(ctx)
		require.NoError(t, err)
		require.Empty(t, pending)

		got, err := s.Accounts().GetAccountByID(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleTeacher, got.Role)

		all, err := s.Accounts().ListAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("active toggle and missing rows", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, s.Accounts().SetActive(ctx, a.ID, false, now))
		got, err := s.Accounts().GetAccountByID(ctx, a.ID)
		require.NoError(t, err)
		require.False(t, got.Active)

		require.ErrorIs(t, s.Accounts().SetActive(ctx, "missing", true, now), store.ErrNotFound)
		require.ErrorIs(t, s.Accounts().Approve(ctx, "missing", domain.RoleStudent, now), store.ErrNotFound)
	})

	t.Run("promote admin", func(t *testing.T) {
		require.NoError(t, s.Accounts().PromoteAdmin(ctx, a.ID, time.Now().UTC()))
		got, err := s.Accounts().GetAccountByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, got.Role)
		require.True(t, got.CanLogin())
	})
}

func TestPasswordResets(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, "r@fountainheadschools.org", domain.RoleStudent)
	now := time.Now().UTC()

	_, err := s.PasswordResets().GetPasswordReset(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.PasswordResets().UpsertPasswordReset(ctx, domain.PasswordReset{
		AccountID: a.ID, CodeHash: "one", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now,
	}))
	require.NoError(t, s.PasswordResets().UpsertPasswordReset(ctx, domain.PasswordReset{
		AccountID: a.ID, CodeHash: "two", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now,
	}))

	got, err := s.PasswordResets().GetPasswordReset(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "two", got.CodeHash)
	require.WithinDuration(t, now.Add(10*time.Minute), got.ExpiresAt, time.Second)

	n, err := s.PasswordResets().DeleteExpiredPasswordResets(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = s.PasswordResets().DeleteExpiredPasswordResets(ctx, now.Add(11*time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, s.PasswordResets().DeletePasswordReset(ctx, a.ID))
}

func TestSections(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	teacher := createAccount(t, s, "t@fountainheadschools.org", domain.RoleTeacher)
	student := createAccount(t, s, "s@fountainheadschools.org", domain.RoleStudent)

	a := createSection(t, s, "12A", teacher.ID)
	b := createSection(t, s, "12B", teacher.ID)

	t.Run("duplicate name", func(t *testing.T) {
		dup := a
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.Sections().CreateSection(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("student sits in one section", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, s.Sections().AddStudent(ctx, a.ID, student.ID, now))
		require.ErrorIs(t, s.Sections().AddStudent(ctx, b.ID, student.ID, now), store.ErrAlreadyExists)
		require.ErrorIs(t, s.Sections().AddStudent(ctx, a.ID, student.ID, now), store.ErrAlreadyExists)

		got, err := s.Sections().GetSectionByStudent(ctx, student.ID)
		require.NoError(t, err)
		require.Equal(t, a.ID, got.ID)
		require.Equal(t, []string{student.ID}, got.StudentIDs)
	})

	t.Run("list by teacher", func(t *testing.T) {
		list, err := s.Sections().ListSectionsByTeacher(ctx, teacher.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "12A", list[0].Name)

		list, err = s.Sections().ListSectionsByTeacher(ctx, student.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("remove student", func(t *testing.T) {
		require.NoError(t, s.Sections().RemoveStudent(ctx, a.ID, student.ID))
		require.ErrorIs(t, s.Sections().RemoveStudent(ctx, a.ID, student.ID), store.ErrNotFound)

		_, err := s.Sections().GetSectionByStudent(ctx, student.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("reassign teacher", func(t *testing.T) {
		other := createAccount(t, s, "t2@fountainheadschools.org", domain.RoleTeacher)
		require.NoError(t, s.Sections().UpdateSectionTeacher(ctx, b.ID, other.ID, time.Now().UTC()))

		got, err := s.Sections().GetSectionByID(ctx, b.ID)
		require.NoError(t, err)
		require.Equal(t, other.ID, got.TeacherID)
	})
}

func TestSubmissions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	teacher := createAccount(t, s, "t@fountainheadschools.org", domain.RoleTeacher)
	student := createAccount(t, s, "s@fountainheadschools.org", domain.RoleStudent)
	sec := createSection(t, s, "12A", teacher.ID)

	now := time.Now().UTC()
	sub := domain.Submission{
		ID:        idx.New().String(),
		StudentID: student.ID,
		SectionID: sec.ID,
		ProjectDetails: domain.ProjectDetails{
			Title:            "Beach clean-up",
			Description:      "Collected rubbish",
			Categories:       []domain.Category{domain.CategoryService, domain.CategoryActivity},
			Location:         domain.LocationOutside,
			StartDate:        now.Add(-48 * time.Hour),
			EndDate:          now.Add(-24 * time.Hour),
			LearningOutcomes: []string{"LO1", "LO5"},
			UNGoals:          []string{"Life Below Water"},
			Progress:         domain.ProgressForApproval,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Submissions().CreateSubmission(ctx, sub))
	require.NoError(t, s.Submissions().AddEvidence(ctx, domain.Evidence{
		ID: idx.New().String(), SubmissionID: sub.ID, ObjectKey: "k1.png",
		OriginalName: "photo.png", MimeType: "image/png", Size: 10, CreatedAt: now,
	}))

	got, err := s.Submissions().GetSubmissionByID(ctx, sub.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReviewPending, got.ReviewStatus)
	require.Equal(t, sub.Categories, got.Categories)
	require.Equal(t, sub.LearningOutcomes, got.LearningOutcomes)
	require.Len(t, got.Evidence, 1)
	require.Nil(t, got.ReviewedBy)

	ev, err := s.Submissions().GetEvidenceByObjectKey(ctx, "k1.png")
	require.NoError(t, err)
	require.Equal(t, sub.ID, ev.SubmissionID)

	t.Run("teacher listing filters by status", func(t *testing.T) {
		list, err := s.Submissions().ListSubmissionsByTeacher(ctx, teacher.ID, "")
		require.NoError(t, err)
		require.Len(t, list, 1)

		list, err = s.Submissions().ListSubmissionsByTeacher(ctx, teacher.ID, domain.ReviewApproved)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("review only once", func(t *testing.T) {
		at := time.Now().UTC()
		require.NoError(t, s.Submissions().SetReview(ctx, sub.ID, domain.ReviewDenied, "needs photos", teacher.ID, at))
		require.ErrorIs(t, s.Submissions().SetReview(ctx, sub.ID, domain.ReviewApproved, "", teacher.ID, at), store.ErrNotFound)

		got, err := s.Submissions().GetSubmissionByID(ctx, sub.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ReviewDenied, got.ReviewStatus)
		require.Equal(t, "needs photos", got.ReviewComments)
		require.NotNil(t, got.ReviewedBy)
		require.Equal(t, teacher.ID, *got.ReviewedBy)
	})

	t.Run("resubmit resets review", func(t *testing.T) {
		d := sub.ProjectDetails
		d.Title = "Beach clean-up II"
		d.Categories = []domain.Category{domain.CategoryCreativity}
		require.NoError(t, s.Submissions().ResubmitSubmission(ctx, sub.ID, d, time.Now().UTC()))
		require.NoError(t, s.Submissions().DeleteEvidence(ctx, sub.ID))

		got, err := s.Submissions().GetSubmissionByID(ctx, sub.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ReviewPending, got.ReviewStatus)
		require.Empty(t, got.ReviewComments)
		require.Nil(t, got.ReviewedBy)
		require.Nil(t, got.ReviewedAt)
		require.Equal(t, "Beach clean-up II", got.Title)
		require.Equal(t, []domain.Category{domain.CategoryCreativity}, got.Categories)
		require.Empty(t, got.Evidence)
	})

	t.Run("student listing", func(t *testing.T) {
		list, err := s.Submissions().ListSubmissionsByStudent(ctx, student.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)

		list, err = s.Submissions().ListSubmissionsByStudent(ctx, teacher.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	n := domain.Notification{
		ID: idx.New().String(), Kind: domain.NotifyAccountApproved, Recipient: "a@x.org",
		Subject: "hi", Body: "body", NextAttemptAt: now, CreatedAt: now,
	}
	require.NoError(t, s.Notifications().EnqueueNotification(ctx, n))

	later := domain.Notification{
		ID: idx.New().String(), Kind: domain.NotifyAccountApproved, Recipient: "b@x.org",
		Subject: "hi", Body: "body", NextAttemptAt: now.Add(time.Hour), CreatedAt: now,
	}
	require.NoError(t, s.Notifications().EnqueueNotification(ctx, later))

	due, err := s.Notifications().ListDueNotifications(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, n.ID, due[0].ID)
	require.Equal(t, domain.NotificationPending, due[0].Status)

	require.NoError(t, s.Notifications().MarkNotificationRetry(ctx, n.ID, 1, now.Add(time.Minute), "boom"))
	due, err = s.Notifications().ListDueNotifications(ctx, now, 10)
	require.NoError(t, err)
	require.Empty(t, due)

	require.NoError(t, s.Notifications().MarkNotificationSent(ctx, n.ID, now))
	rows, err := s.Notifications().ListNotificationsByRecipient(ctx, "a@x.org")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, domain.NotificationSent, rows[0].Status)
	require.Equal(t, 2, rows[0].Attempts)
	require.NotNil(t, rows[0].SentAt)

	require.NoError(t, s.Notifications().MarkNotificationFailed(ctx, later.ID, 5, "gave up"))

	deleted, err := s.Notifications().DeleteSentNotificationsBefore(ctx, now.Add(time.Second))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := createAccount(t, s, "tx@fountainheadschools.org", domain.RoleStudent)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Accounts().SetActive(ctx, a.ID, false, time.Now().UTC()))
		return store.ErrNotFound
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.Active)
}
