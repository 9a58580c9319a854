package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/evidence"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/pkg/idx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
	"github.com/aussiebroadwan/castrack/pkg/validx"
)

// Date is a calendar day. It accepts "2006-01-02" or a full RFC 3339 time.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

var ErrDateFormat = errors.New("date must be YYYY-MM-DD or RFC 3339")

// ParseDate parses s as a Date. An empty string is the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return Date{}, ErrDateFormat
		}
	}
	return Date{t.UTC()}, nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.UTC().Format(dateLayout))
}

// ProjectInput is what a student fills in for a submission.
type ProjectInput struct {
	Title            string   `json:"title" validate:"required,max=200"`
	Description      string   `json:"description" validate:"required"`
	Categories       []string `json:"categories" validate:"required,min=1,unique,dive,oneof=Creativity Activity Service"`
	Location         string   `json:"location" validate:"required,oneof='In the school' Outside"`
	StartDate        Date     `json:"startDate" validate:"-"`
	EndDate          Date     `json:"endDate" validate:"-"`
	LearningOutcomes []string `json:"learningOutcomes" validate:"required,min=1,unique,dive,oneof=LO1 LO2 LO3 LO4 LO5 LO6 LO7"`
	UNGoals          []string `json:"unGoals" validate:"required,min=1,unique"`
	Investigation    string   `json:"investigation" validate:"required"`
	LearnerProfile   string   `json:"learnerProfile" validate:"required"`
	SupervisorName   string   `json:"supervisorName" validate:"required"`
	Progress         string   `json:"progress" validate:"required,oneof='For approval' 'In progress'"`
}

// Validate checks the tags plus the rules tags cannot express.
func (in ProjectInput) Validate() error {
	extra := validx.ValidationErrors{}
	for _, g := range in.UNGoals {
		if !slices.Contains(domain.UNGoals, g) {
			extra.Add("unGoals", "contains an unknown goal "+g)
			break
		}
	}
	switch {
	case in.StartDate.IsZero():
		extra.Add("startDate", "is required")
	case in.EndDate.IsZero():
		extra.Add("endDate", "is required")
	case !in.StartDate.Before(in.EndDate.Time):
		extra.Add("endDate", "must be after startDate")
	}
	return validx.Merge(in, extra)
}

func (in ProjectInput) details() domain.ProjectDetails {
	cats := make([]domain.Category, len(in.Categories))
	for i, c := range in.Categories {
		cats[i] = domain.Category(c)
	}
	return domain.ProjectDetails{
		Title:            strings.TrimSpace(in.Title),
		Description:      in.Description,
		Categories:       cats,
		Location:         in.Location,
		StartDate:        in.StartDate.Time,
		EndDate:          in.EndDate.Time,
		LearningOutcomes: in.LearningOutcomes,
		UNGoals:          in.UNGoals,
		Investigation:    in.Investigation,
		LearnerProfile:   in.LearnerProfile,
		SupervisorName:   in.SupervisorName,
		Progress:         in.Progress,
	}
}

// Upload is one evidence file as received from the client.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// SubmissionService owns the project submission and review workflow.
type SubmissionService struct {
	Store   store.Store
	Storage evidence.Storage
	Outbox  *OutboxService
	Limits  evidence.Limits
	Clock   Clock
}

func (s *SubmissionService) limits() evidence.Limits {
	if s.Limits == (evidence.Limits{}) {
		return evidence.DefaultLimits
	}
	return s.Limits
}

func checkInput(in ProjectInput, files []Upload, limits evidence.Limits) error {
	if err := in.Validate(); err != nil {
		var verrs validx.ValidationErrors
		if errors.As(err, &verrs) {
			return ErrInvalidInput.WithDetails(verrs.Details()...)
		}
		return ErrInvalidInput.WithDetails(err.Error())
	}

	types := make([]string, len(files))
	for i, f := range files {
		types[i] = f.ContentType
	}
	if err := limits.Check(types); err != nil {
		return ErrInvalidEvidence.WithDetails(err.Error())
	}
	return nil
}

// Create stores a new pending submission bound to the student's section.
func (s *SubmissionService) Create(ctx context.Context, actor Actor, in ProjectInput, files []Upload) (domain.Submission, error) {
	l := slogx.FromContext(ctx)

	// 1. Caller and input
	if err := requireRole(actor, domain.RoleStudent); err != nil {
		return domain.Submission{}, err
	}
	if err := checkInput(in, files, s.limits()); err != nil {
		return domain.Submission{}, err
	}
	if err := s.checkStanding(ctx, actor.ID); err != nil {
		return domain.Submission{}, err
	}

	sec, err := s.Store.Sections().GetSectionByStudent(ctx, actor.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Submission{}, ErrNoSection
	}
	if err != nil {
		return domain.Submission{}, transient(err)
	}

	// 2. Objects first; they are removed again if anything below fails
	now := s.Clock.Now()
	sub := domain.Submission{
		ID:             idx.NewAt(now).String(),
		StudentID:      actor.ID,
		SectionID:      sec.ID,
		ProjectDetails: in.details(),
		ReviewStatus:   domain.ReviewPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	ev, err := s.putObjects(ctx, sub.ID, files, now)
	if err != nil {
		return domain.Submission{}, err
	}

	// 3. Rows
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Submissions().CreateSubmission(ctx, sub); err != nil {
			return err
		}
		for _, e := range ev {
			if err := tx.Submissions().AddEvidence(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.deleteObjects(ctx, ev)
		l.Error("failed to store submission", slog.Any("error", err))
		return domain.Submission{}, transient(err)
	}

	l.Info("submission created",
		slog.String("submission_id", sub.ID),
		slog.String("section_id", sec.ID),
		slog.Int("evidence", len(ev)),
	)
	sub.Evidence = ev
	return sub, nil
}

// Resubmit replaces a denied submission and sends it back for review.
func (s *SubmissionService) Resubmit(ctx context.Context, actor Actor, id string, in ProjectInput, files []Upload) (domain.Submission, error) {
	l := slogx.FromContext(ctx)

	// 1. Caller, ownership and state
	if err := requireRole(actor, domain.RoleStudent); err != nil {
		return domain.Submission{}, err
	}
	cur, err := s.getSubmission(ctx, s.Store, id)
	if err != nil {
		return domain.Submission{}, err
	}
	if cur.StudentID != actor.ID {
		return domain.Submission{}, ErrForbidden
	}
	if cur.ReviewStatus != domain.ReviewDenied {
		return domain.Submission{}, ErrNotDenied
	}
	if err := checkInput(in, files, s.limits()); err != nil {
		return domain.Submission{}, err
	}
	if err := s.checkStanding(ctx, actor.ID); err != nil {
		return domain.Submission{}, err
	}

	// 2. New objects
	now := s.Clock.Now()
	ev, err := s.putObjects(ctx, cur.ID, files, now)
	if err != nil {
		return domain.Submission{}, err
	}

	// 3. Swap rows; the state is checked again under the transaction
	var old []domain.Evidence
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		sub, err := s.getSubmission(ctx, tx, id)
		if err != nil {
			return err
		}
		if sub.ReviewStatus != domain.ReviewDenied {
			return ErrNotDenied
		}
		old = sub.Evidence

		if err := tx.Submissions().ResubmitSubmission(ctx, sub.ID, in.details(), now); err != nil {
			return err
		}
		if err := tx.Submissions().DeleteEvidence(ctx, sub.ID); err != nil {
			return err
		}
		for _, e := range ev {
			if err := tx.Submissions().AddEvidence(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.deleteObjects(ctx, ev)
		return domain.Submission{}, transient(err)
	}

	// 4. Old objects are unreachable now
	s.deleteObjects(ctx, old)

	l.Info("submission resubmitted", slog.String("submission_id", cur.ID))
	return s.getSubmission(ctx, s.Store, cur.ID)
}

// Review records the section teacher's decision on a pending submission.
func (s *SubmissionService) Review(ctx context.Context, actor Actor, id, decision, comments string) (domain.Submission, error) {
	l := slogx.FromContext(ctx)

	if err := requireRole(actor, domain.RoleTeacher); err != nil {
		return domain.Submission{}, err
	}
	status, ok := domain.ParseReviewStatus(strings.ToLower(strings.TrimSpace(decision)))
	if !ok || status == domain.ReviewPending {
		return domain.Submission{}, ErrInvalidDecision
	}
	if err := s.checkStanding(ctx, actor.ID); err != nil {
		return domain.Submission{}, err
	}

	sub, err := s.getSubmission(ctx, s.Store, id)
	if err != nil {
		return domain.Submission{}, err
	}
	if ok, err := s.teaches(ctx, actor.ID, sub.SectionID); err != nil {
		return domain.Submission{}, err
	} else if !ok {
		return domain.Submission{}, ErrForbidden
	}
	if sub.ReviewStatus != domain.ReviewPending {
		return domain.Submission{}, ErrNotPending
	}

	now := s.Clock.Now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Submissions().SetReview(ctx, sub.ID, status, comments, actor.ID, now)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotPending
		}
		if err != nil {
			return err
		}

		student, err := tx.Accounts().GetAccountByID(ctx, sub.StudentID)
		if err != nil {
			return err
		}
		msg := submissionReviewedMessage(student.Email, sub.Title, status, comments)
		return s.Outbox.Enqueue(ctx, tx, domain.NotifySubmissionReviewed, msg)
	})
	if err != nil {
		return domain.Submission{}, transient(err)
	}

	l.Info("submission reviewed",
		slog.String("submission_id", sub.ID),
		slog.String("decision", string(status)),
	)
	sub.ReviewStatus = status
	sub.ReviewComments = comments
	sub.ReviewedBy = &actor.ID
	sub.ReviewedAt = &now
	sub.UpdatedAt = now
	return sub, nil
}

// Get returns a submission to its owner, its section teacher or the admin.
func (s *SubmissionService) Get(ctx context.Context, actor Actor, id string) (domain.Submission, error) {
	if err := requireRole(actor, domain.Roles...); err != nil {
		return domain.Submission{}, err
	}
	sub, err := s.getSubmission(ctx, s.Store, id)
	if err != nil {
		return domain.Submission{}, err
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return sub, nil
	case domain.RoleStudent:
		if sub.StudentID == actor.ID {
			return sub, nil
		}
	case domain.RoleTeacher:
		ok, err := s.teaches(ctx, actor.ID, sub.SectionID)
		if err != nil {
			return domain.Submission{}, err
		}
		if ok {
			return sub, nil
		}
	}
	return domain.Submission{}, ErrForbidden
}

func (s *SubmissionService) ListMine(ctx context.Context, actor Actor) ([]domain.Submission, error) {
	if err := requireRole(actor, domain.RoleStudent); err != nil {
		return nil, err
	}
	subs, err := s.Store.Submissions().ListSubmissionsByStudent(ctx, actor.ID)
	return subs, transient(err)
}

// ListForTeacher lists submissions from the caller's sections. An empty
// status lists every submission.
func (s *SubmissionService) ListForTeacher(ctx context.Context, actor Actor, status string) ([]domain.Submission, error) {
	if err := requireRole(actor, domain.RoleTeacher); err != nil {
		return nil, err
	}

	var st domain.ReviewStatus
	if status != "" {
		var ok bool
		if st, ok = domain.ParseReviewStatus(status); !ok {
			return nil, ErrInvalidInput.WithDetails("status: must be one of pending approved denied")
		}
	}

	subs, err := s.Store.Submissions().ListSubmissionsByTeacher(ctx, actor.ID, st)
	return subs, transient(err)
}

// Stats counts the caller's submissions per category and review status.
func (s *SubmissionService) Stats(ctx context.Context, actor Actor) (domain.SubmissionStats, error) {
	subs, err := s.ListMine(ctx, actor)
	if err != nil {
		return domain.SubmissionStats{}, err
	}

	stats := domain.SubmissionStats{
		Total:      len(subs),
		ByCategory: make(map[domain.Category]int, len(domain.Categories)),
		ByStatus:   make(map[domain.ReviewStatus]int, 3),
	}
	for _, c := range domain.Categories {
		stats.ByCategory[c] = 0
	}
	for _, st := range []domain.ReviewStatus{domain.ReviewPending, domain.ReviewApproved, domain.ReviewDenied} {
		stats.ByStatus[st] = 0
	}
	for _, sub := range subs {
		stats.ByStatus[sub.ReviewStatus]++
		for _, c := range sub.Categories {
			stats.ByCategory[c]++
		}
	}
	return stats, nil
}

// OpenEvidence returns a stored evidence file. The caller must close it.
func (s *SubmissionService) OpenEvidence(ctx context.Context, key string) (io.ReadCloser, domain.Evidence, error) {
	if !evidence.ValidKey(key) {
		return nil, domain.Evidence{}, ErrEvidenceNotFound
	}

	ev, err := s.Store.Submissions().GetEvidenceByObjectKey(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.Evidence{}, ErrEvidenceNotFound
	}
	if err != nil {
		return nil, domain.Evidence{}, transient(err)
	}

	rc, err := s.Storage.Open(ctx, key)
	if errors.Is(err, evidence.ErrNotFound) {
		return nil, domain.Evidence{}, ErrEvidenceNotFound
	}
	if err != nil {
		return nil, domain.Evidence{}, transient(err)
	}
	return rc, ev, nil
}

func (s *SubmissionService) putObjects(ctx context.Context, submissionID string, files []Upload, now time.Time) ([]domain.Evidence, error) {
	out := make([]domain.Evidence, 0, len(files))
	for _, f := range files {
		key := evidence.NewObjectKey(f.Filename)
		n, err := s.Storage.Put(ctx, key, f.ContentType, f.Reader)
		if err != nil {
			slogx.FromContext(ctx).Error("failed to store evidence",
				slog.String("object_key", key),
				slog.Any("error", err),
			)
			s.deleteObjects(ctx, append(out, domain.Evidence{ObjectKey: key}))
			return nil, transient(err)
		}
		out = append(out, domain.Evidence{
			ID:           idx.NewAt(now).String(),
			SubmissionID: submissionID,
			ObjectKey:    key,
			OriginalName: f.Filename,
			MimeType:     f.ContentType,
			Size:         n,
			CreatedAt:    now,
		})
	}
	return out, nil
}

// deleteObjects is best effort; leftovers are only logged.
func (s *SubmissionService) deleteObjects(ctx context.Context, ev []domain.Evidence) {
	ctx = context.WithoutCancel(ctx)
	for _, e := range ev {
		if err := s.Storage.Delete(ctx, e.ObjectKey); err != nil {
			slogx.FromContext(ctx).Warn("failed to delete evidence object",
				slog.String("object_key", e.ObjectKey),
				slog.Any("error", err),
			)
		}
	}
}

// checkStanding re-checks both login gates for the holder of a credential.
func (s *SubmissionService) checkStanding(ctx context.Context, accountID string) error {
	acc, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUnauthenticatedUser
	}
	if err != nil {
		return transient(err)
	}
	switch {
	case !acc.Approved:
		return ErrNotApproved
	case !acc.Active:
		return ErrDeactivated
	}
	return nil
}

func (s *SubmissionService) teaches(ctx context.Context, teacherID, sectionID string) (bool, error) {
	sec, err := s.Store.Sections().GetSectionByID(ctx, sectionID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, transient(err)
	}
	return sec.TeacherID == teacherID, nil
}

func (s *SubmissionService) getSubmission(ctx context.Context, st store.Store, id string) (domain.Submission, error) {
	sub, err := st.Submissions().GetSubmissionByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Submission{}, ErrSubmissionNotFound
	}
	return sub, transient(err)
}
