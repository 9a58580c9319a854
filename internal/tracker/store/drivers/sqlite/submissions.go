package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store/drivers/sqlite/gen"
)

type submissionsRepo struct {
	q *gen.Queries
}

func (r *submissionsRepo) CreateSubmission(ctx context.Context, s domain.Submission) error {
	return r.q.CreateSubmission(ctx, gen.CreateSubmissionParams{
		ID:               s.ID,
		StudentID:        s.StudentID,
		SectionID:        s.SectionID,
		Title:            s.Title,
		Description:      s.Description,
		Categories:       encodeList(s.Categories),
		Location:         s.Location,
		StartDate:        s.StartDate.UTC(),
		EndDate:          s.EndDate.UTC(),
		LearningOutcomes: encodeList(s.LearningOutcomes),
		UnGoals:          encodeList(s.UNGoals),
		Investigation:    s.Investigation,
		LearnerProfile:   s.LearnerProfile,
		SupervisorName:   s.SupervisorName,
		Progress:         s.Progress,
		CreatedAt:        s.CreatedAt.UTC(),
		UpdatedAt:        s.UpdatedAt.UTC(),
	})
}

func (r *submissionsRepo) GetSubmissionByID(ctx context.Context, id string) (domain.Submission, error) {
	row, err := r.q.GetSubmissionByID(ctx, id)
	if err != nil {
		return domain.Submission{}, mapNotFound(err)
	}
	return r.withEvidence(ctx, row)
}

func (r *submissionsRepo) ListSubmissionsByStudent(ctx context.Context, studentID string) ([]domain.Submission, error) {
	rows, err := r.q.ListSubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return r.withEvidenceAll(ctx, rows)
}

func (r *submissionsRepo) ListSubmissionsByTeacher(
	ctx context.Context,
	teacherID string,
	status domain.ReviewStatus,
) ([]domain.Submission, error) {
	rows, err := r.q.ListSubmissionsByTeacher(ctx, gen.ListSubmissionsByTeacherParams{
		TeacherID: teacherID,
		Status:    string(status),
	})
	if err != nil {
		return nil, err
	}
	return r.withEvidenceAll(ctx, rows)
}

func (r *submissionsRepo) ResubmitSubmission(ctx context.Context, id string, d domain.ProjectDetails, now time.Time) error {
	return requireRow(r.q.ResubmitSubmission(ctx, gen.ResubmitSubmissionParams{
		Title:            d.Title,
		Description:      d.Description,
		Categories:       encodeList(d.Categories),
		Location:         d.Location,
		StartDate:        d.StartDate.UTC(),
		EndDate:          d.EndDate.UTC(),
		LearningOutcomes: encodeList(d.LearningOutcomes),
		UnGoals:          encodeList(d.UNGoals),
		Investigation:    d.Investigation,
		LearnerProfile:   d.LearnerProfile,
		SupervisorName:   d.SupervisorName,
		Progress:         d.Progress,
		UpdatedAt:        now.UTC(),
		ID:               id,
	}))
}

func (r *submissionsRepo) SetReview(
	ctx context.Context,
	id string,
	status domain.ReviewStatus,
	comments, reviewerID string,
	at time.Time,
) error {
	return requireRow(r.q.SetSubmissionReview(ctx, gen.SetSubmissionReviewParams{
		ReviewStatus:   string(status),
		ReviewComments: comments,
		ReviewedBy:     mapStringNull(reviewerID),
		ReviewedAt:     sql.NullTime{Time: at.UTC(), Valid: true},
		UpdatedAt:      at.UTC(),
		ID:             id,
	}))
}

func (r *submissionsRepo) AddEvidence(ctx context.Context, e domain.Evidence) error {
	err := r.q.AddEvidence(ctx, gen.AddEvidenceParams{
		ID:           e.ID,
		SubmissionID: e.SubmissionID,
		ObjectKey:    e.ObjectKey,
		OriginalName: e.OriginalName,
		MimeType:     e.MimeType,
		Size:         e.Size,
		CreatedAt:    e.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *submissionsRepo) DeleteEvidence(ctx context.Context, submissionID string) error {
	return r.q.DeleteEvidence(ctx, submissionID)
}

func (r *submissionsRepo) GetEvidenceByObjectKey(ctx context.Context, key string) (domain.Evidence, error) {
	row, err := r.q.GetEvidenceByObjectKey(ctx, key)
	if err != nil {
		return domain.Evidence{}, mapNotFound(err)
	}
	return mapEvidence(row), nil
}

func (r *submissionsRepo) withEvidence(ctx context.Context, row gen.Submission) (domain.Submission, error) {
	ev, err := r.q.ListEvidence(ctx, row.ID)
	if err != nil {
		return domain.Submission{}, err
	}

	s := mapSubmission(row)
	s.Evidence = make([]domain.Evidence, 0, len(ev))
	for _, e := range ev {
		s.Evidence = append(s.Evidence, mapEvidence(e))
	}
	return s, nil
}

func (r *submissionsRepo) withEvidenceAll(ctx context.Context, rows []gen.Submission) ([]domain.Submission, error) {
	out := make([]domain.Submission, 0, len(rows))
	for _, row := range rows {
		s, err := r.withEvidence(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
