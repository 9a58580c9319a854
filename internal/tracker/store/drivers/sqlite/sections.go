package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store/drivers/sqlite/gen"
)

type sectionsRepo struct {
	q *gen.Queries
}

func (r *sectionsRepo) CreateSection(ctx context.Context, s domain.Section) error {
	err := r.q.CreateSection(ctx, gen.CreateSectionParams{
		ID:        s.ID,
		Name:      s.Name,
		TeacherID: s.TeacherID,
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *sectionsRepo) GetSectionByID(ctx context.Context, id string) (domain.Section, error) {
	row, err := r.q.GetSectionByID(ctx, id)
	if err != nil {
		return domain.Section{}, mapNotFound(err)
	}
	return r.withStudents(ctx, row)
}

func (r *sectionsRepo) ListSections(ctx context.Context) ([]domain.Section, error) {
	rows, err := r.q.ListSections(ctx)
	if err != nil {
		return nil, err
	}
	return r.withStudentsAll(ctx, rows)
}

func (r *sectionsRepo) ListSectionsByTeacher(ctx context.Context, teacherID string) ([]domain.Section, error) {
	rows, err := r.q.ListSectionsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return r.withStudentsAll(ctx, rows)
}

func (r *sectionsRepo) GetSectionByStudent(ctx context.Context, studentID string) (domain.Section, error) {
	row, err := r.q.GetSectionByStudent(ctx, studentID)
	if err != nil {
		return domain.Section{}, mapNotFound(err)
	}
	return r.withStudents(ctx, row)
}

func (r *sectionsRepo) UpdateSectionTeacher(ctx context.Context, id, teacherID string, now time.Time) error {
	return requireRow(r.q.UpdateSectionTeacher(ctx, gen.UpdateSectionTeacherParams{
		TeacherID: teacherID,
		UpdatedAt: now.UTC(),
		ID:        id,
	}))
}

func (r *sectionsRepo) AddStudent(ctx context.Context, sectionID, studentID string, now time.Time) error {
	err := r.q.AddSectionStudent(ctx, gen.AddSectionStudentParams{
		SectionID: sectionID,
		StudentID: studentID,
		AddedAt:   now.UTC(),
	})
	return mapConstraint(err)
}

func (r *sectionsRepo) RemoveStudent(ctx context.Context, sectionID, studentID string) error {
	return requireRow(r.q.RemoveSectionStudent(ctx, gen.RemoveSectionStudentParams{
		SectionID: sectionID,
		StudentID: studentID,
	}))
}

func (r *sectionsRepo) withStudents(ctx context.Context, row gen.Section) (domain.Section, error) {
	students, err := r.q.ListSectionStudents(ctx, row.ID)
	if err != nil {
		return domain.Section{}, err
	}
	return mapSection(row, students), nil
}

func (r *sectionsRepo) withStudentsAll(ctx context.Context, rows []gen.Section) ([]domain.Section, error) {
	out := make([]domain.Section, 0, len(rows))
	for _, row := range rows {
		s, err := r.withStudents(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
