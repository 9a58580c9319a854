package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/pkg/idx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
)

// SectionService manages class sections. A student belongs to at most one
// section; each section has exactly one teacher.
type SectionService struct {
	Store store.Store
	Clock Clock
}

func (s *SectionService) Create(ctx context.Context, actor Actor, name, teacherID string) (domain.Section, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return domain.Section{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Section{}, ErrInvalidInput.WithDetails("name: is required")
	}
	if err := s.checkMember(ctx, teacherID, domain.RoleTeacher, ErrInvalidTeacher); err != nil {
		return domain.Section{}, err
	}

	now := s.Clock.Now()
	sec := domain.Section{
		ID:        idx.NewAt(now).String(),
		Name:      name,
		TeacherID: teacherID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Sections().CreateSection(ctx, sec); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Section{}, ErrSectionExists
		}
		return domain.Section{}, transient(err)
	}

	slogx.FromContext(ctx).Info("section created",
		slog.String("section_id", sec.ID),
		slog.String("teacher_id", teacherID),
	)
	return sec, nil
}

func (s *SectionService) AssignTeacher(ctx context.Context, actor Actor, sectionID, teacherID string) (domain.Section, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return domain.Section{}, err
	}

	sec, err := s.getSection(ctx, sectionID)
	if err != nil {
		return domain.Section{}, err
	}
	if err := s.checkMember(ctx, teacherID, domain.RoleTeacher, ErrInvalidTeacher); err != nil {
		return domain.Section{}, err
	}

	now := s.Clock.Now()
	if err := s.Store.Sections().UpdateSectionTeacher(ctx, sec.ID, teacherID, now); err != nil {
		return domain.Section{}, transient(err)
	}

	slogx.FromContext(ctx).Info("section teacher assigned",
		slog.String("section_id", sec.ID),
		slog.String("teacher_id", teacherID),
	)
	sec.TeacherID, sec.UpdatedAt = teacherID, now
	return sec, nil
}

// AddStudent places a student. Adding a student to the section it is
// already in succeeds without change.
func (s *SectionService) AddStudent(ctx context.Context, actor Actor, sectionID, studentID string) (domain.Section, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return domain.Section{}, err
	}

	sec, err := s.getSection(ctx, sectionID)
	if err != nil {
		return domain.Section{}, err
	}
	if sec.HasStudent(studentID) {
		return sec, nil
	}
	if err := s.checkMember(ctx, studentID, domain.RoleStudent, ErrInvalidStudent); err != nil {
		return domain.Section{}, err
	}

	now := s.Clock.Now()
	if err := s.Store.Sections().AddStudent(ctx, sec.ID, studentID, now); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Section{}, ErrStudentPlaced
		}
		return domain.Section{}, transient(err)
	}

	slogx.FromContext(ctx).Info("student added to section",
		slog.String("section_id", sec.ID),
		slog.String("student_id", studentID),
	)
	sec.StudentIDs = append(sec.StudentIDs, studentID)
	sec.UpdatedAt = now
	return sec, nil
}

func (s *SectionService) RemoveStudent(ctx context.Context, actor Actor, sectionID, studentID string) (domain.Section, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return domain.Section{}, err
	}

	sec, err := s.getSection(ctx, sectionID)
	if err != nil {
		return domain.Section{}, err
	}
	if err := s.Store.Sections().RemoveStudent(ctx, sec.ID, studentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Section{}, ErrNotInSection
		}
		return domain.Section{}, transient(err)
	}

	slogx.FromContext(ctx).Info("student removed from section",
		slog.String("section_id", sec.ID),
		slog.String("student_id", studentID),
	)
	kept := sec.StudentIDs[:0]
	for _, id := range sec.StudentIDs {
		if id != studentID {
			kept = append(kept, id)
		}
	}
	sec.StudentIDs = kept
	return sec, nil
}

// List returns every section with its teacher and students resolved.
func (s *SectionService) List(ctx context.Context, actor Actor) ([]domain.SectionDetail, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	secs, err := s.Store.Sections().ListSections(ctx)
	if err != nil {
		return nil, transient(err)
	}
	return s.detail(ctx, secs)
}

// ListMine returns the sections the calling teacher runs.
func (s *SectionService) ListMine(ctx context.Context, actor Actor) ([]domain.SectionDetail, error) {
	if err := requireRole(actor, domain.RoleTeacher); err != nil {
		return nil, err
	}
	secs, err := s.Store.Sections().ListSectionsByTeacher(ctx, actor.ID)
	if err != nil {
		return nil, transient(err)
	}
	return s.detail(ctx, secs)
}

func (s *SectionService) detail(ctx context.Context, secs []domain.Section) ([]domain.SectionDetail, error) {
	accs, err := s.Store.Accounts().ListAccounts(ctx)
	if err != nil {
		return nil, transient(err)
	}
	byID := make(map[string]domain.AccountSummary, len(accs))
	for _, a := range accs {
		byID[a.ID] = domain.AccountSummary{ID: a.ID, Email: a.Email, Role: a.Role}
	}

	out := make([]domain.SectionDetail, 0, len(secs))
	for _, sec := range secs {
		d := domain.SectionDetail{
			Section:  sec,
			Teacher:  byID[sec.TeacherID],
			Students: make([]domain.AccountSummary, 0, len(sec.StudentIDs)),
		}
		for _, id := range sec.StudentIDs {
			if sum, ok := byID[id]; ok {
				d.Students = append(d.Students, sum)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *SectionService) getSection(ctx context.Context, id string) (domain.Section, error) {
	sec, err := s.Store.Sections().GetSectionByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Section{}, ErrSectionNotFound
	}
	return sec, transient(err)
}

// checkMember requires an approved account holding role.
func (s *SectionService) checkMember(ctx context.Context, id string, role domain.Role, invalid *Error) error {
	if id == "" {
		return invalid
	}
	acc, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return invalid
	}
	if err != nil {
		return transient(err)
	}
	if acc.Role != role || !acc.Approved {
		return invalid
	}
	return nil
}
