package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateSection(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	teacher := f.member(t, "teach@fountainheadschools.org", domain.RoleTeacher)
	student := f.member(t, "learn@fountainheadschools.org", domain.RoleStudent)
	unapproved, err := f.Accounts.Signup(ctx, "wait@fountainheadschools.org", testPassword)
	require.NoError(t, err)

	t.Run("teacher must be an approved teacher", func(t *testing.T) {
		for _, id := range []string{student.ID, unapproved.ID, "missing", ""} {
			_, err := f.Sections.Create(ctx, f.Admin, "10A", id)
			require.ErrorIs(t, err, ErrInvalidTeacher, id)
			require.Equal(t, KindValidation, KindOf(err))
		}
	})

	t.Run("admin only", func(t *testing.T) {
		_, err := f.Sections.Create(ctx, teacher, "10A", teacher.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("name is required and unique", func(t *testing.T) {
		_, err := f.Sections.Create(ctx, f.Admin, "  ", teacher.ID)
		require.ErrorIs(t, err, ErrInvalidInput)

		sec, err := f.Sections.Create(ctx, f.Admin, "10A", teacher.ID)
		require.NoError(t, err)
		require.Equal(t, teacher.ID, sec.TeacherID)

		_, err = f.Sections.Create(ctx, f.Admin, "10A", teacher.ID)
		require.ErrorIs(t, err, ErrSectionExists)
	})
}

func TestSectionMembership(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	teacher, student, sec := f.classroom(t, "11B")
	other, err := f.Sections.Create(ctx, f.Admin, "11C", teacher.ID)
	require.NoError(t, err)

	t.Run("adding to the same section is idempotent", func(t *testing.T) {
		got, err := f.Sections.AddStudent(ctx, f.Admin, sec.ID, student.ID)
		require.NoError(t, err)
		require.Equal(t, []string{student.ID}, got.StudentIDs)
	})

	t.Run("a student cannot join a second section", func(t *testing.T) {
		_, err := f.Sections.AddStudent(ctx, f.Admin, other.ID, student.ID)
		require.ErrorIs(t, err, ErrStudentPlaced)
		require.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("only students can be added", func(t *testing.T) {
		_, err := f.Sections.AddStudent(ctx, f.Admin, other.ID, teacher.ID)
		require.ErrorIs(t, err, ErrInvalidStudent)
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := f.Sections.AddStudent(ctx, f.Admin, "missing", student.ID)
		require.ErrorIs(t, err, ErrSectionNotFound)
	})

	t.Run("remove then move", func(t *testing.T) {
		_, err := f.Sections.RemoveStudent(ctx, f.Admin, other.ID, student.ID)
		require.ErrorIs(t, err, ErrNotInSection)

		got, err := f.Sections.RemoveStudent(ctx, f.Admin, sec.ID, student.ID)
		require.NoError(t, err)
		require.Empty(t, got.StudentIDs)

		got, err = f.Sections.AddStudent(ctx, f.Admin, other.ID, student.ID)
		require.NoError(t, err)
		require.Equal(t, []string{student.ID}, got.StudentIDs)
	})
}

func TestAssignTeacherAndList(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, student, sec := f.classroom(t, "12A")
	second := f.member(t, "second@fountainheadschools.org", domain.RoleTeacher)

	_, err := f.Sections.AssignTeacher(ctx, f.Admin, sec.ID, student.ID)
	require.ErrorIs(t, err, ErrInvalidTeacher)

	got, err := f.Sections.AssignTeacher(ctx, f.Admin, sec.ID, second.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, got.TeacherID)

	mine, err := f.Sections.ListMine(ctx, first)
	require.NoError(t, err)
	require.Empty(t, mine)

	mine, err = f.Sections.ListMine(ctx, second)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "second@fountainheadschools.org", mine[0].Teacher.Email)
	require.Len(t, mine[0].Students, 1)
	require.Equal(t, student.ID, mine[0].Students[0].ID)

	all, err := f.Sections.List(ctx, f.Admin)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "12A", all[0].Name)

	_, err = f.Sections.List(ctx, second)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.Sections.ListMine(ctx, f.Admin)
	require.ErrorIs(t, err, ErrForbidden)
}
