package http

import (
	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/pkg/castsdk"
)

const uploadsPrefix = "/uploads/"

func presentAccount(a domain.Account) castsdk.Account {
	return castsdk.Account{
		ID:        a.ID,
		Email:     a.Email,
		Role:      string(a.Role),
		Approved:  a.Approved,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func presentAccounts(accs []domain.Account) []castsdk.Account {
	out := make([]castsdk.Account, len(accs))
	for i, a := range accs {
		out[i] = presentAccount(a)
	}
	return out
}

func presentSummary(s domain.AccountSummary) castsdk.AccountSummary {
	return castsdk.AccountSummary{ID: s.ID, Email: s.Email, Role: string(s.Role)}
}

func presentSectionDetail(d domain.SectionDetail) castsdk.Section {
	out := castsdk.Section{
		ID:        d.ID,
		Name:      d.Name,
		Teacher:   presentSummary(d.Teacher),
		Students:  make([]castsdk.AccountSummary, len(d.Students)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if out.Teacher.ID == "" {
		out.Teacher.ID = d.TeacherID
	}
	for i, s := range d.Students {
		out.Students[i] = presentSummary(s)
	}
	return out
}

func presentSectionDetails(ds []domain.SectionDetail) []castsdk.Section {
	out := make([]castsdk.Section, len(ds))
	for i, d := range ds {
		out[i] = presentSectionDetail(d)
	}
	return out
}

// presentSection is used after a mutation, when only ids are at hand.
func presentSection(s domain.Section) castsdk.Section {
	out := castsdk.Section{
		ID:        s.ID,
		Name:      s.Name,
		Teacher:   castsdk.AccountSummary{ID: s.TeacherID},
		Students:  make([]castsdk.AccountSummary, len(s.StudentIDs)),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for i, id := range s.StudentIDs {
		out.Students[i] = castsdk.AccountSummary{ID: id}
	}
	return out
}

func presentProject(s domain.Submission) castsdk.Project {
	cats := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		cats[i] = string(c)
	}

	out := castsdk.Project{
		ID:        s.ID,
		StudentID: s.StudentID,
		SectionID: s.SectionID,
		ProjectData: castsdk.ProjectData{
			Title:            s.Title,
			Description:      s.Description,
			Categories:       cats,
			Location:         s.Location,
			StartDate:        s.StartDate.Format("2006-01-02"),
			EndDate:          s.EndDate.Format("2006-01-02"),
			LearningOutcomes: s.LearningOutcomes,
			UNGoals:          s.UNGoals,
			Investigation:    s.Investigation,
			LearnerProfile:   s.LearnerProfile,
			SupervisorName:   s.SupervisorName,
			Progress:         s.Progress,
		},
		Status:          string(s.ReviewStatus),
		TeacherComments: s.ReviewComments,
		ReviewedAt:      s.ReviewedAt,
		Evidence:        make([]castsdk.Evidence, len(s.Evidence)),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.ReviewedBy != nil {
		out.ReviewedBy = *s.ReviewedBy
	}
	for i, e := range s.Evidence {
		out.Evidence[i] = castsdk.Evidence{
			ID:           e.ID,
			URL:          uploadsPrefix + e.ObjectKey,
			OriginalName: e.OriginalName,
			MimeType:     e.MimeType,
			Size:         e.Size,
		}
	}
	return out
}

func presentProjects(subs []domain.Submission) []castsdk.Project {
	out := make([]castsdk.Project, len(subs))
	for i, s := range subs {
		out[i] = presentProject(s)
	}
	return out
}

func presentStats(s domain.SubmissionStats) castsdk.Stats {
	out := castsdk.Stats{
		Total:      s.Total,
		ByCategory: make(map[string]int, len(s.ByCategory)),
		ByStatus:   make(map[string]int, len(s.ByStatus)),
	}
	for k, v := range s.ByCategory {
		out.ByCategory[string(k)] = v
	}
	for k, v := range s.ByStatus {
		out.ByStatus[string(k)] = v
	}
	return out
}
