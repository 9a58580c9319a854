package domain

import "time"

type Section struct {
	ID         string
	Name       string
	TeacherID  string
	StudentIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasStudent reports whether id is a member of the section.
func (s Section) HasStudent(id string) bool {
	for _, sid := range s.StudentIDs {
		if sid == id {
			return true
		}
	}
	return false
}

// AccountSummary is the part of an account shown alongside sections.
type AccountSummary struct {
	ID    string
	Email string
	Role  Role
}

// SectionDetail is a section with its teacher and students resolved.
type SectionDetail struct {
	Section
	Teacher  AccountSummary
	Students []AccountSummary
}
