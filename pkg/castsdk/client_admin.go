package castsdk

import (
	"context"
	"net/http"
	"net/url"
)

// PendingAccounts lists accounts waiting for approval.
func (c *Client) PendingAccounts(ctx context.Context) ([]Account, error) {
	var out []Account
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/users", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AllAccounts(ctx context.Context) ([]Account, error) {
	var out []Account
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/all-users", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Approve approves an account as "teacher" or "student".
func (c *Client) Approve(ctx context.Context, accountID, role string) (*Account, error) {
	var out Account
	err := c.doJSON(ctx, http.MethodPost, "/api/admin/approve/"+url.PathEscape(accountID),
		ApproveRequest{Role: role}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Deactivate(ctx context.Context, accountID string) (*Account, error) {
	var out Account
	err := c.doJSON(ctx, http.MethodPost, "/api/admin/deactivate/"+url.PathEscape(accountID), nil, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Reactivate(ctx context.Context, accountID string) (*Account, error) {
	var out Account
	err := c.doJSON(ctx, http.MethodPost, "/api/admin/reactivate/"+url.PathEscape(accountID), nil, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var out []Section
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/sections", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSection(ctx context.Context, name, teacherID string) (*Section, error) {
	var out Section
	err := c.doJSON(ctx, http.MethodPost, "/api/admin/create-section",
		CreateSectionRequest{Name: name, TeacherID: teacherID}, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddStudentToSection(ctx context.Context, sectionID, studentID string) (*Section, error) {
	return c.sectionChange(ctx, "/api/admin/add-student-to-section",
		SectionStudentRequest{SectionID: sectionID, StudentID: studentID})
}

func (c *Client) RemoveStudentFromSection(ctx context.Context, sectionID, studentID string) (*Section, error) {
	return c.sectionChange(ctx, "/api/admin/remove-student-from-section",
		SectionStudentRequest{SectionID: sectionID, StudentID: studentID})
}

func (c *Client) AssignTeacherToSection(ctx context.Context, sectionID, teacherID string) (*Section, error) {
	return c.sectionChange(ctx, "/api/admin/assign-teacher-to-section",
		AssignTeacherRequest{SectionID: sectionID, TeacherID: teacherID})
}

func (c *Client) sectionChange(ctx context.Context, path string, in any) (*Section, error) {
	var out Section
	if err := c.doJSON(ctx, http.MethodPost, path, in, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
