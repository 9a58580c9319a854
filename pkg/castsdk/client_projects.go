package castsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// File is one evidence attachment.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

func (c *Client) MyProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/student/projects", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MyStats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.doJSON(ctx, http.MethodGet, "/api/student/stats", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitProject creates a project with its evidence files.
func (c *Client) SubmitProject(ctx context.Context, data ProjectData, files []File) (*Project, error) {
	return c.sendProject(ctx, http.MethodPost, "/api/student/submit-project", data, files, http.StatusCreated)
}

// ResubmitProject replaces a denied project and its evidence.
func (c *Client) ResubmitProject(ctx context.Context, id string, data ProjectData, files []File) (*Project, error) {
	return c.sendProject(ctx, http.MethodPut, "/api/student/projects/"+url.PathEscape(id), data, files, http.StatusOK)
}

func (c *Client) sendProject(ctx context.Context, method, path string, data ProjectData, files []File, expected int) (*Project, error) {
	body, contentType, err := projectBody(data, files)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, method, path, body, map[string]string{"Content-Type": contentType})
	if err != nil {
		return nil, err
	}

	var out Project
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, err
	}
	return &out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func projectBody(data ProjectData, files []File) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode project: %w", err)
	}
	if err := mw.WriteField("data", string(raw)); err != nil {
		return nil, "", err
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="evidence"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to copy %s: %w", f.Name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// Project fetches one project visible to the caller.
func (c *Client) Project(ctx context.Context, id string) (*Project, error) {
	var out Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TeacherSections(ctx context.Context) ([]Section, error) {
	var out []Section
	if err := c.doJSON(ctx, http.MethodGet, "/api/teacher/sections", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// TeacherProjects lists projects from the caller's sections. An empty
// status lists all of them.
func (c *Client) TeacherProjects(ctx context.Context, status string) ([]Project, error) {
	path := "/api/teacher/projects"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var out []Project
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// ReviewProject approves or denies a pending project.
func (c *Client) ReviewProject(ctx context.Context, id, decision, comments string) (*Project, error) {
	var out Project
	err := c.doJSON(ctx, http.MethodPost, "/api/teacher/review-project/"+url.PathEscape(id),
		ReviewRequest{Decision: decision, Comments: comments}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveProject is the approve-only form of ReviewProject.
func (c *Client) ApproveProject(ctx context.Context, id, comments string) (*Project, error) {
	var out Project
	err := c.doJSON(ctx, http.MethodPost, "/api/teacher/approve-project/"+url.PathEscape(id),
		ApproveProjectRequest{TeacherComments: comments}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Evidence downloads an evidence file by the URL path found on a Project.
func (c *Client) Evidence(ctx context.Context, urlPath string) ([]byte, string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, urlPath, nil, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", parseErrorResponse(resp, body)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
