package http

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/pkg/castsdk"
	"github.com/aussiebroadwan/castrack/pkg/httpx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
)

// DefaultMaxUploadBytes caps one multipart submission including evidence.
const DefaultMaxUploadBytes = 256 << 20

// Parts larger than this spill to temporary files.
const multipartMemory = 32 << 20

type ProjectHandler struct {
	SubmissionService *service.SubmissionService
	MaxUploadBytes    int64
}

func (h *ProjectHandler) maxUpload() int64 {
	if h.MaxUploadBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return h.MaxUploadBytes
}

// HandleListMine godoc
//
//	@Summary		List the caller's projects
//	@Description	Newest first.
//	@Tags			Student
//	@Produce		json
//	@Success		200	{array}		castsdk.Project
//	@Failure		401	{object}	castsdk.ErrorResponse
//	@Failure		403	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/student/projects [get].
func (h *ProjectHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	subs, err := h.SubmissionService.ListMine(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentProjects(subs))
}

// HandleStats godoc
//
//	@Summary		Project counts for the caller
//	@Tags			Student
//	@Produce		json
//	@Success		200	{object}	castsdk.Stats
//	@Failure		401	{object}	castsdk.ErrorResponse
//	@Failure		403	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/student/stats [get].
func (h *ProjectHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.SubmissionService.Stats(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentStats(stats))
}

// HandleSubmit godoc
//
//	@Summary		Submit a project
//	@Description	Multipart body with a "data" part holding the project as JSON and up to seven "evidence" files (at most five images and two videos).
//	@Tags			Student
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			data		formData	string	true	"castsdk.ProjectData as JSON"
//	@Param			evidence	formData	file	false	"Evidence file, repeatable"
//	@Success		201			{object}	castsdk.Project
//	@Failure		400			{object}	castsdk.ErrorResponse	"invalid project or evidence"
//	@Failure		403			{object}	castsdk.ErrorResponse	"no section"
//	@Failure		413			{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/student/submit-project [post].
func (h *ProjectHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	in, files, cleanup, ok := h.readSubmission(w, r)
	if !ok {
		return
	}
	defer cleanup()

	sub, err := h.SubmissionService.Create(r.Context(), actorFrom(r), in, files)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, presentProject(sub))
}

// HandleResubmit godoc
//
//	@Summary		Edit a denied project
//	@Description	Replaces the content and evidence of a denied project and returns it to pending.
//	@Tags			Student
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id			path		string	true	"Project ID"
//	@Param			data		formData	string	true	"castsdk.ProjectData as JSON"
//	@Param			evidence	formData	file	false	"Evidence file, repeatable"
//	@Success		200			{object}	castsdk.Project
//	@Failure		400			{object}	castsdk.ErrorResponse	"invalid project or not denied"
//	@Failure		404			{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/student/projects/{id} [put].
func (h *ProjectHandler) HandleResubmit(w http.ResponseWriter, r *http.Request) {
	in, files, cleanup, ok := h.readSubmission(w, r)
	if !ok {
		return
	}
	defer cleanup()

	sub, err := h.SubmissionService.Resubmit(r.Context(), actorFrom(r), r.PathValue("id"), in, files)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentProject(sub))
}

// HandleListForTeacher godoc
//
//	@Summary		List projects from the caller's sections
//	@Tags			Teacher
//	@Produce		json
//	@Param			status	query		string	false	"pending, approved or denied"
//	@Success		200		{array}		castsdk.Project
//	@Failure		400		{object}	castsdk.ErrorResponse	"unknown status"
//	@Failure		403		{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/teacher/projects [get].
func (h *ProjectHandler) HandleListForTeacher(w http.ResponseWriter, r *http.Request) {
	subs, err := h.SubmissionService.ListForTeacher(r.Context(), actorFrom(r), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentProjects(subs))
}

// HandleReview godoc
//
//	@Summary		Review a project
//	@Description	Approves or denies a pending project from one of the caller's sections and notifies the student.
//	@Tags			Teacher
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Project ID"
//	@Param			request	body		castsdk.ReviewRequest	true	"Decision and comments"
//	@Success		200		{object}	castsdk.Project
//	@Failure		400		{object}	castsdk.ErrorResponse	"invalid decision or already reviewed"
//	@Failure		403		{object}	castsdk.ErrorResponse	"not the section's teacher"
//	@Failure		404		{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/teacher/review-project/{id} [post].
func (h *ProjectHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req castsdk.ReviewRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}
	h.review(w, r, req.Decision, req.Comments)
}

// HandleApprove godoc
//
//	@Summary		Approve a project
//	@Description	Shorthand for a review with decision "approved". The body may be omitted.
//	@Tags			Teacher
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Project ID"
//	@Param			request	body		castsdk.ApproveProjectRequest	false	"Comments"
//	@Success		200		{object}	castsdk.Project
//	@Failure		400		{object}	castsdk.ErrorResponse	"already reviewed"
//	@Failure		403		{object}	castsdk.ErrorResponse
//	@Failure		404		{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/teacher/approve-project/{id} [post].
func (h *ProjectHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	var req castsdk.ApproveProjectRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}
	}
	h.review(w, r, "approved", req.TeacherComments)
}

func (h *ProjectHandler) review(w http.ResponseWriter, r *http.Request, decision, comments string) {
	sub, err := h.SubmissionService.Review(r.Context(), actorFrom(r), r.PathValue("id"), decision, comments)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentProject(sub))
}

// HandleGet godoc
//
//	@Summary		Fetch one project
//	@Description	Students see their own projects, teachers see projects from their sections and the administrator sees everything.
//	@Tags			Projects
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"
//	@Success		200	{object}	castsdk.Project
//	@Failure		403	{object}	castsdk.ErrorResponse
//	@Failure		404	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/projects/{id} [get].
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sub, err := h.SubmissionService.Get(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentProject(sub))
}

// readSubmission parses the multipart body. When ok is false the response
// has been written. cleanup closes the files and removes spilled parts.
func (h *ProjectHandler) readSubmission(w http.ResponseWriter, r *http.Request) (in service.ProjectInput, files []service.Upload, cleanup func(), ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Upload is too large")
			return in, nil, nil, false
		}
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Expected a multipart form")
		return in, nil, nil, false
	}
	form := r.MultipartForm

	var opened []multipart.File
	cleanup = func() {
		for _, f := range opened {
			_ = f.Close()
		}
		if err := form.RemoveAll(); err != nil {
			slogx.FromContext(r.Context()).Warn("failed to remove multipart temp files", "err", err)
		}
	}

	in, err := projectInput(form)
	if err != nil {
		cleanup()
		writeServiceError(w, r, err)
		return in, nil, nil, false
	}

	for _, fh := range form.File["evidence"] {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			writeServiceError(w, r, err)
			return in, nil, nil, false
		}
		opened = append(opened, f)
		files = append(files, service.Upload{
			Filename:    fh.Filename,
			ContentType: partContentType(fh),
			Reader:      f,
		})
	}

	return in, files, cleanup, true
}

// projectInput reads the "data" JSON part, or the individual form fields
// older clients send.
func projectInput(form *multipart.Form) (service.ProjectInput, error) {
	var in service.ProjectInput

	if data := firstValue(form, "data"); data != "" {
		if err := json.Unmarshal([]byte(data), &in); err != nil {
			return in, service.ErrInvalidInput.WithDetails("data: " + err.Error())
		}
		return in, nil
	}

	in.Title = firstValue(form, "title")
	in.Description = firstValue(form, "description")
	in.Location = firstValue(form, "location")
	in.Investigation = firstValue(form, "investigation")
	in.LearnerProfile = firstValue(form, "learnerProfile")
	in.SupervisorName = firstValue(form, "supervisorName")
	in.Progress = firstValue(form, "progress", "status")
	in.Categories = listValue(form, "categories", "category")
	in.LearningOutcomes = listValue(form, "learningOutcomes")
	in.UNGoals = listValue(form, "unGoals")

	var err error
	if in.StartDate, err = service.ParseDate(firstValue(form, "startDate")); err != nil {
		return in, service.ErrInvalidInput.WithDetails("startDate: " + err.Error())
	}
	if in.EndDate, err = service.ParseDate(firstValue(form, "endDate")); err != nil {
		return in, service.ErrInvalidInput.WithDetails("endDate: " + err.Error())
	}
	return in, nil
}

func firstValue(form *multipart.Form, names ...string) string {
	for _, n := range names {
		if v := form.Value[n]; len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return ""
}

// listValue accepts a repeated field or a single JSON array.
func listValue(form *multipart.Form, names ...string) []string {
	for _, n := range names {
		vals := form.Value[n]
		if len(vals) == 0 {
			continue
		}
		if len(vals) == 1 && strings.HasPrefix(strings.TrimSpace(vals[0]), "[") {
			var list []string
			if json.Unmarshal([]byte(vals[0]), &list) == nil {
				return list
			}
		}
		return vals
	}
	return nil
}

func partContentType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
			ct = byExt
		}
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}
