package http

import (
	"net/http"

	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/pkg/castsdk"
	"github.com/aussiebroadwan/castrack/pkg/httpx"
)

type SectionHandler struct {
	SectionService *service.SectionService
}

// HandleList godoc
//
//	@Summary		List all sections
//	@Tags			Sections
//	@Produce		json
//	@Success		200	{array}		castsdk.Section
//	@Failure		401	{object}	castsdk.ErrorResponse
//	@Failure		403	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin/sections [get].
func (h *SectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	secs, err := h.SectionService.List(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentSectionDetails(secs))
}

// HandleListMine godoc
//
//	@Summary		List the caller's sections
//	@Tags			Sections
//	@Produce		json
//	@Success		200	{array}		castsdk.Section
//	@Failure		401	{object}	castsdk.ErrorResponse
//	@Failure		403	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/teacher/sections [get].
func (h *SectionHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	secs, err := h.SectionService.ListMine(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentSectionDetails(secs))
}

// HandleCreate godoc
//
//	@Summary		Create a section
//	@Tags			Sections
//	@Accept			json
//	@Produce		json
//	@Param			request	body		castsdk.CreateSectionRequest	true	"Name and teacher"
//	@Success		201		{object}	castsdk.Section
//	@Failure		400		{object}	castsdk.ErrorResponse	"duplicate name or invalid teacher"
//	@Failure		403		{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin/create-section [post].
func (h *SectionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req castsdk.CreateSectionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	sec, err := h.SectionService.Create(r.Context(), actorFrom(r), req.Name, req.TeacherID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, presentSection(sec))
}

// HandleAddStudent godoc
//
//	@Summary		Add a student to a section
//	@Description	Adding a student already in the section is a no-op. A student belongs to at most one section.
//	@Tags			Sections
//	@Accept			json
//	@Produce		json
//	@Param			request	body		castsdk.SectionStudentRequest	true	"Section and student"
//	@Success		200		{object}	castsdk.Section
//	@Failure		400		{object}	castsdk.ErrorResponse
//	@Failure		404		{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin/add-student-to-section [post].
func (h *SectionHandler) HandleAddStudent(w http.ResponseWriter, r *http.Request) {
	var req castsdk.SectionStudentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	sec, err := h.SectionService.AddStudent(r.Context(), actorFrom(r), req.SectionID, req.StudentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentSection(sec))
}

// HandleRemoveStudent godoc
//
//	@Summary		Remove a student from a section
//	@Tags			Sections
//	@Accept			json
//	@Produce		json
//	@Param			request	body		castsdk.SectionStudentRequest	true	"Section and student"
//	@Success		200		{object}	castsdk.Section
//	@Failure		404		{object}	castsdk.ErrorResponse	"unknown section or student not in it"
//	@Security		BearerAuth
//	@Router			/api/admin/remove-student-from-section [post].
func (h *SectionHandler) HandleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	var req castsdk.SectionStudentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	sec, err := h.SectionService.RemoveStudent(r.Context(), actorFrom(r), req.SectionID, req.StudentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentSection(sec))
}

// HandleAssignTeacher godoc
//
//	@Summary		Replace a section's teacher
//	@Tags			Sections
//	@Accept			json
//	@Produce		json
//	@Param			request	body		castsdk.AssignTeacherRequest	true	"Section and teacher"
//	@Success		200		{object}	castsdk.Section
//	@Failure		400		{object}	castsdk.ErrorResponse	"invalid teacher"
//	@Failure		404		{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin/assign-teacher-to-section [post].
func (h *SectionHandler) HandleAssignTeacher(w http.ResponseWriter, r *http.Request) {
	var req castsdk.AssignTeacherRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	sec, err := h.SectionService.AssignTeacher(r.Context(), actorFrom(r), req.SectionID, req.TeacherID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentSection(sec))
}
