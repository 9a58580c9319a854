package http

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
)

type UploadHandler struct {
	SubmissionService *service.SubmissionService
}

// ServeHTTP godoc
//
//	@Summary		Download evidence
//	@Description	Streams an evidence file by the key in its URL. Keys are unguessable and the route is public.
//	@Tags			Projects
//	@Produce		octet-stream
//	@Param			key	path		string	true	"Object key"
//	@Success		200	{file}		file
//	@Failure		404	{object}	castsdk.ErrorResponse
//	@Router			/uploads/{key} [get].
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ev, err := h.SubmissionService.OpenEvidence(r.Context(), r.PathValue("key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	hdr := w.Header()
	hdr.Set("Content-Type", ev.MimeType)
	hdr.Set("X-Content-Type-Options", "nosniff")
	hdr.Set("Content-Security-Policy", "default-src 'none'; sandbox")
	hdr.Set("Cache-Control", "private, max-age=3600")
	if ev.Size > 0 {
		hdr.Set("Content-Length", strconv.FormatInt(ev.Size, 10))
	}
	if ev.OriginalName != "" {
		hdr.Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": ev.OriginalName}))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		slogx.FromContext(r.Context()).Warn("evidence download interrupted", "key", ev.ObjectKey, "err", err)
	}
}
