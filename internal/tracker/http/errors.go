package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/pkg/httpx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
)

// statusFor maps a failure kind to its HTTP status. Conflicts are 400
// because existing clients treat "User already exists" as a bad request.
func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation, service.KindPolicy, service.KindConflict:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError answers with the typed error's code and message.
// Anything untyped or transient is logged and hidden behind server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var se *service.Error
	if !errors.As(err, &se) || se.Kind == service.KindTransient {
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, service.ErrServer.Code, service.ErrServer.Message)
		return
	}
	httpx.WriteError(w, statusFor(se.Kind), se.Code, se.Message, se.Details...)
}

// actorFrom reads the caller set by httpx.AuthnMiddleware.
func actorFrom(r *http.Request) service.Actor {
	ctx := r.Context()
	return service.Actor{
		ID:   httpx.AccountID(ctx),
		Role: domain.Role(httpx.Role(ctx)),
	}
}
