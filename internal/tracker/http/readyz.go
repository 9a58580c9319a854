package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/evidence"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/pkg/castsdk"
	"github.com/aussiebroadwan/castrack/pkg/httpx"
	"github.com/aussiebroadwan/castrack/pkg/jwtx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe with the state of the database, the credential signer and evidence storage
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	castsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	castsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	signer jwtx.Signer,
	storage evidence.Storage,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &castsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
			Evidence: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		fail := func(field *string, msg string) {
			*field = "error: " + msg
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := st.Ping(r.Context()); err != nil {
			fail(&checks.Database, err.Error())
		}

		if signer == nil {
			fail(&checks.Signer, "no signer configured")
		} else if err := signer.Validate(); err != nil {
			fail(&checks.Signer, err.Error())
		}

		if p, ok := storage.(evidence.Pinger); ok {
			if err := p.Ping(r.Context()); err != nil {
				fail(&checks.Evidence, err.Error())
			}
		}

		httpx.WriteJSON(w, statusCode, castsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
