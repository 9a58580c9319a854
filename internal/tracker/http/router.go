package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/evidence"
	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/pkg/httpx"
	"github.com/aussiebroadwan/castrack/pkg/jwtx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"

	_ "github.com/aussiebroadwan/castrack/api/castrack" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limits are the rate limit profiles applied per route group.
type Limits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
}

// DefaultLimits returns the process wide profiles from httpx.
func DefaultLimits() Limits {
	return Limits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	signer       jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	storage evidence.Storage

	// Limits must be set before ApplyRoutes.
	Limits Limits

	// MaxUploadBytes caps a multipart submission. Zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64

	AccountService    *service.AccountService
	RecoveryService   *service.RecoveryService
	SectionService    *service.SectionService
	SubmissionService *service.SubmissionService
}

func NewRouter(
	verifier jwtx.Verifier,
	signer jwtx.Signer,
	buildVersion string,
	st store.Store,
	storage evidence.Storage,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		signer:       signer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		storage:      storage,
		logger:       logger,
		Limits:       DefaultLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerStudent()
	r.registerTeacher()
	r.registerShared()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CAS Tracker API
//	@version		0.1.0
//	@description	Account, section and project review service for tracking Creativity, Activity and Service experiences.
//	@description
//	@description				Credentials are HS256 signed JWTs returned by the login endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/castrack
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT credential. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with authentication, a role gate and a per account limit.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig, roles ...domain.Role) http.Handler {
	mws := []httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}
	if len(roles) > 0 {
		mws = append(mws, httpx.RequireRole(roles...))
	}
	mws = append(mws, httpx.RateLimitByAccount(limit))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AccountService:  r.AccountService,
		RecoveryService: r.RecoveryService,
	}

	// Credential endpoints are limited per IP and per submitted email.
	strict := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "email"))
	}

	r.Mux.Handle("POST /api/auth/signup", strict(h.HandleSignup))
	r.Mux.Handle("POST /api/auth/login", strict(h.HandleLogin))
	r.Mux.Handle("POST /api/auth/forgot-password", strict(h.HandleForgotPassword))
	r.Mux.Handle("POST /api/auth/verify-otp", strict(h.HandleVerifyOTP))
	r.Mux.Handle("POST /api/auth/reset-password", strict(h.HandleResetPassword))

	r.Mux.Handle("GET /api/auth/me", r.secured(h.HandleMe, r.Limits.Lenient))
}

func (r *Router) registerAdmin() {
	a := &AdminHandler{AccountService: r.AccountService}
	s := &SectionHandler{SectionService: r.SectionService}

	admin := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return r.secured(fn, limit, domain.RoleAdmin)
	}

	r.Mux.Handle("GET /api/admin/users", admin(a.HandlePending, r.Limits.Lenient))
	r.Mux.Handle("GET /api/admin/all-users", admin(a.HandleList, r.Limits.Lenient))
	r.Mux.Handle("POST /api/admin/approve/{id}", admin(a.HandleApprove, r.Limits.Moderate))
	r.Mux.Handle("POST /api/admin/deactivate/{id}", admin(a.HandleDeactivate, r.Limits.Moderate))
	r.Mux.Handle("POST /api/admin/reactivate/{id}", admin(a.HandleReactivate, r.Limits.Moderate))

	r.Mux.Handle("GET /api/admin/sections", admin(s.HandleList, r.Limits.Lenient))
	r.Mux.Handle("POST /api/admin/create-section", admin(s.HandleCreate, r.Limits.Moderate))
	r.Mux.Handle("POST /api/admin/add-student-to-section", admin(s.HandleAddStudent, r.Limits.Moderate))
	r.Mux.Handle("POST /api/admin/remove-student-from-section", admin(s.HandleRemoveStudent, r.Limits.Moderate))
	r.Mux.Handle("POST /api/admin/assign-teacher-to-section", admin(s.HandleAssignTeacher, r.Limits.Moderate))
}

func (r *Router) registerStudent() {
	h := &ProjectHandler{
		SubmissionService: r.SubmissionService,
		MaxUploadBytes:    r.MaxUploadBytes,
	}

	student := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return r.secured(fn, limit, domain.RoleStudent)
	}

	r.Mux.Handle("GET /api/student/projects", student(h.HandleListMine, r.Limits.Lenient))
	r.Mux.Handle("GET /api/student/stats", student(h.HandleStats, r.Limits.Lenient))
	r.Mux.Handle("POST /api/student/submit-project", student(h.HandleSubmit, r.Limits.Moderate))
	r.Mux.Handle("PUT /api/student/projects/{id}", student(h.HandleResubmit, r.Limits.Moderate))
}

func (r *Router) registerTeacher() {
	p := &ProjectHandler{SubmissionService: r.SubmissionService}
	s := &SectionHandler{SectionService: r.SectionService}

	teacher := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return r.secured(fn, limit, domain.RoleTeacher)
	}

	r.Mux.Handle("GET /api/teacher/sections", teacher(s.HandleListMine, r.Limits.Lenient))
	r.Mux.Handle("GET /api/teacher/projects", teacher(p.HandleListForTeacher, r.Limits.Lenient))
	r.Mux.Handle("POST /api/teacher/review-project/{id}", teacher(p.HandleReview, r.Limits.Moderate))
	r.Mux.Handle("POST /api/teacher/approve-project/{id}", teacher(p.HandleApprove, r.Limits.Moderate))
}

func (r *Router) registerShared() {
	p := &ProjectHandler{SubmissionService: r.SubmissionService}
	u := &UploadHandler{SubmissionService: r.SubmissionService}

	r.Mux.Handle("GET /api/projects/{id}", r.secured(p.HandleGet, r.Limits.Lenient))

	// Evidence URLs are public and embedded directly in pages.
	r.Mux.Handle("GET /uploads/{key}",
		httpx.Chain(u, httpx.RateLimitByIP(r.Limits.Lenient)),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /api",
		httpx.Chain(WelcomeHandler(), httpx.RateLimitByIP(r.Limits.Lenient)),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer, r.storage),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}
