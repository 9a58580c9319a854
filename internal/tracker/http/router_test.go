package http_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/evidence"
	trackerhttp "github.com/aussiebroadwan/castrack/internal/tracker/http"
	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/internal/tracker/store/drivers/sqlite"
	"github.com/aussiebroadwan/castrack/pkg/castsdk"
	"github.com/aussiebroadwan/castrack/pkg/cryptox"
	"github.com/aussiebroadwan/castrack/pkg/httpx"
	"github.com/aussiebroadwan/castrack/pkg/jwtx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail = "admin@fountainheadschools.org"
	testPassword   = "Passw0rd!"
	testSecret     = "0123456789abcdef0123456789abcdef"
	testIssuer     = "castrack-test"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-pepper")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

var roomy = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}

type server struct {
	URL     string
	Store   *sqlite.Store
	Storage *evidence.Disk
	Anon    *castsdk.Client
	Admin   *castsdk.Client
}

func newServer(t *testing.T, configure ...func(*trackerhttp.Router)) *server {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	disk, err := evidence.NewDisk(t.TempDir())
	require.NoError(t, err)

	signer, err := jwtx.NewSignerHS256("test", []byte(testSecret))
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256([]byte(testSecret), testIssuer)

	outbox := &service.OutboxService{}
	boot := &service.BootstrapService{Store: st}
	_, err = boot.EnsureAdmin(ctx, testAdminEmail, testPassword)
	require.NoError(t, err)

	r := trackerhttp.NewRouter(verifier, signer, "test", st, disk, slogx.Discard())
	r.Limits = trackerhttp.Limits{Strict: roomy, Moderate: roomy, Lenient: roomy}
	r.AccountService = &service.AccountService{Store: st, Outbox: outbox, Signer: signer, Issuer: testIssuer}
	r.RecoveryService = &service.RecoveryService{Store: st, Outbox: outbox, AdminEmail: testAdminEmail}
	r.SectionService = &service.SectionService{Store: st}
	r.SubmissionService = &service.SubmissionService{Store: st, Storage: disk, Outbox: outbox}
	for _, fn := range configure {
		fn(r)
	}
	r.ApplyRoutes()

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	s := &server{
		URL:     ts.URL,
		Store:   st,
		Storage: disk,
		Anon:    castsdk.NewClient(ts.URL),
	}
	s.Admin = s.login(t, testAdminEmail, testPassword)
	return s
}

func (s *server) login(t *testing.T, email, password string) *castsdk.Client {
	t.Helper()
	res, err := s.Anon.Login(context.Background(), email, password)
	require.NoError(t, err)
	return s.Anon.WithToken(res.Token)
}

// member signs up, gets approved with role and logs in.
func (s *server) member(t *testing.T, email string, role domain.Role) (*castsdk.Client, string) {
	t.Helper()
	ctx := context.Background()

	res, err := s.Anon.Signup(ctx, email, testPassword)
	require.NoError(t, err)
	_, err = s.Admin.Approve(ctx, res.ID, string(role))
	require.NoError(t, err)
	return s.login(t, email, testPassword), res.ID
}

// classroom returns a teacher and a student placed in one section.
func (s *server) classroom(t *testing.T, name string) (teacher, student *castsdk.Client, sec *castsdk.Section) {
	t.Helper()
	ctx := context.Background()

	teacher, teacherID := s.member(t, name+"-teacher@fountainheadschools.org", domain.RoleTeacher)
	student, studentID := s.member(t, name+"-student@fountainheadschools.org", domain.RoleStudent)

	sec, err := s.Admin.CreateSection(ctx, name, teacherID)
	require.NoError(t, err)
	sec, err = s.Admin.AddStudentToSection(ctx, sec.ID, studentID)
	require.NoError(t, err)
	return teacher, student, sec
}

var otpPattern = regexp.MustCompile(`\b\d{6}\b`)

func (s *server) latestOTP(t *testing.T, email string) string {
	t.Helper()
	rows, err := s.Store.Notifications().ListNotificationsByRecipient(context.Background(), email)
	require.NoError(t, err)
	for _, n := range rows {
		if n.Kind == domain.NotifyPasswordResetCode {
			code := otpPattern.FindString(n.Body)
			require.NotEmpty(t, code)
			return code
		}
	}
	t.Fatalf("no reset code queued for %s", email)
	return ""
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var apiErr *castsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	if code != "" {
		require.Equal(t, code, apiErr.Code)
	}
}

func validProject() castsdk.ProjectData {
	return castsdk.ProjectData{
		Title:            "Beach clean-up",
		Description:      "Collected rubbish along the shore every Saturday",
		Categories:       []string{"Service"},
		Location:         "Outside",
		StartDate:        "2025-01-10",
		EndDate:          "2025-03-10",
		LearningOutcomes: []string{"LO1", "LO5"},
		UNGoals:          []string{"Life Below Water"},
		Investigation:    "Local council data on litter",
		LearnerProfile:   "Caring",
		SupervisorName:   "Ms Smith",
		Progress:         "In progress",
	}
}

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake image body")

func pngFile(name string) castsdk.File {
	return castsdk.File{Name: name, ContentType: "image/png", Content: bytes.NewReader(pngBytes)}
}

func TestSystemEndpoints(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()

	live, err := s.Anon.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.Anon.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Signer)
	require.Equal(t, "ok", ready.Checks.Evidence)

	resp, err := http.Get(s.URL + "/api")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadinessReportsMissingStorage(t *testing.T) {
	t.Parallel()
	s := newServer(t)

	require.NoError(t, os.RemoveAll(s.Storage.Root))

	_, err := s.Anon.GetReadiness(context.Background())
	requireAPIError(t, err, http.StatusServiceUnavailable, "")
}

func TestAuthenticationErrors(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()

	_, err := s.Anon.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, "unauthenticated")

	_, err = s.Anon.WithToken("not-a-jwt").Me(ctx)
	requireAPIError(t, err, http.StatusBadRequest, "invalid_token")

	student, _ := s.member(t, "rolecheck@fountainheadschools.org", domain.RoleStudent)
	_, err = student.AllAccounts(ctx)
	requireAPIError(t, err, http.StatusForbidden, "forbidden")

	_, err = s.Admin.MyProjects(ctx)
	requireAPIError(t, err, http.StatusForbidden, "forbidden")
}
