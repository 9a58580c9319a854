package http_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	trackerhttp "github.com/aussiebroadwan/castrack/internal/tracker/http"
	"github.com/aussiebroadwan/castrack/pkg/castsdk"
	"github.com/aussiebroadwan/castrack/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestSignupApprovalLogin(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()

	res, err := s.Anon.Signup(ctx, "New.Student@FountainheadSchools.org", testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)

	_, err = s.Anon.Login(ctx, "new.student@fountainheadschools.org", testPassword)
	requireAPIError(t, err, http.StatusForbidden, "not_approved")

	pending, err := s.Admin.PendingAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, res.ID, pending[0].ID)

	acc, err := s.Admin.Approve(ctx, res.ID, "student")
	require.NoError(t, err)
	require.True(t, acc.Approved)
	require.Equal(t, "student", acc.Role)

	login, err := s.Anon.Login(ctx, "new.student@fountainheadschools.org", testPassword)
	require.NoError(t, err)
	require.Equal(t, "student", login.Role)
	require.True(t, login.ExpiresAt.After(time.Now()))

	me, err := s.Anon.WithToken(login.Token).Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "new.student@fountainheadschools.org", me.Email)

	pending, err = s.Admin.PendingAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestSignupRejections(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()

	_, err := s.Anon.Signup(ctx, "someone@gmail.com", testPassword)
	requireAPIError(t, err, http.StatusBadRequest, "domain_rejected")

	_, err = s.Anon.Signup(ctx, "weak@fountainheadschools.org", "password")
	requireAPIError(t, err, http.StatusBadRequest, "weak_password")

	_, err = s.Anon.Signup(ctx, "not-an-email", testPassword)
	requireAPIError(t, err, http.StatusBadRequest, "validation_error")

	_, err = s.Anon.Signup(ctx, "twice@fountainheadschools.org", testPassword)
	require.NoError(t, err)
	_, err = s.Anon.Signup(ctx, "twice@fountainheadschools.org", testPassword)
	requireAPIError(t, err, http.StatusBadRequest, "email_taken")

	resp, err := http.Post(s.URL+"/api/auth/signup", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()

	_, err := s.Anon.Login(ctx, testAdminEmail, "Wr0ng!pass")
	requireAPIError(t, err, http.StatusBadRequest, "invalid_credentials")

	_, err = s.Anon.Login(ctx, "nobody@fountainheadschools.org", testPassword)
	requireAPIError(t, err, http.StatusBadRequest, "invalid_credentials")

	_, id := s.member(t, "leaver@fountainheadschools.org", domain.RoleTeacher)
	acc, err := s.Admin.Deactivate(ctx, id)
	require.NoError(t, err)
	require.False(t, acc.Active)

	_, err = s.Anon.Login(ctx, "leaver@fountainheadschools.org", testPassword)
	requireAPIError(t, err, http.StatusForbidden, "account_deactivated")

	_, err = s.Admin.Reactivate(ctx, id)
	require.NoError(t, err)
	_, err = s.Anon.Login(ctx, "leaver@fountainheadschools.org", testPassword)
	require.NoError(t, err)
}

func TestAdminAccountIsImmutable(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()

	me, err := s.Admin.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "admin", me.Role)

	_, err = s.Admin.Deactivate(ctx, me.ID)
	requireAPIError(t, err, http.StatusForbidden, "admin_immutable")

	_, err = s.Admin.Approve(ctx, me.ID, "student")
	requireAPIError(t, err, http.StatusForbidden, "admin_immutable")

	_, err = s.Admin.Approve(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV", "student")
	requireAPIError(t, err, http.StatusNotFound, "user_not_found")

	res, err := s.Anon.Signup(ctx, "role@fountainheadschools.org", testPassword)
	require.NoError(t, err)
	_, err = s.Admin.Approve(ctx, res.ID, "admin")
	requireAPIError(t, err, http.StatusBadRequest, "invalid_role")
}

func TestPasswordRecovery(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()
	email := "forgetful@fountainheadschools.org"
	s.member(t, email, domain.RoleStudent)

	err := s.Anon.ForgotPassword(ctx, "ghost@fountainheadschools.org")
	requireAPIError(t, err, http.StatusNotFound, "user_not_found")

	require.NoError(t, s.Anon.ForgotPassword(ctx, email))
	otp := s.latestOTP(t, email)

	err = s.Anon.VerifyOTP(ctx, email, "000000")
	if otp != "000000" {
		requireAPIError(t, err, http.StatusBadRequest, "invalid_otp")
	}
	require.NoError(t, s.Anon.VerifyOTP(ctx, email, otp))

	err = s.Anon.ResetPassword(ctx, email, otp, "short")
	requireAPIError(t, err, http.StatusBadRequest, "weak_password")

	require.NoError(t, s.Anon.ResetPassword(ctx, email, otp, "N3w!Password"))

	_, err = s.Anon.Login(ctx, email, testPassword)
	requireAPIError(t, err, http.StatusBadRequest, "invalid_credentials")
	_, err = s.Anon.Login(ctx, email, "N3w!Password")
	require.NoError(t, err)

	// The code is single use.
	err = s.Anon.ResetPassword(ctx, email, otp, "An0ther!Password")
	requireAPIError(t, err, http.StatusBadRequest, "invalid_otp")
}

func TestSections(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()

	teacher, teacherID := s.member(t, "t1@fountainheadschools.org", domain.RoleTeacher)
	_, otherTeacherID := s.member(t, "t2@fountainheadschools.org", domain.RoleTeacher)
	_, studentID := s.member(t, "s1@fountainheadschools.org", domain.RoleStudent)

	_, err := s.Admin.CreateSection(ctx, "10A", studentID)
	requireAPIError(t, err, http.StatusBadRequest, "invalid_teacher")

	sec, err := s.Admin.CreateSection(ctx, "10A", teacherID)
	require.NoError(t, err)
	require.Equal(t, teacherID, sec.Teacher.ID)

	_, err = s.Admin.CreateSection(ctx, "10A", teacherID)
	requireAPIError(t, err, http.StatusBadRequest, "section_exists")

	sec, err = s.Admin.AddStudentToSection(ctx, sec.ID, studentID)
	require.NoError(t, err)
	require.Len(t, sec.Students, 1)

	sec, err = s.Admin.AddStudentToSection(ctx, sec.ID, studentID)
	require.NoError(t, err)
	require.Len(t, sec.Students, 1)

	mine, err := teacher.TeacherSections(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "10A", mine[0].Name)
	require.Equal(t, "s1@fountainheadschools.org", mine[0].Students[0].Email)

	sec, err = s.Admin.AssignTeacherToSection(ctx, sec.ID, otherTeacherID)
	require.NoError(t, err)
	require.Equal(t, otherTeacherID, sec.Teacher.ID)

	mine, err = teacher.TeacherSections(ctx)
	require.NoError(t, err)
	require.Empty(t, mine)

	sec, err = s.Admin.RemoveStudentFromSection(ctx, sec.ID, studentID)
	require.NoError(t, err)
	require.Empty(t, sec.Students)

	_, err = s.Admin.RemoveStudentFromSection(ctx, sec.ID, studentID)
	requireAPIError(t, err, http.StatusNotFound, "student_not_in_section")

	all, err := s.Admin.Sections(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestProjectLifecycle(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()
	teacher, student, sec := s.classroom(t, "11b")

	p, err := student.SubmitProject(ctx, validProject(), []castsdk.File{pngFile("shore.png")})
	require.NoError(t, err)
	require.Equal(t, "pending", p.Status)
	require.Equal(t, sec.ID, p.SectionID)
	require.Equal(t, "2025-01-10", p.StartDate)
	require.Len(t, p.Evidence, 1)
	require.True(t, strings.HasPrefix(p.Evidence[0].URL, "/uploads/"))
	require.Equal(t, "shore.png", p.Evidence[0].OriginalName)

	body, contentType, err := s.Anon.Evidence(ctx, p.Evidence[0].URL)
	require.NoError(t, err)
	require.Equal(t, pngBytes, body)
	require.Equal(t, "image/png", contentType)

	queue, err := teacher.TeacherProjects(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, queue, 1)

	_, err = teacher.TeacherProjects(ctx, "bogus")
	requireAPIError(t, err, http.StatusBadRequest, "")

	_, err = teacher.ReviewProject(ctx, p.ID, "maybe", "")
	requireAPIError(t, err, http.StatusBadRequest, "invalid_decision")

	denied, err := teacher.ReviewProject(ctx, p.ID, "denied", "Add photos of the bags")
	require.NoError(t, err)
	require.Equal(t, "denied", denied.Status)
	require.Equal(t, "Add photos of the bags", denied.TeacherComments)
	require.NotNil(t, denied.ReviewedAt)

	_, err = teacher.ReviewProject(ctx, p.ID, "approved", "")
	requireAPIError(t, err, http.StatusBadRequest, "not_pending")

	data := validProject()
	data.Title = "Beach clean-up, term 1"
	again, err := student.ResubmitProject(ctx, p.ID, data, []castsdk.File{pngFile("bags.png"), pngFile("shore.png")})
	require.NoError(t, err)
	require.Equal(t, "pending", again.Status)
	require.Equal(t, "Beach clean-up, term 1", again.Title)
	require.Len(t, again.Evidence, 2)

	// Replaced evidence is gone.
	_, _, err = s.Anon.Evidence(ctx, p.Evidence[0].URL)
	requireAPIError(t, err, http.StatusNotFound, "")

	approved, err := teacher.ApproveProject(ctx, p.ID, "Great work")
	require.NoError(t, err)
	require.Equal(t, "approved", approved.Status)

	_, err = student.ResubmitProject(ctx, p.ID, data, nil)
	requireAPIError(t, err, http.StatusBadRequest, "not_denied")

	mine, err := student.MyProjects(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	stats, err := student.MyStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Total)
	require.Equal(t, 1, stats.ByStatus["approved"])
	require.Equal(t, 1, stats.ByCategory["Service"])

	got, err := s.Admin.Project(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Great work", got.TeacherComments)
}

func TestProjectVisibility(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()
	_, student, _ := s.classroom(t, "9a")
	otherTeacher, otherStudent, _ := s.classroom(t, "9b")

	p, err := student.SubmitProject(ctx, validProject(), nil)
	require.NoError(t, err)

	_, err = otherStudent.Project(ctx, p.ID)
	requireAPIError(t, err, http.StatusForbidden, "")

	_, err = otherTeacher.Project(ctx, p.ID)
	requireAPIError(t, err, http.StatusForbidden, "")

	_, err = otherTeacher.ReviewProject(ctx, p.ID, "approved", "")
	requireAPIError(t, err, http.StatusForbidden, "")

	_, err = student.Project(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	requireAPIError(t, err, http.StatusNotFound, "project_not_found")
}

func TestSubmitRequiresSection(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	student, _ := s.member(t, "loner@fountainheadschools.org", domain.RoleStudent)

	_, err := student.SubmitProject(context.Background(), validProject(), nil)
	requireAPIError(t, err, http.StatusForbidden, "no_section")
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()
	_, student, _ := s.classroom(t, "12c")

	data := validProject()
	data.EndDate = "2024-12-01"
	data.Location = "Somewhere"
	_, err := student.SubmitProject(ctx, data, nil)

	var apiErr *castsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "validation_error", apiErr.Code)
	require.NotEmpty(t, apiErr.Details)

	files := make([]castsdk.File, 6)
	for i := range files {
		files[i] = pngFile("img.png")
	}
	_, err = student.SubmitProject(ctx, validProject(), files)
	requireAPIError(t, err, http.StatusBadRequest, "invalid_evidence")

	entries, err := os.ReadDir(s.Storage.Root)
	require.NoError(t, err)
	require.Empty(t, entries)

	mine, err := student.MyProjects(ctx)
	require.NoError(t, err)
	require.Empty(t, mine)
}

func TestSubmitFlatForm(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	_, student, _ := s.classroom(t, "8d")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"title", "Choir"},
		{"description", "Weekly rehearsals"},
		{"category", `["Creativity","Activity"]`},
		{"location", "In the school"},
		{"startDate", "2025-02-01"},
		{"endDate", "2025-06-30T00:00:00Z"},
		{"learningOutcomes", "LO2"},
		{"learningOutcomes", "LO4"},
		{"unGoals", "Quality Education"},
		{"investigation", "Repertoire research"},
		{"learnerProfile", "Communicator"},
		{"supervisorName", "Mr Jones"},
		{"status", "For approval"},
	}
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f[0], f[1]))
	}
	fw, err := mw.CreateFormFile("evidence", "concert.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/student/submit-project", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+student.Token())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	mine, err := student.MyProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, []string{"Creativity", "Activity"}, mine[0].Categories)
	require.Equal(t, []string{"LO2", "LO4"}, mine[0].LearningOutcomes)
	require.Equal(t, "For approval", mine[0].Progress)
	require.Equal(t, "2025-06-30", mine[0].EndDate)
	require.Len(t, mine[0].Evidence, 1)
	require.Equal(t, "image/jpeg", mine[0].Evidence[0].MimeType)
}

func TestSubmitRejectsNonMultipart(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	_, student, _ := s.classroom(t, "7e")

	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/student/submit-project", strings.NewReader(`{"title":"x"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+student.Token())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitRejectsSVGEvidence(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()
	_, student, _ := s.classroom(t, "10e")

	svg := castsdk.File{
		Name:        "x.svg",
		ContentType: "image/svg+xml",
		Content:     strings.NewReader(`<svg><script>alert(document.domain)</script></svg>`),
	}
	_, err := student.SubmitProject(ctx, validProject(), []castsdk.File{svg})
	requireAPIError(t, err, http.StatusBadRequest, "invalid_evidence")

	mine, err := student.MyProjects(ctx)
	require.NoError(t, err)
	require.Empty(t, mine)
}

func TestEvidenceDownloadIsSandboxed(t *testing.T) {
	t.Parallel()
	s := newServer(t)
	ctx := context.Background()
	_, student, _ := s.classroom(t, "10f")

	p, err := student.SubmitProject(ctx, validProject(), []castsdk.File{pngFile("reef.png")})
	require.NoError(t, err)
	require.Len(t, p.Evidence, 1)

	resp, err := http.Get(s.URL + p.Evidence[0].URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "default-src 'none'; sandbox", resp.Header.Get("Content-Security-Policy"))
}

func TestUploadsRejectUnknownKeys(t *testing.T) {
	t.Parallel()
	s := newServer(t)

	for _, key := range []string{"nope", "3b241101-e2bb-4255-8caf-4136c566a962.png", "abc.png"} {
		resp, err := http.Get(s.URL + "/uploads/" + key)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode, key)
	}
}

func TestCredentialEndpointsAreRateLimited(t *testing.T) {
	t.Parallel()
	tight := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Hour, Burst: 2}
	s := newServer(t, func(r *trackerhttp.Router) { r.Limits.Strict = tight })
	ctx := context.Background()

	// newServer already spent one admin login.
	_, err := s.Anon.Login(ctx, testAdminEmail, testPassword)
	require.NoError(t, err)
	_, err = s.Anon.Login(ctx, testAdminEmail, testPassword)
	requireAPIError(t, err, http.StatusTooManyRequests, "")

	// Buckets are per email.
	_, err = s.Anon.Login(ctx, "other@fountainheadschools.org", testPassword)
	requireAPIError(t, err, http.StatusBadRequest, "invalid_credentials")
}
