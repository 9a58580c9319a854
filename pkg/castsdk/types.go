package castsdk

import "time"

// ============================================================================
// Common
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string   `json:"error" example:"validation_error"`
	Message string   `json:"message" example:"Invalid request"`
	Details []string `json:"details,omitempty"`
}

// MessageResponse acknowledges an operation that returns no resource.
type MessageResponse struct {
	Message string `json:"message" example:"OTP verified"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime" example:"1h2m3s"`
	Version string        `json:"version" example:"0.1.0"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency in /readyz.
type HealthChecks struct {
	Database string `json:"database" example:"ok"`
	Signer   string `json:"signer" example:"ok"`
	Evidence string `json:"evidence" example:"ok"`
}

// ============================================================================
// Auth
// ============================================================================

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email" example:"student@fountainheadschools.org"`
	Password string `json:"password" validate:"required" example:"Passw0rd!"`
}

type SignupResponse struct {
	Message string `json:"message" example:"User registered successfully. Awaiting admin approval."`
	ID      string `json:"id" example:"01J9Z3K4M5N6P7Q8R9S0T1V2W3"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"student@fountainheadschools.org"`
	Password string `json:"password" validate:"required" example:"Passw0rd!"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role" example:"student"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required" example:"student@fountainheadschools.org"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required" example:"123456"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	OTP         string `json:"otp" validate:"required" example:"123456"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ============================================================================
// Accounts and sections
// ============================================================================

type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role" example:"student"`
	Approved  bool      `json:"approved"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ApproveRequest struct {
	Role string `json:"role" validate:"required" example:"student"`
}

type AccountSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type Section struct {
	ID        string           `json:"id"`
	Name      string           `json:"name" example:"10A"`
	Teacher   AccountSummary   `json:"teacher"`
	Students  []AccountSummary `json:"students"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type CreateSectionRequest struct {
	Name      string `json:"name" validate:"required" example:"10A"`
	TeacherID string `json:"teacherId" validate:"required"`
}

type SectionStudentRequest struct {
	SectionID string `json:"sectionId" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
}

type AssignTeacherRequest struct {
	SectionID string `json:"sectionId" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
}

// ============================================================================
// Projects
// ============================================================================

// ProjectData is the JSON sent in the "data" part of a project upload.
// Dates are "YYYY-MM-DD".
type ProjectData struct {
	Title            string   `json:"title" example:"Beach clean-up"`
	Description      string   `json:"description"`
	Categories       []string `json:"categories" example:"Service"`
	Location         string   `json:"location" example:"Outside"`
	StartDate        string   `json:"startDate" example:"2025-01-10"`
	EndDate          string   `json:"endDate" example:"2025-03-10"`
	LearningOutcomes []string `json:"learningOutcomes" example:"LO1"`
	UNGoals          []string `json:"unGoals" example:"Climate Action"`
	Investigation    string   `json:"investigation"`
	LearnerProfile   string   `json:"learnerProfile"`
	SupervisorName   string   `json:"supervisorName"`
	Progress         string   `json:"progress" example:"In progress"`
}

type Evidence struct {
	ID           string `json:"id"`
	URL          string `json:"url" example:"/uploads/3b241101-e2bb-4255-8caf-4136c566a962.jpg"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType" example:"image/jpeg"`
	Size         int64  `json:"size"`
}

type Project struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	SectionID string `json:"sectionId"`
	ProjectData

	Status          string     `json:"status" example:"pending"`
	TeacherComments string     `json:"teacherComments"`
	ReviewedBy      string     `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`

	Evidence  []Evidence `json:"evidence"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type ReviewRequest struct {
	Decision string `json:"decision" validate:"required" example:"approved"`
	Comments string `json:"comments"`
}

// ApproveProjectRequest is the body of the approve-only review route.
type ApproveProjectRequest struct {
	TeacherComments string `json:"teacherComments"`
}

type Stats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
	ByStatus   map[string]int `json:"byStatus"`
}
