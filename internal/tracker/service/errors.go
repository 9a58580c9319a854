package service

import (
	"errors"
	"fmt"
	"slices"
)

// Kind classifies a service failure. The HTTP layer maps kinds to status
// codes; everything it does not recognise is a transient fault.
type Kind int

const (
	KindTransient Kind = iota
	KindValidation
	KindPolicy
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPolicy:
		return "policy"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "transient"
	}
}

// Error is a typed service failure. Two errors match under errors.Is when
// their codes are equal, so sentinels still match after WithDetails.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithDetails returns a copy carrying extra detail lines.
func (e *Error) WithDetails(details ...string) *Error {
	c := *e
	c.Details = append(slices.Clone(e.Details), details...)
	return &c
}

// WithMessage returns a copy with a different human message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// KindOf returns the kind of err, or KindTransient for untyped errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindTransient
}

// ErrServer wraps unexpected failures. Its message never carries internals.
var ErrServer = newError(KindTransient, "server_error", "Server error")

func transient(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	c := *ErrServer
	c.Err = err
	return &c
}

var (
	ErrInvalidInput = newError(KindValidation, "validation_error", "Invalid request")
	ErrForbidden    = newError(KindForbidden, "forbidden", "Access denied")

	// Accounts
	ErrDomainRejected      = newError(KindPolicy, "domain_rejected", "Email domain is not allowed")
	ErrWeakPassword        = newError(KindPolicy, "weak_password", "Password is too weak")
	ErrEmailTaken          = newError(KindConflict, "email_taken", "User already exists")
	ErrInvalidCredentials  = newError(KindValidation, "invalid_credentials", "Invalid credentials")
	ErrNotApproved         = newError(KindForbidden, "not_approved", "Account not approved yet")
	ErrDeactivated         = newError(KindForbidden, "account_deactivated", "Account is deactivated")
	ErrAccountNotFound     = newError(KindNotFound, "user_not_found", "User not found")
	ErrInvalidRole         = newError(KindValidation, "invalid_role", "Role must be teacher or student")
	ErrAdminImmutable      = newError(KindForbidden, "admin_immutable", "The administrator account cannot be changed")
	ErrInvalidOTP          = newError(KindPolicy, "invalid_otp", "Invalid or expired OTP")
	ErrUnauthenticatedUser = newError(KindUnauthenticated, "unauthenticated", "Authentication required")

	// Sections
	ErrSectionNotFound = newError(KindNotFound, "section_not_found", "Section not found")
	ErrSectionExists   = newError(KindConflict, "section_exists", "A section with this name already exists")
	ErrInvalidTeacher  = newError(KindValidation, "invalid_teacher", "Teacher must be an approved teacher account")
	ErrInvalidStudent  = newError(KindValidation, "invalid_student", "Student must be an approved student account")
	ErrStudentPlaced   = newError(KindConflict, "student_placed", "Student already belongs to another section")
	ErrNotInSection    = newError(KindNotFound, "student_not_in_section", "Student is not in this section")
	ErrTeacherAssigned = newError(KindConflict, "teacher_assigned", "Teacher still leads a section")

	// Submissions
	ErrNoSection          = newError(KindForbidden, "no_section", "Student is not assigned to a section")
	ErrSubmissionNotFound = newError(KindNotFound, "project_not_found", "Project not found")
	ErrNotPending         = newError(KindConflict, "not_pending", "Project has already been reviewed")
	ErrNotDenied          = newError(KindConflict, "not_denied", "Only denied projects can be edited")
	ErrInvalidDecision    = newError(KindValidation, "invalid_decision", "Decision must be approved or denied")
	ErrInvalidEvidence    = newError(KindValidation, "invalid_evidence", "Invalid evidence files")
	ErrEvidenceNotFound   = newError(KindNotFound, "evidence_not_found", "File not found")
)
