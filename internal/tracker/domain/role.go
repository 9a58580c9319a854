package domain

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Roles lists every role in privilege order.
var Roles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

// ParseRole accepts the canonical names. "user" is the legacy name for a
// student and is accepted on input only.
func ParseRole(s string) (Role, error) {
	switch s {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleTeacher):
		return RoleTeacher, nil
	case string(RoleStudent), "user":
		return RoleStudent, nil
	}
	return "", fmt.Errorf("domain: unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// Assignable reports whether an admin may approve an account into r.
func (r Role) Assignable() bool {
	return r == RoleTeacher || r == RoleStudent
}
