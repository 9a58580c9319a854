package service

import (
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
)

// Actor is the authenticated caller as decoded from the credential.
type Actor struct {
	ID   string
	Role domain.Role
}

// requireRole is the single capability check every operation runs first.
func requireRole(a Actor, allowed ...domain.Role) error {
	if a.ID == "" {
		return ErrUnauthenticatedUser
	}
	if !slices.Contains(allowed, a.Role) {
		return ErrForbidden
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Clock returns the current time. A nil Clock means time.Now in UTC.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
