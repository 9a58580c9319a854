package domain

import "time"

type Account struct {
	ID           string
	Email        string // lower-cased
	PasswordHash string // argon2id PHC, or a legacy bcrypt hash
	Role         Role
	Approved     bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanLogin reports whether both login gates are open.
func (a Account) CanLogin() bool {
	return a.Approved && a.Active
}

// PasswordReset is a pending OTP for one account. A row exists only while a
// reset is outstanding.
type PasswordReset struct {
	AccountID string
	CodeHash  string // fingerprint of the 6 digit code
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code can no longer be used at now.
func (r PasswordReset) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
