package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/pkg/cryptox"
	"github.com/aussiebroadwan/castrack/pkg/idx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
)

// DefaultAdminEmail is the reserved administrator account.
const DefaultAdminEmail = "admin@fountainheadschools.org"

var ErrBootstrapNoEmail = errors.New("bootstrap: admin email is not configured")

type BootstrapService struct {
	Store store.Store
	Clock Clock
}

// EnsureAdmin makes sure the reserved admin account exists and can sign in.
// It is safe to call on every start. An existing admin keeps its password;
// a new one gets password, or a generated one when password is empty.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, email, password string) (domain.Account, error) {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)
	if email == "" {
		return domain.Account{}, ErrBootstrapNoEmail
	}

	now := s.Clock.Now()

	// 1. Existing account is promoted in place
	acc, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if acc.Role == domain.RoleAdmin && acc.Approved && acc.Active {
			return acc, nil
		}
		if err := s.Store.Accounts().PromoteAdmin(ctx, acc.ID, now); err != nil {
			return domain.Account{}, err
		}
		l.Info("admin account promoted", slog.String("account_id", acc.ID))
		acc.Role, acc.Approved, acc.Active, acc.UpdatedAt = domain.RoleAdmin, true, true, now
		return acc, nil
	case !errors.Is(err, store.ErrNotFound):
		return domain.Account{}, err
	}

	// 2. Otherwise create it
	if password == "" {
		password, err = cryptox.GenerateStrongPassword(RecoveryPasswordLength)
		if err != nil {
			return domain.Account{}, err
		}
		l.Warn("ADMIN_PASSWORD not set, generated one; use forgot-password to recover it",
			slog.String("email", email),
		)
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Account{}, err
	}

	acc = domain.Account{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Approved:     true,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, acc); err != nil {
		return domain.Account{}, err
	}

	l.Info("admin account created", slog.String("account_id", acc.ID))
	return acc, nil
}
