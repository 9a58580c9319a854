package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/pkg/cryptox"
	"github.com/aussiebroadwan/castrack/pkg/idx"
	"github.com/aussiebroadwan/castrack/pkg/jwtx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
)

// DefaultEmailDomain is the institution suffix every signup must carry.
const DefaultEmailDomain = "@fountainheadschools.org"

type AccountService struct {
	Store  store.Store
	Outbox *OutboxService
	Signer jwtx.Signer

	Issuer        string
	CredentialTTL time.Duration
	EmailDomain   string
	Clock         Clock
}

// LoginResult is a freshly issued credential.
type LoginResult struct {
	Token     string
	Role      domain.Role
	ExpiresAt time.Time
	Account   domain.Account
}

func (s *AccountService) emailDomain() string {
	if s.EmailDomain == "" {
		return DefaultEmailDomain
	}
	return strings.ToLower(s.EmailDomain)
}

func (s *AccountService) ttl() time.Duration {
	if s.CredentialTTL <= 0 {
		return jwtx.DefaultCredentialTTL
	}
	return s.CredentialTTL
}

func weakPassword(missing []cryptox.Requirement) error {
	details := make([]string, len(missing))
	for i, m := range missing {
		details[i] = string(m)
	}
	return ErrWeakPassword.WithMessage("%s", cryptox.DescribeRequirements(missing)).WithDetails(details...)
}

// Signup registers an unapproved student account. No credential is issued.
func (s *AccountService) Signup(ctx context.Context, email, password string) (domain.Account, error) {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	// 1. Institution domain
	domainSuffix := s.emailDomain()
	if !strings.HasSuffix(email, domainSuffix) || len(email) == len(domainSuffix) {
		return domain.Account{}, ErrDomainRejected.WithMessage("Email must end with %s", domainSuffix)
	}

	// 2. Password policy
	if missing := cryptox.ValidatePasswordStrength(password); len(missing) > 0 {
		return domain.Account{}, weakPassword(missing)
	}

	// 3. Hash and insert
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.Account{}, transient(err)
	}

	now := s.Clock.Now()
	acc := domain.Account{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		Approved:     false,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrEmailTaken
		}
		l.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, transient(err)
	}

	l.Info("account registered", slog.String("account_id", acc.ID))
	return acc, nil
}

// Login checks the password and both login gates, then issues a credential.
func (s *AccountService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	// 1. Look up and verify
	acc, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, transient(err)
	}
	if err := cryptox.VerifyPassword(password, acc.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("password verification failed", slog.String("account_id", acc.ID), slog.Any("error", err))
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	// 2. Gates
	if !acc.Approved {
		return LoginResult{}, ErrNotApproved
	}
	if !acc.Active {
		return LoginResult{}, ErrDeactivated
	}

	// 3. Upgrade legacy hashes while we have the plaintext
	now := s.Clock.Now()
	if cryptox.NeedsRehash(acc.PasswordHash) {
		if hash, err := cryptox.HashPassword(password); err == nil {
			if err := s.Store.Accounts().UpdatePasswordHash(ctx, acc.ID, hash, now); err != nil {
				l.Warn("failed to upgrade password hash", slog.String("account_id", acc.ID), slog.Any("error", err))
			}
		}
	}

	// 4. Issue credential
	claims := jwtx.NewClaims(acc.ID, string(acc.Role), acc.Email, s.Issuer, s.ttl(), now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign credential", slog.Any("error", err))
		return LoginResult{}, transient(err)
	}

	l.Info("login", slog.String("account_id", acc.ID), slog.String("role", string(acc.Role)))
	return LoginResult{
		Token:     token,
		Role:      acc.Role,
		ExpiresAt: claims.ExpiresAt.Time,
		Account:   acc,
	}, nil
}

// Me returns the caller's own account.
func (s *AccountService) Me(ctx context.Context, actor Actor) (domain.Account, error) {
	if actor.ID == "" {
		return domain.Account{}, ErrUnauthenticatedUser
	}
	return s.getAccount(ctx, s.Store, actor.ID)
}

func (s *AccountService) ListPending(ctx context.Context, actor Actor) ([]domain.Account, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	accs, err := s.Store.Accounts().ListPendingAccounts(ctx)
	return accs, transient(err)
}

func (s *AccountService) ListAccounts(ctx context.Context, actor Actor) ([]domain.Account, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	accs, err := s.Store.Accounts().ListAccounts(ctx)
	return accs, transient(err)
}

// Approve marks the target approved with the given role. Approving again
// just sets the role again. A student moved to another role leaves their
// section; a teacher who still leads a section keeps the teacher role.
func (s *AccountService) Approve(ctx context.Context, actor Actor, targetID, role string) (domain.Account, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return domain.Account{}, err
	}

	r, err := domain.ParseRole(role)
	if err != nil || !r.Assignable() {
		return domain.Account{}, ErrInvalidRole
	}

	var out domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		acc, err := s.getAccount(ctx, tx, targetID)
		if err != nil {
			return err
		}
		if acc.Role == domain.RoleAdmin {
			return ErrAdminImmutable
		}

		if err := leaveRole(ctx, tx, acc, r); err != nil {
			return err
		}

		now := s.Clock.Now()
		if err := tx.Accounts().Approve(ctx, acc.ID, r, now); err != nil {
			return err
		}
		if err := s.Outbox.Enqueue(ctx, tx, domain.NotifyAccountApproved, accountApprovedMessage(acc.Email, r)); err != nil {
			return err
		}

		acc.Approved, acc.Role, acc.UpdatedAt = true, r, now
		out = acc
		return nil
	})
	if err != nil {
		return domain.Account{}, transient(err)
	}

	slogx.FromContext(ctx).Info("account approved",
		slog.String("target_id", out.ID),
		slog.String("role", string(out.Role)),
	)
	return out, nil
}

// leaveRole undoes section placement tied to the account's current role.
func leaveRole(ctx context.Context, tx store.Tx, acc domain.Account, next domain.Role) error {
	if acc.Role == next {
		return nil
	}
	switch acc.Role {
	case domain.RoleStudent:
		sec, err := tx.Sections().GetSectionByStudent(ctx, acc.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Sections().RemoveStudent(ctx, sec.ID, acc.ID)
	case domain.RoleTeacher:
		secs, err := tx.Sections().ListSectionsByTeacher(ctx, acc.ID)
		if err != nil {
			return err
		}
		if len(secs) > 0 {
			return ErrTeacherAssigned
		}
	}
	return nil
}

// Deactivate closes the second login gate. The admin account is refused.
func (s *AccountService) Deactivate(ctx context.Context, actor Actor, targetID string) (domain.Account, error) {
	return s.setActive(ctx, actor, targetID, false)
}

// Reactivate opens the second login gate again. On the admin it is a no-op.
func (s *AccountService) Reactivate(ctx context.Context, actor Actor, targetID string) (domain.Account, error) {
	return s.setActive(ctx, actor, targetID, true)
}

func (s *AccountService) setActive(ctx context.Context, actor Actor, targetID string, active bool) (domain.Account, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return domain.Account{}, err
	}

	acc, err := s.getAccount(ctx, s.Store, targetID)
	if err != nil {
		return domain.Account{}, err
	}
	if acc.Role == domain.RoleAdmin {
		if active {
			return acc, nil
		}
		return domain.Account{}, ErrAdminImmutable
	}

	now := s.Clock.Now()
	if err := s.Store.Accounts().SetActive(ctx, acc.ID, active, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, transient(err)
	}

	slogx.FromContext(ctx).Info("account active flag changed",
		slog.String("target_id", acc.ID),
		slog.Bool("active", active),
	)
	acc.Active, acc.UpdatedAt = active, now
	return acc, nil
}

func (s *AccountService) getAccount(ctx context.Context, st store.Store, id string) (domain.Account, error) {
	acc, err := st.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	return acc, transient(err)
}
