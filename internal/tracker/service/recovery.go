package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/pkg/cryptox"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
)

const (
	// DefaultOTPTTL is how long an emailed reset code stays valid.
	DefaultOTPTTL = 10 * time.Minute

	// RecoveryPasswordLength is the length of generated admin passwords.
	RecoveryPasswordLength = 16
)

// RecoveryService runs the forgot-password flow. The reserved admin email
// never receives a code; a fresh password is mailed to RecoveryEmail instead.
type RecoveryService struct {
	Store  store.Store
	Outbox *OutboxService

	AdminEmail    string
	RecoveryEmail string
	OTPTTL        time.Duration
	Clock         Clock
}

func (s *RecoveryService) otpTTL() time.Duration {
	if s.OTPTTL <= 0 {
		return DefaultOTPTTL
	}
	return s.OTPTTL
}

func (s *RecoveryService) isAdminEmail(email string) bool {
	return s.AdminEmail != "" && email == normalizeEmail(s.AdminEmail)
}

// RequestPasswordReset issues a reset code, replacing any pending one.
func (s *RecoveryService) RequestPasswordReset(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	acc, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return transient(err)
	}

	if s.isAdminEmail(acc.Email) || acc.Role == domain.RoleAdmin {
		return s.recoverAdmin(ctx, acc)
	}

	code, err := cryptox.GenerateOTP()
	if err != nil {
		l.Error("failed to generate otp", slog.Any("error", err))
		return transient(err)
	}

	now := s.Clock.Now()
	ttl := s.otpTTL()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.PasswordResets().UpsertPasswordReset(ctx, domain.PasswordReset{
			AccountID: acc.ID,
			CodeHash:  cryptox.FingerprintToken(code),
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return s.Outbox.Enqueue(ctx, tx, domain.NotifyPasswordResetCode, resetCodeMessage(acc.Email, code, ttl))
	})
	if err != nil {
		l.Error("failed to store reset code", slog.String("account_id", acc.ID), slog.Any("error", err))
		return transient(err)
	}

	l.Info("password reset requested", slog.String("account_id", acc.ID))
	return nil
}

func (s *RecoveryService) recoverAdmin(ctx context.Context, acc domain.Account) error {
	l := slogx.FromContext(ctx)

	to := s.RecoveryEmail
	if to == "" {
		to = acc.Email
	}

	// 1. Fresh password
	password, err := cryptox.GenerateStrongPassword(RecoveryPasswordLength)
	if err != nil {
		return transient(err)
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return transient(err)
	}

	// 2. Install it, drop any pending code, queue the mail
	now := s.Clock.Now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().UpdatePasswordHash(ctx, acc.ID, hash, now); err != nil {
			return err
		}
		if err := tx.PasswordResets().DeletePasswordReset(ctx, acc.ID); err != nil {
			return err
		}
		return s.Outbox.Enqueue(ctx, tx, domain.NotifyAdminPasswordRecovery, adminRecoveryMessage(to, acc.Email, password))
	})
	if err != nil {
		l.Error("admin recovery failed", slog.Any("error", err))
		return transient(err)
	}

	l.Warn("admin password regenerated", slog.String("account_id", acc.ID))
	return nil
}

// VerifyOTP reports whether otp is the pending, unexpired code for email.
// It changes nothing.
func (s *RecoveryService) VerifyOTP(ctx context.Context, email, otp string) error {
	_, err := s.checkOTP(ctx, s.Store, normalizeEmail(email), otp)
	return err
}

// ResetPassword replaces the password and consumes the code.
func (s *RecoveryService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	// 1. Code first, so a bad code never reveals the password policy
	if _, err := s.checkOTP(ctx, s.Store, email, otp); err != nil {
		return err
	}

	// 2. Policy
	if missing := cryptox.ValidatePasswordStrength(newPassword); len(missing) > 0 {
		return weakPassword(missing)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return transient(err)
	}

	// 3. Swap the hash and consume the code together
	var accountID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		acc, err := s.checkOTP(ctx, tx, email, otp)
		if err != nil {
			return err
		}
		accountID = acc.ID
		if err := tx.Accounts().UpdatePasswordHash(ctx, acc.ID, hash, s.Clock.Now()); err != nil {
			return err
		}
		return tx.PasswordResets().DeletePasswordReset(ctx, acc.ID)
	})
	if err != nil {
		return transient(err)
	}

	l.Info("password reset", slog.String("account_id", accountID))
	return nil
}

func (s *RecoveryService) checkOTP(ctx context.Context, st store.Store, email, otp string) (domain.Account, error) {
	if !cryptox.IsOTPFormat(otp) {
		return domain.Account{}, ErrInvalidOTP
	}

	acc, err := st.Accounts().GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrInvalidOTP
	}
	if err != nil {
		return domain.Account{}, transient(err)
	}

	reset, err := st.PasswordResets().GetPasswordReset(ctx, acc.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrInvalidOTP
	}
	if err != nil {
		return domain.Account{}, transient(err)
	}

	if reset.Expired(s.Clock.Now()) || !cryptox.MatchFingerprint(otp, reset.CodeHash) {
		return domain.Account{}, ErrInvalidOTP
	}
	return acc, nil
}
