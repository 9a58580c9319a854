package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store/drivers/sqlite/gen"
)

type accountsRepo struct {
	q *gen.Queries
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	err := r.q.CreateAccount(ctx, gen.CreateAccountParams{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		Approved:     a.Approved,
		Active:       a.Active,
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row, err := r.q.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row, err := r.q.GetAccountByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return mapAccounts(rows), nil
}

func (r *accountsRepo) ListPendingAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.ListPendingAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return mapAccounts(rows), nil
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id, hash string, now time.Time) error {
	return requireRow(r.q.UpdateAccountPasswordHash(ctx, gen.UpdateAccountPasswordHashParams{
		PasswordHash: hash,
		UpdatedAt:    now.UTC(),
		ID:           id,
	}))
}

func (r *accountsRepo) Approve(ctx context.Context, id string, role domain.Role, now time.Time) error {
	return requireRow(r.q.ApproveAccount(ctx, gen.ApproveAccountParams{
		Role:      string(role),
		UpdatedAt: now.UTC(),
		ID:        id,
	}))
}

func (r *accountsRepo) SetActive(ctx context.Context, id string, active bool, now time.Time) error {
	return requireRow(r.q.SetAccountActive(ctx, gen.SetAccountActiveParams{
		Active:    active,
		UpdatedAt: now.UTC(),
		ID:        id,
	}))
}

func (r *accountsRepo) PromoteAdmin(ctx context.Context, id string, now time.Time) error {
	return requireRow(r.q.PromoteAdmin(ctx, gen.PromoteAdminParams{
		UpdatedAt: now.UTC(),
		ID:        id,
	}))
}
