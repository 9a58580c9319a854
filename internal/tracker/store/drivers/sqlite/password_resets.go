package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/domain"
	"github.com/aussiebroadwan/castrack/internal/tracker/store/drivers/sqlite/gen"
)

type passwordResetsRepo struct {
	q *gen.Queries
}

func (r *passwordResetsRepo) UpsertPasswordReset(ctx context.Context, pr domain.PasswordReset) error {
	return r.q.UpsertPasswordReset(ctx, gen.UpsertPasswordResetParams{
		AccountID: pr.AccountID,
		CodeHash:  pr.CodeHash,
		ExpiresAt: pr.ExpiresAt.UTC(),
		CreatedAt: pr.CreatedAt.UTC(),
	})
}

func (r *passwordResetsRepo) GetPasswordReset(ctx context.Context, accountID string) (domain.PasswordReset, error) {
	row, err := r.q.GetPasswordReset(ctx, accountID)
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	return mapPasswordReset(row), nil
}

func (r *passwordResetsRepo) DeletePasswordReset(ctx context.Context, accountID string) error {
	return r.q.DeletePasswordReset(ctx, accountID)
}

func (r *passwordResetsRepo) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredPasswordResets(ctx, now.UTC())
}
