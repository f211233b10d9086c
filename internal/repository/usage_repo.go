package repository

import (
	"context"
	"errors"
	"fmt"

	"inforia/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSubscriptionMissing is returned when the counter row to increment does not exist.
var ErrSubscriptionMissing = errors.New("subscription_missing")

// UsageRepository tracks report usage against the subscription quota.
type UsageRepository interface {
	// IncrementReportsUsed bumps reports_used by one in a single statement and returns the new counters.
	IncrementReportsUsed(ctx context.Context, userID string) (*model.UsageCounter, error)
}

type usageRepo struct {
	pool *pgxpool.Pool
}

// NewUsageRepo creates a new UsageRepository.
func NewUsageRepo(pool *pgxpool.Pool) UsageRepository {
	return &usageRepo{pool: pool}
}

// The increment is unconditional: the report it counts already exists, even when a concurrent
// save reached the limit first.
func (r *usageRepo) IncrementReportsUsed(ctx context.Context, userID string) (*model.UsageCounter, error) {
	const q = `
		UPDATE subscriptions
		SET reports_used = reports_used + 1,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING plan_id, reports_limit, reports_used, status
	`
	var c model.UsageCounter
	err := r.pool.QueryRow(ctx, q, userID).Scan(&c.PlanID, &c.ReportsLimit, &c.ReportsUsed, &c.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionMissing
		}
		return nil, fmt.Errorf("incrementing reports used for user %s: %w", userID, err)
	}
	return &c, nil
}
