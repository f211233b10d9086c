package repository

import (
	"context"
	"errors"
	"fmt"

	"inforia/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionRepository defines methods for accessing subscription data.
type SubscriptionRepository interface {
	// GetSubscription returns the user's subscription regardless of status, or nil if none exists.
	GetSubscription(ctx context.Context, userID string) (*model.Subscription, error)
	// RenewSubscription resets usage and opens a new one-month period. Canceled subscriptions are left untouched.
	RenewSubscription(ctx context.Context, userID string) (*model.Subscription, error)
	// RenewExpired renews up to limit subscriptions whose period has ended and returns how many were renewed.
	RenewExpired(ctx context.Context, limit int) (int64, error)
	// AssignPlan moves the user to planID with the plan's report limit, creating the row if needed.
	AssignPlan(ctx context.Context, userID, planID string, reportsLimit int) error
}

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, user_id, plan_id, status, reports_limit, reports_used, current_period_start, current_period_end`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var s model.Subscription
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.PlanID,
		&s.Status,
		&s.ReportsLimit,
		&s.ReportsUsed,
		&s.CurrentPeriodStart,
		&s.CurrentPeriodEnd,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subscriptionRepo) GetSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`
	s, err := scanSubscription(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch subscription for user %s: %w", userID, err)
	}
	return s, nil
}

func (r *subscriptionRepo) RenewSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	q := `
        UPDATE subscriptions
        SET reports_used = 0,
            status = 'active',
            current_period_start = NOW(),
            current_period_end = NOW() + INTERVAL '1 month',
            updated_at = NOW()
        WHERE user_id = $1
          AND status <> 'canceled'
        RETURNING ` + subscriptionColumns
	s, err := scanSubscription(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("renew subscription for user %s: %w", userID, err)
	}
	return s, nil
}

func (r *subscriptionRepo) RenewExpired(ctx context.Context, limit int) (int64, error) {
	const q = `
        WITH due AS (
            SELECT id
            FROM subscriptions
            WHERE status IN ('active', 'limit_reached', 'expired')
              AND current_period_end <= NOW()
            ORDER BY current_period_end
            LIMIT $1
            FOR UPDATE SKIP LOCKED
        )
        UPDATE subscriptions s
        SET reports_used = 0,
            status = 'active',
            current_period_start = NOW(),
            current_period_end = NOW() + INTERVAL '1 month',
            updated_at = NOW()
        FROM due
        WHERE s.id = due.id
    `
	tag, err := r.pool.Exec(ctx, q, limit)
	if err != nil {
		return 0, fmt.Errorf("renew expired subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *subscriptionRepo) AssignPlan(ctx context.Context, userID, planID string, reportsLimit int) error {
	const q = `
        INSERT INTO subscriptions (user_id, plan_id, status, reports_limit, reports_used, current_period_start, current_period_end)
        VALUES ($1, $2, 'active', $3, 0, NOW(), NOW() + INTERVAL '1 month')
        ON CONFLICT (user_id) DO UPDATE
        SET plan_id = EXCLUDED.plan_id,
            reports_limit = EXCLUDED.reports_limit,
            status = 'active',
            updated_at = NOW()
    `
	if _, err := r.pool.Exec(ctx, q, userID, planID, reportsLimit); err != nil {
		return fmt.Errorf("assign plan %s to user %s: %w", planID, userID, err)
	}
	return nil
}
