package service

import (
	"context"

	"inforia/internal/model"
	"inforia/internal/repository"

	"github.com/rs/zerolog"
)

// SubscriptionService defines business logic methods for subscriptions and report quota.
type SubscriptionService interface {
	// CheckQuota is the quota guard: it has no side effects and fails unless the caller
	// has an active subscription with reports left in the current period.
	CheckQuota(ctx context.Context, userID string) (*model.Subscription, error)
	GetSubscription(ctx context.Context, userID string) (*model.Subscription, error)
	RenewSubscription(ctx context.Context, userID string) (*model.Subscription, error)
	// RenewExpired renews every lapsed period in batches and returns the total renewed.
	RenewExpired(ctx context.Context, batchSize int) (int64, error)
	RecordReportCreated(ctx context.Context, userID string) (*model.UsageCounter, error)
	AssignPlan(ctx context.Context, userID, planID string) error
	DowngradeToFree(ctx context.Context, userID string) error
}

type subscriptionService struct {
	repo   repository.SubscriptionRepository
	usage  repository.UsageRepository
	logger zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService with a scoped logger.
func NewSubscriptionService(repo repository.SubscriptionRepository, usage repository.UsageRepository, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		repo:   repo,
		usage:  usage,
		logger: logger.With().Str("service", "SubscriptionService").Logger(),
	}
}

func (s *subscriptionService) CheckQuota(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive() {
		return nil, &QuotaError{Kind: ErrSubscriptionInactive, Subscription: sub}
	}
	if sub.ReportsUsed >= sub.ReportsLimit {
		return nil, &QuotaError{Kind: ErrQuotaExceeded, Subscription: sub}
	}
	return sub, nil
}

// GetSubscription returns the user's subscription regardless of status.
func (s *subscriptionService) GetSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.repo.GetSubscription(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch subscription")
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

func (s *subscriptionService) RenewSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	current, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.Status == model.SubscriptionCanceled {
		return nil, ErrSubscriptionCanceled
	}

	renewed, err := s.repo.RenewSubscription(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to renew subscription")
		return nil, err
	}
	if renewed == nil {
		// Canceled or removed between the read and the update.
		return nil, ErrSubscriptionCanceled
	}
	s.logger.Info().Str("user_id", userID).Time("period_end", renewed.CurrentPeriodEnd).Msg("Subscription renewed")
	return renewed, nil
}

func (s *subscriptionService) RenewExpired(ctx context.Context, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	var total int64
	for {
		n, err := s.repo.RenewExpired(ctx, batchSize)
		if err != nil {
			s.logger.Error().Err(err).Int64("renewed_so_far", total).Msg("Failed to renew expired subscriptions")
			return total, err
		}
		total += n
		if n < int64(batchSize) {
			break
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}
	s.logger.Info().Int64("renewed", total).Msg("Expired subscriptions renewed")
	return total, nil
}

func (s *subscriptionService) RecordReportCreated(ctx context.Context, userID string) (*model.UsageCounter, error) {
	return s.usage.IncrementReportsUsed(ctx, userID)
}

func (s *subscriptionService) AssignPlan(ctx context.Context, userID, planID string) error {
	plan, ok := model.PlanByID(planID)
	if !ok {
		return ErrUnknownPlan
	}
	if err := s.repo.AssignPlan(ctx, userID, plan.ID, plan.ReportsLimit); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("plan_id", planID).Msg("Failed to assign plan")
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("plan_id", planID).Msg("Plan assigned")
	return nil
}

// DowngradeToFree moves the user back to the free plan when their paid subscription is deleted.
func (s *subscriptionService) DowngradeToFree(ctx context.Context, userID string) error {
	return s.AssignPlan(ctx, userID, model.FreePlanID)
}
