package renewal

import (
	"context"
	"time"

	"inforia/internal/service"

	"github.com/rs/zerolog"
)

// RunOnce renews every subscription whose period has ended.
func RunOnce(ctx context.Context, logger zerolog.Logger, subs service.SubscriptionService, batchSize int) error {
	start := time.Now()
	n, err := subs.RenewExpired(ctx, batchSize)
	if err != nil {
		logger.Error().Err(err).Int64("renewed", n).Msg("Renewal pass failed")
		return err
	}
	logger.Info().Int64("renewed", n).Dur("duration", time.Since(start)).Msg("Renewal pass complete")
	return nil
}

// Run repeats the renewal pass every interval until ctx is canceled. A failed pass is
// logged and retried on the next tick.
func Run(ctx context.Context, logger zerolog.Logger, subs service.SubscriptionService, batchSize int, interval time.Duration) error {
	logger.Info().Dur("interval", interval).Msg("Starting subscription renewer")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_ = RunOnce(ctx, logger, subs, batchSize)

		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down subscription renewer")
			return nil
		case <-ticker.C:
		}
	}
}
