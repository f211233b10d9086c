package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"inforia/internal/config"
	"inforia/internal/database"
	"inforia/internal/logger"
	"inforia/internal/renewal"
	"inforia/internal/repository"
	"inforia/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Parse mode flag
	mode := flag.String("mode", "once", "Renewer mode: once|loop")
	interval := flag.Duration("interval", time.Hour, "Time between renewal passes in loop mode")
	flag.Parse()

	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	subs := service.NewSubscriptionService(repository.NewSubscriptionRepo(pool), repository.NewUsageRepo(pool), logger)

	var runErr error
	switch *mode {
	case "once":
		runErr = renewal.RunOnce(ctx, logger, subs, cfg.RenewalBatchSize)
	case "loop":
		runErr = renewal.Run(ctx, logger, subs, cfg.RenewalBatchSize, *interval)
	default:
		logger.Fatal().Msgf("Invalid mode: %s", *mode)
	}

	if runErr != nil {
		logger.Fatal().Msgf("%s renewer failed: %v", *mode, runErr)
	}
	logger.Info().Msgf("%s renewer stopped", *mode)
}
