package router

import (
	"context"
	"net/http"
	"strings"

	"inforia/internal/api/v1/handler"
	"inforia/internal/config"
	"inforia/internal/database"
	"inforia/internal/middleware"
	"inforia/internal/repository"
	"inforia/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires repositories, services and handlers and returns the root handler together
// with the pool the caller must close.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// 1. Database
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	// 2. Supabase Storage through its S3 endpoint
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	// 3. Secret Manager is optional; without it only client-forwarded Google tokens work.
	var secrets service.SecretManagerService
	if cfg.GCPProjectID != "" {
		sm, err := service.NewSecretManagerService(ctx, cfg)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		secrets = sm
	} else {
		logger.Warn().Msg("GCP_PROJECT_ID not set, stored Google refresh tokens are disabled")
	}

	validate := handler.NewValidator()

	// 4. Repositories, services, handlers
	subscriptionRepo := repository.NewSubscriptionRepo(pool)
	usageRepo := repository.NewUsageRepo(pool)
	patientRepo := repository.NewPatientRepo(pool)
	reportRepo := repository.NewReportRepo(pool)
	appointmentRepo := repository.NewAppointmentRepo(pool)
	searchRepo := repository.NewSearchRepo(pool)
	helpRepo := repository.NewHelpRepo(pool)

	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, usageRepo, logger)
	googleSvc := service.NewGoogleIntegrationService(cfg, secrets, logger)
	reportSvc := service.NewReportService(
		subscriptionSvc,
		patientRepo,
		reportRepo,
		googleSvc,
		service.NewDocumentExporter(cfg, logger),
		service.NewReportDrafter(cfg, logger),
		logger,
	)
	patientSvc := service.NewPatientService(patientRepo, logger)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, patientRepo, logger)
	searchSvc := service.NewSearchService(searchRepo, logger)
	helpSvc := service.NewHelpService(helpRepo, s3Client, cfg.S3Bucket, logger)
	stripeSvc := service.NewStripeService(cfg, subscriptionSvc, logger)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	apiV1Mux := http.NewServeMux()
	handler.NewReportHandler(reportSvc, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewSubscriptionHandler(stripeSvc, subscriptionSvc, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewPatientHandler(patientSvc, reportSvc).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewAppointmentHandler(appointmentSvc, validate).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewSearchHandler(searchSvc).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewHelpHandler(helpSvc).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewIntegrationHandler(googleSvc, validate).RegisterRoutes(apiV1Mux, authMiddleware)

	return Handler(cfg, logger, apiV1Mux, pool), pool, nil
}

// Handler mounts the v1 API and wraps it in the shared middleware chain.
func Handler(cfg *config.Config, logger zerolog.Logger, apiV1 http.Handler, pool *pgxpool.Pool) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := pool.Ping(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	// Redirect /api/* to /v1/* for older clients
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusMovedPermanently)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Authorization", "X-Client-Info", "Apikey", "Content-Type",
			handler.GoogleAccessTokenHeader, "Stripe-Signature", middleware.RequestIDHeader,
		},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	return middleware.RequestIDMiddleware(
		middleware.LoggerMiddleware(logger)(
			middleware.Recover(c.Handler(mux)),
		),
	)
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		// Presign clients may build the stack without this step.
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
