package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// Supabase
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`
	S3URL              string `envconfig:"SUPABASE_S3_URL" required:"true"`
	S3Bucket           string `envconfig:"SUPABASE_S3_BUCKET" default:"help-center"`
	S3Region           string `envconfig:"SUPABASE_S3_REGION" required:"true"`
	S3AccessKey        string `envconfig:"SUPABASE_S3_ACCESS_KEY" required:"true"`
	S3SecretKey        string `envconfig:"SUPABASE_S3_SECRET_KEY" required:"true"`

	// Report drafting (OpenRouter speaks the OpenAI API)
	OpenRouterAPIKey  string `envconfig:"OPENROUTER_API_KEY" required:"true"`
	OpenRouterBaseURL string `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	ReportModel       string `envconfig:"REPORT_MODEL" default:"openai/gpt-4o-mini"`
	AppPublicURL      string `envconfig:"APP_PUBLIC_URL" default:"https://inforia.app"`
	AppTitle          string `envconfig:"APP_TITLE" default:"iNFORiA"`

	// Google Docs / Drive export
	GoogleOAuthClientID     string `envconfig:"GOOGLE_OAUTH_CLIENT_ID"`
	GoogleOAuthClientSecret string `envconfig:"GOOGLE_OAUTH_CLIENT_SECRET"`
	GoogleDocsEndpoint      string `envconfig:"GOOGLE_DOCS_ENDPOINT"`
	GoogleDriveEndpoint     string `envconfig:"GOOGLE_DRIVE_ENDPOINT"`
	GCPProjectID            string `envconfig:"GCP_PROJECT_ID"`

	// Stripe
	StripeSecretKey        string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret    string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	StripePriceProfesional string `envconfig:"STRIPE_PRICE_PROFESIONAL"`
	StripePriceClinica     string `envconfig:"STRIPE_PRICE_CLINICA"`
	StripePriceEnterprise  string `envconfig:"STRIPE_PRICE_ENTERPRISE"`
	StripeReturnURL        string `envconfig:"STRIPE_RETURN_URL" default:"https://inforia.app/mi-cuenta"`

	// HTTP server
	HTTPWriteTimeoutSec int    `envconfig:"HTTP_WRITE_TIMEOUT_SEC" default:"120"`
	CORSAllowedOrigins  string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Renewer
	RenewalBatchSize int `envconfig:"RENEWAL_BATCH_SIZE" default:"500"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// StripePriceID returns the Stripe price configured for a paid plan.
func (c *Config) StripePriceID(planID string) string {
	switch planID {
	case "profesional":
		return c.StripePriceProfesional
	case "clinica":
		return c.StripePriceClinica
	case "enterprise":
		return c.StripePriceEnterprise
	default:
		return ""
	}
}

// GoogleOAuthConfigured reports whether refresh tokens can be exchanged server-side.
func (c *Config) GoogleOAuthConfigured() bool {
	return c.GoogleOAuthClientID != "" && c.GoogleOAuthClientSecret != ""
}
