package service

import (
	"context"
	"errors"
	"strings"

	"inforia/internal/config"
	"inforia/internal/util"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
)

const googleProvider = "google"

// GoogleIntegrationService resolves the Google credentials a save request runs with
// and manages the optional server-side refresh token.
type GoogleIntegrationService interface {
	// TokenSource checks the caller has a linked Google identity and returns a usable token.
	// An access token forwarded by the client wins over a stored refresh token.
	TokenSource(ctx context.Context, claims *util.Claims, accessToken string) (oauth2.TokenSource, error)
	Link(ctx context.Context, userID, refreshToken string) error
	Unlink(ctx context.Context, userID string) error
}

type googleIntegrationService struct {
	oauth   *oauth2.Config
	secrets SecretManagerService
	logger  zerolog.Logger
}

// NewGoogleIntegrationService wires the refresh-token path only when both OAuth client
// credentials and a secret store are available.
func NewGoogleIntegrationService(cfg *config.Config, secrets SecretManagerService, logger zerolog.Logger) GoogleIntegrationService {
	var oc *oauth2.Config
	if cfg.GoogleOAuthConfigured() {
		oc = &oauth2.Config{
			ClientID:     cfg.GoogleOAuthClientID,
			ClientSecret: cfg.GoogleOAuthClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{docs.DocumentsScope, drive.DriveFileScope},
		}
	}
	return newGoogleIntegrationService(oc, secrets, logger)
}

func newGoogleIntegrationService(oc *oauth2.Config, secrets SecretManagerService, logger zerolog.Logger) *googleIntegrationService {
	return &googleIntegrationService{
		oauth:   oc,
		secrets: secrets,
		logger:  logger.With().Str("service", "GoogleIntegrationService").Logger(),
	}
}

func (s *googleIntegrationService) TokenSource(ctx context.Context, claims *util.Claims, accessToken string) (oauth2.TokenSource, error) {
	if claims == nil || !claims.HasProvider(googleProvider) {
		return nil, ErrIntegrationNotConnected
	}
	if tok := strings.TrimSpace(accessToken); tok != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}), nil
	}
	if s.oauth == nil || s.secrets == nil {
		return nil, ErrTokenExpired
	}

	refresh, err := s.secrets.GetRefreshToken(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNoStoredToken) {
			return nil, ErrTokenExpired
		}
		s.logger.Error().Err(err).Str("user_id", claims.Subject).Msg("Failed to read stored refresh token")
		return nil, err
	}

	// Exchange now so a revoked grant surfaces before any document is created.
	src := s.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh})
	tok, err := src.Token()
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", claims.Subject).Msg("Refresh token exchange failed")
		return nil, &UpstreamError{Kind: ErrTokenExpired, Err: err}
	}
	return oauth2.ReuseTokenSource(tok, src), nil
}

func (s *googleIntegrationService) Link(ctx context.Context, userID, refreshToken string) error {
	if s.secrets == nil {
		return ErrNotConfigured
	}
	if err := s.secrets.StoreRefreshToken(ctx, userID, refreshToken); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to store refresh token")
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("Google refresh token linked")
	return nil
}

func (s *googleIntegrationService) Unlink(ctx context.Context, userID string) error {
	if s.secrets == nil {
		return ErrNotConfigured
	}
	if err := s.secrets.DeleteRefreshToken(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete refresh token")
		return err
	}
	return nil
}
