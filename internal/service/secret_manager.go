package service

import (
	"context"
	"errors"
	"fmt"

	"inforia/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNoStoredToken is returned when the user never linked a refresh token.
var ErrNoStoredToken = errors.New("no stored refresh token")

// SecretManagerService keeps each professional's Google refresh token out of the database.
type SecretManagerService interface {
	StoreRefreshToken(ctx context.Context, userID, refreshToken string) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	DeleteRefreshToken(ctx context.Context, userID string) error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, cfg *config.Config) (SecretManagerService, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID is not set")
	}

	// Secret Manager requires a real GCP project even for local development.
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: cfg.GCPProjectID,
	}, nil
}

func (s *secretManagerService) secretPath(userID string) (name, path string) {
	name = fmt.Sprintf("user-%s-google-refresh-token", userID)
	return name, fmt.Sprintf("projects/%s/secrets/%s", s.projectID, name)
}

func (s *secretManagerService) StoreRefreshToken(ctx context.Context, userID, refreshToken string) error {
	secretName, secretPath := s.secretPath(userID)

	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: secretPath})
	if status.Code(err) == codes.NotFound {
		createReq := &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: secretName,
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{
						Automatic: &secretmanagerpb.Replication_Automatic{},
					},
				},
				Labels: map[string]string{"kind": "google-refresh-token"},
			},
		}
		if _, err := s.client.CreateSecret(ctx, createReq); err != nil {
			return fmt.Errorf("failed to create secret: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to look up secret: %w", err)
	}

	_, err = s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent:  secretPath,
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(refreshToken)},
	})
	if err != nil {
		return fmt.Errorf("failed to add secret version: %w", err)
	}
	return nil
}

func (s *secretManagerService) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	_, secretPath := s.secretPath(userID)

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretPath + "/versions/latest",
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", ErrNoStoredToken
		}
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	return string(result.Payload.Data), nil
}

func (s *secretManagerService) DeleteRefreshToken(ctx context.Context, userID string) error {
	_, secretPath := s.secretPath(userID)

	err := s.client.DeleteSecret(ctx, &secretmanagerpb.DeleteSecretRequest{Name: secretPath})
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}
