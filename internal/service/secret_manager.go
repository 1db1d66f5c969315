package service

import (
	"context"
	"fmt"
	"strings"

	"learntrack/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

type SecretManagerService interface {
	// AccessSecret returns the latest version of a secret. name is either a
	// bare secret id or a full projects/.../secrets/... resource name.
	AccessSecret(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (SecretManagerService, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP project id is not set")
	}
	// Secret Manager has no emulator; local development needs a real project.
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &secretManagerService{
		client:    client,
		projectID: cfg.GCPProjectID,
	}, nil
}

// secretVersionName resolves a secret reference to its latest version.
func secretVersionName(projectID, name string) string {
	if strings.HasPrefix(name, "projects/") {
		if strings.Contains(name, "/versions/") {
			return name
		}
		return name + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name)
}

func (s *secretManagerService) AccessSecret(ctx context.Context, name string) (string, error) {
	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretVersionName(s.projectID, name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	return string(result.Payload.Data), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

// ResolveMongoURI returns cfg.MongoURI, or the value of cfg.MongoURISecret
// from Secret Manager when a secret is configured.
func ResolveMongoURI(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.MongoURISecret == "" {
		if cfg.MongoURI == "" {
			return "", fmt.Errorf("MONGO_URI or MONGO_URI_SECRET must be set")
		}
		return cfg.MongoURI, nil
	}
	sm, err := NewSecretManagerService(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer sm.Close()
	return sm.AccessSecret(ctx, cfg.MongoURISecret)
}
