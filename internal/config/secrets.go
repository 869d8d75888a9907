package config

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// ResolveJWTSecret fills in cfg.JWTSecret from Secret Manager when the
// JWT_SECRET env var is not set. Deployments that inject the secret via the
// environment never touch GCP.
func ResolveJWTSecret(ctx context.Context, cfg *Config, opts ...option.ClientOption) error {
	if cfg.JWTSecret != "" {
		return nil
	}
	if cfg.GCPProjectID == "" {
		return fmt.Errorf("JWT_SECRET is not set and no GCP project is configured for Secret Manager")
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	defer client.Close()

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", cfg.GCPProjectID, cfg.JWTSecretName)
	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return fmt.Errorf("failed to access secret %s: %w", name, err)
	}

	cfg.JWTSecret = string(result.Payload.Data)
	return nil
}
