package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET"`

	// GCP settings. Project ID enables the Secret Manager fallback for
	// JWT_SECRET and the cross-instance fanout bridge.
	GCPProjectID        string `envconfig:"GCP_PROJECT_ID"`
	JWTSecretName       string `envconfig:"JWT_SECRET_NAME" default:"workspace-jwt-secret"`
	FanoutTopic         string `envconfig:"FANOUT_TOPIC" default:"workspace_fanout"`
	FanoutSubscription  string `envconfig:"FANOUT_SUBSCRIPTION" default:"workspace_fanout_sub"`
	FanoutBridgeEnabled bool   `envconfig:"FANOUT_BRIDGE_ENABLED" default:"false"`

	// Blob storage settings (logos, avatars, banners).
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"workspace-assets"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	// Free plan limits.
	FreePlanFolderLimit       int `envconfig:"FREE_PLAN_FOLDER_LIMIT" default:"100"`
	FreePlanCollaboratorLimit int `envconfig:"FREE_PLAN_COLLABORATOR_LIMIT" default:"2"`

	// Realtime channel settings.
	SocketPath string `envconfig:"SOCKET_PATH" default:"/api/socket/io"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
