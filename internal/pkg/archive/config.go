package archive

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/PlugSync/internal/pkg/env"
)

// Config holds the webhook archive configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Prefix          string
	Enabled         bool
}

// LoadConfig loads archive configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("ARCHIVE_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("ARCHIVE_S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("ARCHIVE_S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("ARCHIVE_S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("ARCHIVE_S3_ENDPOINT_URL", ""),
		Prefix:          env.GetEnv("ARCHIVE_S3_PREFIX", "webhooks"),
		Enabled:         env.GetEnvBool("WEBHOOK_ARCHIVE_ENABLED", false),
	}

	// Validate required fields if the archive is enabled
	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("ARCHIVE_S3_ACCESS_KEY_ID is required when the webhook archive is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("ARCHIVE_S3_SECRET_ACCESS_KEY is required when the webhook archive is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("ARCHIVE_S3_BUCKET_NAME is required when the webhook archive is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if archiving is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// ObjectKey generates the object key of a webhook payload.
// Format: <prefix>/YYYY/MM/DD/<event type>/<plug id>.json
func (c *Config) ObjectKey(plugID, eventType string, receivedAt time.Time) string {
	prefix := strings.Trim(c.Prefix, "/")
	if prefix == "" {
		prefix = "webhooks"
	}
	eventType = strings.ReplaceAll(eventType, "/", "_")
	if eventType == "" {
		eventType = "unknown"
	}
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s/%s.json",
		prefix, receivedAt.Year(), int(receivedAt.Month()), receivedAt.Day(), eventType, plugID)
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}
