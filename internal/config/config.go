package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Core settings (Fill up for local development)
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	APIBaseURL  string `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	// Document database
	MongoURI       string `envconfig:"MONGO_URI"`
	MongoURISecret string `envconfig:"MONGO_URI_SECRET"`
	MongoDatabase  string `envconfig:"MONGO_DATABASE" default:"learntrack"`

	// Course catalog cache (disabled when empty)
	RedisURL        string `envconfig:"REDIS_URL"`
	CacheTTLSeconds int    `envconfig:"CACHE_TTL_SEC" default:"300"`

	// Module content storage (uploads disabled when bucket is empty)
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	// Progress events (forwarding disabled when project is empty)
	GCPProjectID               string `envconfig:"GCP_PROJECT_ID"`
	PubSubEmulatorHost         string `envconfig:"PUBSUB_EMULATOR_HOST"`
	PubSubProgressTopic        string `envconfig:"PUBSUB_PROGRESS_TOPIC" default:"progress-events"`
	PubSubProgressSubscription string `envconfig:"PUBSUB_PROGRESS_SUBSCRIPTION" default:"progress-events-stats"`

	// Dead letter push endpoint
	DLQEndpointURL                string `envconfig:"DLQ_ENDPOINT_URL"`
	PubSubPushServiceAccountEmail string `envconfig:"PUBSUB_PUSH_SERVICE_ACCOUNT_EMAIL"`

	// Grading
	GradingPartialCredit bool `envconfig:"GRADING_PARTIAL_CREDIT" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with local defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CacheTTL returns the catalog cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// EventsEnabled reports whether progress events are forwarded to Pub/Sub.
func (c *Config) EventsEnabled() bool {
	return c.GCPProjectID != ""
}
