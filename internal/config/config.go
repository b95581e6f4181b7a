package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Retrieval tuning.
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.25"`
	TopK                int     `envconfig:"TOP_K" default:"3"`
	MaxVocabulary       int     `envconfig:"MAX_VOCABULARY" default:"20000"`

	// ReloadInterval is how often the index snapshot is rebuilt from the
	// store.
	ReloadInterval time.Duration `envconfig:"RELOAD_INTERVAL" default:"5m"`

	// FallbackErrorPolicy is "swallow" or "propagate"; see service.ErrorPolicy.
	FallbackErrorPolicy string `envconfig:"FALLBACK_ERROR_POLICY" default:"swallow"`

	FeedbackQueueSize int `envconfig:"FEEDBACK_QUEUE_SIZE" default:"256"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"qalbu-audio"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	SentryDSN         string  `envconfig:"SENTRY_DSN"`
	SentryEnvironment string  `envconfig:"SENTRY_ENVIRONMENT"`
	SentrySampleRate  float64 `envconfig:"SENTRY_SAMPLE_RATE"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("QALBU", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
