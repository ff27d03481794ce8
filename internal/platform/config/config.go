// Package config loads service configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server and CLI need to run.
type Config struct {
	Addr     string
	LogLevel string

	// Extract locations and the optional column alias map.
	CAASExtractPath string
	BSSExtractPath  string
	ColumnAliasPath string

	// Persistence. Empty DatabaseURL selects the in-memory stores.
	DatabaseURL string

	// Redis cache for the latest run summary. Empty disables caching.
	RedisURL   string
	SummaryTTL time.Duration

	// Kafka report publishing. Empty brokers disable publishing.
	KafkaBrokers []string
	KafkaTopic   string

	// Auth for mutating endpoints: a JWT HMAC key and/or a bcrypt hash of
	// the accepted API key.
	JWTSigningKey string
	APIKeyHash    string

	// Rate limit for run triggers, runs per minute.
	RunsPerMinute int
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("COHORTCOMPARE_ADDR", ":8080"),
		LogLevel:        envOr("COHORTCOMPARE_LOG_LEVEL", "info"),
		CAASExtractPath: os.Getenv("COHORTCOMPARE_CAAS_EXTRACT"),
		BSSExtractPath:  os.Getenv("COHORTCOMPARE_BSS_EXTRACT"),
		ColumnAliasPath: os.Getenv("COHORTCOMPARE_COLUMN_ALIASES"),
		DatabaseURL:     os.Getenv("COHORTCOMPARE_DATABASE_URL"),
		RedisURL:        os.Getenv("COHORTCOMPARE_REDIS_URL"),
		SummaryTTL:      15 * time.Minute,
		KafkaTopic:      envOr("COHORTCOMPARE_KAFKA_TOPIC", "cohortcompare.run-reports"),
		JWTSigningKey:   os.Getenv("COHORTCOMPARE_JWT_SIGNING_KEY"),
		APIKeyHash:      os.Getenv("COHORTCOMPARE_API_KEY_HASH"),
		RunsPerMinute:   2,
	}

	if brokers := os.Getenv("COHORTCOMPARE_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if ttl := os.Getenv("COHORTCOMPARE_SUMMARY_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			cfg.SummaryTTL = parsed
		}
	}
	if rpm := os.Getenv("COHORTCOMPARE_RUNS_PER_MINUTE"); rpm != "" {
		if parsed, err := strconv.Atoi(rpm); err == nil && parsed > 0 {
			cfg.RunsPerMinute = parsed
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
