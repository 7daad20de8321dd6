package config

import (
	"fmt"
	"time"

	"github.com/arkandaru/simdoc/internal/configs/env"
)

// ThresholdGate selects what the active threshold filters out of a finished check.
type ThresholdGate string

const (
	GateCandidates ThresholdGate = "candidates"
	GateMatches    ThresholdGate = "matches"
	GateBoth       ThresholdGate = "both"
)

// Config holds all configuration for the application
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration

	// JWT
	JWTSecret   string
	JWTIssuer   string
	JWTTokenTTL time.Duration

	// Rate Limiting
	RateLimitRPS float64

	// Checks
	CheckTimeout     time.Duration
	MaxCandidatesCap int
	ThresholdGate    ThresholdGate
	Aggregation      string // "coverage" or "best"

	// Logging
	LogLevel string

	// Server
	ServerPort  string
	MetricsPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "extraction:stream")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "extraction:group")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "extraction:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_DURATION", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "simdoc")
	tokenHours := env.GetEnvInt("JWT_TOKEN_TTL_HOURS", 12)
	cfg.JWTTokenTTL = time.Duration(tokenHours) * time.Hour

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Checks
	timeoutMinutes := env.GetEnvInt("CHECK_TIMEOUT_MINUTES", 10)
	cfg.CheckTimeout = time.Duration(timeoutMinutes) * time.Minute
	cfg.MaxCandidatesCap = env.GetEnvInt("MAX_CANDIDATES_CAP", 50)
	cfg.ThresholdGate = ThresholdGate(env.GetEnv("THRESHOLD_GATE", string(GateCandidates)))
	cfg.Aggregation = env.GetEnv("AGGREGATION", "coverage")

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")
	cfg.MetricsPort = env.GetEnv("METRICS_PORT", "2112")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxCandidatesCap <= 0 || c.MaxCandidatesCap > 50 {
		return fmt.Errorf("MAX_CANDIDATES_CAP must be in 1..50")
	}
	switch c.ThresholdGate {
	case GateCandidates, GateMatches, GateBoth:
	default:
		return fmt.Errorf("THRESHOLD_GATE must be one of candidates, matches, both")
	}
	if c.Aggregation != "coverage" && c.Aggregation != "best" {
		return fmt.Errorf("AGGREGATION must be coverage or best")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_DURATION must be greater than 0")
	}
	return nil
}
