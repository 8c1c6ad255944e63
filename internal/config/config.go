// Package config loads server configuration from the environment.
// A .env file in the working directory is read first when present; real
// environment variables take precedence over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/mmynk/claimwise/internal/calculator"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port   int
	DBPath string

	LogLevel  string
	LogFormat string

	JWTSecret string
	JWTTTL    time.Duration

	// Coverage is the share of claim cost paid out on approval.
	Coverage decimal.Decimal

	RedisAddr     string
	RedisPassword string
	LockTTL       time.Duration
	LockWait      time.Duration

	AMQPURL      string
	AMQPExchange string

	OTelEnabled     bool
	OTelSampleRatio float64

	RateLimitPerMinute int
	CORSOrigins        []string
}

// Load reads configuration. It fails on values that cannot be parsed or that
// break a business rule, such as a coverage outside (0, 1].
func Load() (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	coverage, err := decimal.NewFromString(getEnv("COVERAGE_PERCENTAGE", calculator.DefaultCoverage.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid COVERAGE_PERCENTAGE: %w", err)
	}
	if err := calculator.ValidateCoverage(coverage); err != nil {
		return nil, fmt.Errorf("invalid COVERAGE_PERCENTAGE: %w", err)
	}

	env := &envReader{}
	cfg := &Config{
		Port:               env.int("PORT", 8080),
		DBPath:             getEnv("DB_PATH", "./data/claims.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTL:             env.duration("JWT_TTL", 24*time.Hour),
		Coverage:           coverage,
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		LockTTL:            env.duration("LOCK_TTL", 10*time.Second),
		LockWait:           env.duration("LOCK_WAIT", 2*time.Second),
		AMQPURL:            getEnv("AMQP_URL", ""),
		AMQPExchange:       getEnv("AMQP_EXCHANGE", "claimwise.events"),
		OTelEnabled:        env.bool("OTEL_ENABLED", false),
		OTelSampleRatio:    env.float("OTEL_SAMPLER_RATIO", 1),
		RateLimitPerMinute: env.int("RATE_LIMIT_PER_MINUTE", 600),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
	}
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireSecret fails when no JWT signing secret is configured. Commands that
// never touch tokens, such as migrate, skip it.
func (c *Config) RequireSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// envReader parses typed variables. An unset variable yields the fallback;
// a set but malformed one is recorded in errs.
type envReader struct {
	errs []error
}

func (r *envReader) fail(key, value string, err error) {
	r.errs = append(r.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
}

func (r *envReader) int(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, raw, err)
		return fallback
	}
	return v
}

func (r *envReader) float(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, raw, err)
		return fallback
	}
	return v
}

func (r *envReader) bool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	switch strings.ToLower(raw) {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	r.fail(key, raw, errors.New("expected true or false"))
	return fallback
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(key, raw, err)
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
