package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	JWTClockSkew  time.Duration
	AdminTokenTTL time.Duration

	DBMaxConns int
	DBMinConns int

	CatalogCacheTTL     time.Duration
	CatalogDefaultPage  int
	CatalogDefaultLimit int
	CatalogMaxLimit     int
	AdminMaxPageSize    int

	PricingDefaultRoundTo int64
	PricingMaxRoundTo     int64

	WhatsAppNumber string

	InquiryRateLimit  int
	InquiryRateWindow time.Duration
	AdminRateLimit    int
	AdminRateWindow   time.Duration

	IdempotencyTTL time.Duration
	BodyLimitBytes int64

	AnalyticsCacheTTL     time.Duration
	AnalyticsDefaultRange int

	MigrateOnStart   bool
	LockTTL          time.Duration
	LockRetryBackoff time.Duration

	TaskQueue         string
	TaskUniqueTTL     time.Duration
	WorkerConcurrency int

	AuditEnabled      bool
	AuditSamplingRate float64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		JWTSecret:     k.String("JWT_SECRET"),
		JWTIssuer:     valueOrDefault(k.String("JWT_ISSUER"), "optima-identity"),
		JWTAudience:   valueOrDefault(k.String("JWT_AUDIENCE"), "optima-admin"),
		JWTClockSkew:  parseDuration(k.String("JWT_CLOCK_SKEW"), "30s"),
		AdminTokenTTL: parseDuration(k.String("ADMIN_TOKEN_TTL"), "12h"),

		DBMaxConns: parseInt(k.String("DB_MAX_CONNS"), 10),
		DBMinConns: parseInt(k.String("DB_MIN_CONNS"), 0),

		CatalogCacheTTL:     parseDuration(k.String("CATALOG_CACHE_TTL"), "60s"),
		CatalogDefaultPage:  parseInt(k.String("CATALOG_DEFAULT_PAGE"), 1),
		CatalogDefaultLimit: parseInt(k.String("CATALOG_DEFAULT_LIMIT"), 12),
		CatalogMaxLimit:     parseInt(k.String("CATALOG_MAX_LIMIT"), 48),
		AdminMaxPageSize:    parseInt(k.String("ADMIN_MAX_PAGE_SIZE"), 100),

		PricingDefaultRoundTo: int64(parseInt(k.String("PRICING_DEFAULT_ROUND_TO"), 100)),
		PricingMaxRoundTo:     int64(parseInt(k.String("PRICING_MAX_ROUND_TO"), 100000)),

		WhatsAppNumber: strings.TrimSpace(k.String("WHATSAPP_NUMBER")),

		InquiryRateLimit:  parseInt(k.String("INQUIRY_RATE_LIMIT"), 10),
		InquiryRateWindow: parseDuration(k.String("INQUIRY_RATE_WINDOW"), "1m"),
		AdminRateLimit:    parseInt(k.String("ADMIN_RATE_LIMIT"), 120),
		AdminRateWindow:   parseDuration(k.String("ADMIN_RATE_WINDOW"), "1m"),

		IdempotencyTTL: parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		BodyLimitBytes: int64(parseInt(k.String("BODY_LIMIT_BYTES"), 1<<20)),

		AnalyticsCacheTTL:     parseDuration(k.String("ANALYTICS_CACHE_TTL"), "30s"),
		AnalyticsDefaultRange: parseInt(k.String("ANALYTICS_DEFAULT_RANGE_DAYS"), 30),

		MigrateOnStart:   parseBool(k.String("MIGRATE_ON_START")),
		LockTTL:          parseDuration(k.String("LOCK_TTL"), "2m"),
		LockRetryBackoff: parseDuration(k.String("LOCK_RETRY_BACKOFF"), "250ms"),

		TaskQueue:         valueOrDefault(k.String("TASK_QUEUE"), "default"),
		TaskUniqueTTL:     parseDuration(k.String("TASK_UNIQUE_TTL"), "5s"),
		WorkerConcurrency: parseInt(k.String("WORKER_CONCURRENCY"), 4),

		AuditEnabled:      parseBoolDefault(k.String("AUDIT_ENABLED"), true),
		AuditSamplingRate: parseFloat(k.String("AUDIT_SAMPLING_RATE"), 1),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.WhatsAppNumber == "" {
		return nil, errors.New("WHATSAPP_NUMBER is required")
	}
	if cfg.PricingDefaultRoundTo <= 0 || cfg.PricingMaxRoundTo < cfg.PricingDefaultRoundTo {
		return nil, fmt.Errorf("invalid pricing rounding: default %d, max %d", cfg.PricingDefaultRoundTo, cfg.PricingMaxRoundTo)
	}
	if cfg.CatalogMaxLimit < cfg.CatalogDefaultLimit {
		cfg.CatalogMaxLimit = cfg.CatalogDefaultLimit
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloat(value string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBool(value string) bool {
	return parseBoolDefault(value, false)
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
