package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Cache backends for the rate cache client's local snapshot store.
const (
	CacheBackendMemory = "memory"
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	JWTSecret          string
	MigrationsPath     string
	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter formatted rate, e.g. "100-M"

	// Rate provider
	RateProviderURL     string
	RateProviderTimeout time.Duration
	RateMarginPercent   decimal.Decimal

	// Rate cache client
	RateCacheTTL          time.Duration
	RateCacheFetchTimeout time.Duration
	RateCacheBackend      string
	RateCacheSQLitePath   string
	RedisURL              string

	// Scheduling
	RateRefreshSchedule        string
	RateRefreshMaxRetries      uint64
	RateHistoryRetention       time.Duration
	RateHistoryCleanupSchedule string

	// Events
	KafkaBrokers    []string
	KafkaRatesTopic string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("RATE_PROVIDER_URL", "https://open.er-api.com/v6/latest")
	viper.SetDefault("RATE_PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("RATE_MARGIN_PERCENT", "2.5")
	viper.SetDefault("RATE_CACHE_TTL", "5m")
	viper.SetDefault("RATE_CACHE_FETCH_TIMEOUT", "3s")
	viper.SetDefault("RATE_CACHE_BACKEND", CacheBackendMemory)
	viper.SetDefault("RATE_CACHE_SQLITE_PATH", "rates_cache.db")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("RATE_REFRESH_SCHEDULE", "0 0 * * * *") // hourly, with seconds field
	viper.SetDefault("RATE_REFRESH_MAX_RETRIES", 3)
	viper.SetDefault("RATE_HISTORY_RETENTION", "168h")
	viper.SetDefault("RATE_HISTORY_CLEANUP_SCHEDULE", "0 30 3 * * *")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_RATES_TOPIC", "fx.rates.refreshed")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.RateProviderURL = viper.GetString("RATE_PROVIDER_URL")
	cfg.RateProviderTimeout = durationOrDefault("RATE_PROVIDER_TIMEOUT", 10*time.Second)

	marginStr := viper.GetString("RATE_MARGIN_PERCENT")
	margin, err := decimal.NewFromString(marginStr)
	// Stored as NUMERIC(7,4): at most four fractional digits.
	if err != nil || margin.IsNegative() || margin.GreaterThanOrEqual(decimal.NewFromInt(100)) || !margin.Equal(margin.Truncate(4)) {
		margin = decimal.RequireFromString("2.5")
		log.Printf("Warning: Invalid value for RATE_MARGIN_PERCENT ('%s'). Defaulting to %s.\n", marginStr, margin.String())
	}
	cfg.RateMarginPercent = margin

	cfg.RateCacheTTL = durationOrDefault("RATE_CACHE_TTL", 5*time.Minute)
	cfg.RateCacheFetchTimeout = durationOrDefault("RATE_CACHE_FETCH_TIMEOUT", 3*time.Second)

	cfg.RateCacheBackend = strings.ToLower(viper.GetString("RATE_CACHE_BACKEND"))
	switch cfg.RateCacheBackend {
	case CacheBackendMemory, CacheBackendSQLite, CacheBackendRedis:
	default:
		log.Printf("Warning: Unknown RATE_CACHE_BACKEND ('%s'). Defaulting to %s.\n", cfg.RateCacheBackend, CacheBackendMemory)
		cfg.RateCacheBackend = CacheBackendMemory
	}
	cfg.RateCacheSQLitePath = viper.GetString("RATE_CACHE_SQLITE_PATH")
	cfg.RedisURL = viper.GetString("REDIS_URL")

	cfg.RateRefreshSchedule = viper.GetString("RATE_REFRESH_SCHEDULE")
	cfg.RateRefreshMaxRetries = viper.GetUint64("RATE_REFRESH_MAX_RETRIES")
	cfg.RateHistoryRetention = durationOrDefault("RATE_HISTORY_RETENTION", 7*24*time.Hour)
	cfg.RateHistoryCleanupSchedule = viper.GetString("RATE_HISTORY_CLEANUP_SCHEDULE")

	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaRatesTopic = viper.GetString("KAFKA_RATES_TOPIC")

	return cfg, nil
}

// durationOrDefault parses key as a positive time.Duration, logging and falling back on bad input.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
