// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
)

const (
	defaultRatesAPIURL  = "https://openexchangerates.org/api"
	defaultBaseCurrency = "USD"
	defaultHTTPTimeout  = 10 * time.Second
	defaultSQLitePath   = "fxrates.db"
	defaultMetricsAddr  = ":9090"
)

// Config holds all configuration for the application.
type Config struct {
	RatesAPIURL        string
	RatesAppID         string
	BaseCurrency       string
	HTTPTimeout        time.Duration
	StoreDriver        string
	DatabaseURL        string
	RedisURL           string
	SQLitePath         string
	StoreKeyPrefix     string
	LogLevel           string
	LogFormat          string
	TelegramBotToken   string
	WhitelistedUserIDs []int64
	GeminiAPIKey       string
	GeminiModel        string
	RefreshSchedule    string
	MetricsAddr        string
	OTelExporter       string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RatesAPIURL:      envOr("RATES_API_URL", defaultRatesAPIURL),
		RatesAppID:       os.Getenv("RATES_APP_ID"),
		BaseCurrency:     strings.ToUpper(envOr("RATES_BASE_CURRENCY", defaultBaseCurrency)),
		HTTPTimeout:      defaultHTTPTimeout,
		StoreDriver:      strings.ToLower(envOr("STORE_DRIVER", DriverMemory)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		SQLitePath:       envOr("SQLITE_PATH", defaultSQLitePath),
		StoreKeyPrefix:   os.Getenv("STORE_KEY_PREFIX"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "console"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      os.Getenv("GEMINI_MODEL"),
		RefreshSchedule:  strings.TrimSpace(os.Getenv("REFRESH_SCHEDULE")),
		MetricsAddr:      defaultMetricsAddr,
		OTelExporter:     strings.ToLower(envOr("OTEL_EXPORTER", "none")),
	}

	if raw, ok := os.LookupEnv("METRICS_ADDR"); ok {
		cfg.MetricsAddr = strings.TrimSpace(raw)
	}

	var errs []string

	if raw := os.Getenv("RATES_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("RATES_HTTP_TIMEOUT %q is not a positive duration", raw))
		} else {
			cfg.HTTPTimeout = d
		}
	}

	whitelistStr := os.Getenv("WHITELISTED_USER_IDS")
	if whitelistStr != "" {
		for idStr := range strings.SplitSeq(whitelistStr, ",") {
			idStr = strings.TrimSpace(idStr)
			if idStr == "" {
				continue
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				continue
			}
			cfg.WhitelistedUserIDs = append(cfg.WhitelistedUserIDs, id)
		}
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, validationError(errs)
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() []string {
	var errs []string

	if c.RatesAppID == "" {
		errs = append(errs, "RATES_APP_ID is required")
	}

	switch c.StoreDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case DriverRedis:
		if c.RedisURL == "" {
			errs = append(errs, "REDIS_URL is required when STORE_DRIVER=redis")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER %q is not one of memory, postgres, redis, sqlite", c.StoreDriver))
	}

	switch c.OTelExporter {
	case "none", "stdout", "otlp-http", "otlp-grpc":
	default:
		errs = append(errs, fmt.Sprintf("OTEL_EXPORTER %q is not one of none, stdout, otlp-http, otlp-grpc", c.OTelExporter))
	}

	return errs
}

// ValidateServe checks the settings only the long-running bot needs.
func (c *Config) ValidateServe() error {
	if c.TelegramBotToken == "" {
		return validationError([]string{"TELEGRAM_BOT_TOKEN is required"})
	}
	return nil
}

// IsUserWhitelisted reports whether a Telegram user may use the bot.
// An empty whitelist admits everyone.
func (c *Config) IsUserWhitelisted(userID int64) bool {
	if len(c.WhitelistedUserIDs) == 0 {
		return true
	}
	return slices.Contains(c.WhitelistedUserIDs, userID)
}

func validationError(errs []string) error {
	return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
