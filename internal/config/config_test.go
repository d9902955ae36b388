package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("RATES_APP_ID", "app-id-123")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("RATES_HTTP_TIMEOUT", "")
	t.Setenv("OTEL_EXPORTER", "")
	t.Setenv("WHITELISTED_USER_IDS", "")
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RATES_API_URL", "")
		t.Setenv("RATES_BASE_CURRENCY", "")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "app-id-123", cfg.RatesAppID)
		require.Equal(t, defaultRatesAPIURL, cfg.RatesAPIURL)
		require.Equal(t, "USD", cfg.BaseCurrency)
		require.Equal(t, DriverMemory, cfg.StoreDriver)
		require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
		require.Equal(t, "none", cfg.OTelExporter)
	})

	t.Run("reads optional gemini settings", func(t *testing.T) {
		setRequired(t)
		t.Setenv("GEMINI_API_KEY", "gem-key")
		t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "gem-key", cfg.GeminiAPIKey)
		require.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	})

	t.Run("requires app id", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RATES_APP_ID", "")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "RATES_APP_ID is required")
	})

	t.Run("normalizes base currency and driver", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RATES_BASE_CURRENCY", "eur")
		t.Setenv("STORE_DRIVER", "SQLite")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "EUR", cfg.BaseCurrency)
		require.Equal(t, DriverSQLite, cfg.StoreDriver)
	})

	t.Run("postgres requires database url", func(t *testing.T) {
		setRequired(t)
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "DATABASE_URL is required")
	})

	t.Run("redis requires redis url", func(t *testing.T) {
		setRequired(t)
		t.Setenv("STORE_DRIVER", "redis")
		t.Setenv("REDIS_URL", "")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "REDIS_URL is required")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		setRequired(t)
		t.Setenv("STORE_DRIVER", "mongo")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), `"mongo"`)
	})

	t.Run("parses http timeout", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RATES_HTTP_TIMEOUT", "3s")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	})

	t.Run("collects every validation problem", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RATES_APP_ID", "")
		t.Setenv("RATES_HTTP_TIMEOUT", "soon")
		t.Setenv("OTEL_EXPORTER", "jaeger")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "RATES_APP_ID")
		require.Contains(t, err.Error(), "RATES_HTTP_TIMEOUT")
		require.Contains(t, err.Error(), "OTEL_EXPORTER")
	})

	t.Run("parses whitelisted user IDs", func(t *testing.T) {
		setRequired(t)
		t.Setenv("WHITELISTED_USER_IDS", " 123 , invalid, 456,,")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, []int64{123, 456}, cfg.WhitelistedUserIDs)
	})

	t.Run("empty metrics addr disables listener", func(t *testing.T) {
		setRequired(t)
		t.Setenv("METRICS_ADDR", "")

		cfg, err := Load()
		require.NoError(t, err)
		require.Empty(t, cfg.MetricsAddr)
	})
}

func TestValidateServe(t *testing.T) {
	t.Run("requires bot token", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.ValidateServe()
		require.Error(t, err)
		require.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	})

	t.Run("passes with token", func(t *testing.T) {
		cfg := &Config{TelegramBotToken: "token"}
		require.NoError(t, cfg.ValidateServe())
	})
}

func TestIsUserWhitelisted(t *testing.T) {
	t.Run("empty whitelist admits everyone", func(t *testing.T) {
		cfg := &Config{}
		require.True(t, cfg.IsUserWhitelisted(1))
	})

	t.Run("checks listed ids", func(t *testing.T) {
		cfg := &Config{WhitelistedUserIDs: []int64{10, 20}}
		require.True(t, cfg.IsUserWhitelisted(20))
		require.False(t, cfg.IsUserWhitelisted(30))
	})
}
