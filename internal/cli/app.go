package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gitlab.com/yelinaung/fxrates/internal/config"
	"gitlab.com/yelinaung/fxrates/internal/converter"
	"gitlab.com/yelinaung/fxrates/internal/exchange"
	"gitlab.com/yelinaung/fxrates/internal/logger"
	"gitlab.com/yelinaung/fxrates/internal/ratecache"
	"gitlab.com/yelinaung/fxrates/internal/service"
	"gitlab.com/yelinaung/fxrates/internal/store"
	"gitlab.com/yelinaung/fxrates/internal/telemetry"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg      *config.Config
	svc      *service.Service
	rates    *store.RateStore
	shutdown telemetry.ShutdownFunc
}

// appFactory builds an app; tests replace it to avoid real backends.
type appFactory func(ctx context.Context, info BuildInfo) (*app, error)

// newApp loads configuration and wires store, remote client, cache,
// engine and service.
func newApp(ctx context.Context, info BuildInfo) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		Exporter: cfg.OTelExporter,
		Version:  info.Version,
		Writer:   os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	kv, err := store.Open(ctx, storeConfig(cfg))
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	rates := store.NewRateStore(kv)

	client := exchange.NewClient(cfg.RatesAPIURL, cfg.RatesAppID, cfg.BaseCurrency, cfg.HTTPTimeout)
	manager := ratecache.New(rates, client)
	engine := converter.New(client.Base())

	return &app{
		cfg:      cfg,
		svc:      service.New(manager, engine),
		rates:    rates,
		shutdown: shutdown,
	}, nil
}

// storeConfig picks the DSN matching the configured driver.
func storeConfig(cfg *config.Config) store.Config {
	sc := store.Config{Driver: cfg.StoreDriver, KeyPrefix: cfg.StoreKeyPrefix}
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		sc.DSN = cfg.DatabaseURL
	case config.DriverRedis:
		sc.DSN = cfg.RedisURL
	case config.DriverSQLite:
		sc.DSN = cfg.SQLitePath
	}
	return sc
}

// Close releases the store and flushes telemetry.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.rates != nil {
		errs = append(errs, a.rates.Close())
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
	}
	return errors.Join(errs...)
}
