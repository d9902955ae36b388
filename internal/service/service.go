// Package service ties the rate cache to the conversion engine: rates are
// resolved through the cache first, then pushed into the engine, and
// conversions read only the engine's in-memory table.
package service

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"gitlab.com/yelinaung/fxrates/internal/converter"
	"gitlab.com/yelinaung/fxrates/internal/logger"
	"gitlab.com/yelinaung/fxrates/internal/models"
)

// RateProvider resolves the current rate list.
type RateProvider interface {
	GetLatestRates(ctx context.Context) ([]models.Rate, error)
	SortedCurrencies(ctx context.Context) ([]string, error)
}

// Service is the application-facing API used by the CLI, the bot and the
// scheduler.
type Service struct {
	rates       RateProvider
	engine      *converter.Engine
	conversions metric.Int64Counter

	mu     sync.Mutex
	loaded bool
}

// New creates a Service.
func New(rates RateProvider, engine *converter.Engine) *Service {
	meter := otel.Meter("gitlab.com/yelinaung/fxrates/internal/service")
	conversions, err := meter.Int64Counter("fxrates.conversions",
		metric.WithDescription("Conversions requested through the service"),
	)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to create conversions counter")
	}
	return &Service{rates: rates, engine: engine, conversions: conversions}
}

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Refresh resolves the current rate list and loads it into the engine.
func (s *Service) Refresh(ctx context.Context) ([]models.Rate, error) {
	rates, err := s.rates.GetLatestRates(ctx)
	if err != nil {
		return nil, err
	}

	s.engine.UpdateRates(rates)

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()

	logger.Log.Debug().Int("currencies", len(rates)).Msg("Loaded rates into engine")
	return rates, nil
}

// Convert converts amount between two currency codes.
func (s *Service) Convert(ctx context.Context, from, to string, amount float64) (float64, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	from, to = NormalizeCode(from), NormalizeCode(to)
	result, err := s.engine.Convert(from, to, amount)
	s.record(ctx, "single", err)
	return result, err
}

// ConvertToAll converts amount into every currency directly reachable from from.
func (s *Service) ConvertToAll(ctx context.Context, from string, amount float64) ([]models.Conversion, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	result := s.engine.ConvertToAll(NormalizeCode(from), amount)
	s.record(ctx, "all", nil)
	return result, nil
}

// Currencies returns the known currency codes in ascending order.
func (s *Service) Currencies(ctx context.Context) ([]string, error) {
	return s.rates.SortedCurrencies(ctx)
}

// Rates returns the current rate list, refreshing the engine on the way.
func (s *Service) Rates(ctx context.Context) ([]models.Rate, error) {
	return s.Refresh(ctx)
}

// Base returns the currency rates are quoted against.
func (s *Service) Base() string {
	return s.engine.Base()
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if loaded {
		return nil
	}
	_, err := s.Refresh(ctx)
	return err
}

func (s *Service) record(ctx context.Context, kind string, err error) {
	if s.conversions == nil {
		return
	}
	s.conversions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("ok", err == nil),
	))
}
