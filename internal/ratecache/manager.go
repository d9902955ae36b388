// Package ratecache decides whether the persisted rate snapshot is fresh
// enough to serve or whether a remote refresh is required.
package ratecache

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/yelinaung/fxrates/internal/exchange"
	"gitlab.com/yelinaung/fxrates/internal/logger"
	"gitlab.com/yelinaung/fxrates/internal/metrics"
	"gitlab.com/yelinaung/fxrates/internal/models"
)

// Threshold is how long a persisted snapshot stays fresh.
const Threshold = 1800 * time.Second

// Store is the persistence the manager needs.
type Store interface {
	LastFetchTime(ctx context.Context) (int64, error)
	SaveLastFetchTime(ctx context.Context, ts int64) error
	Snapshot(ctx context.Context) (models.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithThreshold overrides the freshness window.
func WithThreshold(d time.Duration) Option {
	return func(m *Manager) { m.threshold = d }
}

// Manager serves rate lists from the store while they are fresh and
// refreshes them from the remote source otherwise. Calls are serialized.
type Manager struct {
	store     Store
	source    exchange.Source
	clock     func() time.Time
	threshold time.Duration
	tracer    trace.Tracer

	mu       sync.Mutex
	latest   []models.Rate
	resolved bool
}

// New creates a Manager.
func New(store Store, source exchange.Source, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		source:    source,
		clock:     time.Now,
		threshold: Threshold,
		tracer:    otel.Tracer("gitlab.com/yelinaung/fxrates/internal/ratecache"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetLatestRates returns the current rate list. A stale or missing snapshot
// triggers exactly one remote fetch; a remote failure is never masked by the
// stale copy.
func (m *Manager) GetLatestRates(ctx context.Context) ([]models.Rate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveLocked(ctx)
}

// SortedCurrencies returns the codes of the most recently resolved list in
// ascending order, resolving one first if none has been obtained yet.
func (m *Manager) SortedCurrencies(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.resolved {
		if _, err := m.resolveLocked(ctx); err != nil {
			return nil, err
		}
	}

	codes := make([]string, 0, len(m.latest))
	for _, r := range m.latest {
		codes = append(codes, r.Currency)
	}
	slices.Sort(codes)
	return codes, nil
}

// Latest returns the most recently resolved list, or nil.
func (m *Manager) Latest() []models.Rate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.latest)
}

func (m *Manager) resolveLocked(ctx context.Context) ([]models.Rate, error) {
	ctx, span := m.tracer.Start(ctx, "ratecache.GetLatestRates")
	defer span.End()

	log := logger.Component("ratecache")
	now := m.clock().Unix()

	last, err := m.store.LastFetchTime(ctx)
	if err != nil {
		return nil, m.fail(span, OpReadTimestamp, err)
	}

	var rates []models.Rate
	if m.isStale(last, now) {
		span.SetAttributes(attribute.Bool("fxrates.cache_hit", false))
		log.Debug().Int64("last_fetch", last).Int64("now", now).Msg("Snapshot stale, refreshing")

		started := time.Now()
		snap, err := m.source.GetRates(ctx)
		metrics.ObserveFetch(started)
		if err != nil {
			return nil, m.fail(span, OpFetchRemote, err)
		}
		if err := m.store.SaveSnapshot(ctx, snap); err != nil {
			return nil, m.fail(span, OpPersistSnapshot, err)
		}
		if err := m.store.SaveLastFetchTime(ctx, now); err != nil {
			return nil, m.fail(span, OpPersistTimestamp, err)
		}

		rates = snap.Rates()
		metrics.RateLookupsTotal.WithLabelValues(metrics.OutcomeRefresh).Inc()
		log.Info().Int("currencies", len(rates)).Msg("Refreshed exchange rates")
	} else {
		span.SetAttributes(attribute.Bool("fxrates.cache_hit", true))

		snap, err := m.store.Snapshot(ctx)
		if err != nil {
			return nil, m.fail(span, OpReadSnapshot, err)
		}

		rates = snap.Rates()
		metrics.RateLookupsTotal.WithLabelValues(metrics.OutcomeHit).Inc()
		log.Debug().Int("currencies", len(rates)).Msg("Serving cached exchange rates")
	}

	m.latest = rates
	m.resolved = true
	metrics.SnapshotCurrencies.Set(float64(len(rates)))
	span.SetAttributes(attribute.Int("fxrates.currencies", len(rates)))

	return slices.Clone(rates), nil
}

// isStale compares without computing now-last, which overflows for the
// NeverFetched sentinel and other extreme values.
func (m *Manager) isStale(last, now int64) bool {
	if last == models.NeverFetched {
		return true
	}
	return last < now-int64(m.threshold/time.Second)
}

func (m *Manager) fail(span trace.Span, op string, err error) error {
	metrics.RateLookupsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
	metrics.FetchFailuresTotal.WithLabelValues(op).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, op)

	log := logger.Component("ratecache")
	log.Warn().Err(err).Str("op", op).Msg("Failed to obtain exchange rates")
	return &FetchError{Op: op, Err: err}
}
