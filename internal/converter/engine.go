// Package converter converts amounts between currencies using an in-memory
// rate table quoted against a single base currency.
package converter

import (
	"fmt"
	"slices"
	"sync"

	"gitlab.com/yelinaung/fxrates/internal/metrics"
	"gitlab.com/yelinaung/fxrates/internal/models"
)

// ConversionError reports that no conversion path exists for a pair.
type ConversionError struct {
	From string
	To   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("no conversion path from %s to %s", e.From, e.To)
}

// Engine holds the current rate table. Writers are exclusive, readers shared.
type Engine struct {
	base string

	mu    sync.RWMutex
	rates map[string]float64
}

// New creates an empty engine. base is the currency the table is quoted
// against; it has an implicit rate of 1 even when missing from the table.
func New(base string) *Engine {
	return &Engine{
		base:  base,
		rates: map[string]float64{},
	}
}

// UpdateRates replaces the whole table. Later duplicates win.
func (e *Engine) UpdateRates(list []models.Rate) {
	table := make(map[string]float64, len(list))
	for _, r := range list {
		table[r.Currency] = r.Rate
	}

	e.mu.Lock()
	e.rates = table
	e.mu.Unlock()
}

// Convert converts amount from one currency to another, going through at most
// one intermediary currency when no direct pair is available.
func (e *Engine) Convert(from, to string, amount float64) (float64, error) {
	if from == to {
		metrics.ConversionsTotal.WithLabelValues("identity").Inc()
		return amount, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.rates) == 0 {
		metrics.ConversionsTotal.WithLabelValues("none").Inc()
		return 0, &ConversionError{From: from, To: to}
	}

	rateFrom, okFrom := e.rates[from]
	rateTo, okTo := e.rates[to]
	if okFrom && okTo {
		metrics.ConversionsTotal.WithLabelValues("direct").Inc()
		return amount / rateFrom * rateTo, nil
	}

	for _, mediator := range e.mediatorsLocked() {
		if mediator == from || mediator == to {
			continue
		}
		first, ok := e.legLocked(from, mediator)
		if !ok {
			continue
		}
		second, ok := e.legLocked(mediator, to)
		if !ok {
			continue
		}
		metrics.ConversionsTotal.WithLabelValues("mediated").Inc()
		return amount * first * second, nil
	}

	metrics.ConversionsTotal.WithLabelValues("none").Inc()
	return 0, &ConversionError{From: from, To: to}
}

// ConvertToAll converts amount into every currency the table can reach
// directly from from. Results are ordered by currency code.
func (e *Engine) ConvertToAll(from string, amount float64) []models.Conversion {
	out := []models.Conversion{}
	if amount <= 0 {
		return out
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	rateFrom, ok := e.rates[from]
	if !ok {
		return out
	}
	for code, rate := range e.rates {
		out = append(out, models.Conversion{Currency: code, Amount: amount / rateFrom * rate})
	}
	slices.SortFunc(out, func(a, b models.Conversion) int {
		switch {
		case a.Currency < b.Currency:
			return -1
		case a.Currency > b.Currency:
			return 1
		}
		return 0
	})
	return out
}

// Currencies returns the table's codes in ascending order.
func (e *Engine) Currencies() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	codes := make([]string, 0, len(e.rates))
	for code := range e.rates {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Len returns the number of currencies in the table.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.rates)
}

// Base returns the currency the table is quoted against.
func (e *Engine) Base() string {
	return e.base
}

func (e *Engine) mediatorsLocked() []string {
	codes := make([]string, 0, len(e.rates)+1)
	for code := range e.rates {
		codes = append(codes, code)
	}
	if _, ok := e.rates[e.base]; !ok && e.base != "" {
		codes = append(codes, e.base)
	}
	slices.Sort(codes)
	return codes
}

// rateLocked returns the rate of code against the base.
func (e *Engine) rateLocked(code string) (float64, bool) {
	if r, ok := e.rates[code]; ok {
		return r, true
	}
	if code == e.base && code != "" {
		return 1, true
	}
	return 0, false
}

// legLocked returns the multiplier converting one unit of a into b.
func (e *Engine) legLocked(a, b string) (float64, bool) {
	ra, ok := e.rateLocked(a)
	if !ok {
		return 0, false
	}
	rb, ok := e.rateLocked(b)
	if !ok {
		return 0, false
	}
	return rb / ra, true
}
