// Package models defines the domain entities for the rate cache.
package models

import (
	"math"
	"sort"
)

// NeverFetched marks a store that has never recorded a fetch. It is always stale.
const NeverFetched int64 = math.MinInt64

// Rate is the number of Currency units per one unit of the source's base currency.
type Rate struct {
	Currency string
	Rate     float64
}

// Conversion is one entry of a fan-out conversion result.
type Conversion struct {
	Currency string
	Amount   float64
}

// Snapshot maps currency codes to rates from a single fetch.
type Snapshot map[string]float64

// SnapshotFromRates builds a snapshot from a rate list. Later duplicates win.
func SnapshotFromRates(list []Rate) Snapshot {
	snap := make(Snapshot, len(list))
	for _, r := range list {
		snap[r.Currency] = r.Rate
	}
	return snap
}

// Codes returns the snapshot's currency codes in ascending order.
func (s Snapshot) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Rates returns the snapshot as a list ordered by currency code.
func (s Snapshot) Rates() []Rate {
	list := make([]Rate, 0, len(s))
	for _, code := range s.Codes() {
		list = append(list, Rate{Currency: code, Rate: s[code]})
	}
	return list
}

// CurrencySymbols maps well-known currency codes to display symbols.
var CurrencySymbols = map[string]string{
	"SGD": "S$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"MYR": "RM",
	"THB": "฿",
	"IDR": "Rp",
	"PHP": "₱",
	"VND": "₫",
	"KRW": "₩",
	"INR": "₹",
	"AUD": "A$",
	"NZD": "NZ$",
	"HKD": "HK$",
	"TWD": "NT$",
	"CHF": "Fr",
	"CAD": "C$",
}

// Symbol returns the display symbol for code, or the code itself when unknown.
func Symbol(code string) string {
	if symbol := CurrencySymbols[code]; symbol != "" {
		return symbol
	}
	return code
}
