package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned by ParseAmount for anything but a positive number.
var ErrInvalidAmount = errors.New("amount must be a positive number")

var plainDecimal = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// ParseAmount parses a user-entered amount. Both "." and "," are accepted as
// the decimal separator; a comma followed by exactly three digits is treated
// as a thousands separator ("1,000").
func ParseAmount(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || isThousandsGrouped(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	if !plainDecimal.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	return amount, nil
}

// isThousandsGrouped reports whether every comma in s is followed by exactly
// three digits.
func isThousandsGrouped(s string) bool {
	parts := strings.Split(s, ",")
	if parts[0] == "" {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// FormatAmount renders a converted amount with two decimals.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatRate renders a rate with six decimals.
func FormatRate(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(6)
}
