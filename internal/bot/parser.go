package bot

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/fxrates/internal/models"
)

// ConversionRequest is a conversion parsed from a command or free text.
// To is empty when every currency is wanted.
type ConversionRequest struct {
	Amount decimal.Decimal
	From   string
	To     string
}

var errUsage = errors.New("usage")

// freeTextRegex matches "100 usd to eur", "100 USD EUR", "5,50 sgd in jpy?".
var freeTextRegex = regexp.MustCompile(
	`(?i)^\s*(\d[\d.,]*)\s*([a-z]{3})\s+(?:(?:to|in|into|=|->)\s+)?([a-z]{3})\s*\??\s*$`,
)

// connectors are filler words allowed between currency codes in commands.
var connectors = map[string]bool{"to": true, "in": true, "into": true, "=": true, "->": true}

// ParseConversionText parses a free-text conversion like "100 usd to eur".
// Returns nil if the input is not a conversion.
func ParseConversionText(input string) *ConversionRequest {
	m := freeTextRegex.FindStringSubmatch(input)
	if m == nil {
		return nil
	}

	amount, err := models.ParseAmount(m[1])
	if err != nil {
		return nil
	}

	from, to := strings.ToUpper(m[2]), strings.ToUpper(m[3])
	// (?i) lets a few non-ASCII letters fold into [a-z].
	if !isCurrencyCode(from) || !isCurrencyCode(to) {
		return nil
	}

	return &ConversionRequest{Amount: amount, From: from, To: to}
}

// ParseConvertArgs parses "<amount> <FROM> [to] <TO>" command arguments.
// When wantTarget is false the target is optional and "<amount> <FROM>" is
// accepted as well.
func ParseConvertArgs(args string, wantTarget bool) (*ConversionRequest, error) {
	var fields []string
	for _, f := range strings.Fields(args) {
		if connectors[strings.ToLower(f)] {
			continue
		}
		fields = append(fields, f)
	}

	if len(fields) < 2 || len(fields) > 3 || (wantTarget && len(fields) != 3) {
		return nil, errUsage
	}

	amount, err := models.ParseAmount(fields[0])
	if err != nil {
		return nil, err
	}

	req := &ConversionRequest{Amount: amount, From: strings.ToUpper(fields[1])}
	if len(fields) == 3 {
		req.To = strings.ToUpper(fields[2])
	}
	if !isCurrencyCode(req.From) || (req.To != "" && !isCurrencyCode(req.To)) {
		return nil, errUsage
	}
	return req, nil
}

// extractCommandArgs strips the command and an optional @botname suffix.
func extractCommandArgs(text, command string) string {
	args := strings.TrimSpace(strings.TrimPrefix(text, command))
	if strings.HasPrefix(args, "@") {
		if spaceIdx := strings.Index(args, " "); spaceIdx != -1 {
			args = strings.TrimSpace(args[spaceIdx:])
		} else {
			args = ""
		}
	}
	return args
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
