package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	errInvalidJSON  = errors.New("payload is not valid JSON")
	errRatesMissing = errors.New("rates object missing")
)

// DecodeError reports a persisted or remote payload that does not have the expected shape.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type snapshotDocument struct {
	Rates map[string]float64 `json:"rates"`
}

// EncodeSnapshot serializes a snapshot as {"rates":{"CODE":rate,...}}.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	rates := s
	if rates == nil {
		rates = Snapshot{}
	}
	data, err := json.Marshal(snapshotDocument{Rates: rates})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot reads the rates object out of a JSON document. Any other
// top-level fields are ignored, so provider responses decode directly.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Source: "snapshot", Err: errInvalidJSON}
	}

	field := gjson.GetBytes(data, "rates")
	if !field.Exists() || !field.IsObject() {
		return nil, &DecodeError{Source: "snapshot", Err: errRatesMissing}
	}

	snap := make(Snapshot)
	var badKey string
	field.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			badKey = key.String()
			return false
		}
		snap[key.String()] = value.Float()
		return true
	})
	if badKey != "" {
		return nil, &DecodeError{
			Source: "snapshot",
			Err:    fmt.Errorf("rate for %q is not a number", badKey),
		}
	}

	return snap, nil
}

// FormatTimestamp renders a fetch timestamp as a decimal string.
func FormatTimestamp(ts int64) string {
	return strconv.FormatInt(ts, 10)
}

// ParseTimestamp parses a decimal fetch timestamp.
func ParseTimestamp(raw string) (int64, error) {
	ts, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &DecodeError{Source: "timestamp", Err: err}
	}
	return ts, nil
}
