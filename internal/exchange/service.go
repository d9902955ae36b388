package exchange

import (
	"context"
	"errors"

	"gitlab.com/yelinaung/fxrates/internal/models"
)

// ErrNoRates is returned when the remote document carries an empty rate table.
var ErrNoRates = errors.New("exchange API returned no rates")

// Source fetches the latest full rate snapshot from a remote provider.
type Source interface {
	GetRates(ctx context.Context) (models.Snapshot, error)
}
