package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("rates are ordered by code", func(t *testing.T) {
		t.Parallel()
		snap := Snapshot{"JPY": 110, "EUR": 0.85, "USD": 1}
		require.Equal(t, []Rate{
			{Currency: "EUR", Rate: 0.85},
			{Currency: "JPY", Rate: 110},
			{Currency: "USD", Rate: 1},
		}, snap.Rates())
		require.Equal(t, []string{"EUR", "JPY", "USD"}, snap.Codes())
	})

	t.Run("empty snapshot yields empty lists", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, Snapshot{}.Rates())
		require.Empty(t, Snapshot(nil).Codes())
	})

	t.Run("last duplicate wins when building from rates", func(t *testing.T) {
		t.Parallel()
		snap := SnapshotFromRates([]Rate{
			{Currency: "EUR", Rate: 0.8},
			{Currency: "USD", Rate: 1},
			{Currency: "EUR", Rate: 0.9},
		})
		require.Equal(t, Snapshot{"EUR": 0.9, "USD": 1}, snap)
	})
}

func TestSymbol(t *testing.T) {
	t.Parallel()

	require.Equal(t, "€", Symbol("EUR"))
	require.Equal(t, "S$", Symbol("SGD"))
	require.Equal(t, "XAU", Symbol("XAU"))
}
