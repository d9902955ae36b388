package bot

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/go-analyze/charts"

	"gitlab.com/yelinaung/fxrates/internal/models"
)

const (
	// DefaultChartSize is how many currencies a chart shows by default.
	DefaultChartSize = 10
	// MaxChartSize caps the number of bars.
	MaxChartSize = 20
)

// GenerateConversionChart creates a bar chart of the largest converted
// amounts, excluding the source currency. Returns PNG image as bytes.
func GenerateConversionChart(conversions []models.Conversion, from string, amount float64, size int) ([]byte, error) {
	top := topConversions(conversions, from, size)
	if len(top) == 0 {
		return nil, fmt.Errorf("no conversions to chart")
	}

	values := make([]float64, 0, len(top))
	labels := make([]string, 0, len(top))
	for _, c := range top {
		values = append(values, c.Amount)
		labels = append(labels, c.Currency)
	}

	p, err := charts.BarRender(
		[][]float64{values},
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("%s %s in other currencies", models.FormatAmount(amount), from),
		}),
		charts.XAxisLabelsOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{from}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf, nil
}

// topConversions returns up to size conversions with the largest amounts,
// largest first.
func topConversions(conversions []models.Conversion, from string, size int) []models.Conversion {
	if size <= 0 {
		size = DefaultChartSize
	}
	size = min(size, MaxChartSize)

	out := make([]models.Conversion, 0, len(conversions))
	for _, c := range conversions {
		if c.Currency != from {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Conversion) int {
		return cmp.Compare(b.Amount, a.Amount)
	})
	if len(out) > size {
		out = out[:size]
	}
	return out
}

// generateChartFilename creates filename like "chart_USD_2026-01-31.png".
func generateChartFilename(from string, now time.Time) string {
	return fmt.Sprintf("chart_%s_%s.png", from, now.Format("2006-01-02"))
}
