package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	if out.Counter != nil {
		return out.GetCounter().GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestUpdateJobMetrics(t *testing.T) {
	before := value(t, ScheduledJobFailuresTotal.WithLabelValues("metrics-test"))

	UpdateJobMetrics("metrics-test", time.Now().Add(-time.Second), nil)
	require.Equal(t, before, value(t, ScheduledJobFailuresTotal.WithLabelValues("metrics-test")))
	require.GreaterOrEqual(t, value(t, ScheduledJobLastDurationSeconds.WithLabelValues("metrics-test")), 1.0)
	require.Positive(t, value(t, ScheduledJobLastRun.WithLabelValues("metrics-test")))

	UpdateJobMetrics("metrics-test", time.Now(), errors.New("boom"))
	require.Equal(t, before+1, value(t, ScheduledJobFailuresTotal.WithLabelValues("metrics-test")))
}

func TestHandler(t *testing.T) {
	RateLookupsTotal.WithLabelValues(OutcomeHit).Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "fxrates_rate_lookups_total")
}
