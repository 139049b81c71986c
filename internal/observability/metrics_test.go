package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetrics_Usable verifies that all Prometheus metrics can be used without
// panic, ensuring label dimensions match usage across the http and service packages.
func TestMetrics_Usable(t *testing.T) {
	// Route uses path template to avoid cardinality (e.g. /hospitals/{hospital_id}/predict not /hospitals/h1/predict)
	HTTPRequestsTotal.WithLabelValues("GET", "/hospitals/{hospital_id}/predict", "2xx").Inc()
	HTTPRequestDuration.WithLabelValues("GET", "/hospitals/{hospital_id}/predict").Observe(0.01)
	PredictionsTotal.WithLabelValues("success").Inc()
	PredictionsByFacilityTotal.WithLabelValues("other").Inc()
	AlertsIssuedTotal.WithLabelValues("high").Inc()
	TransferRecommendationsTotal.WithLabelValues("other").Inc()
	PredictionDuration.Observe(0.0001)
	RiskScore.Observe(85)
	RateLimitDeniedTotal.Inc()
	PanicsRecoveredTotal.Inc()
}

// TestFacilityLabel verifies tracked facilities keep their label and
// everything else collapses to "other".
func TestFacilityLabel(t *testing.T) {
	SetTrackedFacilities([]string{"h1", " H2 "})
	defer SetTrackedFacilities(nil)

	tests := map[string]string{
		"h1":      "h1",
		"H1":      "h1",
		"h2":      "h2",
		"h9":      "other",
		"":        "other",
		"unknown": "other",
	}
	for in, want := range tests {
		if got := FacilityLabel(in); got != want {
			t.Errorf("FacilityLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestRecordPrediction verifies domain counters move for a recorded prediction.
func TestRecordPrediction(t *testing.T) {
	SetTrackedFacilities([]string{"h1", "h2"})
	defer SetTrackedFacilities(nil)

	beforeHigh := testutil.ToFloat64(AlertsIssuedTotal.WithLabelValues("high"))
	beforeTarget := testutil.ToFloat64(TransferRecommendationsTotal.WithLabelValues("h2"))
	beforeFacility := testutil.ToFloat64(PredictionsByFacilityTotal.WithLabelValues("h1"))

	RecordPrediction(PredictionRecord{
		Facility:   "h1",
		RiskScore:  85,
		Severities: []string{"high", "medium"},
		Targets:    []string{"h2"},
		Duration:   50 * time.Microsecond,
	})

	if got := testutil.ToFloat64(AlertsIssuedTotal.WithLabelValues("high")) - beforeHigh; got != 1 {
		t.Errorf("high alerts delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(TransferRecommendationsTotal.WithLabelValues("h2")) - beforeTarget; got != 1 {
		t.Errorf("transfer target delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(PredictionsByFacilityTotal.WithLabelValues("h1")) - beforeFacility; got != 1 {
		t.Errorf("facility delta = %v, want 1", got)
	}
}

// TestMetricsHandler_ServesPrometheusFormat verifies that MetricsHandler serves
// Prometheus text exposition format with correct HTTP status and metric output.
func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	PredictionsTotal.WithLabelValues("success").Add(0)
	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "predictionsTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
}
