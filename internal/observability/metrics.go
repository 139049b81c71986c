package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kjstillabower/sentinel-predict-service/internal/traffic"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// Predictions by outcome (success, error). Watch for: any error at all; the generator is in-memory.
	PredictionsTotal *prometheus.CounterVec

	// Per-facility prediction count (allow-list; others go to "other").
	PredictionsByFacilityTotal *prometheus.CounterVec

	// Generation latency. Watch for: anything above a few milliseconds.
	PredictionDuration prometheus.Histogram

	// Distribution of computed risk scores.
	RiskScore prometheus.Histogram

	// Alerts issued by severity (high, medium, low).
	AlertsIssuedTotal *prometheus.CounterVec

	// Transfer recommendations by target facility (allow-list).
	TransferRecommendationsTotal *prometheus.CounterVec

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter

	// Recovered handler panics. Watch for: any non-zero value.
	PanicsRecoveredTotal prometheus.Counter

	// trackedFacilities is built from config; used to resolve facility labels.
	trackedFacilitiesMu sync.RWMutex
	trackedFacilities   map[string]struct{}

	rateLimitGaugesOnce sync.Once
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictionsTotal",
			Help: "Total number of generated predictions by outcome",
		},
		[]string{"outcome"},
	)
	PredictionsByFacilityTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictionsByFacilityTotal",
			Help: "Predictions by facility (allow-list; others use facility=other)",
		},
		[]string{"facility"},
	)
	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "predictionDurationSeconds",
			Help:    "Prediction generation latency in seconds",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		},
	)
	RiskScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "riskScore",
			Help:    "Computed facility risk scores (0-100)",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)
	AlertsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertsIssuedTotal",
			Help: "Alerts issued by severity",
		},
		[]string{"severity"},
	)
	TransferRecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transferRecommendationsTotal",
			Help: "Transfer recommendations by target facility (allow-list; others use target=other)",
		},
		[]string{"target"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)
	PanicsRecoveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "panicsRecoveredTotal",
			Help: "Total number of handler panics recovered and answered with 500",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		PredictionsTotal, PredictionsByFacilityTotal, PredictionDuration,
		RiskScore, AlertsIssuedTotal, TransferRecommendationsTotal,
		RateLimitDeniedTotal, PanicsRecoveredTotal,
	)
}

// RegisterRateLimitGauges registers load and rejects gauges for the rate-limited path.
// Call from main after config load with cfg.OverloadWindow. Uses same window as lifecycle.
func RegisterRateLimitGauges(window time.Duration) {
	rateLimitGaugesOnce.Do(func() {
		registry.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRequestsInWindow",
					Help: "Requests hitting rate-limited path in sliding window; load/capacity planning",
				},
				func() float64 { return float64(traffic.RequestCount(window)) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRejectsInWindow",
					Help: "429 responses in sliding window; are we rejecting requests",
				},
				func() float64 { return float64(traffic.DenialCount(window)) },
			),
		)
	})
}

// SetTrackedFacilities sets the allow-list for facility labels. Others are recorded as "other".
func SetTrackedFacilities(ids []string) {
	trackedFacilitiesMu.Lock()
	defer trackedFacilitiesMu.Unlock()
	trackedFacilities = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		trackedFacilities[normalizeFacilityForMetrics(id)] = struct{}{}
	}
}

// FacilityLabel returns id when tracked, otherwise "other".
func FacilityLabel(id string) string {
	id = normalizeFacilityForMetrics(id)
	trackedFacilitiesMu.RLock()
	_, ok := trackedFacilities[id] // nil map read is safe in Go
	trackedFacilitiesMu.RUnlock()
	if ok {
		return id
	}
	return "other"
}

// PredictionRecord summarizes one generated prediction for metrics.
type PredictionRecord struct {
	Facility   string
	RiskScore  int
	Severities []string
	Targets    []string
	Duration   time.Duration
}

// RecordPrediction records a successful prediction.
func RecordPrediction(rec PredictionRecord) {
	PredictionsTotal.WithLabelValues("success").Inc()
	PredictionsByFacilityTotal.WithLabelValues(FacilityLabel(rec.Facility)).Inc()
	PredictionDuration.Observe(rec.Duration.Seconds())
	RiskScore.Observe(float64(rec.RiskScore))
	for _, s := range rec.Severities {
		AlertsIssuedTotal.WithLabelValues(s).Inc()
	}
	for _, t := range rec.Targets {
		TransferRecommendationsTotal.WithLabelValues(FacilityLabel(t)).Inc()
	}
}

// RecordPredictionError records a failed prediction.
func RecordPredictionError(facility string) {
	PredictionsTotal.WithLabelValues("error").Inc()
	PredictionsByFacilityTotal.WithLabelValues(FacilityLabel(facility)).Inc()
}

func normalizeFacilityForMetrics(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
