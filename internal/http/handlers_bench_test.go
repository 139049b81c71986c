package http

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/sentinel-predict-service/internal/facility"
	"github.com/kjstillabower/sentinel-predict-service/internal/forecast"
	"github.com/kjstillabower/sentinel-predict-service/internal/locale"
	"github.com/kjstillabower/sentinel-predict-service/internal/random"
	"github.com/kjstillabower/sentinel-predict-service/internal/service"
	"github.com/kjstillabower/sentinel-predict-service/internal/traffic"
)

func benchmarkHandler() *Handler {
	return NewHandler(newCenteredService(), nil, zap.NewNop(), 0)
}

// newSeededService returns the prediction stack on a seeded gonum source.
func newSeededService(seed uint64) *service.PredictionService {
	gen := forecast.NewGenerator(facility.Default(), random.NewDistribution(seed), locale.MustNew(), forecast.Options{Heartbeat: true})
	return service.NewPredictionService(gen)
}

func BenchmarkHandler_GetPrediction(b *testing.B) {
	handler := benchmarkHandler()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.GetPrediction(httptest.NewRecorder(), predictRequest("h1"))
	}
	b.StopTimer()
	traffic.Reset()
}

func BenchmarkHandler_GetPrediction_ValidationError(b *testing.B) {
	handler := benchmarkHandler()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.GetPrediction(httptest.NewRecorder(), predictRequest("bad;id"))
	}
}

func BenchmarkRouter_Predict_SeededDistribution(b *testing.B) {
	router := NewRouter(RouterConfig{
		Handler: NewHandler(newSeededService(7), nil, zap.NewNop(), 0),
		Logger:  zap.NewNop(),
	})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/hospitals/h4/predict", nil))
	}
	b.StopTimer()
	traffic.Reset()
}

func BenchmarkRouter_Predict_RateLimited(b *testing.B) {
	router := NewRouter(RouterConfig{
		Handler: NewHandler(newCenteredService(), nil, zap.NewNop(), 0),
		Logger:  zap.NewNop(),
		Limiter: rate.NewLimiter(rate.Limit(0.001), 1),
	})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/hospitals/h1/predict", nil))
	}
	b.StopTimer()
	traffic.Reset()
}

func BenchmarkHandler_GetHealth(b *testing.B) {
	handler := NewHandler(&stubPredictor{}, &HealthConfig{}, zap.NewNop(), 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.GetHealth(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/health", nil))
	}
}
