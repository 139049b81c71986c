package http

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/sentinel-predict-service/internal/observability"
)

// RouterConfig wires the handler into a router.
type RouterConfig struct {
	Handler        *Handler
	Logger         *zap.Logger
	Limiter        *rate.Limiter // nil disables rate limiting
	RequestTimeout time.Duration
	// Static, when set, serves the dashboard on every path not claimed by the API.
	Static      fs.FS
	CORSOrigins []string
}

// NewRouter builds the service router. API routes are registered before the
// dashboard so they take precedence.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.Use(RecoveryMiddleware(logger))

	var predict http.Handler = http.HandlerFunc(cfg.Handler.GetPrediction)
	if cfg.RequestTimeout > 0 {
		predict = TimeoutMiddleware(cfg.RequestTimeout)(predict)
	}
	predict = RateLimitMiddleware(cfg.Limiter)(predict)
	router.Handle("/hospitals/{hospital_id}/predict", predict).Methods(http.MethodGet)

	router.HandleFunc("/api/health", cfg.Handler.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler())
	router.PathPrefix("/api/").HandlerFunc(cfg.Handler.NotFound)

	// The dashboard only answers reads, so a wrong method on an API route
	// still surfaces as a JSON 405.
	if cfg.Static != nil {
		router.PathPrefix("/").Handler(NewSPAHandler(cfg.Static)).Methods(http.MethodGet, http.MethodHead)
	} else {
		router.NotFoundHandler = http.HandlerFunc(cfg.Handler.NotFound)
	}
	router.MethodNotAllowedHandler = http.HandlerFunc(cfg.Handler.MethodNotAllowed)

	return CORS(cfg.CORSOrigins)(router)
}
