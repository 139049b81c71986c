package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/sentinel-predict-service/internal/lifecycle"
	"github.com/kjstillabower/sentinel-predict-service/internal/models"
	"github.com/kjstillabower/sentinel-predict-service/internal/observability"
	"github.com/kjstillabower/sentinel-predict-service/internal/traffic"
	"github.com/kjstillabower/sentinel-predict-service/internal/validation"
)

// SystemName is reported by the health endpoint.
const SystemName = "Sentinel v2.1"

// Health modes: Integrated when the dashboard is served alongside the API.
const (
	ModeIntegrated = "Integrated"
	ModeAPIOnly    = "API-only"
)

// Predictor produces a prediction for a hospital id.
type Predictor interface {
	Predict(ctx context.Context, hospitalID string) (models.Prediction, error)
}

// HealthConfig holds lifecycle thresholds for the health handler.
type HealthConfig struct {
	OverloadWindow       time.Duration
	OverloadThresholdPct int
	RateLimitRPS         int // 0 when rate limiter disabled
	DegradedWindow       time.Duration
	DegradedErrorPct     int
	Mode                 string
	Version              string
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	predictor        Predictor
	healthConfig     *HealthConfig
	logger           *zap.Logger
	maxIDLength      int
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. maxIDLength <= 0 uses the validation default.
func NewHandler(predictor Predictor, healthConfig *HealthConfig, logger *zap.Logger, maxIDLength int) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		predictor:    predictor,
		healthConfig: healthConfig,
		logger:       logger,
		maxIDLength:  maxIDLength,
	}
}

// GetPrediction handles GET /hospitals/{hospital_id}/predict.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ValidateHospitalID(mux.Vars(r)["hospital_id"], h.maxIDLength)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_HOSPITAL_ID", err.Error())
		return
	}

	prediction, err := h.predictor.Predict(r.Context(), id)
	if err != nil {
		traffic.RecordError()
		writePredictionError(w, r, h.requestLogger(r), id, err)
		return
	}
	traffic.RecordSuccess()
	writeJSON(w, http.StatusOK, prediction)
}

// NotFound handles unknown /api/* paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
}

// MethodNotAllowed writes the JSON 405 body for a known path hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /api/health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := map[string]string{"predictionEngine": "healthy"}
	if result.status == "degraded" {
		checks["predictionEngine"] = "unhealthy"
	}
	mode, version := ModeAPIOnly, "dev"
	if h.healthConfig != nil {
		if h.healthConfig.Mode != "" {
			mode = h.healthConfig.Mode
		}
		if h.healthConfig.Version != "" {
			version = h.healthConfig.Version
		}
	}
	if mode == ModeIntegrated {
		checks["dashboard"] = "served"
	} else {
		checks["dashboard"] = "absent"
	}

	writeJSON(w, result.statusCode, map[string]interface{}{
		"status":    result.status,
		"system":    SystemName,
		"mode":      mode,
		"version":   version,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates conditions in priority order:
// shutting-down > starting > overloaded > degraded > online.
func (h *Handler) computeHealthStatus() healthResult {
	switch lifecycle.Phase() {
	case lifecycle.PhaseShuttingDown:
		return healthResult{lifecycle.PhaseShuttingDown, http.StatusServiceUnavailable, "signal"}
	case lifecycle.PhaseStarting:
		return healthResult{lifecycle.PhaseStarting, http.StatusServiceUnavailable, "ready_delay"}
	}
	if h.healthConfig == nil {
		return healthResult{"online", http.StatusOK, ""}
	}
	// Overload: requests in window exceed pct of what the limiter admits.
	if h.healthConfig.RateLimitRPS > 0 && h.healthConfig.OverloadWindow > 0 {
		threshold := float64(h.healthConfig.RateLimitRPS) * h.healthConfig.OverloadWindow.Seconds() * float64(h.healthConfig.OverloadThresholdPct) / 100
		if float64(traffic.RequestCount(h.healthConfig.OverloadWindow)) > threshold {
			return healthResult{"overloaded", http.StatusServiceUnavailable, "overload_threshold"}
		}
	}
	if h.healthConfig.DegradedWindow > 0 && h.healthConfig.DegradedErrorPct > 0 {
		errCount, total := traffic.ErrorRate(h.healthConfig.DegradedWindow)
		if total > 0 {
			pct := float64(errCount) * 100 / float64(total)
			if pct >= float64(h.healthConfig.DegradedErrorPct) {
				return healthResult{"degraded", http.StatusServiceUnavailable, "error_rate_breach"}
			}
		}
	}
	return healthResult{"online", http.StatusOK, ""}
}

func (h *Handler) requestLogger(r *http.Request) *zap.Logger {
	if l := observability.LoggerFromContext(r.Context()); l != nil {
		return l
	}
	return h.logger
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": observability.CorrelationID(r.Context()),
		},
	})
}

// writePredictionError maps a prediction failure to a response. Deadline and
// cancellation become 503; everything else is a generic 500 whose detail only
// reaches the log.
func writePredictionError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, id string, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.Warn("prediction abandoned", zap.String("hospital_id", id), zap.Error(err))
		writeError(w, r, http.StatusServiceUnavailable, "REQUEST_TIMEOUT", "Prediction timed out")
		return
	}
	logger.Error("prediction failed", zap.String("hospital_id", id), zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "PREDICTION_FAILED", "AI Engine Failure")
}
