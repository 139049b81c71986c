package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/sentinel-predict-service/internal/models"
	"github.com/kjstillabower/sentinel-predict-service/internal/observability"
)

// ErrGeneratorFault wraps every failure of the prediction generator, including recovered panics.
var ErrGeneratorFault = errors.New("prediction generator fault")

// Generator produces one prediction for a facility id.
type Generator interface {
	Generate(facilityID string) (models.Prediction, error)
}

// PredictionService wraps the generator with id normalization, fault
// capture, metrics and request-scoped logging.
type PredictionService struct {
	generator Generator
}

// NewPredictionService creates a PredictionService over generator.
func NewPredictionService(generator Generator) *PredictionService {
	return &PredictionService{generator: generator}
}

// Predict returns the prediction for hospitalID. Any generator error or panic
// is returned wrapped in ErrGeneratorFault with no partial result. A done
// context is reported before any work starts.
func (s *PredictionService) Predict(ctx context.Context, hospitalID string) (p models.Prediction, err error) {
	id := normalizeHospitalID(hospitalID)
	logger := observability.LoggerFromContext(ctx)
	if err := ctx.Err(); err != nil {
		return models.Prediction{}, fmt.Errorf("predict %s: %w", id, err)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			observability.RecordPredictionError(id)
			p = models.Prediction{}
			err = fmt.Errorf("%w: predict %s: panic: %v", ErrGeneratorFault, id, r)
		}
	}()

	p, err = s.generator.Generate(id)
	if err != nil {
		observability.RecordPredictionError(id)
		return models.Prediction{}, fmt.Errorf("%w: predict %s: %w", ErrGeneratorFault, id, err)
	}

	duration := time.Since(start)
	observability.RecordPrediction(observability.PredictionRecord{
		Facility:   id,
		RiskScore:  p.FactorAnalysis.RiskScore,
		Severities: alertSeverities(p.Alerts),
		Targets:    transferTargets(p.Transfers),
		Duration:   duration,
	})
	if logger != nil {
		logger.Debug("prediction generated",
			zap.String("hospital_id", id),
			zap.Int("risk_score", p.FactorAnalysis.RiskScore),
			zap.Int("alerts", len(p.Alerts)),
			zap.Int("transfers", len(p.Transfers)),
			zap.Duration("duration", duration))
	}
	return p, nil
}

func alertSeverities(alerts []models.Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Severity)
	}
	return out
}

func transferTargets(transfers []models.Transfer) []string {
	out := make([]string, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, t.TargetID)
	}
	return out
}

// normalizeHospitalID trims surrounding whitespace. Case is preserved: facility
// lookup is exact, so "H1" is a different (unknown) facility from "h1".
func normalizeHospitalID(id string) string {
	return strings.TrimSpace(id)
}
