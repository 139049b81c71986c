package forecast

import (
	"fmt"
	"math"

	"github.com/kjstillabower/sentinel-predict-service/internal/facility"
	"github.com/kjstillabower/sentinel-predict-service/internal/models"
	"github.com/kjstillabower/sentinel-predict-service/internal/random"
)

// Risk model coefficients.
const (
	BaseLoadWeight = 40.0
	WeatherWeight  = 0.4
	TrafficWeight  = 0.2
	CADWeight      = 1.5
)

// Forecast shape.
const (
	// ForecastSteps is the number of forward-looking points returned.
	ForecastSteps = 5
	// ForecastSlope is the per-step linear trend added to the score.
	ForecastSlope       = 0.5
	ForecastNoiseStdDev = 5.0
	// MaxLoad bounds every forecast point.
	MaxLoad = 600
)

// Quality indicator multipliers applied to the risk score.
const (
	WaitTimeMultiplier = 1.8
	OffloadMultiplier  = 0.5
)

const (
	ConfidenceMean   = 94.0
	ConfidenceStdDev = 2.0
)

// RiskScore combines the facility base load with the simulated factors:
// round(clamp(base_load*40 + weather*0.4 + traffic*0.2 + cad*1.5, 0, 100)).
func RiskScore(entry facility.Entry, f Factors) (int, error) {
	raw := entry.BaseLoad*BaseLoadWeight +
		f.Weather*WeatherWeight +
		f.Traffic*TrafficWeight +
		f.CAD*CADWeight
	if !finite(raw) {
		return 0, fmt.Errorf("risk score: %w", ErrNonFinite)
	}
	return int(math.Round(clamp(raw, 0, 100))), nil
}

// LoadForecast projects score over ForecastSteps future steps. The trend
// score + 0.5*t is evaluated at t = 0..ForecastSteps, each point gets
// independent N(0, 5) noise and is clamped to [0, MaxLoad]; the t=0 baseline
// is dropped.
func LoadForecast(score int, s random.Sampler) ([]int, error) {
	points := make([]int, 0, ForecastSteps+1)
	for t := 0; t <= ForecastSteps; t++ {
		v := float64(score) + ForecastSlope*float64(t) + s.Normal(0, ForecastNoiseStdDev)
		if !finite(v) {
			return nil, fmt.Errorf("forecast step %d: %w", t, ErrNonFinite)
		}
		points = append(points, int(math.Round(clamp(v, 0, MaxLoad))))
	}
	return points[1:], nil
}

// Quality derives the wait and offload estimates (minutes) from score.
func Quality(score int) models.QualityIndicators {
	return models.QualityIndicators{
		ExpectedWaitTime:     int(math.Round(float64(score) * WaitTimeMultiplier)),
		AmbulanceOffloadTime: int(math.Round(float64(score) * OffloadMultiplier)),
	}
}

// Confidence is a display figure centred on ConfidenceMean; it is not derived
// from forecast error.
func Confidence(s random.Sampler) (int, error) {
	v := s.Normal(ConfidenceMean, ConfidenceStdDev)
	if !finite(v) {
		return 0, fmt.Errorf("confidence: %w", ErrNonFinite)
	}
	return int(math.Round(clamp(v, 0, 100))), nil
}
