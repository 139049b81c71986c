package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/kjstillabower/sentinel-predict-service/internal/facility"
	"github.com/kjstillabower/sentinel-predict-service/internal/random"
)

// Regional factor distributions.
const (
	WeatherMean   = 25.0
	WeatherStdDev = 5.0
	TrafficMean   = 70.0
	TrafficStdDev = 15.0
	CADMean       = 18.0
	CADStdDev     = 4.0

	// SeasonalJitter is the relative perturbation applied to a facility's seasonal multiplier.
	SeasonalJitter = 0.10
)

// ErrNonFinite is returned when a sample or derived value is NaN or infinite.
var ErrNonFinite = errors.New("non-finite value")

// Factors is the simulated input set for one prediction.
type Factors struct {
	Weather  float64
	Traffic  float64 // 0-100 congestion index
	CAD      float64 // active ambulance proxy, >= 0
	Seasonal float64 // multiplier
}

// Simulate draws factors for entry. Draw order is weather, traffic, cad,
// seasonal jitter.
func Simulate(entry facility.Entry, s random.Sampler) (Factors, error) {
	var f Factors
	if entry.WeatherSensitive() {
		f.Weather = s.Uniform(entry.WeatherRange.Min, entry.WeatherRange.Max)
	} else {
		f.Weather = s.Normal(WeatherMean, WeatherStdDev)
	}
	f.Traffic = clamp(s.Normal(TrafficMean, TrafficStdDev), 0, 100)
	f.CAD = math.Max(s.Normal(CADMean, CADStdDev), 0)
	f.Seasonal = entry.Seasonal * (1 + s.Uniform(-SeasonalJitter, SeasonalJitter))

	for name, v := range map[string]float64{
		"weather":  f.Weather,
		"traffic":  f.Traffic,
		"cad":      f.CAD,
		"seasonal": f.Seasonal,
	} {
		if !finite(v) {
			return Factors{}, fmt.Errorf("%s factor: %w", name, ErrNonFinite)
		}
	}
	return f, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
