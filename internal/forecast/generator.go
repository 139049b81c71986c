// Package forecast synthesizes hospital load predictions: simulated factors,
// a linear risk score, a short load forecast, threshold alerts and transfer
// recommendations.
package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/kjstillabower/sentinel-predict-service/internal/facility"
	"github.com/kjstillabower/sentinel-predict-service/internal/locale"
	"github.com/kjstillabower/sentinel-predict-service/internal/models"
	"github.com/kjstillabower/sentinel-predict-service/internal/random"
)

// Options configures a Generator. Zero values select the production defaults.
type Options struct {
	// Now returns the wall clock used for alert timestamps. Default time.Now.
	Now func() time.Time
	// Location is the time zone alert timestamps are rendered in. Default time.Local.
	Location *time.Location
	// Heartbeat appends the low-severity monitoring alert to every response.
	Heartbeat bool
}

// Generator builds predictions. It holds only read-only state and may be
// shared by concurrent requests as long as its Sampler is safe for concurrent use.
type Generator struct {
	table     *facility.Table
	sampler   random.Sampler
	catalog   *locale.Catalog
	now       func() time.Time
	location  *time.Location
	heartbeat bool
}

// NewGenerator returns a Generator over table drawing from sampler.
func NewGenerator(table *facility.Table, sampler random.Sampler, catalog *locale.Catalog, opts Options) *Generator {
	g := &Generator{
		table:     table,
		sampler:   sampler,
		catalog:   catalog,
		now:       opts.Now,
		location:  opts.Location,
		heartbeat: opts.Heartbeat,
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.location == nil {
		g.location = time.Local
	}
	return g
}

// Generate returns the prediction for facilityID. Unknown ids use the default
// weight entry. On error no partial prediction is returned.
//
// Samples are drawn in a fixed order: factors (weather, traffic, cad,
// seasonal), six forecast noise terms, confidence, one id per alert, then the
// transfer probability.
func (g *Generator) Generate(facilityID string) (models.Prediction, error) {
	entry := g.table.Lookup(facilityID)

	factors, err := Simulate(entry, g.sampler)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("simulate %s: %w", facilityID, err)
	}
	score, err := RiskScore(entry, factors)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("score %s: %w", facilityID, err)
	}
	load, err := LoadForecast(score, g.sampler)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("forecast %s: %w", facilityID, err)
	}
	confidence, err := Confidence(g.sampler)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("forecast %s: %w", facilityID, err)
	}

	issuer := alertIssuer{
		catalog:   g.catalog,
		sampler:   g.sampler,
		now:       g.now().In(g.location),
		heartbeat: g.heartbeat,
	}
	alerts, err := issuer.issue(score)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("alerts %s: %w", facilityID, err)
	}
	transfers, err := adviseTransfers(g.table, g.catalog, g.sampler, facilityID, score)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("transfers %s: %w", facilityID, err)
	}

	return models.Prediction{
		LoadForecast:      load,
		ModelConfidence:   confidence,
		QualityIndicators: Quality(score),
		FactorAnalysis: models.FactorAnalysis{
			RiskScore:     score,
			WeatherImpact: int(math.Round(factors.Weather)),
			SeasonalScore: int(math.Round(factors.Seasonal * 100)),
			TrafficScore:  int(math.Round(factors.Traffic)),
			CADVolume:     int(math.Round(factors.CAD)),
		},
		Alerts:    alerts,
		Transfers: transfers,
	}, nil
}
