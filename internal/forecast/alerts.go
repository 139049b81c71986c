package forecast

import (
	"fmt"
	"time"

	"github.com/kjstillabower/sentinel-predict-service/internal/locale"
	"github.com/kjstillabower/sentinel-predict-service/internal/models"
	"github.com/kjstillabower/sentinel-predict-service/internal/random"
)

// Alert thresholds on the risk score (strictly greater than).
const (
	SurgeThreshold    = 80
	CapacityThreshold = 50
)

const timestampLayout = "15:04"

// alertRule is one independent threshold check. Rules are listed most severe first.
type alertRule struct {
	level     string
	severity  string
	lead      time.Duration
	messageID string
	actionID  string
	applies   func(score int) bool
}

var alertRules = []alertRule{
	{
		level:     models.LevelT15,
		severity:  models.SeverityHigh,
		messageID: locale.AlertSurgeMessage,
		actionID:  locale.AlertSurgeAction,
		applies:   func(score int) bool { return score > SurgeThreshold },
	},
	{
		level:     models.LevelT45,
		severity:  models.SeverityMedium,
		lead:      45 * time.Minute,
		messageID: locale.AlertCapacityMessage,
		actionID:  locale.AlertCapacityAction,
		applies:   func(score int) bool { return score > CapacityThreshold },
	},
}

// monitoringRule is appended to every response when heartbeat alerts are enabled.
var monitoringRule = alertRule{
	level:     models.LevelT90,
	severity:  models.SeverityLow,
	lead:      90 * time.Minute,
	messageID: locale.AlertMonitoringMessage,
	actionID:  locale.AlertMonitoringAction,
	applies:   func(int) bool { return true },
}

// alertIssuer evaluates alert rules against a risk score.
type alertIssuer struct {
	catalog   *locale.Catalog
	sampler   random.Sampler
	now       time.Time
	heartbeat bool
}

// issue returns the alerts triggered by score, most severe first. The result
// is never nil. Each alert draws one id sample.
func (a alertIssuer) issue(score int) ([]models.Alert, error) {
	rules := alertRules
	if a.heartbeat {
		rules = append(rules[:len(rules):len(rules)], monitoringRule)
	}
	alerts := make([]models.Alert, 0, len(rules))
	data := map[string]interface{}{"Score": score}
	for _, r := range rules {
		if !r.applies(score) {
			continue
		}
		msg, err := a.catalog.Pair(r.messageID, data)
		if err != nil {
			return nil, fmt.Errorf("alert %s message: %w", r.level, err)
		}
		action, err := a.catalog.Pair(r.actionID, data)
		if err != nil {
			return nil, fmt.Errorf("alert %s action: %w", r.level, err)
		}
		alerts = append(alerts, models.Alert{
			ID:        alertID(a.sampler, r.level),
			Timestamp: a.now.Add(r.lead).Format(timestampLayout),
			Level:     r.level,
			Severity:  r.severity,
			Message:   msg,
			Action:    action,
		})
	}
	return alerts, nil
}

// alertID combines a random four-digit number with the level, so ids are
// unique within one response even when the numbers collide.
func alertID(s random.Sampler, level string) string {
	v := s.Uniform(1000, 9999)
	if !finite(v) {
		v = 1000
	}
	n := int(clamp(v, 1000, 9999))
	return fmt.Sprintf("alt-%d-%s", n, level)
}
