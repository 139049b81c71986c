// Package locale renders the English/Arabic message pairs carried by alerts
// and transfer recommendations.
package locale

import (
	"embed"
	"errors"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/kjstillabower/sentinel-predict-service/internal/models"
)

// Message ids used by the forecast generator.
const (
	AlertSurgeMessage           = "alert_surge_message"
	AlertSurgeAction            = "alert_surge_action"
	AlertCapacityMessage        = "alert_capacity_message"
	AlertCapacityAction         = "alert_capacity_action"
	AlertMonitoringMessage      = "alert_monitoring_message"
	AlertMonitoringAction       = "alert_monitoring_action"
	TransferLoadBalancingReason = "transfer_load_balancing_reason"
)

// ErrMissingTranslation is returned when a message id has no rendering in one of the languages.
var ErrMissingTranslation = errors.New("missing translation")

//go:embed messages/*.yaml
var messageFiles embed.FS

// Catalog localizes message ids into English/Arabic pairs. Safe for concurrent use.
type Catalog struct {
	en *i18n.Localizer
	ar *i18n.Localizer
}

// New loads the embedded message files.
func New() (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	for _, name := range []string{"messages/en.yaml", "messages/ar.yaml"} {
		if _, err := bundle.LoadMessageFileFS(messageFiles, name); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}
	return &Catalog{
		en: i18n.NewLocalizer(bundle, language.English.String()),
		ar: i18n.NewLocalizer(bundle, language.Arabic.String()),
	}, nil
}

// MustNew is New for process startup and tests; it panics if the embedded files are invalid.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Pair renders id in both languages with the given template data.
func (c *Catalog) Pair(id string, data map[string]interface{}) (models.LocalizedText, error) {
	en, err := c.localize(c.en, id, data)
	if err != nil {
		return models.LocalizedText{}, fmt.Errorf("en: %w", err)
	}
	ar, err := c.localize(c.ar, id, data)
	if err != nil {
		return models.LocalizedText{}, fmt.Errorf("ar: %w", err)
	}
	return models.LocalizedText{En: en, Ar: ar}, nil
}

// localize fails rather than silently falling back to the bundle default language.
func (c *Catalog) localize(l *i18n.Localizer, id string, data map[string]interface{}) (string, error) {
	s, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMissingTranslation, id, err)
	}
	return s, nil
}
