package models

import "encoding/json"

// LocalizedText pairs the English and Arabic renderings of one message.
type LocalizedText struct {
	En string
	Ar string
}

// Prediction is the payload returned by GET /hospitals/{hospital_id}/predict.
// Alerts and Transfers are always non-nil so they encode as [] rather than null.
type Prediction struct {
	LoadForecast      []int             `json:"loadForecast"`
	ModelConfidence   int               `json:"modelConfidence"`
	QualityIndicators QualityIndicators `json:"qualityIndicators"`
	FactorAnalysis    FactorAnalysis    `json:"factorAnalysis"`
	Alerts            []Alert           `json:"alerts"`
	Transfers         []Transfer        `json:"transfers"`
}

type QualityIndicators struct {
	ExpectedWaitTime     int `json:"expectedWaitTime"`
	AmbulanceOffloadTime int `json:"ambulanceOffloadTime"`
}

// FactorAnalysis echoes the simulated inputs behind a prediction.
type FactorAnalysis struct {
	RiskScore     int `json:"riskScore"`
	WeatherImpact int `json:"weatherImpact"`
	SeasonalScore int `json:"seasonalScore"` // seasonal multiplier x100
	TrafficScore  int `json:"trafficScore"`
	CADVolume     int `json:"cadVolume"`
}

// Severity tags, most severe first.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Alert lead-time levels shown by the UI.
const (
	LevelT15 = "T-15"
	LevelT45 = "T-45"
	LevelT90 = "T-90"
)

type Alert struct {
	ID        string
	Timestamp string // wall clock, HH:MM
	Level     string
	Severity  string
	Message   LocalizedText
	Action    LocalizedText
}

type alertWire struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Severity  string `json:"severity"`
	MessageEn string `json:"messageEn"`
	MessageAr string `json:"messageAr"`
	ActionEn  string `json:"actionEn"`
	ActionAr  string `json:"actionAr"`
}

// MarshalJSON flattens the localized pairs into the messageEn/messageAr and
// actionEn/actionAr fields the dashboard reads.
func (a Alert) MarshalJSON() ([]byte, error) {
	return json.Marshal(alertWire{
		ID:        a.ID,
		Timestamp: a.Timestamp,
		Level:     a.Level,
		Severity:  a.Severity,
		MessageEn: a.Message.En,
		MessageAr: a.Message.Ar,
		ActionEn:  a.Action.En,
		ActionAr:  a.Action.Ar,
	})
}

func (a *Alert) UnmarshalJSON(data []byte) error {
	var w alertWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = Alert{
		ID:        w.ID,
		Timestamp: w.Timestamp,
		Level:     w.Level,
		Severity:  w.Severity,
		Message:   LocalizedText{En: w.MessageEn, Ar: w.MessageAr},
		Action:    LocalizedText{En: w.ActionEn, Ar: w.ActionAr},
	}
	return nil
}

// Transfer recommends moving patients from SourceID to TargetID.
type Transfer struct {
	SourceID             string
	TargetID             string
	Probability          int
	Reason               LocalizedText
	RecommendedSpecialty string
}

type transferWire struct {
	SourceID             string `json:"sourceId"`
	TargetID             string `json:"targetId"`
	Probability          int    `json:"probability"`
	ReasonEn             string `json:"reasonEn"`
	ReasonAr             string `json:"reasonAr"`
	RecommendedSpecialty string `json:"recommendedSpecialty,omitempty"`
}

func (t Transfer) MarshalJSON() ([]byte, error) {
	return json.Marshal(transferWire{
		SourceID:             t.SourceID,
		TargetID:             t.TargetID,
		Probability:          t.Probability,
		ReasonEn:             t.Reason.En,
		ReasonAr:             t.Reason.Ar,
		RecommendedSpecialty: t.RecommendedSpecialty,
	})
}

func (t *Transfer) UnmarshalJSON(data []byte) error {
	var w transferWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Transfer{
		SourceID:             w.SourceID,
		TargetID:             w.TargetID,
		Probability:          w.Probability,
		Reason:               LocalizedText{En: w.ReasonEn, Ar: w.ReasonAr},
		RecommendedSpecialty: w.RecommendedSpecialty,
	}
	return nil
}
