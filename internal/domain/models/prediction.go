package models

import "time"

type DayForecast struct {
	Day       string           `json:"day"`
	Condition WeatherCondition `json:"condition"`
	Temp      float64          `json:"temp"`
}

type PestRiskPoint struct {
	Day  string  `json:"day"`
	Risk float64 `json:"risk"`
}

type YieldPrediction struct {
	Value   float64  `json:"value"`
	Unit    string   `json:"unit"`    // "tonsPerAcre"
	Factors []string `json:"factors"` // translation keys
}

type HistoricalPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

const (
	ForecastDays   = 7
	HistoryDays    = 30
	YieldUnit      = "tonsPerAcre"
	recomputeError = "could not fetch predictions"
)

// PredictionBundle is one recomputation result. It is immutable once returned.
type PredictionBundle struct {
	WeatherForecast  []DayForecast     `json:"weatherForecast"`
	PestRiskForecast []PestRiskPoint   `json:"pestRiskForecast"`
	YieldPrediction  YieldPrediction   `json:"yieldPrediction"`
	HistoricalYield  []HistoricalPoint `json:"historicalYield"`
	GeneratedAt      time.Time         `json:"generatedAt"`
	SnapshotVersion  uint64            `json:"snapshotVersion"`
	Locale           Locale            `json:"locale"`
}

// RecomputeState is what the dashboard shows for predictions: the last applied bundle, whether
// a request is in flight and the last failure message.
type RecomputeState struct {
	Pending   bool              `json:"pending"`
	Bundle    *PredictionBundle `json:"bundle,omitempty"`
	Error     string            `json:"error,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// RecomputeErrorMessage is the user facing text for any failed recompute.
func RecomputeErrorMessage() string {
	return recomputeError
}
