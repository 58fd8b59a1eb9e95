package models

type AlertType string

const (
	AlertWarning  AlertType = "warning"
	AlertCritical AlertType = "critical"
)

type AlertKind string

const (
	AlertPest     AlertKind = "pest"
	AlertMoisture AlertKind = "moisture"
)

type Alert struct {
	ID       string    `json:"id"`
	Type     AlertType `json:"type"`
	Kind     AlertKind `json:"kind"`
	Sector   int       `json:"sector"`
	PestType string    `json:"pestType,omitempty"`
	Value    float64   `json:"value"`
}

// NutrientWarning lists nutrients below their recommended level ("nitrogen", "phosphorus",
// "potassium").
type NutrientWarning struct {
	Low []string `json:"low"`
}

type AlertReport struct {
	Alerts          []Alert         `json:"alerts"`
	NutrientWarning NutrientWarning `json:"nutrientWarning"`
	SnapshotVersion uint64          `json:"snapshotVersion"`
}
