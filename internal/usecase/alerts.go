package usecase

import (
	"fmt"

	"AgroPulse/internal/domain/models"
)

const (
	PestRiskCritical = 75.0
	MoistureWarning  = 30.0

	NitrogenLow   = 100.0
	PhosphorusLow = 40.0
	PotassiumLow  = 70.0
)

// AlertEvaluator derives alerts from a farm snapshot.
type AlertEvaluator struct{}

func NewAlertEvaluator() *AlertEvaluator { return &AlertEvaluator{} }

// Evaluate raises a critical pest alert for sectors with risk above 75 and a moisture warning
// for sectors below 30, and lists nutrients under their recommended level.
func (AlertEvaluator) Evaluate(f models.FarmState) models.AlertReport {
	rep := models.AlertReport{
		Alerts:          []models.Alert{},
		NutrientWarning: models.NutrientWarning{Low: []string{}},
		SnapshotVersion: f.Version,
	}

	for _, s := range f.Sectors {
		if s.PestRisk > PestRiskCritical {
			rep.Alerts = append(rep.Alerts, models.Alert{
				ID:       fmt.Sprintf("pest-%d", s.ID),
				Type:     models.AlertCritical,
				Kind:     models.AlertPest,
				Sector:   s.ID,
				PestType: s.PestType,
				Value:    s.PestRisk,
			})
		}
		if s.SoilMoisture < MoistureWarning {
			rep.Alerts = append(rep.Alerts, models.Alert{
				ID:     fmt.Sprintf("moisture-%d", s.ID),
				Type:   models.AlertWarning,
				Kind:   models.AlertMoisture,
				Sector: s.ID,
				Value:  s.SoilMoisture,
			})
		}
	}

	n := f.Conditions.Nutrients
	if n.Nitrogen < NitrogenLow {
		rep.NutrientWarning.Low = append(rep.NutrientWarning.Low, "nitrogen")
	}
	if n.Phosphorus < PhosphorusLow {
		rep.NutrientWarning.Low = append(rep.NutrientWarning.Low, "phosphorus")
	}
	if n.Potassium < PotassiumLow {
		rep.NutrientWarning.Low = append(rep.NutrientWarning.Low, "potassium")
	}
	return rep
}
