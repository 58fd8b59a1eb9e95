package usecase

import (
	"testing"

	"AgroPulse/internal/domain/models"
)

func TestAlertThresholds(t *testing.T) {
	f := models.FarmState{
		Version: 3,
		Sectors: []models.Sector{
			{ID: 1, PestRisk: 75, SoilMoisture: 30},
			{ID: 2, PestRisk: 75.1, SoilMoisture: 45, PestType: "aphids"},
			{ID: 3, PestRisk: 10, SoilMoisture: 29.9},
		},
		Conditions: models.Conditions{Nutrients: models.Nutrients{Nitrogen: 100, Phosphorus: 39.9, Potassium: 69}},
	}

	rep := NewAlertEvaluator().Evaluate(f)
	if rep.SnapshotVersion != 3 {
		t.Fatalf("snapshot version %d", rep.SnapshotVersion)
	}
	if len(rep.Alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %+v", rep.Alerts)
	}
	pest, moist := rep.Alerts[0], rep.Alerts[1]
	if pest.Kind != models.AlertPest || pest.Type != models.AlertCritical || pest.Sector != 2 || pest.PestType != "aphids" {
		t.Fatalf("unexpected pest alert %+v", pest)
	}
	if moist.Kind != models.AlertMoisture || moist.Type != models.AlertWarning || moist.Sector != 3 {
		t.Fatalf("unexpected moisture alert %+v", moist)
	}

	low := rep.NutrientWarning.Low
	if len(low) != 2 || low[0] != "phosphorus" || low[1] != "potassium" {
		t.Fatalf("unexpected nutrient warning %v", low)
	}
}

func TestAlertsEmptyListsNotNil(t *testing.T) {
	rep := NewAlertEvaluator().Evaluate(models.FarmState{
		Conditions: models.Conditions{Nutrients: models.Nutrients{Nitrogen: 120, Phosphorus: 50, Potassium: 80}},
	})
	if rep.Alerts == nil || rep.NutrientWarning.Low == nil {
		t.Fatalf("empty lists must serialize as []")
	}
}
