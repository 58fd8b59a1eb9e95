// Package telemetry holds the pure seed and step functions of the farm simulator. Nothing here
// keeps state; the caller owns the snapshot and the random source.
package telemetry

import (
	"math"
	"time"

	"AgroPulse/internal/domain/models"
	"AgroPulse/pkg/config"
	"AgroPulse/pkg/util"
)

// Source is the random draw used by the simulator. *rand.Rand and *util.LockedRand satisfy it.
type Source interface {
	Float64() float64
}

// Fixed bounds that are not part of the tuning knobs.
const (
	MoistureMin  = 0.0
	MoistureMax  = 100.0
	RiskMin      = 0.0
	RiskMax      = 100.0
	SoilTempMin  = -10.0
	SoilTempMax  = 60.0
	AirTempMin   = -20.0
	AirTempMax   = 55.0
	PHMin        = 5.0
	PHMax        = 8.5
	NowLabel     = "Now"
	SeedDays     = config.MaxChartCap
	soilTempUnit = "°C"
)

var sectorSeeds = []models.Sector{
	{ID: 1, PestRisk: 25, SoilMoisture: 45, PestType: "Aphids"},
	{ID: 2, PestRisk: 80, SoilMoisture: 50, PestType: "Spider Mites"},
	{ID: 3, PestRisk: 15, SoilMoisture: 25, PestType: "Thrips"},
	{ID: 4, PestRisk: 40, SoilMoisture: 60, PestType: "Whiteflies"},
}

// Seed builds the initial farm state: fixed baselines, the four sectors and SeedDays of chart
// history ending at now.
func Seed(rng Source, now time.Time, t config.Tuning) models.FarmState {
	days := SeedDays
	if t.ChartCap > 0 && t.ChartCap < days {
		days = t.ChartCap
	}
	chart := make([]models.ChartPoint, 0, days)
	for i := 0; i < days; i++ {
		chart = append(chart, models.ChartPoint{
			Day:  util.MonthDay(util.DaysAgo(now, days-1-i)),
			NDVI: rng.Float64()*0.2 + 0.6,
			NDWI: rng.Float64()*0.2 + 0.3,
			SAVI: rng.Float64()*0.2 + 0.4,
		})
	}

	return models.FarmState{
		KeyMetrics: models.KeyMetrics{
			SoilMoisture:    models.Metric{Value: 45, Unit: "%", Change: 1.2},
			NDVI:            models.Metric{Value: 0.75, Change: -0.5},
			CanopyCover:     models.Metric{Value: 85, Unit: "%", Change: 2.1},
			CropGrowthStage: models.GrowthStage{Value: "Vegetative", Change: 2},
			PlantHeight:     models.Metric{Value: 30, Unit: "cm", Change: 0.5},
			LeafCount:       models.Metric{Value: 12, Change: 1},
			SoilTemperature: models.Metric{Value: 22, Unit: soilTempUnit, Change: -0.2},
		},
		ChartData: chart,
		Sectors:   append([]models.Sector(nil), sectorSeeds...),
		Conditions: models.Conditions{
			PH:        6.8,
			Nutrients: models.Nutrients{Nitrogen: 120, Phosphorus: 50, Potassium: 80},
			SoilType:  "Loamy",
			Climate:   "Temperate",
		},
		CurrentWeather: models.Weather{
			Temperature: 27.5,
			Humidity:    65,
			WindSpeed:   10,
			Condition:   models.Sunny,
		},
		Version:   1,
		UpdatedAt: now,
	}
}

// Step returns the state one tick after prev. prev is not modified.
func Step(rng Source, prev models.FarmState, now time.Time, t config.Tuning) models.FarmState {
	next := prev.Clone()

	last, ok := prev.LastChartPoint()
	if !ok {
		mid := (t.IndexMin + t.IndexMax) / 2
		last = models.ChartPoint{NDVI: mid, NDWI: mid, SAVI: mid}
	}
	point := models.ChartPoint{
		Day:  NowLabel,
		NDVI: drift(rng, last.NDVI, t.IndexStep, t.IndexMin, t.IndexMax),
		NDWI: drift(rng, last.NDWI, t.IndexStep, t.IndexMin, t.IndexMax),
		SAVI: drift(rng, last.SAVI, t.IndexStep, t.IndexMin, t.IndexMax),
	}
	// Only the newest point carries the live label.
	if n := len(next.ChartData); n > 0 && next.ChartData[n-1].Day == NowLabel {
		next.ChartData[n-1].Day = util.MonthDay(prev.UpdatedAt)
	}
	next.ChartData = append(next.ChartData, point)
	if limit := min(max(t.ChartCap, 1), config.MaxChartCap); len(next.ChartData) > limit {
		next.ChartData = append([]models.ChartPoint(nil), next.ChartData[len(next.ChartData)-limit:]...)
	}

	km := &next.KeyMetrics
	km.SoilMoisture.Value = drift(rng, km.SoilMoisture.Value, t.MoistureStep, MoistureMin, MoistureMax)
	km.SoilMoisture.Change = symmetric(rng, t.MoistureStep)

	km.NDVI.Value = point.NDVI
	km.NDVI.Change = (point.NDVI - last.NDVI) * 100

	km.CanopyCover.Value = util.Clamp(km.CanopyCover.Value, 0, 100)

	km.PlantHeight.Value = math.Max(0, km.PlantHeight.Value+rng.Float64()*t.HeightGrowthMax)
	km.PlantHeight.Change = rng.Float64() * t.HeightGrowthMax

	km.LeafCount.Value = math.Max(0, km.LeafCount.Value+leaf(rng, t.LeafChance))
	km.LeafCount.Change = leaf(rng, t.LeafChance)

	km.SoilTemperature.Value = drift(rng, km.SoilTemperature.Value, t.SoilTempStep, SoilTempMin, SoilTempMax)
	km.SoilTemperature.Change = symmetric(rng, t.SoilTempStep)

	for i := range next.Sectors {
		s := &next.Sectors[i]
		s.PestRisk = util.Clamp(s.PestRisk+(rng.Float64()-t.SectorRiskBias)*t.SectorRiskStep, RiskMin, RiskMax)
		s.SoilMoisture = drift(rng, s.SoilMoisture, t.SectorWaterStep, MoistureMin, MoistureMax)
	}

	w := &next.CurrentWeather
	w.Temperature = drift(rng, w.Temperature, t.AirTempStep, AirTempMin, AirTempMax)
	w.Humidity = drift(rng, w.Humidity, t.HumidityStep, t.HumidityMin, t.HumidityMax)

	c := &next.Conditions
	c.PH = util.Clamp(c.PH, PHMin, PHMax)
	c.Nutrients.Nitrogen = math.Max(t.NitrogenFloor, c.Nutrients.Nitrogen-t.NitrogenDrain)
	c.Nutrients.Phosphorus = math.Max(t.PhosphorusFloor, c.Nutrients.Phosphorus-t.PhosphorusDrain)
	c.Nutrients.Potassium = math.Max(t.PotassiumFloor, c.Nutrients.Potassium-t.PotassiumDrain)

	next.Version = prev.Version + 1
	next.UpdatedAt = now
	return next
}

// drift moves v by a symmetric step of total width step and clamps it to [lo, hi].
func drift(rng Source, v, step, lo, hi float64) float64 {
	return util.Clamp(v+symmetric(rng, step), lo, hi)
}

func symmetric(rng Source, step float64) float64 {
	return (rng.Float64() - 0.5) * step
}

func leaf(rng Source, chance float64) float64 {
	if rng.Float64() > 1-chance {
		return 1
	}
	return 0
}
