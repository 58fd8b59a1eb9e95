package features

import (
    "math"

    "AgroPulse/internal/domain/models"
)

// Input is the subset of a farm snapshot that drives forecasts.
type Input struct {
    NDVI         float64                 `validate:"gte=0,lte=1"`
    SoilMoisture float64                 `validate:"gte=0,lte=100"`
    Condition    models.WeatherCondition `validate:"oneof=Sunny Cloudy Rainy Stormy"`
    Sectors      int                     `validate:"gte=1"`
    MeanPestRisk float64                 `validate:"gte=0,lte=100"`
}

// Extract reads forecast inputs from a snapshot.
func Extract(f models.FarmState) Input {
    return Input{
        NDVI:         f.KeyMetrics.NDVI.Value,
        SoilMoisture: f.KeyMetrics.SoilMoisture.Value,
        Condition:    f.CurrentWeather.Condition,
        Sectors:      len(f.Sectors),
        MeanPestRisk: f.MeanPestRisk(),
    }
}

// RainyDays counts forecast days with Rainy condition. Stormy days do not count.
func RainyDays(forecast []models.DayForecast) int {
    n := 0
    for _, d := range forecast {
        if d.Condition == models.Rainy {
            n++
        }
    }
    return n
}

// BaseYield estimates tons per acre from vegetation and soil moisture: 4.5 at NDVI 0.7 and 55%
// moisture, +5 per NDVI unit, -1 per 20 points of moisture away from 55.
func BaseYield(ndvi, soilMoisture float64) float64 {
    return 4.5 + (ndvi-0.7)*5 - math.Abs(soilMoisture-55)/20
}

// RainAdjustment is -0.3 for more than three rainy days, +0.2 for one to three, else 0.
func RainAdjustment(rainyDays int) float64 {
    switch {
    case rainyDays > 3:
        return -0.3
    case rainyDays > 0:
        return 0.2
    default:
        return 0
    }
}
