package models

import "time"

type WeatherCondition string

const (
	Sunny  WeatherCondition = "Sunny"
	Cloudy WeatherCondition = "Cloudy"
	Rainy  WeatherCondition = "Rainy"
	Stormy WeatherCondition = "Stormy"
)

// IsWet reports whether the condition counts as raining.
func (c WeatherCondition) IsWet() bool {
	return c == Rainy || c == Stormy
}

type Metric struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Change float64 `json:"change"`
}

type GrowthStage struct {
	Value  string `json:"value"`
	Change int    `json:"change"` // days ahead (+) or behind (-) schedule
}

type KeyMetrics struct {
	SoilMoisture    Metric      `json:"soilMoisture"`
	NDVI            Metric      `json:"ndvi"`
	CanopyCover     Metric      `json:"canopyCover"`
	CropGrowthStage GrowthStage `json:"cropGrowthStage"`
	PlantHeight     Metric      `json:"plantHeight"`
	LeafCount       Metric      `json:"leafCount"`
	SoilTemperature Metric      `json:"soilTemperature"`
}

type ChartPoint struct {
	Day  string  `json:"day"` // "M/D" for seeded history, "Now" for live ticks
	NDVI float64 `json:"NDVI"`
	NDWI float64 `json:"NDWI"`
	SAVI float64 `json:"SAVI"`
}

type Sector struct {
	ID           int     `json:"id"`
	PestRisk     float64 `json:"pestRisk"`
	SoilMoisture float64 `json:"soilMoisture"`
	PestType     string  `json:"pestType"`
}

type Nutrients struct {
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
}

type Conditions struct {
	PH        float64   `json:"ph"`
	Nutrients Nutrients `json:"nutrients"`
	SoilType  string    `json:"soilType"`
	Climate   string    `json:"climate"`
}

type Weather struct {
	Temperature float64          `json:"temperature"`
	Humidity    float64          `json:"humidity"`
	WindSpeed   float64          `json:"windSpeed"`
	Condition   WeatherCondition `json:"condition"`
}

// FarmState is one snapshot of the simulated farm. Values handed out by the simulator are
// never mutated afterwards; use Clone before changing anything.
type FarmState struct {
	KeyMetrics     KeyMetrics   `json:"keyMetrics"`
	ChartData      []ChartPoint `json:"chartData"`
	Sectors        []Sector     `json:"sectors"`
	Conditions     Conditions   `json:"conditions"`
	CurrentWeather Weather      `json:"currentWeather"`
	Version        uint64       `json:"version"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Clone returns a deep copy.
func (f FarmState) Clone() FarmState {
	out := f
	out.ChartData = append([]ChartPoint(nil), f.ChartData...)
	out.Sectors = append([]Sector(nil), f.Sectors...)
	return out
}

// MeanPestRisk averages sector pest risk. Zero sectors yield zero.
func (f FarmState) MeanPestRisk() float64 {
	if len(f.Sectors) == 0 {
		return 0
	}
	var sum float64
	for _, s := range f.Sectors {
		sum += s.PestRisk
	}
	return sum / float64(len(f.Sectors))
}

// LastChartPoint returns the newest chart point.
func (f FarmState) LastChartPoint() (ChartPoint, bool) {
	if len(f.ChartData) == 0 {
		return ChartPoint{}, false
	}
	return f.ChartData[len(f.ChartData)-1], true
}
