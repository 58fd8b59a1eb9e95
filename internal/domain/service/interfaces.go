package service

import (
	"context"

	"AgroPulse/internal/domain/models"
)

// PredictionProvider turns a farm snapshot into forecasts. Implementations must honour ctx and
// wrap failures in models.ErrRecomputeFailed.
type PredictionProvider interface {
	Predict(ctx context.Context, snapshot models.FarmState, locale models.Locale) (models.PredictionBundle, error)
}

// ImageClassifier identifies pests on an uploaded photo.
type ImageClassifier interface {
	IdentifyPest(ctx context.Context, img models.Image, locale models.Locale) (models.PestIdentification, error)
}

// PlantAdvisor produces crop recommendations and plant health analyses.
type PlantAdvisor interface {
	Recommend(ctx context.Context, snapshot models.FarmState, locale models.Locale) (models.PlantRecommendation, error)
	AnalyzeHealth(ctx context.Context, img models.Image, snapshot models.FarmState, locale models.Locale) (models.PlantHealthAnalysis, error)
}

// SoilScorer rates soil health from conditions and moisture.
type SoilScorer interface {
	Score(ctx context.Context, conditions models.Conditions, soilMoisture float64, locale models.Locale) (models.SoilHealthScore, error)
}

// PriceSource produces the next market price list from the previous one. An empty previous
// list means first fetch.
type PriceSource interface {
	Next(ctx context.Context, prev []models.MarketPrice) ([]models.MarketPrice, error)
}
