// Package advisor holds the simulated AI advisors: pest identification, crop recommendation,
// plant health analysis and soil scoring. Each waits a configurable latency that honours ctx.
package advisor

import (
	"context"
	"fmt"
	"math"
	"time"

	"AgroPulse/internal/domain/models"
	domsvc "AgroPulse/internal/domain/service"
	"AgroPulse/pkg/util"
)

// Source is a uniform [0,1) random draw.
type Source interface {
	Float64() float64
}

// Latencies are the simulated response times of each advisor.
type Latencies struct {
	Pest           time.Duration
	Health         time.Duration
	Recommendation time.Duration
	Soil           time.Duration
}

// Advisor implements every advisor interface with canned logic.
type Advisor struct {
	rng     Source
	latency Latencies
}

func New(rng Source, latency Latencies) *Advisor {
	return &Advisor{rng: rng, latency: latency}
}

var (
	_ domsvc.ImageClassifier = (*Advisor)(nil)
	_ domsvc.PlantAdvisor    = (*Advisor)(nil)
	_ domsvc.SoilScorer      = (*Advisor)(nil)
)

// IdentifyPest reports an aphid on 60% of images.
func (a *Advisor) IdentifyPest(ctx context.Context, img models.Image, _ models.Locale) (models.PestIdentification, error) {
	if err := checkImage(img); err != nil {
		return models.PestIdentification{}, err
	}
	if err := wait(ctx, a.latency.Pest); err != nil {
		return models.PestIdentification{}, err
	}
	if a.rng.Float64() > 0.4 {
		return models.PestIdentification{
			PestName:       "Aphid",
			Recommendation: "Introduce ladybugs as natural predators or apply a mild insecticidal soap solution.",
		}, nil
	}
	return models.PestIdentification{
		PestName:       "N/A",
		Recommendation: "No pest was detected in the provided image.",
	}, nil
}

// Recommend picks a crop by soil pH: below 6.0 acidic, above 7.5 alkaline.
func (a *Advisor) Recommend(ctx context.Context, snapshot models.FarmState, _ models.Locale) (models.PlantRecommendation, error) {
	if err := wait(ctx, a.latency.Recommendation); err != nil {
		return models.PlantRecommendation{}, err
	}
	ph := snapshot.Conditions.PH
	switch {
	case ph < 6.0:
		return models.PlantRecommendation{
			PlantName:     "Blueberry",
			Justification: "Blueberries prefer acidic soil. The current low pH level is highly suitable for their growth.",
		}, nil
	case ph > 7.5:
		return models.PlantRecommendation{
			PlantName:     "Asparagus",
			Justification: "Asparagus is tolerant of alkaline soils. The current high pH level makes it a good candidate for this field.",
		}, nil
	default:
		return models.PlantRecommendation{
			PlantName:     "Tomato",
			Justification: "Tomatoes thrive in loamy soil with a balanced pH and temperate climates. The current conditions are ideal.",
		}, nil
	}
}

// AnalyzeHealth returns one of three canned analyses, each with probability one third.
func (a *Advisor) AnalyzeHealth(ctx context.Context, img models.Image, _ models.FarmState, _ models.Locale) (models.PlantHealthAnalysis, error) {
	if err := checkImage(img); err != nil {
		return models.PlantHealthAnalysis{}, err
	}
	if err := wait(ctx, a.latency.Health); err != nil {
		return models.PlantHealthAnalysis{}, err
	}
	u := a.rng.Float64()
	switch {
	case u > 0.66:
		return models.PlantHealthAnalysis{
			Status:        "Healthy",
			GrowthStage:   "Vegetative",
			StressFactors: []string{"None detected."},
			Recommendations: []string{
				"Maintain current watering and nutrient schedule.",
				"Ensure good air circulation to prevent fungal issues.",
			},
			GrowthTrends: "The plant is exhibiting a steady growth rate.",
		}, nil
	case u > 0.33:
		return models.PlantHealthAnalysis{
			Status:        "Stressed",
			GrowthStage:   "Vegetative",
			StressFactors: []string{"Nitrogen Deficiency (slight yellowing of lower leaves)"},
			Recommendations: []string{
				"Action: Apply 10 kg/acre of Urea as a top dressing within 3 days.",
				"Increase irrigation frequency by 15% for the next week.",
				"Monitor for improvement in leaf color.",
			},
		}, nil
	default:
		return models.PlantHealthAnalysis{
			Status:        "Needs Attention",
			GrowthStage:   "Flowering",
			StressFactors: []string{"Phosphorus Deficiency", "Early signs of powdery mildew"},
			Recommendations: []string{
				"Urgent: Foliar spray with a high-phosphorus fertilizer (e.g., 10-52-10 NPK) immediately.",
				"Action: Apply a targeted fungicide suitable for powdery mildew to affected areas only.",
				"Isolate affected plants if possible to prevent spread.",
			},
		}, nil
	}
}

// Score rates soil health on 0..100: a base of 10, up to 35 for pH near 6.5, up to 30 for
// moisture near 50%, and 10/5/10 when N/P/K sit inside their target bands.
func (a *Advisor) Score(ctx context.Context, c models.Conditions, soilMoisture float64, _ models.Locale) (models.SoilHealthScore, error) {
	if err := wait(ctx, a.latency.Soil); err != nil {
		return models.SoilHealthScore{}, err
	}
	score := SoilScore(c, soilMoisture)
	return models.SoilHealthScore{
		Score:          int(math.Round(score)),
		Rating:         Rating(score),
		Recommendation: soilRecommendation(score, c),
	}, nil
}

// SoilScore computes the unrounded soil health score.
func SoilScore(c models.Conditions, soilMoisture float64) float64 {
	score := 10.0
	score += math.Max(0, 1-math.Abs(6.5-c.PH)/2.0) * 35
	score += math.Max(0, 1-math.Abs(50-soilMoisture)/30.0) * 30

	n := c.Nutrients
	if n.Nitrogen > 100 && n.Nitrogen < 150 {
		score += 10
	}
	if n.Phosphorus > 40 && n.Phosphorus < 60 {
		score += 5
	}
	if n.Potassium > 70 && n.Potassium < 100 {
		score += 10
	}
	return util.Clamp(score, 0, 100)
}

// Rating maps a score to its band.
func Rating(score float64) models.SoilRating {
	switch {
	case score >= 85:
		return models.SoilExcellent
	case score >= 70:
		return models.SoilGood
	case score >= 50:
		return models.SoilFair
	default:
		return models.SoilPoor
	}
}

func soilRecommendation(score float64, c models.Conditions) string {
	switch {
	case score < 50:
		switch {
		case c.PH < 6.0:
			return "Critical: Soil is too acidic. Apply 50 kg/acre of agricultural lime immediately to raise pH."
		case c.Nutrients.Nitrogen < 100:
			return "Action required: Severe nitrogen deficiency detected. Apply 30 kg/acre of Urea fertilizer within the next 2 days."
		default:
			return "Action required: Soil health is poor. Conduct a detailed soil test to identify specific deficiencies."
		}
	case score < 70:
		switch {
		case c.PH > 7.5:
			return "Recommendation: Soil is slightly alkaline. Incorporate 10 tons/acre of compost to gradually lower pH."
		case c.Nutrients.Potassium < 70:
			return "Recommendation: Potassium levels are suboptimal. Apply 15 kg/acre of Muriate of Potash before the next growth stage."
		default:
			return "Soil is fair but can be improved. Consider adding organic matter like compost to enhance nutrient retention."
		}
	case score >= 85:
		return "Excellent soil health detected. No immediate action required. Continue best practices for soil management."
	default:
		return "Soil appears balanced. Maintain current fertilization and watering schedules."
	}
}

func checkImage(img models.Image) error {
	if img.Size <= 0 {
		return fmt.Errorf("%w: empty upload", models.ErrInvalidImage)
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
