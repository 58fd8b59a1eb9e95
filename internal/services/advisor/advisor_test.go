package advisor

import (
	"context"
	"errors"
	"testing"

	"AgroPulse/internal/domain/models"
)

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func snapshotWithPH(ph float64) models.FarmState {
	return models.FarmState{Conditions: models.Conditions{PH: ph}}
}

func TestRecommendByPH(t *testing.T) {
	a := New(fixed(0.5), Latencies{})
	cases := []struct {
		ph   float64
		want string
	}{
		{5.5, "Blueberry"},
		{6.0, "Tomato"},
		{7.5, "Tomato"},
		{8.0, "Asparagus"},
	}
	for _, c := range cases {
		rec, err := a.Recommend(context.Background(), snapshotWithPH(c.ph), models.LocaleEN)
		if err != nil {
			t.Fatalf("ph %.1f: %v", c.ph, err)
		}
		if rec.PlantName != c.want {
			t.Fatalf("ph %.1f: got %s, want %s", c.ph, rec.PlantName, c.want)
		}
		if rec.Justification == "" {
			t.Fatalf("ph %.1f: empty justification", c.ph)
		}
	}
}

func TestIdentifyPest(t *testing.T) {
	img := models.Image{Name: "leaf.jpg", Size: 1024}

	got, err := New(fixed(0.9), Latencies{}).IdentifyPest(context.Background(), img, models.LocaleEN)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if got.PestName != "Aphid" {
		t.Fatalf("expected Aphid, got %s", got.PestName)
	}

	got, err = New(fixed(0.4), Latencies{}).IdentifyPest(context.Background(), img, models.LocaleEN)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if got.PestName != "N/A" {
		t.Fatalf("expected N/A, got %s", got.PestName)
	}
}

func TestEmptyImageRejected(t *testing.T) {
	a := New(fixed(0.9), Latencies{})
	if _, err := a.IdentifyPest(context.Background(), models.Image{}, models.LocaleEN); !errors.Is(err, models.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
	if _, err := a.AnalyzeHealth(context.Background(), models.Image{}, models.FarmState{}, models.LocaleEN); !errors.Is(err, models.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

func TestAnalyzeHealthBands(t *testing.T) {
	img := models.Image{Name: "plant.png", Size: 10}
	cases := []struct {
		u      float64
		status string
		stage  string
	}{
		{0.9, "Healthy", "Vegetative"},
		{0.5, "Stressed", "Vegetative"},
		{0.1, "Needs Attention", "Flowering"},
	}
	for _, c := range cases {
		got, err := New(fixed(c.u), Latencies{}).AnalyzeHealth(context.Background(), img, models.FarmState{}, models.LocaleEN)
		if err != nil {
			t.Fatalf("u=%.2f: %v", c.u, err)
		}
		if got.Status != c.status || got.GrowthStage != c.stage {
			t.Fatalf("u=%.2f: got %s/%s", c.u, got.Status, got.GrowthStage)
		}
		if len(got.Recommendations) == 0 || len(got.StressFactors) == 0 {
			t.Fatalf("u=%.2f: missing details", c.u)
		}
	}
}

func TestSoilScore(t *testing.T) {
	ideal := models.Conditions{PH: 6.5, Nutrients: models.Nutrients{Nitrogen: 120, Phosphorus: 50, Potassium: 80}}
	if got := SoilScore(ideal, 50); got != 100 {
		t.Fatalf("ideal soil: got %.2f, want 100", got)
	}

	// pH 4.5 and moisture 80 contribute nothing; no nutrient bonus.
	poor := models.Conditions{PH: 4.5, Nutrients: models.Nutrients{Nitrogen: 90, Phosphorus: 30, Potassium: 60}}
	if got := SoilScore(poor, 80); got != 10 {
		t.Fatalf("poor soil: got %.2f, want 10", got)
	}

	// Band edges are exclusive.
	edge := models.Conditions{PH: 6.5, Nutrients: models.Nutrients{Nitrogen: 100, Phosphorus: 60, Potassium: 70}}
	if got := SoilScore(edge, 50); got != 75 {
		t.Fatalf("edge soil: got %.2f, want 75", got)
	}
}

func TestRatingBands(t *testing.T) {
	cases := []struct {
		score float64
		want  models.SoilRating
	}{
		{100, models.SoilExcellent},
		{85, models.SoilExcellent},
		{84.9, models.SoilGood},
		{70, models.SoilGood},
		{69.9, models.SoilFair},
		{50, models.SoilFair},
		{49.9, models.SoilPoor},
		{0, models.SoilPoor},
	}
	for _, c := range cases {
		if got := Rating(c.score); got != c.want {
			t.Fatalf("score %.1f: got %s, want %s", c.score, got, c.want)
		}
	}
}

func TestScoreRecommendation(t *testing.T) {
	a := New(fixed(0.5), Latencies{})

	acidic := models.Conditions{PH: 4.5, Nutrients: models.Nutrients{Nitrogen: 120}}
	got, err := a.Score(context.Background(), acidic, 80, models.LocaleEN)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if got.Rating != models.SoilPoor || got.Score != 20 {
		t.Fatalf("acidic: got %d %s", got.Score, got.Rating)
	}
	if got.Recommendation != "Critical: Soil is too acidic. Apply 50 kg/acre of agricultural lime immediately to raise pH." {
		t.Fatalf("acidic: unexpected recommendation %q", got.Recommendation)
	}

	ideal := models.Conditions{PH: 6.5, Nutrients: models.Nutrients{Nitrogen: 120, Phosphorus: 50, Potassium: 80}}
	got, err = a.Score(context.Background(), ideal, 50, models.LocaleEN)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if got.Rating != models.SoilExcellent || got.Score != 100 {
		t.Fatalf("ideal: got %d %s", got.Score, got.Rating)
	}
}

func TestScoreHonoursCancel(t *testing.T) {
	a := New(fixed(0.5), Latencies{Soil: 1 << 40})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Score(ctx, models.Conditions{}, 50, models.LocaleEN); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
