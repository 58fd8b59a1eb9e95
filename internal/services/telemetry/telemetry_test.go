package telemetry

import (
	"math/rand"
	"testing"
	"time"

	"AgroPulse/internal/domain/models"
	"AgroPulse/pkg/config"
	"AgroPulse/pkg/util"
)

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func TestSeedBaselines(t *testing.T) {
	f := Seed(rand.New(rand.NewSource(1)), now, config.DefaultTuning())

	if len(f.ChartData) != 30 {
		t.Fatalf("expected 30 chart days, got %d", len(f.ChartData))
	}
	if f.ChartData[0].Day != "5/17" || f.ChartData[29].Day != "6/15" {
		t.Fatalf("unexpected chart labels %s..%s", f.ChartData[0].Day, f.ChartData[29].Day)
	}
	for _, p := range f.ChartData {
		if p.NDVI < 0.6 || p.NDVI >= 0.8 || p.NDWI < 0.3 || p.NDWI >= 0.5 || p.SAVI < 0.4 || p.SAVI >= 0.6 {
			t.Fatalf("seed chart point out of range: %+v", p)
		}
	}
	if len(f.Sectors) != 4 || f.Sectors[1].PestRisk != 80 || f.Sectors[1].PestType != "Spider Mites" {
		t.Fatalf("unexpected sectors %+v", f.Sectors)
	}
	if f.KeyMetrics.SoilMoisture.Value != 45 || f.Conditions.PH != 6.8 || f.CurrentWeather.Condition != models.Sunny {
		t.Fatalf("unexpected baselines")
	}
	if f.Version != 1 {
		t.Fatalf("expected version 1, got %d", f.Version)
	}
}

func TestStepKeepsValuesInRange(t *testing.T) {
	tuning := config.DefaultTuning()
	rng := rand.New(rand.NewSource(7))
	f := Seed(rng, now, tuning)

	for i := 0; i < 5000; i++ {
		f = Step(rng, f, now.Add(time.Duration(i)*2*time.Second), tuning)

		km := f.KeyMetrics
		if km.SoilMoisture.Value < 0 || km.SoilMoisture.Value > 100 {
			t.Fatalf("tick %d: soil moisture %v", i, km.SoilMoisture.Value)
		}
		if km.SoilTemperature.Value < SoilTempMin || km.SoilTemperature.Value > SoilTempMax {
			t.Fatalf("tick %d: soil temperature %v", i, km.SoilTemperature.Value)
		}
		if km.PlantHeight.Value < 0 || km.LeafCount.Value < 0 {
			t.Fatalf("tick %d: negative growth", i)
		}
		for _, p := range f.ChartData {
			if p.NDVI < 0.1 || p.NDVI > 0.9 || p.NDWI < 0.1 || p.NDWI > 0.9 || p.SAVI < 0.1 || p.SAVI > 0.9 {
				t.Fatalf("tick %d: index out of range %+v", i, p)
			}
		}
		for _, s := range f.Sectors {
			if s.PestRisk < 0 || s.PestRisk > 100 || s.SoilMoisture < 0 || s.SoilMoisture > 100 {
				t.Fatalf("tick %d: sector out of range %+v", i, s)
			}
		}
		w := f.CurrentWeather
		if w.Humidity < 20 || w.Humidity > 90 || w.Temperature < AirTempMin || w.Temperature > AirTempMax {
			t.Fatalf("tick %d: weather out of range %+v", i, w)
		}
		n := f.Conditions.Nutrients
		if n.Nitrogen < 40 || n.Phosphorus < 20 || n.Potassium < 30 {
			t.Fatalf("tick %d: nutrients below floor %+v", i, n)
		}
	}

	n := f.Conditions.Nutrients
	if n.Nitrogen != 40 || n.Phosphorus != 20 || n.Potassium != 30 {
		t.Fatalf("nutrients should settle on their floors, got %+v", n)
	}
}

func TestStepChartWindow(t *testing.T) {
	tuning := config.DefaultTuning()
	rng := rand.New(rand.NewSource(3))
	f := Seed(rng, now, tuning)
	first := f.ChartData[1].Day

	f = Step(rng, f, now, tuning)
	if len(f.ChartData) != 30 {
		t.Fatalf("expected length to stay at 30, got %d", len(f.ChartData))
	}
	if f.ChartData[29].Day != NowLabel || f.ChartData[0].Day != first {
		t.Fatalf("expected oldest evicted and Now appended, got %s..%s", f.ChartData[0].Day, f.ChartData[29].Day)
	}
	if f.KeyMetrics.NDVI.Value != f.ChartData[29].NDVI {
		t.Fatalf("ndvi metric must mirror the new chart point")
	}

	for i := 0; i < 31; i++ {
		f = Step(rng, f, now, tuning)
	}
	if len(f.ChartData) != 30 {
		t.Fatalf("expected cap of 30 after 31 ticks, got %d", len(f.ChartData))
	}
	live := 0
	for _, p := range f.ChartData {
		if p.Day == NowLabel {
			live++
		}
	}
	if live != 1 || f.ChartData[29].Day != NowLabel {
		t.Fatalf("expected exactly one live point at the end, got %d", live)
	}
	if f.ChartData[28].Day != util.MonthDay(now) {
		t.Fatalf("expected previous live point relabelled %q, got %q", util.MonthDay(now), f.ChartData[28].Day)
	}
}

func TestStepDoesNotMutatePrevious(t *testing.T) {
	tuning := config.DefaultTuning()
	rng := rand.New(rand.NewSource(5))
	prev := Seed(rng, now, tuning)
	before := prev.Clone()

	next := Step(rng, prev, now, tuning)

	if prev.Sectors[0] != before.Sectors[0] || len(prev.ChartData) != len(before.ChartData) ||
		prev.ChartData[29] != before.ChartData[29] || prev.KeyMetrics != before.KeyMetrics {
		t.Fatalf("step mutated its input")
	}
	if next.Version != prev.Version+1 {
		t.Fatalf("expected version bump")
	}
	for i, s := range next.Sectors {
		if s.ID != prev.Sectors[i].ID || s.PestType != prev.Sectors[i].PestType {
			t.Fatalf("sector identity changed: %+v", s)
		}
	}
}

func TestStepWithEmptyChart(t *testing.T) {
	tuning := config.DefaultTuning()
	f := Step(rand.New(rand.NewSource(1)), models.FarmState{}, now, tuning)
	if len(f.ChartData) != 1 || f.ChartData[0].Day != NowLabel {
		t.Fatalf("expected a single Now point, got %+v", f.ChartData)
	}
}

func TestStepChartNeverExceedsMaxCap(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.ChartCap = 50
	rng := rand.New(rand.NewSource(3))
	f := Seed(rng, now, tuning)
	for i := 0; i < 40; i++ {
		f = Step(rng, f, now, tuning)
	}
	if len(f.ChartData) != config.MaxChartCap {
		t.Fatalf("expected %d points, got %d", config.MaxChartCap, len(f.ChartData))
	}
}
