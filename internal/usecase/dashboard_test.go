package usecase

import (
	"context"
	"testing"

	"AgroPulse/internal/domain/models"
	"AgroPulse/internal/services/market"
	"AgroPulse/pkg/metrics"
)

func newDashboard(t *testing.T, src SnapshotSource) *DashboardUseCase {
	t.Helper()
	rec := metrics.NewIsolated()
	trig := NewRecomputeTrigger(predictFunc(func(context.Context, models.FarmState, models.Locale) (models.PredictionBundle, error) {
		return bundleWithYield(4), nil
	}), src, nil, rec, nil)
	feed := NewMarketFeed(market.NewSimulatedSource(fixedSource(0.5), 0), nil, rec, nil)
	irr, err := NewIrrigationController(models.IrrigationSettings{Mode: models.IrrigationOff, Start: "05:00", End: "06:00"}, src, nil)
	if err != nil {
		t.Fatalf("irrigation: %v", err)
	}
	return NewDashboardUseCase(src, NewAlertEvaluator(), trig, feed, irr)
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestDashboardAggregates(t *testing.T) {
	sim := newTestSimulator(t, 5)
	sim.Initialize()
	d := newDashboard(t, sim)

	if _, err := d.recompute.Request(context.Background(), models.LocaleEN); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if _, err := d.market.Refresh(context.Background()); err != nil {
		t.Fatalf("market: %v", err)
	}

	got, err := d.Get(context.Background(), "")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if got.Farm == nil || got.Alerts == nil || got.Irrigation == nil {
		t.Fatalf("missing panels: %+v", got)
	}
	if got.Predictions.Bundle == nil || len(got.Market.Prices) == 0 {
		t.Fatalf("missing predictions or market")
	}
	if got.Irrigation.Status != models.StatusOff {
		t.Fatalf("irrigation status %s", got.Irrigation.Status)
	}
	if len(got.Errors) != 0 {
		t.Fatalf("unexpected errors %v", got.Errors)
	}
}

func TestDashboardReportsPartErrors(t *testing.T) {
	d := newDashboard(t, newTestSimulator(t, 5))

	got, err := d.Get(context.Background(), "")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if got.Farm != nil || got.Irrigation != nil {
		t.Fatalf("panels without data should be empty")
	}
	for _, part := range []string{"farm", "alerts", "irrigation"} {
		if got.Errors[part] == "" {
			t.Fatalf("missing error for %s: %v", part, got.Errors)
		}
	}
}

func TestDashboardCanceled(t *testing.T) {
	d := newDashboard(t, newTestSimulator(t, 5))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Get(ctx, ""); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
