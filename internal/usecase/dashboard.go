package usecase

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"AgroPulse/internal/domain/models"
)

// DashboardUseCase assembles every dashboard panel in one call.
type DashboardUseCase struct {
	snapshots  SnapshotSource
	alerts     *AlertEvaluator
	recompute  *RecomputeTrigger
	market     *MarketFeed
	irrigation *IrrigationController
}

func NewDashboardUseCase(snapshots SnapshotSource, alerts *AlertEvaluator, recompute *RecomputeTrigger, market *MarketFeed, irrigation *IrrigationController) *DashboardUseCase {
	return &DashboardUseCase{
		snapshots:  snapshots,
		alerts:     alerts,
		recompute:  recompute,
		market:     market,
		irrigation: irrigation,
	}
}

// Get collects the panels concurrently. Predictions are those cached for locale when given.
// A failing panel is left empty and its error recorded under the panel name; Get itself only
// fails when ctx is done.
func (d *DashboardUseCase) Get(ctx context.Context, locale models.Locale) (models.Dashboard, error) {
	var (
		out models.Dashboard
		mu  sync.Mutex
	)
	fail := func(part string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if out.Errors == nil {
			out.Errors = map[string]string{}
		}
		out.Errors[part] = err.Error()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := d.snapshots.Snapshot()
		if err != nil {
			fail("farm", err)
			fail("alerts", err)
			return nil
		}
		rep := d.alerts.Evaluate(snap)
		mu.Lock()
		out.Farm = &snap
		out.Alerts = &rep
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		st := d.recompute.StateFor(gctx, locale)
		mu.Lock()
		out.Predictions = st
		mu.Unlock()
		return gctx.Err()
	})
	g.Go(func() error {
		st := d.market.State()
		mu.Lock()
		out.Market = st
		mu.Unlock()
		return gctx.Err()
	})
	g.Go(func() error {
		st, err := d.irrigation.Status()
		if err != nil {
			fail("irrigation", err)
			return nil
		}
		mu.Lock()
		out.Irrigation = &st
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.Dashboard{}, err
	}
	return out, nil
}
