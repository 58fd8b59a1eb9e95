package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AgroPulse/internal/domain/models"
	"AgroPulse/pkg/logger"
	"AgroPulse/pkg/util"
)

// IrrigationController holds the irrigation settings and derives the pump status from the
// latest farm snapshot.
type IrrigationController struct {
	snapshots SnapshotSource
	log       *logger.Logger
	clock     func() time.Time

	mu         sync.Mutex
	settings   models.IrrigationSettings
	start, end util.ClockTime
	manualOn   bool
	lastStatus models.IrrigationStatus
}

// NewIrrigationController validates the initial settings.
func NewIrrigationController(settings models.IrrigationSettings, snapshots SnapshotSource, l *logger.Logger) (*IrrigationController, error) {
	if l == nil {
		l = logger.Nop()
	}
	c := &IrrigationController{
		snapshots: snapshots,
		log:       l.Named("irrigation"),
		clock:     time.Now,
	}
	if err := c.UpdateSettings(settings); err != nil {
		return nil, err
	}
	return c, nil
}

// Settings returns the current settings.
func (c *IrrigationController) Settings() models.IrrigationSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// UpdateSettings replaces mode and schedule window. Leaving manual mode switches the pump off.
func (c *IrrigationController) UpdateSettings(s models.IrrigationSettings) error {
	switch s.Mode {
	case models.IrrigationOff, models.IrrigationAutomatic, models.IrrigationManual:
	default:
		return fmt.Errorf("irrigation mode %q: must be off, automatic or manual", s.Mode)
	}
	start, err := util.ParseClock(s.Start)
	if err != nil {
		return fmt.Errorf("irrigation start: %w", err)
	}
	end, err := util.ParseClock(s.End)
	if err != nil {
		return fmt.Errorf("irrigation end: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = models.IrrigationSettings{Mode: s.Mode, Start: start.String(), End: end.String()}
	c.start, c.end = start, end
	if s.Mode != models.IrrigationManual {
		c.manualOn = false
	}
	c.log.Info("settings updated",
		logger.String("mode", string(s.Mode)),
		logger.String("window", start.String()+"-"+end.String()),
	)
	return nil
}

// SetManual starts or stops the pump in manual mode. Starting is refused while it rains or the
// soil is saturated.
func (c *IrrigationController) SetManual(on bool) (models.IrrigationState, error) {
	snap, err := c.snapshots.Snapshot()
	if err != nil {
		return models.IrrigationState{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settings.Mode != models.IrrigationManual {
		return models.IrrigationState{}, fmt.Errorf("%w: mode is %s", models.ErrIrrigationRefused, c.settings.Mode)
	}
	if on {
		if snap.CurrentWeather.Condition.IsWet() {
			return models.IrrigationState{}, fmt.Errorf("%w: %s", models.ErrIrrigationRefused, models.SuspendedRain)
		}
		if snap.KeyMetrics.SoilMoisture.Value > models.SaturationThreshold {
			return models.IrrigationState{}, fmt.Errorf("%w: %s", models.ErrIrrigationRefused, models.SuspendedSaturated)
		}
	}
	c.manualOn = on
	return c.evaluateLocked(snap), nil
}

// Status evaluates the pump status against the current snapshot.
func (c *IrrigationController) Status() (models.IrrigationState, error) {
	snap, err := c.snapshots.Snapshot()
	if err != nil {
		return models.IrrigationState{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evaluateLocked(snap), nil
}

// OnTick logs status transitions as the farm state changes.
func (c *IrrigationController) OnTick(_ context.Context, snap models.FarmState) {
	c.mu.Lock()
	st := c.evaluateLocked(snap)
	prev := c.lastStatus
	c.lastStatus = st.Status
	c.mu.Unlock()

	if prev != "" && prev != st.Status {
		c.log.Info("status changed",
			logger.String("from", string(prev)),
			logger.String("to", string(st.Status)),
			logger.String("reason", st.Reason),
		)
	}
}

func (c *IrrigationController) evaluateLocked(snap models.FarmState) models.IrrigationState {
	st := models.IrrigationState{
		Settings:    c.settings,
		ManualOn:    c.manualOn,
		EvaluatedAt: c.clock(),
	}
	switch {
	case c.settings.Mode == models.IrrigationOff:
		st.Status = models.StatusOff
	case c.settings.Mode == models.IrrigationAutomatic && !util.InWindow(c.clock(), c.start, c.end):
		st.Status = models.StatusInactive
	case c.settings.Mode == models.IrrigationManual && !c.manualOn:
		st.Status = models.StatusInactive
	// A running manual start is suspended by rain and saturation like a scheduled one.
	case snap.CurrentWeather.Condition.IsWet():
		st.Status = models.StatusSuspended
		st.Reason = models.SuspendedRain
	case snap.KeyMetrics.SoilMoisture.Value > models.SaturationThreshold:
		st.Status = models.StatusSuspended
		st.Reason = models.SuspendedSaturated
	default:
		st.Status = models.StatusIrrigating
	}
	return st
}
