package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"AgroPulse/internal/domain/models"
)

type mutableSnapshots struct{ snap models.FarmState }

func (m *mutableSnapshots) Snapshot() (models.FarmState, error) { return m.snap, nil }

func farmWith(cond models.WeatherCondition, moisture float64) models.FarmState {
	f := models.FarmState{}
	f.CurrentWeather.Condition = cond
	f.KeyMetrics.SoilMoisture.Value = moisture
	return f
}

func newController(t *testing.T, mode models.IrrigationMode, src SnapshotSource, at time.Time) *IrrigationController {
	t.Helper()
	c, err := NewIrrigationController(models.IrrigationSettings{Mode: mode, Start: "05:00", End: "06:00"}, src, nil)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	c.clock = func() time.Time { return at }
	return c
}

func TestIrrigationStatusTable(t *testing.T) {
	inWindow := testNow // 05:30
	outside := time.Date(2024, 6, 15, 7, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mode   models.IrrigationMode
		at     time.Time
		farm   models.FarmState
		status models.IrrigationStatus
		reason string
	}{
		{"off", models.IrrigationOff, inWindow, farmWith(models.Sunny, 40), models.StatusOff, ""},
		{"outside window", models.IrrigationAutomatic, outside, farmWith(models.Sunny, 40), models.StatusInactive, ""},
		{"rain", models.IrrigationAutomatic, inWindow, farmWith(models.Rainy, 40), models.StatusSuspended, models.SuspendedRain},
		{"storm", models.IrrigationAutomatic, inWindow, farmWith(models.Stormy, 40), models.StatusSuspended, models.SuspendedRain},
		{"saturated", models.IrrigationAutomatic, inWindow, farmWith(models.Cloudy, 70.5), models.StatusSuspended, models.SuspendedSaturated},
		{"irrigating", models.IrrigationAutomatic, inWindow, farmWith(models.Sunny, 70), models.StatusIrrigating, ""},
		{"manual idle", models.IrrigationManual, inWindow, farmWith(models.Sunny, 40), models.StatusInactive, ""},
	}
	for _, tc := range cases {
		c := newController(t, tc.mode, &mutableSnapshots{snap: tc.farm}, tc.at)
		st, err := c.Status()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if st.Status != tc.status || st.Reason != tc.reason {
			t.Fatalf("%s: got %s/%q, want %s/%q", tc.name, st.Status, st.Reason, tc.status, tc.reason)
		}
	}
}

func TestManualIrrigation(t *testing.T) {
	src := &mutableSnapshots{snap: farmWith(models.Sunny, 40)}
	c := newController(t, models.IrrigationManual, src, testNow)

	st, err := c.SetManual(true)
	if err != nil {
		t.Fatalf("manual start: %v", err)
	}
	if st.Status != models.StatusIrrigating || !st.ManualOn {
		t.Fatalf("unexpected state %+v", st)
	}

	src.snap = farmWith(models.Rainy, 40)
	st, _ = c.Status()
	if st.Status != models.StatusSuspended || st.Reason != models.SuspendedRain {
		t.Fatalf("rain should suspend a running pump, got %+v", st)
	}

	if _, err := c.SetManual(false); err != nil {
		t.Fatalf("manual stop: %v", err)
	}
	if _, err := c.SetManual(true); !errors.Is(err, models.ErrIrrigationRefused) {
		t.Fatalf("expected refusal while raining, got %v", err)
	}

	src.snap = farmWith(models.Sunny, 80)
	if _, err := c.SetManual(true); !errors.Is(err, models.ErrIrrigationRefused) {
		t.Fatalf("expected refusal while saturated, got %v", err)
	}
}

func TestManualRequiresManualMode(t *testing.T) {
	c := newController(t, models.IrrigationAutomatic, &mutableSnapshots{snap: farmWith(models.Sunny, 40)}, testNow)
	if _, err := c.SetManual(true); !errors.Is(err, models.ErrIrrigationRefused) {
		t.Fatalf("expected refusal outside manual mode, got %v", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	c := newController(t, models.IrrigationManual, &mutableSnapshots{snap: farmWith(models.Sunny, 40)}, testNow)
	if _, err := c.SetManual(true); err != nil {
		t.Fatalf("manual start: %v", err)
	}

	if err := c.UpdateSettings(models.IrrigationSettings{Mode: "sometimes", Start: "05:00", End: "06:00"}); err == nil {
		t.Fatalf("expected invalid mode error")
	}
	if err := c.UpdateSettings(models.IrrigationSettings{Mode: models.IrrigationAutomatic, Start: "25:00", End: "06:00"}); err == nil {
		t.Fatalf("expected invalid start error")
	}
	if err := c.UpdateSettings(models.IrrigationSettings{Mode: models.IrrigationAutomatic, Start: "5:00", End: "6:30"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	s := c.Settings()
	if s.Start != "05:00" || s.End != "06:30" {
		t.Fatalf("settings not normalized: %+v", s)
	}
	st, _ := c.Status()
	if st.ManualOn {
		t.Fatalf("leaving manual mode must switch the pump off")
	}
}

func TestIrrigationOnTick(t *testing.T) {
	c := newController(t, models.IrrigationAutomatic, &mutableSnapshots{}, testNow)
	c.OnTick(context.Background(), farmWith(models.Sunny, 40))
	c.OnTick(context.Background(), farmWith(models.Rainy, 40))
	if c.lastStatus != models.StatusSuspended {
		t.Fatalf("last status %s", c.lastStatus)
	}
}
