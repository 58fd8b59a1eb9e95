package usecase

import (
	"math/rand"
	"testing"
	"time"

	"AgroPulse/pkg/config"
	"AgroPulse/pkg/metrics"
)

var testNow = time.Date(2024, 6, 15, 5, 30, 0, 0, time.UTC)

func newTestSimulator(t *testing.T, seed int64) *Simulator {
	t.Helper()
	sim := NewSimulator(SimulatorConfig{
		Interval: 5 * time.Millisecond,
		Tuning:   config.DefaultTuning(),
	}, rand.New(rand.NewSource(seed)), metrics.NewIsolated(), nil)
	sim.clock = func() time.Time { return testNow }
	return sim
}
