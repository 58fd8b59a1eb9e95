package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"AgroPulse/internal/domain/models"
)

func TestSimulatorSnapshotBeforeInitialize(t *testing.T) {
	sim := newTestSimulator(t, 1)
	if _, err := sim.Snapshot(); !errors.Is(err, models.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := sim.Tick(context.Background()); !errors.Is(err, models.ErrNoData) {
		t.Fatalf("expected ErrNoData from tick, got %v", err)
	}
}

func TestSimulatorInitializeIsIdempotent(t *testing.T) {
	sim := newTestSimulator(t, 1)
	if !sim.Initialize() {
		t.Fatalf("first initialize should seed")
	}
	first, _ := sim.Snapshot()
	if sim.Initialize() {
		t.Fatalf("second initialize should be a no-op")
	}
	second, _ := sim.Snapshot()
	if first.ChartData[0] != second.ChartData[0] || second.Version != 1 {
		t.Fatalf("state reseeded by second initialize")
	}
}

func TestSimulatorSnapshotsAreIsolated(t *testing.T) {
	sim := newTestSimulator(t, 2)
	sim.Initialize()

	held, _ := sim.Snapshot()
	held.Sectors[0].PestRisk = 1000
	held.ChartData[0].NDVI = -1

	again, _ := sim.Snapshot()
	if again.Sectors[0].PestRisk == 1000 || again.ChartData[0].NDVI == -1 {
		t.Fatalf("mutating a snapshot leaked into simulator state")
	}

	before, _ := sim.Snapshot()
	if _, err := sim.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if before.Version != 1 || before.ChartData[len(before.ChartData)-1].Day == "Now" {
		t.Fatalf("tick modified a previously returned snapshot")
	}
	after, _ := sim.Snapshot()
	if after.Version != 2 {
		t.Fatalf("expected version 2, got %d", after.Version)
	}
}

func TestSimulatorNotifiesListeners(t *testing.T) {
	sim := newTestSimulator(t, 3)
	sim.Initialize()

	var got []uint64
	sim.AddListener(TickListenerFunc(func(_ context.Context, s models.FarmState) {
		got = append(got, s.Version)
	}))
	for i := 0; i < 3; i++ {
		if _, err := sim.Tick(context.Background()); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if len(got) != 3 || got[0] != 2 || got[2] != 4 {
		t.Fatalf("unexpected listener versions %v", got)
	}
}

func TestSimulatorStartStop(t *testing.T) {
	sim := newTestSimulator(t, 4)

	var mu sync.Mutex
	ticks := 0
	sim.AddListener(TickListenerFunc(func(context.Context, models.FarmState) {
		mu.Lock()
		ticks++
		mu.Unlock()
	}))

	if err := sim.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sim.Start(context.Background()); err == nil {
		t.Fatalf("expected error on second start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := ticks
		mu.Unlock()
		if n >= 3 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	sim.Stop()
	sim.Stop()

	snap, err := sim.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	mu.Lock()
	n := ticks
	mu.Unlock()
	if n < 3 || snap.Version != uint64(n)+1 {
		t.Fatalf("expected version to match ticks, ticks=%d version=%d", n, snap.Version)
	}

	time.Sleep(20 * time.Millisecond)
	later, _ := sim.Snapshot()
	if later.Version != snap.Version {
		t.Fatalf("ticks continued after stop")
	}
}
