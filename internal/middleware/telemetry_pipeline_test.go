package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"AgroPulse/internal/domain/models"
	"AgroPulse/pkg/metrics"
)

type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	got      []uint64
}

func (r *recordingPublisher) PublishTelemetry(_ context.Context, ev models.TelemetryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("downstream unavailable")
	}
	r.got = append(r.got, ev.Farm.Version)
	return nil
}

func (r *recordingPublisher) PublishBundle(context.Context, models.PredictionBundle) error {
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) versions() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint64(nil), r.got...)
}

func event(v uint64) models.TelemetryEvent {
	return models.TelemetryEvent{
		Farm:   models.FarmState{Version: v, Sectors: []models.Sector{{ID: 1}}},
		Alerts: models.AlertReport{SnapshotVersion: v},
	}
}

func TestPipelineRejectsInvalid(t *testing.T) {
	p := NewTelemetryPipeline(&recordingPublisher{}, metrics.NewIsolated())
	bad := []models.TelemetryEvent{
		{},
		{Farm: models.FarmState{Version: 1}},
		{Farm: models.FarmState{Version: 2, Sectors: []models.Sector{{ID: 1}}}, Alerts: models.AlertReport{SnapshotVersion: 1}},
	}
	for i, ev := range bad {
		if err := p.Process(context.Background(), ev); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestPipelineThrottles(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewTelemetryPipeline(pub, metrics.NewIsolated(), WithMaxRPS(2))
	now := time.Date(2024, 6, 15, 5, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	for v := uint64(1); v <= 3; v++ {
		if err := p.Process(context.Background(), event(v)); err != nil {
			t.Fatalf("process %d: %v", v, err)
		}
	}
	now = now.Add(600 * time.Millisecond)
	if err := p.Process(context.Background(), event(4)); err != nil {
		t.Fatalf("process 4: %v", err)
	}

	got := pub.versions()
	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("unexpected published versions %v", got)
	}
}

func TestPipelineBuffersAndRetries(t *testing.T) {
	pub := &recordingPublisher{failures: 2}
	p := NewTelemetryPipeline(pub, metrics.NewIsolated(),
		WithMaxRPS(0),
		WithBufferSize(4),
		WithRetryBackoff(time.Millisecond, 4*time.Millisecond),
	)

	if err := p.Process(context.Background(), event(1)); err == nil {
		t.Fatalf("expected downstream error")
	}
	if p.Buffered() != 1 {
		t.Fatalf("expected event to be buffered, have %d", p.Buffered())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for len(pub.versions()) == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if got := pub.versions(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("buffered event not flushed: %v", got)
	}
}

func TestPipelineBufferFull(t *testing.T) {
	pub := &recordingPublisher{failures: 10}
	p := NewTelemetryPipeline(pub, metrics.NewIsolated(), WithMaxRPS(0), WithBufferSize(1))
	_ = p.Process(context.Background(), event(1))
	_ = p.Process(context.Background(), event(2))
	if p.Buffered() != 1 {
		t.Fatalf("buffer should hold at most 1 event, has %d", p.Buffered())
	}
}

type blockingPublisher struct {
	recordingPublisher
	release chan struct{}
}

func (b *blockingPublisher) PublishTelemetry(ctx context.Context, ev models.TelemetryEvent) error {
	<-b.release
	return b.recordingPublisher.PublishTelemetry(ctx, ev)
}

func TestSubmitDoesNotWaitForDownstream(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	p := NewTelemetryPipeline(pub, metrics.NewIsolated(), WithMaxRPS(0), WithBufferSize(2))

	done := make(chan struct{})
	go func() {
		for v := uint64(1); v <= 5; v++ {
			p.Submit(context.Background(), event(v))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Submit blocked on a stalled publisher")
	}
	if p.Queued() != 2 {
		t.Fatalf("expected a full queue of 2, have %d", p.Queued())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	close(pub.release)

	deadline := time.Now().Add(2 * time.Second)
	for len(pub.versions()) < 2 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	p.Stop()
	if got := pub.versions(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected published versions %v", got)
	}
}
