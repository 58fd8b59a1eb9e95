package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakePublisher struct {
	mu      sync.Mutex
	batches [][]AggregatedLogEntry
	topics  []string
}

func (p *fakePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *fakePublisher) all() []AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []AggregatedLogEntry
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

func TestCollectorFoldsDuplicates(t *testing.T) {
	pub := &fakePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 10, Topic: "farm.logs", Source: "agropulse", Publisher: pub})

	for i := 0; i < 5; i++ {
		c.AddLog("error", "tick publish failed", map[string]interface{}{"topic": "farm.telemetry"}, "x.go:1")
	}
	c.AddLog("error", "recompute failed", nil, "y.go:2")
	if got := c.Pending(); got != 2 {
		t.Fatalf("expected 2 distinct entries, got %d", got)
	}

	c.Close()
	entries := pub.all()
	if len(entries) != 2 {
		t.Fatalf("expected 2 flushed entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Message == "tick publish failed" && e.Count != 5 {
			t.Fatalf("expected count 5, got %d", e.Count)
		}
		if e.Source != "agropulse" {
			t.Fatalf("source not stamped: %q", e.Source)
		}
	}
	if pub.topics[0] != "farm.logs" {
		t.Fatalf("unexpected topic %q", pub.topics[0])
	}
}

func TestCollectorFlushesAtThreshold(t *testing.T) {
	pub := &fakePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Topic: "t", Publisher: pub})
	defer c.Close()

	c.AddLog("error", "a", nil, "a.go:1")
	c.AddLog("error", "b", nil, "b.go:1")
	if got := c.Pending(); got != 0 {
		t.Fatalf("threshold should have flushed, pending=%d", got)
	}
}

func TestLoggerErrorFeedsCollector(t *testing.T) {
	pub := &fakePublisher{}
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Topic: "t", Publisher: pub})
	l.Error("boom", Error(errors.New("x")), String("sector", "2"))
	l.Warn("not collected")
	l.RemoveCollector()

	entries := pub.all()
	if len(entries) != 1 || entries[0].Message != "boom" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries[0].Fields["sector"] != "2" {
		t.Fatalf("fields not captured: %+v", entries[0].Fields)
	}
}
