package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRecorderRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)
	r.RecordTick(3)
	r.SetMarketPrice("wheat", 2100)
	r.SetSectorRisk("2", 81.5)
	r.RecordRecompute("applied")
	r.RecordLatency("recompute", 10*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
		if mf.GetName() == "agropulse_simulator_snapshot_version" {
			if v := mf.GetMetric()[0].GetGauge().GetValue(); v != 3 {
				t.Fatalf("expected version 3, got %v", v)
			}
		}
	}
	for _, name := range []string{
		"agropulse_simulator_ticks_total",
		"agropulse_market_price",
		"agropulse_sector_pest_risk",
		"agropulse_recompute_total",
		"agropulse_operation_duration_seconds",
	} {
		if !found[name] {
			t.Fatalf("metric %s not registered", name)
		}
	}

	// a second recorder on another registry must not collide
	_ = NewIsolated()
}
