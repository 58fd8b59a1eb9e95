package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("expected default port, got %d", c.Server.Port)
	}
	if c.Simulator.TickInterval != 2*time.Second {
		t.Fatalf("expected 2s tick, got %v", c.Simulator.TickInterval)
	}
	if c.Simulator.Tuning.ChartCap != 30 {
		t.Fatalf("expected chart cap 30, got %d", c.Simulator.Tuning.ChartCap)
	}
	if c.Predictions.Latency != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s prediction latency, got %v", c.Predictions.Latency)
	}
	if c.Kafka.TelemetryTopic != "farm.telemetry" {
		t.Fatalf("unexpected topic %q", c.Kafka.TelemetryTopic)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	src := `
environment: staging
server:
  port: 9090
simulator:
  tick_interval: 500ms
  tuning:
    chart_cap: 10
predictions:
  latency: 0s
`
	c, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Server.Port != 9090 || c.Simulator.TickInterval != 500*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", c.Server)
	}
	if c.Simulator.Tuning.ChartCap != 10 || c.Simulator.Tuning.IndexMax != 0.9 {
		t.Fatalf("nested tuning not merged: %+v", c.Simulator.Tuning)
	}
	if c.Predictions.Latency != 0 {
		t.Fatalf("explicit zero latency lost: %v", c.Predictions.Latency)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"provider":   "predictions:\n  provider: oracle\n",
		"remote url": "predictions:\n  provider: remote\n",
		"irrigation": "irrigation:\n  mode: flood\n",
		"kafka":      "kafka:\n  enabled: true\n",
		"port":       "server:\n  port: 70000\n",
		"chart cap":  "simulator:\n  tuning:\n    chart_cap: 50\n",
		"chart zero": "simulator:\n  tuning:\n    chart_cap: 0\n",
	}
	for name, src := range cases {
		if _, err := Parse([]byte(src)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	env := map[string]string{
		"PORT":          "7000",
		"KAFKA_BROKERS": "a:9092,b:9092",
		"SIM_SEED":      "42",
	}
	if err := c.applyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if c.Server.Port != 7000 || c.Simulator.Seed != 42 {
		t.Fatalf("env not applied: port=%d seed=%d", c.Server.Port, c.Simulator.Seed)
	}
	if !c.Kafka.Enabled || strings.Join(c.Kafka.Brokers, ",") != "a:9092,b:9092" {
		t.Fatalf("kafka env not applied: %+v", c.Kafka.Brokers)
	}

	bad := Default()
	if err := bad.applyEnv(func(k string) string {
		if k == "PORT" {
			return "eighty"
		}
		return ""
	}); err == nil {
		t.Fatalf("expected PORT parse error")
	}
}
