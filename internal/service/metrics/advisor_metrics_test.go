package metrics

import (
    "errors"
    "testing"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAdvisor(t *testing.T) {
    Register(prometheus.NewRegistry())

    before := testutil.ToFloat64(AdvisorErrors.WithLabelValues("soil_score"))
    ObserveAdvisor("soil_score", time.Now(), nil)
    ObserveAdvisor("soil_score", time.Now(), errors.New("boom"))

    if got := testutil.ToFloat64(AdvisorErrors.WithLabelValues("soil_score")); got != before+1 {
        t.Fatalf("expected one more error, got %v", got-before)
    }
    if n := testutil.CollectAndCount(AdvisorLatency); n == 0 {
        t.Fatalf("expected latency series")
    }
}
