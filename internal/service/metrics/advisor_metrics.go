package metrics

import (
    "sync"
    "time"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    AdvisorLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "agropulse",
            Subsystem: "advisor",
            Name:      "latency_seconds",
            Help:      "Latency of advisor endpoints",
            Buckets:   []float64{0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5},
        },
        []string{"endpoint"},
    )

    AdvisorErrors = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "agropulse",
            Subsystem: "advisor",
            Name:      "errors_total",
            Help:      "Errors by advisor endpoint",
        },
        []string{"endpoint"},
    )
)

// Register adds the advisor collectors to reg, or to the default registry when reg is nil.
// Only the first call has an effect.
func Register(reg prometheus.Registerer) {
    once.Do(func() {
        if reg == nil {
            reg = prometheus.DefaultRegisterer
        }
        reg.MustRegister(AdvisorLatency, AdvisorErrors)
    })
}

// ObserveAdvisor records one advisor call started at start.
func ObserveAdvisor(endpoint string, start time.Time, err error) {
    AdvisorLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
    if err != nil {
        AdvisorErrors.WithLabelValues(endpoint).Inc()
    }
}
