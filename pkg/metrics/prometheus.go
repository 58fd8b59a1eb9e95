package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	ticks        prometheus.Counter
	tickVersion  prometheus.Gauge
	messagesSent *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	recomputes   *prometheus.CounterVec
	farmMetric   *prometheus.GaugeVec
	sectorRisk   *prometheus.GaugeVec
	marketPrice  *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a Prometheus recorder registered on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "agropulse_simulator_ticks_total",
			Help: "Total number of simulator ticks applied",
		}),
		tickVersion: f.NewGauge(prometheus.GaugeOpts{
			Name: "agropulse_simulator_snapshot_version",
			Help: "Version of the latest farm snapshot",
		}),
		messagesSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agropulse_messages_sent_total",
				Help: "Total number of messages sent to a backend",
			},
			[]string{"backend", "topic"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agropulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		recomputes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agropulse_recompute_total",
				Help: "Recompute requests by outcome",
			},
			[]string{"outcome"},
		),
		farmMetric: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agropulse_farm_metric",
				Help: "Latest simulated key metric value",
			},
			[]string{"metric"},
		),
		sectorRisk: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agropulse_sector_pest_risk",
				Help: "Latest pest risk per field sector",
			},
			[]string{"sector"},
		),
		marketPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agropulse_market_price",
				Help: "Latest simulated market price per crop",
			},
			[]string{"crop"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agropulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// NewIsolated creates a recorder on a private registry, for tests and disabled metrics.
func NewIsolated() *Recorder {
	return New(prometheus.NewRegistry())
}

// RecordTick records an applied simulator tick.
func (r *Recorder) RecordTick(version uint64) {
	r.ticks.Inc()
	r.tickVersion.Set(float64(version))
}

// RecordMessageSent records a message sent to a backend.
func (r *Recorder) RecordMessageSent(backend, topic string) {
	r.messagesSent.WithLabelValues(backend, topic).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRecompute records the outcome of a recompute request.
func (r *Recorder) RecordRecompute(outcome string) {
	r.recomputes.WithLabelValues(outcome).Inc()
}

// SetFarmMetric records the latest value of a key metric.
func (r *Recorder) SetFarmMetric(name string, value float64) {
	r.farmMetric.WithLabelValues(name).Set(value)
}

// SetSectorRisk records the latest pest risk of a sector.
func (r *Recorder) SetSectorRisk(sector string, risk float64) {
	r.sectorRisk.WithLabelValues(sector).Set(risk)
}

// SetMarketPrice records the latest price of a crop.
func (r *Recorder) SetMarketPrice(crop string, price float64) {
	r.marketPrice.WithLabelValues(crop).Set(price)
}

// RecordLatency records operation latency.
func (r *Recorder) RecordLatency(op string, d time.Duration) {
	r.latency.WithLabelValues(op).Observe(d.Seconds())
}
