package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"AgroPulse/internal/domain/models"
	drepo "AgroPulse/internal/domain/repository"
	"AgroPulse/internal/services/telemetry"
	"AgroPulse/pkg/config"
	"AgroPulse/pkg/logger"
)

// TickListener is notified after every applied tick. The snapshot is shared and must be treated
// as read-only.
type TickListener interface {
	OnTick(ctx context.Context, snap models.FarmState)
}

// TickListenerFunc adapts a function to TickListener.
type TickListenerFunc func(ctx context.Context, snap models.FarmState)

func (f TickListenerFunc) OnTick(ctx context.Context, snap models.FarmState) { f(ctx, snap) }

// SimulatorConfig holds the tick interval and the random-walk tuning.
type SimulatorConfig struct {
	Interval time.Duration
	Tuning   config.Tuning
}

// Simulator owns the farm state. Ticks are applied copy-on-write by a single writer and
// published through an atomic pointer, so readers never block and never see a partial tick.
type Simulator struct {
	cfg     SimulatorConfig
	rng     telemetry.Source
	clock   func() time.Time
	metrics drepo.Metrics
	log     *logger.Logger

	mu      sync.Mutex
	current atomic.Pointer[models.FarmState]

	lmu       sync.RWMutex
	listeners []TickListener

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSimulator creates a simulator. It holds no state until Initialize.
func NewSimulator(cfg SimulatorConfig, rng telemetry.Source, metrics drepo.Metrics, l *logger.Logger) *Simulator {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if l == nil {
		l = logger.Nop()
	}
	return &Simulator{
		cfg:     cfg,
		rng:     rng,
		clock:   time.Now,
		metrics: metrics,
		log:     l.Named("simulator"),
	}
}

// AddListener registers a listener for applied ticks.
func (s *Simulator) AddListener(l TickListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Initialize seeds the farm state. Only the first call has an effect; it reports whether this
// call seeded.
func (s *Simulator) Initialize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Load() != nil {
		return false
	}
	seed := telemetry.Seed(s.rng, s.clock(), s.cfg.Tuning)
	s.current.Store(&seed)
	s.log.Info("farm state seeded", logger.Int("sectors", len(seed.Sectors)))
	return true
}

// Snapshot returns a deep copy of the current state.
func (s *Simulator) Snapshot() (models.FarmState, error) {
	cur := s.current.Load()
	if cur == nil {
		return models.FarmState{}, models.ErrNoData
	}
	return cur.Clone(), nil
}

// Tick applies one simulation step and notifies listeners.
func (s *Simulator) Tick(ctx context.Context) (models.FarmState, error) {
	start := time.Now()
	s.mu.Lock()
	cur := s.current.Load()
	if cur == nil {
		s.mu.Unlock()
		return models.FarmState{}, models.ErrNoData
	}
	next := telemetry.Step(s.rng, *cur, s.clock(), s.cfg.Tuning)
	s.current.Store(&next)
	s.mu.Unlock()

	s.record(next, time.Since(start))

	s.lmu.RLock()
	listeners := append([]TickListener(nil), s.listeners...)
	s.lmu.RUnlock()
	for _, l := range listeners {
		l.OnTick(ctx, next)
	}
	return next, nil
}

// Start seeds the state if needed and runs the tick loop until Stop or ctx is done.
func (s *Simulator) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return errors.New("simulator already running")
	}
	s.Initialize()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)

	s.log.Info("started", logger.Duration("interval_ms", s.cfg.Interval))
	return nil
}

// Stop ends the tick loop and waits for an in-flight tick to finish. It is safe to call more
// than once.
func (s *Simulator) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	s.log.Info("stopped")
}

func (s *Simulator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.metrics.RecordError("tick")
				s.log.Warn("tick failed", logger.Error(err))
			}
		}
	}
}

func (s *Simulator) record(f models.FarmState, took time.Duration) {
	s.metrics.RecordTick(f.Version)
	s.metrics.RecordLatency("tick", took)
	km := f.KeyMetrics
	s.metrics.SetFarmMetric("soil_moisture", km.SoilMoisture.Value)
	s.metrics.SetFarmMetric("ndvi", km.NDVI.Value)
	s.metrics.SetFarmMetric("plant_height", km.PlantHeight.Value)
	s.metrics.SetFarmMetric("leaf_count", km.LeafCount.Value)
	s.metrics.SetFarmMetric("soil_temperature", km.SoilTemperature.Value)
	s.metrics.SetFarmMetric("air_temperature", f.CurrentWeather.Temperature)
	s.metrics.SetFarmMetric("humidity", f.CurrentWeather.Humidity)
	for _, sec := range f.Sectors {
		s.metrics.SetSectorRisk(strconv.Itoa(sec.ID), sec.PestRisk)
	}
}
