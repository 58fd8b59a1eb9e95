package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"AgroPulse/internal/domain/models"
	drepo "AgroPulse/internal/domain/repository"
	domsvc "AgroPulse/internal/domain/service"
	"AgroPulse/pkg/logger"
)

// SnapshotSource hands out deep copies of the current farm state.
type SnapshotSource interface {
	Snapshot() (models.FarmState, error)
}

// BundleListener is called after a bundle has been applied.
type BundleListener func(ctx context.Context, b models.PredictionBundle)

var errTriggerClosed = errors.New("recompute trigger closed")

// RecomputeTrigger runs the prediction provider on demand and on a polling schedule. A new
// request cancels the one in flight and only the newest request may change the state.
type RecomputeTrigger struct {
	provider  domsvc.PredictionProvider
	snapshots SnapshotSource
	store     drepo.BundleStore
	metrics   drepo.Metrics
	log       *logger.Logger
	clock     func() time.Time

	mu         sync.Mutex
	gen        uint64
	appliedGen uint64
	inflight   context.CancelFunc
	state      models.RecomputeState
	lastLocale models.Locale
	listeners  []BundleListener
	closed     bool

	// publishMu orders cache writes and listener calls by generation.
	publishMu sync.Mutex

	pollMu     sync.Mutex
	pollCancel context.CancelFunc
	pollDone   chan struct{}
	pollEvery  time.Duration
}

// NewRecomputeTrigger creates a trigger. store may be nil.
func NewRecomputeTrigger(provider domsvc.PredictionProvider, snapshots SnapshotSource, store drepo.BundleStore, metrics drepo.Metrics, l *logger.Logger) *RecomputeTrigger {
	if l == nil {
		l = logger.Nop()
	}
	return &RecomputeTrigger{
		provider:   provider,
		snapshots:  snapshots,
		store:      store,
		metrics:    metrics,
		log:        l.Named("recompute"),
		clock:      time.Now,
		lastLocale: models.LocaleEN,
	}
}

// OnApplied registers a listener for applied bundles.
func (t *RecomputeTrigger) OnApplied(fn BundleListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Request recomputes predictions for the current snapshot.
func (t *RecomputeTrigger) Request(ctx context.Context, locale models.Locale) (models.PredictionBundle, error) {
	snap, err := t.snapshots.Snapshot()
	if err != nil {
		return models.PredictionBundle{}, err
	}
	return t.RequestSnapshot(ctx, snap, locale)
}

// RequestSnapshot recomputes predictions for a caller supplied snapshot. It returns
// ErrSuperseded when a newer request started before this one finished.
func (t *RecomputeTrigger) RequestSnapshot(ctx context.Context, snap models.FarmState, locale models.Locale) (models.PredictionBundle, error) {
	locale = models.NormalizeLocale(string(locale))

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return models.PredictionBundle{}, errTriggerClosed
	}
	if t.inflight != nil {
		t.inflight()
	}
	t.gen++
	gen := t.gen
	rctx, cancel := context.WithCancel(ctx)
	t.inflight = cancel
	t.state.Pending = true
	t.lastLocale = locale
	t.mu.Unlock()
	defer cancel()

	start := time.Now()
	b, err := t.provider.Predict(rctx, snap, locale)

	t.mu.Lock()
	if gen != t.gen || t.closed {
		t.mu.Unlock()
		t.metrics.RecordRecompute("superseded")
		t.log.Debug("result discarded", logger.Uint64("snapshot_version", snap.Version))
		return models.PredictionBundle{}, models.ErrSuperseded
	}
	t.inflight = nil
	t.state.Pending = false
	t.state.UpdatedAt = t.clock()

	if err != nil {
		if ctx.Err() != nil {
			// caller gave up; keep the previous result and error untouched
			t.mu.Unlock()
			t.metrics.RecordRecompute("canceled")
			return models.PredictionBundle{}, ctx.Err()
		}
		t.state.Error = models.RecomputeErrorMessage()
		t.mu.Unlock()
		t.metrics.RecordRecompute("failed")
		t.metrics.RecordError("recompute")
		t.log.Warn("recompute failed", logger.Error(err), logger.String("locale", string(locale)))
		if !errors.Is(err, models.ErrRecomputeFailed) {
			err = fmt.Errorf("%w: %v", models.ErrRecomputeFailed, err)
		}
		return models.PredictionBundle{}, err
	}

	b.SnapshotVersion = snap.Version
	b.Locale = locale
	t.state.Bundle = &b
	t.state.Error = ""
	t.appliedGen = gen
	listeners := append([]BundleListener(nil), t.listeners...)
	t.mu.Unlock()

	t.metrics.RecordRecompute("applied")
	t.metrics.RecordLatency("recompute", time.Since(start))
	t.log.Info("predictions applied",
		logger.Uint64("snapshot_version", snap.Version),
		logger.String("locale", string(locale)),
		logger.Float64("yield", b.YieldPrediction.Value),
	)

	t.publish(ctx, gen, b, listeners)
	return b, nil
}

// publish saves and fans out b unless a newer bundle was applied in the meantime. A newer
// request that is still running or failed does not hold b back.
func (t *RecomputeTrigger) publish(ctx context.Context, gen uint64, b models.PredictionBundle, listeners []BundleListener) {
	t.publishMu.Lock()
	defer t.publishMu.Unlock()

	t.mu.Lock()
	current := gen == t.appliedGen
	t.mu.Unlock()
	if !current {
		t.log.Debug("newer bundle applied, skipping fan-out", logger.Uint64("snapshot_version", b.SnapshotVersion))
		return
	}

	if t.store != nil {
		if err := t.store.Save(ctx, b); err != nil {
			t.log.Warn("bundle not cached", logger.Error(err))
		}
	}
	for _, fn := range listeners {
		fn(ctx, b)
	}
}

// State returns the last applied bundle, the pending flag and the last error message.
func (t *RecomputeTrigger) State() models.RecomputeState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// StateFor returns State with the bundle for locale when the cache holds one. An empty locale,
// a cache miss or a current bundle already in that locale return State unchanged.
func (t *RecomputeTrigger) StateFor(ctx context.Context, locale models.Locale) models.RecomputeState {
	st := t.State()
	if locale == "" || t.store == nil {
		return st
	}
	locale = models.NormalizeLocale(string(locale))
	if st.Bundle != nil && st.Bundle.Locale == locale {
		return st
	}
	b, err := t.store.Latest(ctx, locale)
	if err != nil {
		return st
	}
	st.Bundle = &b
	return st
}

// Restore loads the cached bundle for locale when nothing has been applied yet.
func (t *RecomputeTrigger) Restore(ctx context.Context, locale models.Locale) bool {
	if t.store == nil {
		return false
	}
	b, err := t.store.Latest(ctx, models.NormalizeLocale(string(locale)))
	if err != nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Bundle != nil {
		return false
	}
	t.state.Bundle = &b
	t.state.UpdatedAt = b.GeneratedAt
	return true
}

// SetPolling starts or stops periodic recomputation. Polls use the locale of the most recent
// request. Calling it again with a new interval restarts the schedule.
func (t *RecomputeTrigger) SetPolling(enabled bool, interval time.Duration) error {
	if enabled && interval <= 0 {
		return fmt.Errorf("polling interval must be positive, got %s", interval)
	}

	t.pollMu.Lock()
	defer t.pollMu.Unlock()
	t.stopPollingLocked()
	if !enabled {
		return nil
	}

	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return errTriggerClosed
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.pollCancel = cancel
	t.pollDone = done
	t.pollEvery = interval
	go t.poll(ctx, interval, done)
	t.log.Info("polling enabled", logger.Duration("interval_ms", interval))
	return nil
}

// Polling reports whether polling is on and its interval.
func (t *RecomputeTrigger) Polling() (bool, time.Duration) {
	t.pollMu.Lock()
	defer t.pollMu.Unlock()
	return t.pollCancel != nil, t.pollEvery
}

// Close cancels in-flight work and polling. Later requests fail.
func (t *RecomputeTrigger) Close() {
	t.pollMu.Lock()
	t.stopPollingLocked()
	t.pollMu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.inflight != nil {
		t.inflight()
		t.inflight = nil
	}
	t.state.Pending = false
}

func (t *RecomputeTrigger) stopPollingLocked() {
	if t.pollCancel == nil {
		return
	}
	t.pollCancel()
	<-t.pollDone
	t.pollCancel = nil
	t.pollDone = nil
	t.pollEvery = 0
	t.log.Info("polling disabled")
}

func (t *RecomputeTrigger) poll(ctx context.Context, every time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			locale := t.lastLocale
			t.mu.Unlock()
			if _, err := t.Request(ctx, locale); err != nil && !errors.Is(err, models.ErrSuperseded) && ctx.Err() == nil {
				t.log.Debug("poll failed", logger.Error(err))
			}
		}
	}
}
