package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
	"AgroPulse/pkg/logger"
)

// TelemetryPipeline sits between the simulator and the telemetry publisher.
// It validates, throttles and buffers events while the downstream is unavailable.
type TelemetryPipeline struct {
	pub      domrepo.TelemetryPublisher
	metrics  domrepo.Metrics
	log      *logger.Logger
	maxRPS   int
	bufSize  int
	queueCh  chan models.TelemetryEvent
	bufCh    chan models.TelemetryEvent
	stopCh   chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
	lastSent time.Time
	now      func() time.Time
	backoff  [2]time.Duration
}

type PipelineOption func(*TelemetryPipeline)

// WithMaxRPS caps published snapshots per second. Zero disables throttling.
func WithMaxRPS(n int) PipelineOption {
	return func(p *TelemetryPipeline) {
		if n >= 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the buffer used while the downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *TelemetryPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithRetryBackoff sets the minimum and maximum wait between buffered retries.
func WithRetryBackoff(min, max time.Duration) PipelineOption {
	return func(p *TelemetryPipeline) {
		if min > 0 && max >= min {
			p.backoff = [2]time.Duration{min, max}
		}
	}
}

func WithLogger(l *logger.Logger) PipelineOption {
	return func(p *TelemetryPipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// NewTelemetryPipeline creates a new pipeline.
func NewTelemetryPipeline(pub domrepo.TelemetryPublisher, metrics domrepo.Metrics, opts ...PipelineOption) *TelemetryPipeline {
	p := &TelemetryPipeline{
		pub:     pub,
		metrics: metrics,
		log:     logger.Nop(),
		maxRPS:  10,
		bufSize: 256,
		stopCh:  make(chan struct{}),
		now:     time.Now,
		backoff: [2]time.Duration{50 * time.Millisecond, 2 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.queueCh = make(chan models.TelemetryEvent, p.bufSize)
	p.bufCh = make(chan models.TelemetryEvent, p.bufSize)
	p.log = p.log.Named("pipeline")
	return p
}

// Start launches the publish worker for submitted events and the retry loop for buffered ones.
func (p *TelemetryPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			case ev := <-p.queueCh:
				if err := p.forward(ctx, ev, time.Now()); err != nil {
					p.log.Debug("telemetry not published", logger.Uint64("version", ev.Farm.Version), logger.Error(err))
				}
			}
		}
	}()

	go func() {
		defer p.wg.Done()
		backoff := p.backoff[0]
		for {
			select {
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			case ev := <-p.bufCh:
				if err := p.pub.PublishTelemetry(ctx, ev); err != nil {
					if backoff < p.backoff[1] {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					p.log.Debug("flush failed", logger.Error(err), logger.Duration("backoff_ms", backoff))
					select {
					case <-time.After(backoff):
					case <-p.stopCh:
						return
					case <-ctx.Done():
						return
					}
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- ev:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = p.backoff[0]
				}
			}
		}
	}()
}

// Stop stops the background flushing and waits for it to exit.
func (p *TelemetryPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
	p.wg.Wait()
	if n := len(p.bufCh) + len(p.queueCh); n > 0 {
		p.log.Warn("dropping buffered telemetry on stop", logger.Int("events", n))
	}
}

// Buffered returns the number of events waiting for a retry.
func (p *TelemetryPipeline) Buffered() int { return len(p.bufCh) }

// Process validates, throttles and publishes an event in the caller's goroutine, buffering it
// on downstream errors.
func (p *TelemetryPipeline) Process(ctx context.Context, ev models.TelemetryEvent) error {
	start := time.Now()
	if ok, err := p.admit(ev); !ok {
		return err
	}
	return p.forward(ctx, ev, start)
}

// Submit validates and throttles an event, then queues it for the publish worker. It never
// waits on the downstream; a full queue drops the event.
func (p *TelemetryPipeline) Submit(_ context.Context, ev models.TelemetryEvent) {
	if ok, err := p.admit(ev); !ok {
		if err != nil {
			p.log.Debug("telemetry rejected", logger.Uint64("version", ev.Farm.Version), logger.Error(err))
		}
		return
	}
	select {
	case p.queueCh <- ev:
	default:
		p.metrics.RecordError("pipeline_queue_full")
	}
}

// Queued returns the number of submitted events not yet handed to the publisher.
func (p *TelemetryPipeline) Queued() int { return len(p.queueCh) }

// admit validates and throttles ev. A throttled event is refused without an error.
func (p *TelemetryPipeline) admit(ev models.TelemetryEvent) (bool, error) {
	if err := validateEvent(ev); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return false, err
	}
	if !p.allow(p.now()) {
		p.metrics.RecordError("pipeline_throttle")
		return false, nil
	}
	return true, nil
}

func (p *TelemetryPipeline) forward(ctx context.Context, ev models.TelemetryEvent, start time.Time) error {
	if err := p.pub.PublishTelemetry(ctx, ev); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.bufCh <- ev:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start))
	return nil
}

func validateEvent(ev models.TelemetryEvent) error {
	if ev.Farm.Version == 0 {
		return fmt.Errorf("snapshot version missing")
	}
	if len(ev.Farm.Sectors) == 0 {
		return fmt.Errorf("snapshot has no sectors")
	}
	if ev.Alerts.SnapshotVersion != ev.Farm.Version {
		return fmt.Errorf("alerts for version %d attached to snapshot %d", ev.Alerts.SnapshotVersion, ev.Farm.Version)
	}
	return nil
}

func (p *TelemetryPipeline) allow(now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.lastSent.IsZero() && now.Sub(p.lastSent) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSent = now
	return true
}
