package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AgroPulse/internal/domain/models"
	drepo "AgroPulse/internal/domain/repository"
	domsvc "AgroPulse/internal/domain/service"
	"AgroPulse/pkg/logger"
)

// MarketFeed keeps the latest crop price list. Refreshes follow the same latest-request-wins
// rule as prediction recomputes.
type MarketFeed struct {
	source  domsvc.PriceSource
	store   drepo.MarketStore
	metrics drepo.Metrics
	log     *logger.Logger
	clock   func() time.Time

	mu       sync.Mutex
	gen      uint64
	inflight context.CancelFunc
	state    models.MarketState

	pollMu     sync.Mutex
	pollCancel context.CancelFunc
	pollDone   chan struct{}
}

// NewMarketFeed creates a feed. store may be nil.
func NewMarketFeed(source domsvc.PriceSource, store drepo.MarketStore, metrics drepo.Metrics, l *logger.Logger) *MarketFeed {
	if l == nil {
		l = logger.Nop()
	}
	return &MarketFeed{
		source:  source,
		store:   store,
		metrics: metrics,
		log:     l.Named("market"),
		clock:   time.Now,
	}
}

// Refresh fetches the next price list from the current one.
func (m *MarketFeed) Refresh(ctx context.Context) ([]models.MarketPrice, error) {
	m.mu.Lock()
	if m.inflight != nil {
		m.inflight()
	}
	m.gen++
	gen := m.gen
	prev := append([]models.MarketPrice(nil), m.state.Prices...)
	rctx, cancel := context.WithCancel(ctx)
	m.inflight = cancel
	m.state.Pending = true
	m.mu.Unlock()
	defer cancel()

	start := time.Now()
	prices, err := m.source.Next(rctx, prev)

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return nil, models.ErrSuperseded
	}
	m.inflight = nil
	m.state.Pending = false
	if err != nil {
		if ctx.Err() != nil {
			m.mu.Unlock()
			return nil, ctx.Err()
		}
		m.state.Error = err.Error()
		m.mu.Unlock()
		m.metrics.RecordError("market")
		m.log.Warn("market refresh failed", logger.Error(err))
		return nil, fmt.Errorf("refresh market: %w", err)
	}
	m.state.Prices = prices
	m.state.Error = ""
	m.state.UpdatedAt = m.clock()
	m.mu.Unlock()

	m.metrics.RecordLatency("market_refresh", time.Since(start))
	for _, p := range prices {
		m.metrics.SetMarketPrice(p.ID, p.Price)
	}
	if m.store != nil {
		if err := m.store.Save(ctx, prices); err != nil {
			m.log.Warn("prices not cached", logger.Error(err))
		}
	}
	return append([]models.MarketPrice(nil), prices...), nil
}

// State returns a copy of the current market state.
func (m *MarketFeed) State() models.MarketState {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state
	st.Prices = append([]models.MarketPrice(nil), m.state.Prices...)
	return st
}

// Restore loads the cached price list when the feed is empty.
func (m *MarketFeed) Restore(ctx context.Context) bool {
	if m.store == nil {
		return false
	}
	prices, err := m.store.Latest(ctx)
	if err != nil || len(prices) == 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.state.Prices) > 0 {
		return false
	}
	m.state.Prices = prices
	m.state.UpdatedAt = m.clock()
	return true
}

// StartPolling refreshes prices every interval until StopPolling. A non-positive interval
// disables polling.
func (m *MarketFeed) StartPolling(interval time.Duration) {
	m.pollMu.Lock()
	defer m.pollMu.Unlock()
	m.stopPollingLocked()
	if interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.pollCancel = cancel
	m.pollDone = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = m.Refresh(ctx)
			}
		}
	}()
}

// StopPolling stops the polling loop and cancels any in-flight refresh.
func (m *MarketFeed) StopPolling() {
	m.pollMu.Lock()
	m.stopPollingLocked()
	m.pollMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight != nil {
		m.inflight()
	}
}

func (m *MarketFeed) stopPollingLocked() {
	if m.pollCancel == nil {
		return
	}
	m.pollCancel()
	<-m.pollDone
	m.pollCancel = nil
	m.pollDone = nil
}
