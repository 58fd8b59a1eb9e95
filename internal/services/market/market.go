// Package market simulates the crop price feed.
package market

import (
	"context"
	"math"
	"time"

	"AgroPulse/internal/domain/models"
	domsvc "AgroPulse/internal/domain/service"
)

// Source is a uniform [0,1) random draw.
type Source interface {
	Float64() float64
}

// MinPrice is the floor for every crop price after the first fetch.
const MinPrice = 500.0

// Crops lists the tracked crops in display order.
var Crops = []struct{ ID, Name string }{
	{"wheat", "wheat"},
	{"tomato", "tomato"},
	{"cotton", "cotton"},
	{"sugarcane", "sugarcane"},
}

// SimulatedSource produces random-walk prices per quintal.
type SimulatedSource struct {
	rng     Source
	latency time.Duration
}

var _ domsvc.PriceSource = (*SimulatedSource)(nil)

func NewSimulatedSource(rng Source, latency time.Duration) *SimulatedSource {
	return &SimulatedSource{rng: rng, latency: latency}
}

// Next seeds fresh prices when prev is empty, otherwise moves every price by a new change.
func (s *SimulatedSource) Next(ctx context.Context, prev []models.MarketPrice) ([]models.MarketPrice, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, err
	}
	if len(prev) == 0 {
		return s.seed(), nil
	}

	out := make([]models.MarketPrice, len(prev))
	for i, p := range prev {
		change := s.change()
		p.Price = math.Round(math.Max(MinPrice, p.Price+change))
		p.Change = change
		p.Unit = models.PriceUnit
		out[i] = p
	}
	return out, nil
}

func (s *SimulatedSource) seed() []models.MarketPrice {
	out := make([]models.MarketPrice, 0, len(Crops))
	for _, c := range Crops {
		out = append(out, models.MarketPrice{
			ID:     c.ID,
			Name:   c.Name,
			Unit:   models.PriceUnit,
			Price:  math.Floor(s.rng.Float64()*2000) + 1500,
			Change: s.change(),
		})
	}
	return out
}

func (s *SimulatedSource) change() float64 {
	return (s.rng.Float64() - 0.45) * 50
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
