package repository

import (
	"context"
	"time"

	"AgroPulse/internal/domain/models"
)

// TelemetryPublisher ships snapshots and prediction bundles to downstream consumers.
type TelemetryPublisher interface {
	PublishTelemetry(ctx context.Context, ev models.TelemetryEvent) error
	PublishBundle(ctx context.Context, b models.PredictionBundle) error
	Close() error
}

// BundleStore keeps the latest applied prediction bundle per locale.
type BundleStore interface {
	Save(ctx context.Context, b models.PredictionBundle) error
	Latest(ctx context.Context, locale models.Locale) (models.PredictionBundle, error)
}

// MarketStore keeps the latest market price list.
type MarketStore interface {
	Save(ctx context.Context, prices []models.MarketPrice) error
	Latest(ctx context.Context) ([]models.MarketPrice, error)
}

type Metrics interface {
	RecordTick(version uint64)
	RecordMessageSent(backend, topic string)
	RecordError(kind string)
	RecordRecompute(outcome string)
	SetFarmMetric(name string, value float64)
	SetSectorRisk(sector string, risk float64)
	SetMarketPrice(crop string, price float64)
	RecordLatency(op string, d time.Duration)
}
