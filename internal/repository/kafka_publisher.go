package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"AgroPulse/internal/domain/models"
	"AgroPulse/internal/domain/repository"
	pkgkafka "AgroPulse/pkg/kafka"
)

// eventProducer is the subset of pkg/kafka.Producer the publisher needs.
type eventProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}, headers ...kafka.Header) error
	Close() error
}

// KafkaTelemetryPublisher implements TelemetryPublisher for Kafka. Snapshots are keyed by
// version and bundles by locale, each message carrying a fresh trace id.
type KafkaTelemetryPublisher struct {
	producer         eventProducer
	telemetryTopic   string
	predictionsTopic string
	metrics          repository.Metrics
}

// NewKafkaTelemetryPublisher creates Kafka publisher.
func NewKafkaTelemetryPublisher(producer *pkgkafka.Producer, telemetryTopic, predictionsTopic string, metrics repository.Metrics) *KafkaTelemetryPublisher {
	return newKafkaTelemetryPublisher(producer, telemetryTopic, predictionsTopic, metrics)
}

func newKafkaTelemetryPublisher(p eventProducer, telemetryTopic, predictionsTopic string, metrics repository.Metrics) *KafkaTelemetryPublisher {
	return &KafkaTelemetryPublisher{
		producer:         p,
		telemetryTopic:   telemetryTopic,
		predictionsTopic: predictionsTopic,
		metrics:          metrics,
	}
}

func (p *KafkaTelemetryPublisher) PublishTelemetry(ctx context.Context, ev models.TelemetryEvent) error {
	key := []byte(strconv.FormatUint(ev.Farm.Version, 10))
	if err := p.producer.Publish(ctx, p.telemetryTopic, key, ev, traceHeader()); err != nil {
		return err
	}
	p.metrics.RecordMessageSent("kafka", p.telemetryTopic)
	return nil
}

func (p *KafkaTelemetryPublisher) PublishBundle(ctx context.Context, b models.PredictionBundle) error {
	if err := p.producer.Publish(ctx, p.predictionsTopic, []byte(b.Locale), b, traceHeader()); err != nil {
		return err
	}
	p.metrics.RecordMessageSent("kafka", p.predictionsTopic)
	return nil
}

func (p *KafkaTelemetryPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func traceHeader() kafka.Header {
	return kafka.Header{Key: pkgkafka.TraceHeader, Value: []byte(uuid.NewString())}
}

// NopTelemetryPublisher drops everything. It is used when Kafka is disabled.
type NopTelemetryPublisher struct{}

func (NopTelemetryPublisher) PublishTelemetry(context.Context, models.TelemetryEvent) error {
	return nil
}

func (NopTelemetryPublisher) PublishBundle(context.Context, models.PredictionBundle) error {
	return nil
}

func (NopTelemetryPublisher) Close() error { return nil }

var (
	_ repository.TelemetryPublisher = (*KafkaTelemetryPublisher)(nil)
	_ repository.TelemetryPublisher = NopTelemetryPublisher{}
)
