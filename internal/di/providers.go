package di

import (
	"context"
	"fmt"

	"AgroPulse/internal/domain/models"
	"AgroPulse/internal/domain/repository"
	domsvc "AgroPulse/internal/domain/service"
	"AgroPulse/internal/handler/api"
	"AgroPulse/internal/handler/ws"
	mid "AgroPulse/internal/middleware"
	internalrepo "AgroPulse/internal/repository"
	advmetrics "AgroPulse/internal/service/metrics"
	"AgroPulse/internal/service/ratelimit"
	"AgroPulse/internal/services/advisor"
	"AgroPulse/internal/services/analytics"
	"AgroPulse/internal/services/market"
	"AgroPulse/internal/usecase"
	"AgroPulse/pkg/cache"
	"AgroPulse/pkg/config"
	xhttp "AgroPulse/pkg/http"
	pkgkafka "AgroPulse/pkg/kafka"
	applogger "AgroPulse/pkg/logger"
	"AgroPulse/pkg/metrics"
	"AgroPulse/pkg/server"
	"AgroPulse/pkg/util"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	advmetrics.Register(nil)
	return metrics.New(nil)
}

// ProvideRand creates the shared random source. Seed 0 means time based.
func ProvideRand(cfg *config.Config) *util.LockedRand {
	return util.NewLockedRand(cfg.Simulator.Seed)
}

// ProvideCache creates the cache: Redis behind an in-memory L1 when enabled, memory only
// otherwise or when Redis is unreachable.
func ProvideCache(cfg *config.Config, l *applogger.Logger) cache.Service {
	memory := func() cache.Service {
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			cache.WithMemoryCleanup(cfg.Cache.MemoryCleanup),
		)
	}
	if !cfg.Cache.Redis.Enabled {
		return memory()
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		cache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdleConns, cfg.Cache.Redis.PoolTimeout),
	)
	if err != nil {
		l.Warn("redis unavailable, using memory cache", applogger.Error(err))
		return memory()
	}
	return cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
		cache.WithLayeredMemoryTTL(cfg.Cache.MemoryTTL),
	)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideTelemetryPublisher publishes to Kafka when a producer exists.
func ProvideTelemetryPublisher(cfg *config.Config, producer *pkgkafka.Producer, m repository.Metrics) repository.TelemetryPublisher {
	if producer == nil {
		return internalrepo.NopTelemetryPublisher{}
	}
	return internalrepo.NewKafkaTelemetryPublisher(producer, cfg.Kafka.TelemetryTopic, cfg.Kafka.PredictionTopic, m)
}

// ProvideKafkaConsumer creates the command consumer, or nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideSimulator creates the telemetry simulator.
func ProvideSimulator(cfg *config.Config, rng *util.LockedRand, m repository.Metrics, l *applogger.Logger) *usecase.Simulator {
	return usecase.NewSimulator(usecase.SimulatorConfig{
		Interval: cfg.Simulator.TickInterval,
		Tuning:   cfg.Simulator.Tuning,
	}, rng, m, l)
}

// ProvidePredictionProvider picks the simulated or the remote predictor.
func ProvidePredictionProvider(cfg *config.Config, rng *util.LockedRand) domsvc.PredictionProvider {
	if cfg.Predictions.Provider == "remote" {
		return analytics.NewRemotePredictor(cfg)
	}
	return analytics.NewSimulatedPredictor(rng, cfg.Predictions.Latency)
}

func ProvideBundleStore(cfg *config.Config, c cache.Service) repository.BundleStore {
	return internalrepo.NewCacheBundleStore(c, cfg.Predictions.CacheTTL)
}

func ProvideMarketStore(cfg *config.Config, c cache.Service) repository.MarketStore {
	return internalrepo.NewCacheMarketStore(c, cfg.Market.CacheTTL)
}

func ProvideRecomputeTrigger(p domsvc.PredictionProvider, sim *usecase.Simulator, store repository.BundleStore, m repository.Metrics, l *applogger.Logger) *usecase.RecomputeTrigger {
	return usecase.NewRecomputeTrigger(p, sim, store, m, l)
}

func ProvideMarketFeed(cfg *config.Config, rng *util.LockedRand, store repository.MarketStore, m repository.Metrics, l *applogger.Logger) *usecase.MarketFeed {
	return usecase.NewMarketFeed(market.NewSimulatedSource(rng, cfg.Market.Latency), store, m, l)
}

func ProvideAdvisor(cfg *config.Config, rng *util.LockedRand) *advisor.Advisor {
	return advisor.New(rng, advisor.Latencies{
		Pest:           cfg.Advisor.PestLatency,
		Health:         cfg.Advisor.HealthLatency,
		Recommendation: cfg.Advisor.RecommendationLatency,
		Soil:           cfg.Advisor.SoilLatency,
	})
}

func ProvideAlertEvaluator() *usecase.AlertEvaluator {
	return usecase.NewAlertEvaluator()
}

func ProvideIrrigationController(cfg *config.Config, sim *usecase.Simulator, l *applogger.Logger) (*usecase.IrrigationController, error) {
	return usecase.NewIrrigationController(models.IrrigationSettings{
		Mode:  models.IrrigationMode(cfg.Irrigation.Mode),
		Start: cfg.Irrigation.Start,
		End:   cfg.Irrigation.End,
	}, sim, l)
}

func ProvideDashboard(sim *usecase.Simulator, alerts *usecase.AlertEvaluator, r *usecase.RecomputeTrigger, m *usecase.MarketFeed, irr *usecase.IrrigationController) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(sim, alerts, r, m, irr)
}

func ProvideHub(l *applogger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideTelemetryPipeline builds the throttle and retry buffer in front of the publisher.
func ProvideTelemetryPipeline(cfg *config.Config, pub repository.TelemetryPublisher, m repository.Metrics, l *applogger.Logger) *mid.TelemetryPipeline {
	return mid.NewTelemetryPipeline(pub, m,
		mid.WithMaxRPS(cfg.Kafka.MaxPublishRPS),
		mid.WithBufferSize(cfg.Kafka.BufferSize),
		mid.WithLogger(l),
	)
}

func ProvideCommandsHandler(cfg *config.Config, r *usecase.RecomputeTrigger, m *usecase.MarketFeed, irr *usecase.IrrigationController, rec repository.Metrics, l *applogger.Logger) *usecase.KafkaCommandsHandler {
	return usecase.NewKafkaCommandsHandler(cfg.Kafka.CommandTopic, r, m, irr, rec, l)
}

func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

func ProvideFarmHandler(
	cfg *config.Config,
	l *applogger.Logger,
	sim *usecase.Simulator,
	alerts *usecase.AlertEvaluator,
	r *usecase.RecomputeTrigger,
	m *usecase.MarketFeed,
	irr *usecase.IrrigationController,
	dash *usecase.DashboardUseCase,
	adv *advisor.Advisor,
	limiter *ratelimit.Limiter,
) *api.FarmHandler {
	return api.NewFarmHandler(l, sim, alerts, r, m, irr, dash, adv, adv, adv, limiter, api.Options{
		MaxImageBytes: cfg.Advisor.MaxImageBytes,
		RefreshBurst:  cfg.Server.RefreshBurst,
		RefreshPerSec: cfg.Server.RefreshPerSec,
	})
}

func ProvideWSHandler(hub *ws.Hub, sim *usecase.Simulator) *ws.Handler {
	return ws.NewHandler(hub, sim)
}

// ProvideHTTPServer creates the Echo server with every handler registered.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, farm *api.FarmHandler, wsh *ws.Handler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(xhttp.Handlers{farm, wsh},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(metricsPath, cfg.Server.SlowThreshold),
		xhttp.WithLogger(l),
	)
}

// ProvideApp connects the tick and bundle fan-out and creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	sim *usecase.Simulator,
	alerts *usecase.AlertEvaluator,
	r *usecase.RecomputeTrigger,
	m *usecase.MarketFeed,
	irr *usecase.IrrigationController,
	pipe *mid.TelemetryPipeline,
	hub *ws.Hub,
	pub repository.TelemetryPublisher,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	commands *usecase.KafkaCommandsHandler,
	c cache.Service,
	limiter *ratelimit.Limiter,
	httpServer *xhttp.Server,
) *server.App {
	sim.AddListener(usecase.TickListenerFunc(func(ctx context.Context, snap models.FarmState) {
		ev := models.TelemetryEvent{Farm: snap, Alerts: alerts.Evaluate(snap)}
		hub.PublishTelemetry(ctx, ev)
		pipe.Submit(ctx, ev)
	}))
	sim.AddListener(irr)

	r.OnApplied(hub.PublishBundle)
	r.OnApplied(func(ctx context.Context, b models.PredictionBundle) {
		if err := pub.PublishBundle(ctx, b); err != nil {
			l.Warn("bundle not published", applogger.Error(err))
		}
	})

	if producer != nil && cfg.Kafka.LogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			Topic:     cfg.Kafka.LogTopic,
			Source:    "agropulse",
			Publisher: producer,
		})
	}

	comps := server.Components{
		Simulator:  sim,
		Recompute:  r,
		Market:     m,
		Pipeline:   pipe,
		Hub:        hub,
		Publisher:  pub,
		Cache:      c,
		Limiter:    limiter,
		HTTPServer: httpServer,
	}
	if consumer != nil {
		comps.Consumer = consumer
		comps.Commands = commands
	}
	return server.New(cfg, l, comps)
}
