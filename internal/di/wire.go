//go:build wireinject
// +build wireinject

package di

import (
	"AgroPulse/pkg/config"
	"AgroPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideRand,
		ProvideCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideTelemetryPublisher,

		// Stores and providers
		ProvideBundleStore,
		ProvideMarketStore,
		ProvidePredictionProvider,
		ProvideAdvisor,

		// Use cases
		ProvideSimulator,
		ProvideRecomputeTrigger,
		ProvideMarketFeed,
		ProvideAlertEvaluator,
		ProvideIrrigationController,
		ProvideDashboard,
		ProvideCommandsHandler,

		// Transport
		ProvideHub,
		ProvideTelemetryPipeline,
		ProvideLimiter,
		ProvideFarmHandler,
		ProvideWSHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
