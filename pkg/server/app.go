package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AgroPulse/internal/domain/models"
	"AgroPulse/internal/domain/repository"
	"AgroPulse/internal/handler/ws"
	mid "AgroPulse/internal/middleware"
	"AgroPulse/internal/service/ratelimit"
	"AgroPulse/internal/usecase"
	"AgroPulse/pkg/cache"
	"AgroPulse/pkg/config"
	xhttp "AgroPulse/pkg/http"
	pkgkafka "AgroPulse/pkg/kafka"
	applogger "AgroPulse/pkg/logger"
)

// Components groups everything the application starts and stops.
type Components struct {
	Simulator  *usecase.Simulator
	Recompute  *usecase.RecomputeTrigger
	Market     *usecase.MarketFeed
	Pipeline   *mid.TelemetryPipeline
	Hub        *ws.Hub
	Publisher  repository.TelemetryPublisher
	Consumer   *pkgkafka.Consumer
	Commands   pkgkafka.MessageHandler
	Cache      cache.Service
	Limiter    *ratelimit.Limiter
	HTTPServer *xhttp.Server
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg *config.Config
	log *applogger.Logger
	c   Components

	cancel context.CancelFunc
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, c Components) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{cfg: cfg, log: l.Named("app"), c: c}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	a.log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout+5*time.Second)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Start launches every background component and the HTTP server. It does not block.
func (a *App) Start(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	a.cancel = cancel

	if a.c.Hub != nil {
		go a.c.Hub.Run(ctx)
	}
	if a.c.Pipeline != nil {
		a.c.Pipeline.Start(ctx)
	}

	if a.c.Recompute.Restore(ctx, models.LocaleEN) {
		a.log.Info("predictions restored from cache")
	}
	if !a.c.Market.Restore(ctx) {
		go func() {
			if _, err := a.c.Market.Refresh(ctx); err != nil {
				a.log.Warn("initial market refresh failed", applogger.Error(err))
			}
		}()
	}

	if err := a.c.Simulator.Start(ctx); err != nil {
		cancel()
		return err
	}

	if a.cfg.Predictions.PollOnStart {
		if err := a.c.Recompute.SetPolling(true, a.cfg.Predictions.PollInterval); err != nil {
			a.log.Warn("polling not started", applogger.Error(err))
		}
	}
	a.c.Market.StartPolling(a.cfg.Market.PollInterval)

	if a.c.Consumer != nil && a.c.Commands != nil {
		a.c.Consumer.RegisterHandler(a.c.Commands)
		a.c.Consumer.WithConsumerHook(pkgkafka.TraceHook())
		if err := a.c.Consumer.Start(); err != nil {
			a.log.Error("kafka consumer error", applogger.Error(err))
		} else {
			a.log.Info("kafka consumer started", applogger.String("topic", a.c.Commands.Topic()))
		}
	}

	if a.c.Limiter != nil {
		go a.pruneLimiter(ctx)
	}

	if err := a.c.HTTPServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		cancel()
		return err
	}
	a.log.Info("started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
		applogger.Bool("redis", a.cfg.Cache.Redis.Enabled),
	)
	return nil
}

// Shutdown gracefully stops all services in reverse dependency order.
func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down...")
	var errs []error

	if err := a.c.HTTPServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	a.c.Simulator.Stop()
	a.c.Recompute.Close()
	a.c.Market.StopPolling()

	if a.c.Consumer != nil {
		if err := a.c.Consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.c.Pipeline != nil {
		a.c.Pipeline.Stop()
	}
	if a.c.Publisher != nil {
		if err := a.c.Publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	if a.cancel != nil {
		a.cancel()
	}
	if a.c.Hub != nil {
		select {
		case <-a.c.Hub.Done():
		case <-ctx.Done():
		}
	}

	if a.c.Cache != nil {
		if err := a.c.Cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) pruneLimiter(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.c.Limiter.Prune(10 * time.Minute); n > 0 {
				a.log.Debug("rate limiter pruned", applogger.Int("buckets", n))
			}
		}
	}
}
