package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
	pkgkafka "AgroPulse/pkg/kafka"
	"AgroPulse/pkg/logger"
)

// KafkaCommandsHandler consumes control commands from the command topic.
type KafkaCommandsHandler struct {
	topic      string
	recompute  *RecomputeTrigger
	market     *MarketFeed
	irrigation *IrrigationController
	metrics    domrepo.Metrics
	log        *logger.Logger
	validate   *validator.Validate
}

func NewKafkaCommandsHandler(topic string, recompute *RecomputeTrigger, market *MarketFeed, irrigation *IrrigationController, metrics domrepo.Metrics, l *logger.Logger) *KafkaCommandsHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &KafkaCommandsHandler{
		topic:      topic,
		recompute:  recompute,
		market:     market,
		irrigation: irrigation,
		metrics:    metrics,
		log:        l.Named("commands"),
		validate:   validator.New(),
	}
}

func (h *KafkaCommandsHandler) Topic() string { return h.topic }

// Handle applies one command. Malformed commands are logged and dropped; only failures worth
// retrying are returned.
func (h *KafkaCommandsHandler) Handle(ctx context.Context, b []byte) error {
	var cmd models.Command
	if err := json.Unmarshal(b, &cmd); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		h.log.Warn("dropping malformed command", logger.Error(err))
		return nil
	}
	if err := h.validate.Struct(cmd); err != nil {
		h.metrics.RecordError("consumer_validate")
		h.log.Warn("dropping invalid command", logger.String("id", cmd.ID), logger.Error(err))
		return nil
	}
	if !cmd.IssuedAt.IsZero() {
		h.metrics.RecordLatency("command_e2e", time.Since(cmd.IssuedAt))
	}

	err := h.dispatch(ctx, cmd)
	switch {
	case err == nil:
		h.metrics.RecordMessageSent("command", string(cmd.Type))
		h.log.Info("command applied",
			logger.String("id", cmd.ID),
			logger.String("type", string(cmd.Type)),
			logger.String("trace_id", pkgkafka.TraceID(ctx)),
		)
		return nil
	case errors.Is(err, models.ErrSuperseded), errors.Is(err, models.ErrIrrigationRefused), errors.Is(err, models.ErrUnknownCommand):
		h.log.Info("command not applied", logger.String("id", cmd.ID), logger.Error(err))
		return nil
	default:
		h.metrics.RecordError("consumer_command")
		return fmt.Errorf("command %s (%s): %w", cmd.ID, cmd.Type, err)
	}
}

func (h *KafkaCommandsHandler) dispatch(ctx context.Context, cmd models.Command) error {
	switch cmd.Type {
	case models.CommandRecompute:
		_, err := h.recompute.Request(ctx, models.NormalizeLocale(cmd.Locale))
		return err
	case models.CommandRefreshMarket:
		_, err := h.market.Refresh(ctx)
		return err
	case models.CommandIrrigation:
		if cmd.Irrigation == nil && cmd.ManualOn == nil {
			return fmt.Errorf("%w: irrigation command without settings or manualOn", models.ErrUnknownCommand)
		}
		if cmd.Irrigation != nil {
			if err := h.irrigation.UpdateSettings(*cmd.Irrigation); err != nil {
				return fmt.Errorf("%w: %v", models.ErrUnknownCommand, err)
			}
		}
		if cmd.ManualOn != nil {
			_, err := h.irrigation.SetManual(*cmd.ManualOn)
			return err
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", models.ErrUnknownCommand, cmd.Type)
	}
}

var _ pkgkafka.MessageHandler = (*KafkaCommandsHandler)(nil)
