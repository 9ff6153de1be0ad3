package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/allisson/securevault/internal/outbox/domain"
)

// LoggingEventProcessor publishes custody events to the structured log.
type LoggingEventProcessor struct {
	logger *slog.Logger
}

// NewLoggingEventProcessor creates a new LoggingEventProcessor
func NewLoggingEventProcessor(logger *slog.Logger) *LoggingEventProcessor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingEventProcessor{
		logger: logger,
	}
}

// Process decodes the payload and logs it under the event type.
func (p *LoggingEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	var payload map[string]any
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return err
	}

	switch event.EventType {
	case domain.EventTypeAuthorizationConsumed,
		domain.EventTypeVaultInitialized,
		domain.EventTypeVaultDeposited,
		domain.EventTypeVaultWithdrawn:
		p.logger.InfoContext(ctx, "custody event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
			slog.Any("payload", payload),
		)
	default:
		p.logger.WarnContext(ctx, "unknown event type", slog.String("event_type", event.EventType))
	}

	return nil
}
