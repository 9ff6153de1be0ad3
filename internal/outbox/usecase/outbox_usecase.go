package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/securevault/internal/database"
	"github.com/allisson/securevault/internal/outbox/domain"
)

// OutboxUseCase implements business logic for processing outbox events
type OutboxUseCase struct {
	config         Config
	txManager      database.TxManager
	outboxRepo     OutboxEventRepository
	eventProcessor EventProcessor
	logger         *slog.Logger
}

// NewOutboxUseCase creates a new OutboxUseCase
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	eventProcessor EventProcessor,
	logger *slog.Logger,
) *OutboxUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OutboxUseCase{
		config:         config,
		txManager:      txManager,
		outboxRepo:     outboxRepo,
		eventProcessor: eventProcessor,
		logger:         logger,
	}
}

// Start runs the processing loop until ctx is canceled.
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting outbox event processor",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping outbox event processor")
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				uc.logger.Error("failed to process events", slog.Any("error", err))
			}
		}
	}
}

// ProcessEvents retrieves and processes pending events from the outbox in a transaction
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		uc.logger.Info("processing events", slog.Int("count", len(events)))

		for _, event := range events {
			if err := uc.processEvent(ctx, event); err != nil {
				uc.logger.Error("failed to process event",
					slog.String("event_id", event.ID.String()),
					slog.String("event_type", event.EventType),
					slog.Any("error", err),
				)

				event.Retries++
				errorMsg := err.Error()
				event.LastError = &errorMsg

				if event.Retries >= uc.config.MaxRetries {
					event.Status = domain.OutboxEventStatusFailed
				}

				if err := uc.outboxRepo.Update(ctx, event); err != nil {
					return err
				}
				continue
			}

			now := time.Now().UTC()
			event.Status = domain.OutboxEventStatusProcessed
			event.ProcessedAt = &now

			if err := uc.outboxRepo.Update(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// processEvent handles a single outbox event using the configured event processor
func (uc *OutboxUseCase) processEvent(ctx context.Context, event *domain.OutboxEvent) error {
	uc.logger.Debug("processing event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.EventType),
	)

	return uc.eventProcessor.Process(ctx, event)
}
