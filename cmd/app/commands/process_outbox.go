package commands

import (
	"context"
	"fmt"
	"log/slog"

	outboxUseCase "github.com/allisson/securevault/internal/outbox/usecase"
)

// RunProcessOutbox processes a single batch of pending outbox events.
// Useful when the server runs with OUTBOX_ENABLED=false and events are drained
// by a scheduled job instead.
func RunProcessOutbox(ctx context.Context, useCase outboxUseCase.UseCase, logger *slog.Logger) error {
	logger.Info("processing outbox events")

	if err := useCase.ProcessEvents(ctx); err != nil {
		return fmt.Errorf("failed to process outbox events: %w", err)
	}

	logger.Info("outbox events processed")
	return nil
}
