package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/securevault/internal/database"
	"github.com/allisson/securevault/internal/outbox/domain"
)

// MemoryOutboxEventRepository keeps outbox events in process memory.
type MemoryOutboxEventRepository struct {
	table *database.MemoryTable[uuid.UUID, domain.OutboxEvent]
}

// NewMemoryOutboxEventRepository creates a new MemoryOutboxEventRepository
func NewMemoryOutboxEventRepository() *MemoryOutboxEventRepository {
	return &MemoryOutboxEventRepository{
		table: database.NewMemoryTable[uuid.UUID, domain.OutboxEvent](),
	}
}

// Table exposes the backing table for registration with a MemoryTxManager.
func (r *MemoryOutboxEventRepository) Table() database.Table {
	return r.table
}

// Create inserts a new outbox event
func (r *MemoryOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	r.table.Put(ctx, event.ID, *event)
	return nil
}

// GetPendingEvents retrieves pending events with limit, oldest first
func (r *MemoryOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*domain.OutboxEvent, error) {
	var events []*domain.OutboxEvent
	for _, row := range r.table.Values(ctx) {
		if row.Status != domain.OutboxEventStatusPending {
			continue
		}
		event := row
		events = append(events, &event)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID.String() < events[j].ID.String()
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	if limit >= 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// Update updates an outbox event
func (r *MemoryOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	if _, ok := r.table.Get(ctx, event.ID); !ok {
		return nil
	}
	updated := *event
	updated.UpdatedAt = time.Now().UTC()
	r.table.Put(ctx, event.ID, updated)
	return nil
}
