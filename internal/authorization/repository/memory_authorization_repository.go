package repository

import (
	"context"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	"github.com/allisson/securevault/internal/database"
)

// consumptionKey is the uniqueness key of the consumption ledger.
type consumptionKey struct {
	managerID uuid.UUID
	authID    authorizationDomain.AuthID
}

// MemoryManagerRepository keeps authorization managers in process memory.
type MemoryManagerRepository struct {
	table *database.MemoryTable[uuid.UUID, authorizationDomain.AuthorizationManager]
}

// NewMemoryManagerRepository creates a new in-memory manager repository.
func NewMemoryManagerRepository() *MemoryManagerRepository {
	return &MemoryManagerRepository{
		table: database.NewMemoryTable[uuid.UUID, authorizationDomain.AuthorizationManager](),
	}
}

// Table exposes the backing table for registration with a MemoryTxManager.
func (r *MemoryManagerRepository) Table() database.Table {
	return r.table
}

// Create inserts a new authorization manager.
func (r *MemoryManagerRepository) Create(
	ctx context.Context,
	manager *authorizationDomain.AuthorizationManager,
) error {
	row := *manager
	row.SignerPublicKey = append([]byte(nil), manager.SignerPublicKey...)
	r.table.Put(ctx, manager.ID, row)
	return nil
}

// Get retrieves an authorization manager by ID.
func (r *MemoryManagerRepository) Get(
	ctx context.Context,
	managerID uuid.UUID,
) (*authorizationDomain.AuthorizationManager, error) {
	row, ok := r.table.Get(ctx, managerID)
	if !ok {
		return nil, authorizationDomain.ErrManagerNotFound
	}
	row.SignerPublicKey = append([]byte(nil), row.SignerPublicKey...)
	return &row, nil
}

// MemoryConsumptionRepository keeps the consumption ledger in process memory.
type MemoryConsumptionRepository struct {
	table *database.MemoryTable[consumptionKey, authorizationDomain.Consumption]
}

// NewMemoryConsumptionRepository creates a new in-memory consumption repository.
func NewMemoryConsumptionRepository() *MemoryConsumptionRepository {
	return &MemoryConsumptionRepository{
		table: database.NewMemoryTable[consumptionKey, authorizationDomain.Consumption](),
	}
}

// Table exposes the backing table for registration with a MemoryTxManager.
func (r *MemoryConsumptionRepository) Table() database.Table {
	return r.table
}

// Consume inserts the consumption unless the key already exists.
func (r *MemoryConsumptionRepository) Consume(
	ctx context.Context,
	consumption *authorizationDomain.Consumption,
) error {
	key := consumptionKey{managerID: consumption.ManagerID, authID: consumption.AuthID}
	if !r.table.Insert(ctx, key, *consumption) {
		return authorizationDomain.ErrAlreadyConsumed
	}
	return nil
}

// IsConsumed reports whether a consumption row exists.
func (r *MemoryConsumptionRepository) IsConsumed(
	ctx context.Context,
	managerID uuid.UUID,
	authID authorizationDomain.AuthID,
) (bool, error) {
	_, ok := r.table.Get(ctx, consumptionKey{managerID: managerID, authID: authID})
	return ok, nil
}
