package repository

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/allisson/securevault/internal/database"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// MemoryVaultRepository keeps vaults in process memory. Row locking is provided by
// the MemoryTxManager, which runs one transaction at a time.
type MemoryVaultRepository struct {
	table *database.MemoryTable[uuid.UUID, vaultDomain.Vault]
}

// NewMemoryVaultRepository creates a new in-memory vault repository.
func NewMemoryVaultRepository() *MemoryVaultRepository {
	return &MemoryVaultRepository{
		table: database.NewMemoryTable[uuid.UUID, vaultDomain.Vault](),
	}
}

// Table exposes the backing table for registration with a MemoryTxManager.
func (r *MemoryVaultRepository) Table() database.Table {
	return r.table
}

// Create inserts a new vault.
func (r *MemoryVaultRepository) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	r.table.Put(ctx, vault.ID, copyVault(vault))
	return nil
}

// Get retrieves a vault by ID.
func (r *MemoryVaultRepository) Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	row, ok := r.table.Get(ctx, vaultID)
	if !ok {
		return nil, vaultDomain.ErrVaultNotFound
	}
	vault := copyVault(&row)
	return &vault, nil
}

// GetForUpdate retrieves a vault by ID.
func (r *MemoryVaultRepository) GetForUpdate(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	return r.Get(ctx, vaultID)
}

// Update replaces the stored vault.
func (r *MemoryVaultRepository) Update(ctx context.Context, vault *vaultDomain.Vault) error {
	if _, ok := r.table.Get(ctx, vault.ID); !ok {
		return vaultDomain.ErrVaultNotFound
	}
	r.table.Put(ctx, vault.ID, copyVault(vault))
	return nil
}

// copyVault detaches the pointer fields so stored rows never alias caller memory.
func copyVault(vault *vaultDomain.Vault) vaultDomain.Vault {
	row := *vault
	if vault.AuthorizationManagerID != nil {
		managerID := *vault.AuthorizationManagerID
		row.AuthorizationManagerID = &managerID
	}
	if vault.InitializedAt != nil {
		initializedAt := *vault.InitializedAt
		row.InitializedAt = &initializedAt
	}
	return row
}

// MemoryTransferRepository keeps the transfer ledger in process memory.
type MemoryTransferRepository struct {
	table *database.MemoryTable[uuid.UUID, vaultDomain.Transfer]
}

// NewMemoryTransferRepository creates a new in-memory transfer repository.
func NewMemoryTransferRepository() *MemoryTransferRepository {
	return &MemoryTransferRepository{
		table: database.NewMemoryTable[uuid.UUID, vaultDomain.Transfer](),
	}
}

// Table exposes the backing table for registration with a MemoryTxManager.
func (r *MemoryTransferRepository) Table() database.Table {
	return r.table
}

// Create appends a transfer to the ledger.
func (r *MemoryTransferRepository) Create(ctx context.Context, transfer *vaultDomain.Transfer) error {
	row := *transfer
	if transfer.AuthID != nil {
		authID := *transfer.AuthID
		row.AuthID = &authID
	}
	r.table.Put(ctx, transfer.ID, row)
	return nil
}

// ListByVault returns transfers for a vault, oldest first.
func (r *MemoryTransferRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Transfer, error) {
	matching := make([]*vaultDomain.Transfer, 0)
	for _, row := range r.table.Values(ctx) {
		if row.VaultID == vaultID {
			transfer := row
			if row.AuthID != nil {
				authID := *row.AuthID
				transfer.AuthID = &authID
			}
			matching = append(matching, &transfer)
		}
	}

	slices.SortFunc(matching, func(a, b *vaultDomain.Transfer) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	offset = max(offset, 0)
	if offset >= len(matching) || limit <= 0 {
		return []*vaultDomain.Transfer{}, nil
	}
	end := min(offset+limit, len(matching))
	return matching[offset:end], nil
}
