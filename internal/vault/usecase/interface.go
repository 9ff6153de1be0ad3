// Package usecase implements the custody vault: its balance, deposits and
// authorization-gated withdrawals.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	outboxDomain "github.com/allisson/securevault/internal/outbox/domain"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// VaultRepository defines persistence operations for vaults.
type VaultRepository interface {
	Create(ctx context.Context, vault *vaultDomain.Vault) error
	Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error)

	// GetForUpdate reads the vault and locks its row until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error)

	// Update persists the balance and the manager binding.
	Update(ctx context.Context, vault *vaultDomain.Vault) error
}

// TransferRepository defines persistence operations for the transfer ledger.
type TransferRepository interface {
	Create(ctx context.Context, transfer *vaultDomain.Transfer) error

	// ListByVault returns transfers ordered by creation, oldest first.
	ListByVault(ctx context.Context, vaultID uuid.UUID, offset, limit int) ([]*vaultDomain.Transfer, error)
}

// OutboxEventRepository persists events alongside vault changes.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// AuthorizationManager is the subset of the authorization use case the vault depends on.
type AuthorizationManager interface {
	GetManager(ctx context.Context, managerID uuid.UUID) (*authorizationDomain.AuthorizationManager, error)
	VerifyAuthorization(ctx context.Context, managerID uuid.UUID, claim *authorizationDomain.Claim) error
}

// VaultUseCase defines the vault operations.
type VaultUseCase interface {
	// Create opens an uninitialized vault and returns its admin secret once.
	Create(ctx context.Context) (*vaultDomain.CreateVaultOutput, error)

	// Initialize binds the vault to an authorization manager. Admin only, one time.
	Initialize(ctx context.Context, vaultID uuid.UUID, adminSecret string, managerID uuid.UUID) error

	// Deposit credits the vault and records the deposit.
	Deposit(ctx context.Context, vaultID uuid.UUID, input *vaultDomain.DepositInput) (*vaultDomain.Transfer, error)

	// Withdraw spends a single-use authorization and pays the recipient.
	// Consumption, balance change and payout commit or fail together.
	Withdraw(ctx context.Context, vaultID uuid.UUID, input *vaultDomain.WithdrawInput) (*vaultDomain.Transfer, error)

	// GetBalance returns the current balance.
	GetBalance(ctx context.Context, vaultID uuid.UUID) (uint64, error)

	// ListTransfers returns the vault's movement ledger.
	ListTransfers(ctx context.Context, vaultID uuid.UUID, offset, limit int) ([]*vaultDomain.Transfer, error)
}
