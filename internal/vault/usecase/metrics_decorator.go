package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/securevault/internal/metrics"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, v.metrics, metrics.DomainVault, operation, start, err)
}

// Create records metrics for vault creation.
func (v *vaultUseCaseWithMetrics) Create(ctx context.Context) (*vaultDomain.CreateVaultOutput, error) {
	start := time.Now()
	output, err := v.next.Create(ctx)
	v.record(ctx, "vault_create", start, err)
	return output, err
}

// Initialize records metrics for vault initialization.
func (v *vaultUseCaseWithMetrics) Initialize(
	ctx context.Context,
	vaultID uuid.UUID,
	adminSecret string,
	managerID uuid.UUID,
) error {
	start := time.Now()
	err := v.next.Initialize(ctx, vaultID, adminSecret, managerID)
	v.record(ctx, "vault_initialize", start, err)
	return err
}

// Deposit records metrics for deposits.
func (v *vaultUseCaseWithMetrics) Deposit(
	ctx context.Context,
	vaultID uuid.UUID,
	input *vaultDomain.DepositInput,
) (*vaultDomain.Transfer, error) {
	start := time.Now()
	transfer, err := v.next.Deposit(ctx, vaultID, input)
	v.record(ctx, "vault_deposit", start, err)
	return transfer, err
}

// Withdraw records metrics for withdrawals.
func (v *vaultUseCaseWithMetrics) Withdraw(
	ctx context.Context,
	vaultID uuid.UUID,
	input *vaultDomain.WithdrawInput,
) (*vaultDomain.Transfer, error) {
	start := time.Now()
	transfer, err := v.next.Withdraw(ctx, vaultID, input)
	v.record(ctx, "vault_withdraw", start, err)
	return transfer, err
}

// GetBalance records metrics for balance reads.
func (v *vaultUseCaseWithMetrics) GetBalance(ctx context.Context, vaultID uuid.UUID) (uint64, error) {
	start := time.Now()
	balance, err := v.next.GetBalance(ctx, vaultID)
	v.record(ctx, "vault_balance", start, err)
	return balance, err
}

// ListTransfers records metrics for transfer listing.
func (v *vaultUseCaseWithMetrics) ListTransfers(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Transfer, error) {
	start := time.Now()
	transfers, err := v.next.ListTransfers(ctx, vaultID, offset, limit)
	v.record(ctx, "vault_transfers_list", start, err)
	return transfers, err
}
