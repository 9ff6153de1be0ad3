package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	"github.com/allisson/securevault/internal/database"
	outboxDomain "github.com/allisson/securevault/internal/outbox/domain"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
	vaultService "github.com/allisson/securevault/internal/vault/service"
)

// withdrawKey marks a context as carrying an in-flight withdrawal.
type withdrawKey struct{}

type vaultUseCase struct {
	txManager     database.TxManager
	vaultRepo     VaultRepository
	transferRepo  TransferRepository
	outboxRepo    OutboxEventRepository
	authManager   AuthorizationManager
	payoutGateway vaultService.PayoutGateway
	secretService vaultService.AdminSecretService
	logger        *slog.Logger
}

type initializedPayload struct {
	VaultID                string `json:"vault_id"`
	AuthorizationManagerID string `json:"authorization_manager_id"`
}

type movementPayload struct {
	VaultID      string `json:"vault_id"`
	TransferID   string `json:"transfer_id"`
	Counterparty string `json:"counterparty"`
	Amount       uint64 `json:"amount"`
	Balance      uint64 `json:"balance"`
	AuthID       string `json:"auth_id,omitempty"`
}

// Create opens a new uninitialized vault with a zero balance.
func (v *vaultUseCase) Create(ctx context.Context) (*vaultDomain.CreateVaultOutput, error) {
	plainSecret, hashedSecret, err := v.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	vault := &vaultDomain.Vault{
		ID:              uuid.Must(uuid.NewV7()),
		AdminSecretHash: hashedSecret,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return v.vaultRepo.Create(txCtx, vault)
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info("vault created", slog.String("vault_id", vault.ID.String()))
	return &vaultDomain.CreateVaultOutput{Vault: vault, PlainAdminSecret: plainSecret}, nil
}

// Initialize binds the vault to managerID. The admin secret is checked before the
// row is locked so the Argon2id comparison never holds the lock.
func (v *vaultUseCase) Initialize(
	ctx context.Context,
	vaultID uuid.UUID,
	adminSecret string,
	managerID uuid.UUID,
) error {
	vault, err := v.vaultRepo.Get(ctx, vaultID)
	if err != nil {
		return err
	}
	if !v.secretService.CompareSecret(adminSecret, vault.AdminSecretHash) {
		return vaultDomain.ErrUnauthorized
	}

	err = v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		vault, err := v.vaultRepo.GetForUpdate(txCtx, vaultID)
		if err != nil {
			return err
		}
		if vault.IsInitialized() {
			return vaultDomain.ErrAlreadyInitialized
		}

		manager, err := v.authManager.GetManager(txCtx, managerID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		vault.AuthorizationManagerID = &manager.ID
		vault.InitializedAt = &now
		vault.UpdatedAt = now
		if err := v.vaultRepo.Update(txCtx, vault); err != nil {
			return err
		}

		return v.emit(txCtx, outboxDomain.EventTypeVaultInitialized, initializedPayload{
			VaultID:                vault.ID.String(),
			AuthorizationManagerID: manager.ID.String(),
		})
	})
	if err != nil {
		return err
	}

	v.logger.Info("vault initialized",
		slog.String("vault_id", vaultID.String()),
		slog.String("manager_id", managerID.String()),
	)
	return nil
}

// Deposit credits amount to the vault.
func (v *vaultUseCase) Deposit(
	ctx context.Context,
	vaultID uuid.UUID,
	input *vaultDomain.DepositInput,
) (*vaultDomain.Transfer, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var transfer *vaultDomain.Transfer
	err := v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		vault, err := v.vaultRepo.GetForUpdate(txCtx, vaultID)
		if err != nil {
			return err
		}
		if !vault.IsInitialized() {
			return vaultDomain.ErrNotInitialized
		}

		if err := vault.Credit(input.Amount); err != nil {
			return err
		}
		vault.UpdatedAt = time.Now().UTC()
		if err := v.vaultRepo.Update(txCtx, vault); err != nil {
			return err
		}

		transfer = &vaultDomain.Transfer{
			ID:           uuid.Must(uuid.NewV7()),
			VaultID:      vault.ID,
			Kind:         vaultDomain.TransferKindDeposit,
			Counterparty: input.From,
			Amount:       input.Amount,
			CreatedAt:    vault.UpdatedAt,
		}
		if err := v.transferRepo.Create(txCtx, transfer); err != nil {
			return err
		}

		return v.emit(txCtx, outboxDomain.EventTypeVaultDeposited, movementPayload{
			VaultID:      vault.ID.String(),
			TransferID:   transfer.ID.String(),
			Counterparty: transfer.Counterparty,
			Amount:       transfer.Amount,
			Balance:      vault.Balance,
		})
	})
	if err != nil {
		return nil, err
	}

	v.logger.Debug("vault deposit",
		slog.String("vault_id", vaultID.String()),
		slog.Uint64("amount", input.Amount),
	)
	return transfer, nil
}

// Withdraw pays input.Amount to input.Recipient after the vault's authorization
// manager accepts and consumes the claim. Nested calls on a context that already
// carries a withdrawal are rejected.
func (v *vaultUseCase) Withdraw(
	ctx context.Context,
	vaultID uuid.UUID,
	input *vaultDomain.WithdrawInput,
) (*vaultDomain.Transfer, error) {
	if ctx.Value(withdrawKey{}) != nil {
		return nil, vaultDomain.ErrReentrantCall
	}
	ctx = context.WithValue(ctx, withdrawKey{}, vaultID)

	var transfer *vaultDomain.Transfer
	err := v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		vault, err := v.vaultRepo.GetForUpdate(txCtx, vaultID)
		if err != nil {
			return err
		}
		if !vault.IsInitialized() {
			return vaultDomain.ErrNotInitialized
		}
		if input.Amount > vault.Balance {
			return vaultDomain.ErrInsufficientBalance
		}

		claim := &authorizationDomain.Claim{
			VaultID:   vault.ID,
			Recipient: input.Recipient,
			Amount:    input.Amount,
			AuthID:    input.AuthID,
			Signature: input.Signature,
		}
		if err := v.authManager.VerifyAuthorization(txCtx, *vault.AuthorizationManagerID, claim); err != nil {
			return err
		}

		if err := vault.Debit(input.Amount); err != nil {
			return err
		}
		vault.UpdatedAt = time.Now().UTC()
		if err := v.vaultRepo.Update(txCtx, vault); err != nil {
			return err
		}

		authID := input.AuthID
		transfer = &vaultDomain.Transfer{
			ID:           uuid.Must(uuid.NewV7()),
			VaultID:      vault.ID,
			Kind:         vaultDomain.TransferKindWithdrawal,
			Counterparty: input.Recipient,
			Amount:       input.Amount,
			AuthID:       &authID,
			CreatedAt:    vault.UpdatedAt,
		}
		if err := v.payoutGateway.Transfer(txCtx, transfer); err != nil {
			return fmt.Errorf("%w: %w", vaultDomain.ErrTransferFailed, err)
		}

		return v.emit(txCtx, outboxDomain.EventTypeVaultWithdrawn, movementPayload{
			VaultID:      vault.ID.String(),
			TransferID:   transfer.ID.String(),
			Counterparty: transfer.Counterparty,
			Amount:       transfer.Amount,
			Balance:      vault.Balance,
			AuthID:       authID.String(),
		})
	})
	if err != nil {
		v.logger.Warn("vault withdrawal rejected",
			slog.String("vault_id", vaultID.String()),
			slog.String("auth_id", input.AuthID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	v.logger.Info("vault withdrawal",
		slog.String("vault_id", vaultID.String()),
		slog.String("auth_id", input.AuthID.String()),
		slog.Uint64("amount", input.Amount),
	)
	return transfer, nil
}

// GetBalance returns the balance of an initialized vault.
func (v *vaultUseCase) GetBalance(ctx context.Context, vaultID uuid.UUID) (uint64, error) {
	vault, err := v.vaultRepo.Get(ctx, vaultID)
	if err != nil {
		return 0, err
	}
	if !vault.IsInitialized() {
		return 0, vaultDomain.ErrNotInitialized
	}
	return vault.Balance, nil
}

// ListTransfers returns a page of the vault's transfers.
func (v *vaultUseCase) ListTransfers(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Transfer, error) {
	if _, err := v.vaultRepo.Get(ctx, vaultID); err != nil {
		return nil, err
	}
	return v.transferRepo.ListByVault(ctx, vaultID, offset, limit)
}

func (v *vaultUseCase) emit(ctx context.Context, eventType string, payload any) error {
	event, err := outboxDomain.NewOutboxEvent(eventType, payload)
	if err != nil {
		return err
	}
	return v.outboxRepo.Create(ctx, event)
}

// NewVaultUseCase creates a new VaultUseCase.
func NewVaultUseCase(
	txManager database.TxManager,
	vaultRepo VaultRepository,
	transferRepo TransferRepository,
	outboxRepo OutboxEventRepository,
	authManager AuthorizationManager,
	payoutGateway vaultService.PayoutGateway,
	secretService vaultService.AdminSecretService,
	logger *slog.Logger,
) VaultUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &vaultUseCase{
		txManager:     txManager,
		vaultRepo:     vaultRepo,
		transferRepo:  transferRepo,
		outboxRepo:    outboxRepo,
		authManager:   authManager,
		payoutGateway: payoutGateway,
		secretService: secretService,
		logger:        logger,
	}
}
