package usecase

import (
	"context"
	"crypto/ed25519"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	authorizationService "github.com/allisson/securevault/internal/authorization/service"
	"github.com/allisson/securevault/internal/database"
	outboxDomain "github.com/allisson/securevault/internal/outbox/domain"
)

// Config holds authorization use case configuration.
type Config struct {
	// RequireSignature rejects claims without a signature.
	RequireSignature bool
}

type authorizationUseCase struct {
	config          Config
	txManager       database.TxManager
	managerRepo     ManagerRepository
	consumptionRepo ConsumptionRepository
	outboxRepo      OutboxEventRepository
	claimSigner     authorizationService.ClaimSigner
	logger          *slog.Logger
}

// consumedPayload is the body of the authorization.consumed event.
type consumedPayload struct {
	ManagerID string `json:"manager_id"`
	AuthID    string `json:"auth_id"`
	VaultID   string `json:"vault_id"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// CreateManager registers a new authorization manager.
func (a *authorizationUseCase) CreateManager(
	ctx context.Context,
	input *authorizationDomain.CreateManagerInput,
) (*authorizationDomain.AuthorizationManager, error) {
	if len(input.SignerPublicKey) > 0 && len(input.SignerPublicKey) != ed25519.PublicKeySize {
		return nil, authorizationDomain.ErrInvalidSignerKey
	}

	manager := &authorizationDomain.AuthorizationManager{
		ID:              uuid.Must(uuid.NewV7()),
		Name:            input.Name,
		SignerPublicKey: input.SignerPublicKey,
		CreatedAt:       time.Now().UTC(),
	}

	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return a.managerRepo.Create(txCtx, manager)
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("authorization manager created",
		slog.String("manager_id", manager.ID.String()),
		slog.Bool("has_signer", manager.HasSigner()),
	)
	return manager, nil
}

// GetManager retrieves an authorization manager by ID.
func (a *authorizationUseCase) GetManager(
	ctx context.Context,
	managerID uuid.UUID,
) (*authorizationDomain.AuthorizationManager, error) {
	return a.managerRepo.Get(ctx, managerID)
}

// VerifyAuthorization checks the claim signature and marks the AuthID consumed.
// Every failure leaves the ledger unchanged.
func (a *authorizationUseCase) VerifyAuthorization(
	ctx context.Context,
	managerID uuid.UUID,
	claim *authorizationDomain.Claim,
) error {
	if err := claim.Validate(); err != nil {
		return err
	}

	return a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		manager, err := a.managerRepo.Get(txCtx, managerID)
		if err != nil {
			return err
		}

		if err := a.checkSignature(manager, claim); err != nil {
			return err
		}

		consumption := &authorizationDomain.Consumption{
			ManagerID:  manager.ID,
			AuthID:     claim.AuthID,
			VaultID:    claim.VaultID,
			Recipient:  claim.Recipient,
			Amount:     claim.Amount,
			ConsumedAt: time.Now().UTC(),
		}
		if err := a.consumptionRepo.Consume(txCtx, consumption); err != nil {
			return err
		}

		event, err := outboxDomain.NewOutboxEvent(outboxDomain.EventTypeAuthorizationConsumed, consumedPayload{
			ManagerID: manager.ID.String(),
			AuthID:    claim.AuthID.String(),
			VaultID:   claim.VaultID.String(),
			Recipient: claim.Recipient,
			Amount:    claim.Amount,
		})
		if err != nil {
			return err
		}
		return a.outboxRepo.Create(txCtx, event)
	})
}

// checkSignature applies the acceptance rule: a present signature must verify
// against the manager's signer key; an absent one is accepted unless required.
func (a *authorizationUseCase) checkSignature(
	manager *authorizationDomain.AuthorizationManager,
	claim *authorizationDomain.Claim,
) error {
	if len(claim.Signature) == 0 {
		if a.config.RequireSignature {
			return authorizationDomain.ErrInvalidSignature
		}
		return nil
	}

	if !manager.HasSigner() {
		return authorizationDomain.ErrInvalidSignature
	}

	return a.claimSigner.Verify(manager.SignerPublicKey, manager.ID, claim)
}

// IsAuthorizationConsumed reports whether authID has been spent.
func (a *authorizationUseCase) IsAuthorizationConsumed(
	ctx context.Context,
	managerID uuid.UUID,
	authID authorizationDomain.AuthID,
) (bool, error) {
	return a.consumptionRepo.IsConsumed(ctx, managerID, authID)
}

// NewAuthorizationUseCase creates a new AuthorizationUseCase.
func NewAuthorizationUseCase(
	config Config,
	txManager database.TxManager,
	managerRepo ManagerRepository,
	consumptionRepo ConsumptionRepository,
	outboxRepo OutboxEventRepository,
	claimSigner authorizationService.ClaimSigner,
	logger *slog.Logger,
) AuthorizationUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &authorizationUseCase{
		config:          config,
		txManager:       txManager,
		managerRepo:     managerRepo,
		consumptionRepo: consumptionRepo,
		outboxRepo:      outboxRepo,
		claimSigner:     claimSigner,
		logger:          logger,
	}
}
