// Package usecase implements the authorization manager: the consumption ledger
// and the rule deciding whether a claim may be honored.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	outboxDomain "github.com/allisson/securevault/internal/outbox/domain"
)

// ManagerRepository defines persistence operations for authorization managers.
type ManagerRepository interface {
	Create(ctx context.Context, manager *authorizationDomain.AuthorizationManager) error
	Get(ctx context.Context, managerID uuid.UUID) (*authorizationDomain.AuthorizationManager, error)
}

// ConsumptionRepository defines persistence operations for the consumption ledger.
type ConsumptionRepository interface {
	// Consume inserts the consumption if no row exists for (ManagerID, AuthID).
	// Returns ErrAlreadyConsumed when the row exists. The check and the insert
	// are a single atomic statement.
	Consume(ctx context.Context, consumption *authorizationDomain.Consumption) error

	// IsConsumed reports whether a consumption row exists.
	IsConsumed(ctx context.Context, managerID uuid.UUID, authID authorizationDomain.AuthID) (bool, error)
}

// OutboxEventRepository persists events alongside the consumption.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// AuthorizationUseCase defines the authorization manager operations.
type AuthorizationUseCase interface {
	// CreateManager registers a new authorization manager.
	CreateManager(
		ctx context.Context,
		input *authorizationDomain.CreateManagerInput,
	) (*authorizationDomain.AuthorizationManager, error)

	// GetManager retrieves an authorization manager by ID.
	GetManager(ctx context.Context, managerID uuid.UUID) (*authorizationDomain.AuthorizationManager, error)

	// VerifyAuthorization checks the claim and marks its AuthID consumed.
	// Runs inside the caller's transaction when ctx carries one.
	VerifyAuthorization(ctx context.Context, managerID uuid.UUID, claim *authorizationDomain.Claim) error

	// IsAuthorizationConsumed reports whether authID has been spent. It has no side effects.
	IsAuthorizationConsumed(ctx context.Context, managerID uuid.UUID, authID authorizationDomain.AuthID) (bool, error)
}
