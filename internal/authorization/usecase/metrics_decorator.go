package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	"github.com/allisson/securevault/internal/metrics"
)

// authorizationUseCaseWithMetrics decorates AuthorizationUseCase with metrics instrumentation.
type authorizationUseCaseWithMetrics struct {
	next    AuthorizationUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthorizationUseCaseWithMetrics wraps an AuthorizationUseCase with metrics recording.
func NewAuthorizationUseCaseWithMetrics(
	useCase AuthorizationUseCase,
	m metrics.BusinessMetrics,
) AuthorizationUseCase {
	return &authorizationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authorizationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, a.metrics, metrics.DomainAuthorization, operation, start, err)
}

// CreateManager records metrics for manager creation.
func (a *authorizationUseCaseWithMetrics) CreateManager(
	ctx context.Context,
	input *authorizationDomain.CreateManagerInput,
) (*authorizationDomain.AuthorizationManager, error) {
	start := time.Now()
	manager, err := a.next.CreateManager(ctx, input)
	a.record(ctx, "manager_create", start, err)
	return manager, err
}

// GetManager records metrics for manager retrieval.
func (a *authorizationUseCaseWithMetrics) GetManager(
	ctx context.Context,
	managerID uuid.UUID,
) (*authorizationDomain.AuthorizationManager, error) {
	start := time.Now()
	manager, err := a.next.GetManager(ctx, managerID)
	a.record(ctx, "manager_get", start, err)
	return manager, err
}

// VerifyAuthorization records metrics for claim verification.
func (a *authorizationUseCaseWithMetrics) VerifyAuthorization(
	ctx context.Context,
	managerID uuid.UUID,
	claim *authorizationDomain.Claim,
) error {
	start := time.Now()
	err := a.next.VerifyAuthorization(ctx, managerID, claim)
	a.record(ctx, "authorization_verify", start, err)
	return err
}

// IsAuthorizationConsumed records metrics for consumption lookups.
func (a *authorizationUseCaseWithMetrics) IsAuthorizationConsumed(
	ctx context.Context,
	managerID uuid.UUID,
	authID authorizationDomain.AuthID,
) (bool, error) {
	start := time.Now()
	consumed, err := a.next.IsAuthorizationConsumed(ctx, managerID, authID)
	a.record(ctx, "authorization_lookup", start, err)
	return consumed, err
}
