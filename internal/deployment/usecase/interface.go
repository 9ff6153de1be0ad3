// Package usecase bootstraps an authorization manager and a vault bound to it.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	deploymentDomain "github.com/allisson/securevault/internal/deployment/domain"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// ManagerCreator creates authorization managers.
type ManagerCreator interface {
	CreateManager(
		ctx context.Context,
		input *authorizationDomain.CreateManagerInput,
	) (*authorizationDomain.AuthorizationManager, error)
}

// VaultBootstrapper creates and initializes vaults.
type VaultBootstrapper interface {
	Create(ctx context.Context) (*vaultDomain.CreateVaultOutput, error)
	Initialize(ctx context.Context, vaultID uuid.UUID, adminSecret string, managerID uuid.UUID) error
}

// RecordRepository persists deployment records.
type RecordRepository interface {
	Save(path string, record *deploymentDomain.DeploymentRecord) error
	Remove(path string) error
}

// DeployUseCase defines the deployment operation.
type DeployUseCase interface {
	// Deploy creates a manager and a vault, initializes the vault with the manager
	// and writes the deployment record. Either all of it happens or none of it.
	Deploy(ctx context.Context, input *deploymentDomain.DeployInput) (*deploymentDomain.DeployOutput, error)
}
