package app

import (
	"fmt"
	"sync"

	vaultHTTP "github.com/allisson/securevault/internal/vault/http"
	vaultRepository "github.com/allisson/securevault/internal/vault/repository"
	vaultService "github.com/allisson/securevault/internal/vault/service"
	vaultUseCase "github.com/allisson/securevault/internal/vault/usecase"
)

type vaultComponents struct {
	vaultRepo          vaultUseCase.VaultRepository
	transferRepo       vaultUseCase.TransferRepository
	adminSecretService vaultService.AdminSecretService
	vaultUseCase       vaultUseCase.VaultUseCase
	vaultHandler       *vaultHTTP.VaultHandler

	vaultRepoInit          sync.Once
	transferRepoInit       sync.Once
	adminSecretServiceInit sync.Once
	vaultUseCaseInit       sync.Once
	vaultHandlerInit       sync.Once
}

// AdminSecretService returns the service that issues and checks vault admin secrets.
func (c *Container) AdminSecretService() vaultService.AdminSecretService {
	c.adminSecretServiceInit.Do(func() {
		c.adminSecretService = vaultService.NewAdminSecretService()
	})
	return c.adminSecretService
}

// VaultRepository returns the vault repository based on database driver.
func (c *Container) VaultRepository() (vaultUseCase.VaultRepository, error) {
	var err error
	c.vaultRepoInit.Do(func() {
		c.vaultRepo, err = c.initVaultRepository()
		if err != nil {
			c.initErrors["vaultRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultRepo"]; exists {
		return nil, storedErr
	}
	return c.vaultRepo, nil
}

// TransferRepository returns the transfer ledger repository based on database driver.
func (c *Container) TransferRepository() (vaultUseCase.TransferRepository, error) {
	var err error
	c.transferRepoInit.Do(func() {
		c.transferRepo, err = c.initTransferRepository()
		if err != nil {
			c.initErrors["transferRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["transferRepo"]; exists {
		return nil, storedErr
	}
	return c.transferRepo, nil
}

// VaultUseCase returns the vault use case.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	var err error
	c.vaultUseCaseInit.Do(func() {
		c.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// VaultHandler returns the HTTP handler for vault operations.
func (c *Container) VaultHandler() (*vaultHTTP.VaultHandler, error) {
	var err error
	c.vaultHandlerInit.Do(func() {
		c.vaultHandler, err = c.initVaultHandler()
		if err != nil {
			c.initErrors["vaultHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultHandler"]; exists {
		return nil, storedErr
	}
	return c.vaultHandler, nil
}

// initVaultRepository creates the vault repository based on the database driver.
func (c *Container) initVaultRepository() (vaultUseCase.VaultRepository, error) {
	if c.IsMemory() {
		return c.memoryStore().vaults, nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for vault repository: %w", err)
	}

	switch c.config.DBDriver {
	case DriverPostgres:
		return vaultRepository.NewPostgreSQLVaultRepository(db), nil
	case DriverMySQL:
		return vaultRepository.NewMySQLVaultRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTransferRepository creates the transfer repository based on the database driver.
func (c *Container) initTransferRepository() (vaultUseCase.TransferRepository, error) {
	if c.IsMemory() {
		return c.memoryStore().transfers, nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for transfer repository: %w", err)
	}

	switch c.config.DBDriver {
	case DriverPostgres:
		return vaultRepository.NewPostgreSQLTransferRepository(db), nil
	case DriverMySQL:
		return vaultRepository.NewMySQLTransferRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVaultUseCase creates the vault use case with all its dependencies.
// The vault consults the authorization use case in-process, inside its own
// withdrawal transaction.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for vault use case: %w", err)
	}

	vaultRepo, err := c.VaultRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault repository for vault use case: %w", err)
	}

	transferRepo, err := c.TransferRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer repository for vault use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for vault use case: %w", err)
	}

	authorizationManager, err := c.AuthorizationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization use case for vault use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewVaultUseCase(
		txManager,
		vaultRepo,
		transferRepo,
		outboxRepo,
		authorizationManager,
		vaultService.NewLedgerPayoutGateway(transferRepo),
		c.AdminSecretService(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
		}
		return vaultUseCase.NewVaultUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initVaultHandler creates the vault HTTP handler with all its dependencies.
func (c *Container) initVaultHandler() (*vaultHTTP.VaultHandler, error) {
	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for vault handler: %w", err)
	}

	return vaultHTTP.NewVaultHandler(useCase, c.Logger()), nil
}
