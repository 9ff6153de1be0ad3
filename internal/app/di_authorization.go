package app

import (
	"fmt"
	"sync"

	authorizationHTTP "github.com/allisson/securevault/internal/authorization/http"
	authorizationRepository "github.com/allisson/securevault/internal/authorization/repository"
	authorizationService "github.com/allisson/securevault/internal/authorization/service"
	authorizationUseCase "github.com/allisson/securevault/internal/authorization/usecase"
)

type authorizationComponents struct {
	managerRepo          authorizationUseCase.ManagerRepository
	consumptionRepo      authorizationUseCase.ConsumptionRepository
	claimSigner          authorizationService.ClaimSigner
	signerKeyService     authorizationService.SignerKeyService
	kmsService           authorizationService.KMSService
	authorizationUseCase authorizationUseCase.AuthorizationUseCase
	authorizationHandler *authorizationHTTP.AuthorizationHandler

	managerRepoInit          sync.Once
	consumptionRepoInit      sync.Once
	claimSignerInit          sync.Once
	signerKeyServiceInit     sync.Once
	kmsServiceInit           sync.Once
	authorizationUseCaseInit sync.Once
	authorizationHandlerInit sync.Once
}

// ClaimSigner returns the claim signing and verification service.
func (c *Container) ClaimSigner() authorizationService.ClaimSigner {
	c.claimSignerInit.Do(func() {
		c.claimSigner = authorizationService.NewClaimSigner()
	})
	return c.claimSigner
}

// SignerKeyService returns the signer key generation and sealing service.
func (c *Container) SignerKeyService() authorizationService.SignerKeyService {
	c.signerKeyServiceInit.Do(func() {
		c.signerKeyService = authorizationService.NewSignerKeyService()
	})
	return c.signerKeyService
}

// KMSService returns the KMS service used to seal signer keys.
func (c *Container) KMSService() authorizationService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = authorizationService.NewKMSService()
	})
	return c.kmsService
}

// ManagerRepository returns the authorization manager repository based on database driver.
func (c *Container) ManagerRepository() (authorizationUseCase.ManagerRepository, error) {
	var err error
	c.managerRepoInit.Do(func() {
		c.managerRepo, err = c.initManagerRepository()
		if err != nil {
			c.initErrors["managerRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["managerRepo"]; exists {
		return nil, storedErr
	}
	return c.managerRepo, nil
}

// ConsumptionRepository returns the consumption ledger repository based on database driver.
func (c *Container) ConsumptionRepository() (authorizationUseCase.ConsumptionRepository, error) {
	var err error
	c.consumptionRepoInit.Do(func() {
		c.consumptionRepo, err = c.initConsumptionRepository()
		if err != nil {
			c.initErrors["consumptionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consumptionRepo"]; exists {
		return nil, storedErr
	}
	return c.consumptionRepo, nil
}

// AuthorizationUseCase returns the authorization manager use case.
func (c *Container) AuthorizationUseCase() (authorizationUseCase.AuthorizationUseCase, error) {
	var err error
	c.authorizationUseCaseInit.Do(func() {
		c.authorizationUseCase, err = c.initAuthorizationUseCase()
		if err != nil {
			c.initErrors["authorizationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authorizationUseCase"]; exists {
		return nil, storedErr
	}
	return c.authorizationUseCase, nil
}

// AuthorizationHandler returns the HTTP handler for authorization manager operations.
func (c *Container) AuthorizationHandler() (*authorizationHTTP.AuthorizationHandler, error) {
	var err error
	c.authorizationHandlerInit.Do(func() {
		c.authorizationHandler, err = c.initAuthorizationHandler()
		if err != nil {
			c.initErrors["authorizationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authorizationHandler"]; exists {
		return nil, storedErr
	}
	return c.authorizationHandler, nil
}

// initManagerRepository creates the manager repository based on the database driver.
func (c *Container) initManagerRepository() (authorizationUseCase.ManagerRepository, error) {
	if c.IsMemory() {
		return c.memoryStore().managers, nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for manager repository: %w", err)
	}

	switch c.config.DBDriver {
	case DriverPostgres:
		return authorizationRepository.NewPostgreSQLManagerRepository(db), nil
	case DriverMySQL:
		return authorizationRepository.NewMySQLManagerRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initConsumptionRepository creates the consumption repository based on the database driver.
func (c *Container) initConsumptionRepository() (authorizationUseCase.ConsumptionRepository, error) {
	if c.IsMemory() {
		return c.memoryStore().consumptions, nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for consumption repository: %w", err)
	}

	switch c.config.DBDriver {
	case DriverPostgres:
		return authorizationRepository.NewPostgreSQLConsumptionRepository(db), nil
	case DriverMySQL:
		return authorizationRepository.NewMySQLConsumptionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuthorizationUseCase creates the authorization use case with all its dependencies.
func (c *Container) initAuthorizationUseCase() (authorizationUseCase.AuthorizationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for authorization use case: %w", err)
	}

	managerRepo, err := c.ManagerRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get manager repository for authorization use case: %w", err)
	}

	consumptionRepo, err := c.ConsumptionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get consumption repository for authorization use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for authorization use case: %w", err)
	}

	baseUseCase := authorizationUseCase.NewAuthorizationUseCase(
		authorizationUseCase.Config{RequireSignature: c.config.AuthorizationRequireSignature},
		txManager,
		managerRepo,
		consumptionRepo,
		outboxRepo,
		c.ClaimSigner(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for authorization use case: %w", err)
		}
		return authorizationUseCase.NewAuthorizationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAuthorizationHandler creates the authorization HTTP handler with all its dependencies.
func (c *Container) initAuthorizationHandler() (*authorizationHTTP.AuthorizationHandler, error) {
	useCase, err := c.AuthorizationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization use case for authorization handler: %w", err)
	}

	return authorizationHTTP.NewAuthorizationHandler(useCase, c.Logger()), nil
}
