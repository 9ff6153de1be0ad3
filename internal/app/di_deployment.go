package app

import (
	"fmt"
	"sync"

	deploymentRepository "github.com/allisson/securevault/internal/deployment/repository"
	deploymentUseCase "github.com/allisson/securevault/internal/deployment/usecase"
)

type deploymentComponents struct {
	deployUseCase     deploymentUseCase.DeployUseCase
	deployUseCaseInit sync.Once
}

// DeployUseCase returns the deployment use case.
func (c *Container) DeployUseCase() (deploymentUseCase.DeployUseCase, error) {
	var err error
	c.deployUseCaseInit.Do(func() {
		c.deployUseCase, err = c.initDeployUseCase()
		if err != nil {
			c.initErrors["deployUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deployUseCase"]; exists {
		return nil, storedErr
	}
	return c.deployUseCase, nil
}

// initDeployUseCase creates the deployment use case with all its dependencies.
func (c *Container) initDeployUseCase() (deploymentUseCase.DeployUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for deploy use case: %w", err)
	}

	authorizationUseCase, err := c.AuthorizationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization use case for deploy use case: %w", err)
	}

	vaultUseCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for deploy use case: %w", err)
	}

	return deploymentUseCase.NewDeployUseCase(
		txManager,
		authorizationUseCase,
		vaultUseCase,
		deploymentRepository.NewFileRecordRepository(),
		c.Logger(),
	), nil
}
