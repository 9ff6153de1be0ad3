package usecase

import (
	"context"
	"log/slog"
	"time"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	"github.com/allisson/securevault/internal/database"
	deploymentDomain "github.com/allisson/securevault/internal/deployment/domain"
)

type deployUseCase struct {
	txManager      database.TxManager
	managerCreator ManagerCreator
	vaults         VaultBootstrapper
	records        RecordRepository
	logger         *slog.Logger
}

// Deploy runs the whole bootstrap in one transaction. The record is written last
// inside the transaction and removed again if the commit fails.
func (d *deployUseCase) Deploy(
	ctx context.Context,
	input *deploymentDomain.DeployInput,
) (*deploymentDomain.DeployOutput, error) {
	if input.RecordPath == "" {
		return nil, deploymentDomain.ErrRecordPathRequired
	}

	var output *deploymentDomain.DeployOutput
	recordWritten := false

	err := d.txManager.WithTx(ctx, func(txCtx context.Context) error {
		d.logger.Info("deploying authorization manager", slog.String("name", input.ManagerName))
		manager, err := d.managerCreator.CreateManager(txCtx, &authorizationDomain.CreateManagerInput{
			Name:            input.ManagerName,
			SignerPublicKey: input.SignerPublicKey,
		})
		if err != nil {
			return err
		}

		d.logger.Info("deploying vault")
		created, err := d.vaults.Create(txCtx)
		if err != nil {
			return err
		}

		d.logger.Info("initializing vault",
			slog.String("vault_id", created.Vault.ID.String()),
			slog.String("manager_id", manager.ID.String()),
		)
		if err := d.vaults.Initialize(txCtx, created.Vault.ID, created.PlainAdminSecret, manager.ID); err != nil {
			return err
		}

		record := &deploymentDomain.DeploymentRecord{
			Network:              input.Network,
			AuthorizationManager: manager.ID.String(),
			Vault:                created.Vault.ID.String(),
			Timestamp:            time.Now().UTC(),
		}
		if err := d.records.Save(input.RecordPath, record); err != nil {
			return err
		}
		recordWritten = true

		output = &deploymentDomain.DeployOutput{
			Record:      record,
			RecordPath:  input.RecordPath,
			AdminSecret: created.PlainAdminSecret,
		}
		return nil
	})
	if err != nil {
		if recordWritten {
			if rmErr := d.records.Remove(input.RecordPath); rmErr != nil {
				d.logger.Error("failed to remove deployment record",
					slog.String("path", input.RecordPath),
					slog.Any("error", rmErr),
				)
			}
		}
		return nil, err
	}

	d.logger.Info("deployment completed",
		slog.String("network", output.Record.Network),
		slog.String("path", output.RecordPath),
	)
	return output, nil
}

// NewDeployUseCase creates a new DeployUseCase.
func NewDeployUseCase(
	txManager database.TxManager,
	managerCreator ManagerCreator,
	vaults VaultBootstrapper,
	records RecordRepository,
	logger *slog.Logger,
) DeployUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &deployUseCase{
		txManager:      txManager,
		managerCreator: managerCreator,
		vaults:         vaults,
		records:        records,
		logger:         logger,
	}
}
