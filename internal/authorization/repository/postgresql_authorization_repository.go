// Package repository provides persistence for authorization managers and the
// consumption ledger on PostgreSQL, MySQL and in process memory.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
)

// PostgreSQLManagerRepository implements authorization manager persistence for PostgreSQL.
type PostgreSQLManagerRepository struct {
	db *sql.DB
}

// NewPostgreSQLManagerRepository creates a new PostgreSQL manager repository.
func NewPostgreSQLManagerRepository(db *sql.DB) *PostgreSQLManagerRepository {
	return &PostgreSQLManagerRepository{db: db}
}

// Create inserts a new authorization manager.
func (p *PostgreSQLManagerRepository) Create(
	ctx context.Context,
	manager *authorizationDomain.AuthorizationManager,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO authorization_managers (id, name, signer_public_key, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, manager.ID, manager.Name, manager.SignerPublicKey, manager.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create authorization manager")
	}
	return nil
}

// Get retrieves an authorization manager by ID.
func (p *PostgreSQLManagerRepository) Get(
	ctx context.Context,
	managerID uuid.UUID,
) (*authorizationDomain.AuthorizationManager, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, signer_public_key, created_at FROM authorization_managers WHERE id = $1`

	var manager authorizationDomain.AuthorizationManager
	err := querier.QueryRowContext(ctx, query, managerID).Scan(
		&manager.ID,
		&manager.Name,
		&manager.SignerPublicKey,
		&manager.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authorizationDomain.ErrManagerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get authorization manager")
	}
	return &manager, nil
}

// PostgreSQLConsumptionRepository implements the consumption ledger for PostgreSQL.
type PostgreSQLConsumptionRepository struct {
	db *sql.DB
}

// NewPostgreSQLConsumptionRepository creates a new PostgreSQL consumption repository.
func NewPostgreSQLConsumptionRepository(db *sql.DB) *PostgreSQLConsumptionRepository {
	return &PostgreSQLConsumptionRepository{db: db}
}

// Consume inserts the consumption unless (manager_id, auth_id) already exists.
func (p *PostgreSQLConsumptionRepository) Consume(
	ctx context.Context,
	consumption *authorizationDomain.Consumption,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO authorization_consumptions (manager_id, auth_id, vault_id, recipient, amount, consumed_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (manager_id, auth_id) DO NOTHING`

	result, err := querier.ExecContext(
		ctx,
		query,
		consumption.ManagerID,
		consumption.AuthID.Bytes(),
		consumption.VaultID,
		consumption.Recipient,
		int64(consumption.Amount), //nolint:gosec // bounded by Claim.Validate
		consumption.ConsumedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to consume authorization")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to consume authorization")
	}
	if rows == 0 {
		return authorizationDomain.ErrAlreadyConsumed
	}
	return nil
}

// IsConsumed reports whether a consumption row exists.
func (p *PostgreSQLConsumptionRepository) IsConsumed(
	ctx context.Context,
	managerID uuid.UUID,
	authID authorizationDomain.AuthID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (SELECT 1 FROM authorization_consumptions WHERE manager_id = $1 AND auth_id = $2)`

	var consumed bool
	if err := querier.QueryRowContext(ctx, query, managerID, authID.Bytes()).Scan(&consumed); err != nil {
		return false, apperrors.Wrap(err, "failed to check authorization consumption")
	}
	return consumed, nil
}
