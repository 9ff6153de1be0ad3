// Package repository provides persistence for vaults and their transfer ledger
// on PostgreSQL, MySQL and in process memory.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

const vaultColumns = `id, admin_secret_hash, authorization_manager_id, balance, initialized_at, created_at, updated_at`

// PostgreSQLVaultRepository implements vault persistence for PostgreSQL.
type PostgreSQLVaultRepository struct {
	db *sql.DB
}

// NewPostgreSQLVaultRepository creates a new PostgreSQL vault repository.
func NewPostgreSQLVaultRepository(db *sql.DB) *PostgreSQLVaultRepository {
	return &PostgreSQLVaultRepository{db: db}
}

// Create inserts a new vault.
func (p *PostgreSQLVaultRepository) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vaults (` + vaultColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		vault.ID,
		vault.AdminSecretHash,
		nullUUID(vault.AuthorizationManagerID),
		int64(vault.Balance), //nolint:gosec // bounded by MaxBalance
		vault.InitializedAt,
		vault.CreatedAt,
		vault.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create vault")
	}
	return nil
}

// Get retrieves a vault by ID.
func (p *PostgreSQLVaultRepository) Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE id = $1`
	return p.get(ctx, query, vaultID)
}

// GetForUpdate retrieves a vault by ID and locks its row.
func (p *PostgreSQLVaultRepository) GetForUpdate(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE id = $1 FOR UPDATE`
	return p.get(ctx, query, vaultID)
}

func (p *PostgreSQLVaultRepository) get(ctx context.Context, query string, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	querier := database.GetTx(ctx, p.db)

	var vault vaultDomain.Vault
	var managerID uuid.NullUUID
	var balance int64
	err := querier.QueryRowContext(ctx, query, vaultID).Scan(
		&vault.ID,
		&vault.AdminSecretHash,
		&managerID,
		&balance,
		&vault.InitializedAt,
		&vault.CreatedAt,
		&vault.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrVaultNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault")
	}

	if managerID.Valid {
		vault.AuthorizationManagerID = &managerID.UUID
	}
	vault.Balance = uint64(balance) //nolint:gosec // balance column is CHECK (balance >= 0)
	return &vault, nil
}

// Update persists the balance and manager binding.
func (p *PostgreSQLVaultRepository) Update(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vaults
			  SET authorization_manager_id = $1, balance = $2, initialized_at = $3, updated_at = $4
			  WHERE id = $5`

	_, err := querier.ExecContext(
		ctx,
		query,
		nullUUID(vault.AuthorizationManagerID),
		int64(vault.Balance), //nolint:gosec // bounded by MaxBalance
		vault.InitializedAt,
		vault.UpdatedAt,
		vault.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault")
	}
	return nil
}

// PostgreSQLTransferRepository implements the transfer ledger for PostgreSQL.
type PostgreSQLTransferRepository struct {
	db *sql.DB
}

// NewPostgreSQLTransferRepository creates a new PostgreSQL transfer repository.
func NewPostgreSQLTransferRepository(db *sql.DB) *PostgreSQLTransferRepository {
	return &PostgreSQLTransferRepository{db: db}
}

// Create appends a transfer to the ledger.
func (p *PostgreSQLTransferRepository) Create(ctx context.Context, transfer *vaultDomain.Transfer) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vault_transfers (id, vault_id, kind, counterparty, amount, auth_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		transfer.ID,
		transfer.VaultID,
		string(transfer.Kind),
		transfer.Counterparty,
		int64(transfer.Amount), //nolint:gosec // bounded by MaxBalance
		authIDBytes(transfer.AuthID),
		transfer.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create vault transfer")
	}
	return nil
}

// ListByVault returns transfers for a vault, oldest first.
func (p *PostgreSQLTransferRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Transfer, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, vault_id, kind, counterparty, amount, auth_id, created_at
			  FROM vault_transfers
			  WHERE vault_id = $1
			  ORDER BY created_at ASC, id ASC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, vaultID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list vault transfers")
	}
	defer rows.Close() //nolint:errcheck

	transfers := make([]*vaultDomain.Transfer, 0)
	for rows.Next() {
		var transfer vaultDomain.Transfer
		var kind string
		var amount int64
		var authID []byte
		if err := rows.Scan(
			&transfer.ID,
			&transfer.VaultID,
			&kind,
			&transfer.Counterparty,
			&amount,
			&authID,
			&transfer.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan vault transfer")
		}

		if err := fillTransfer(&transfer, kind, amount, authID); err != nil {
			return nil, err
		}
		transfers = append(transfers, &transfer)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list vault transfers")
	}
	return transfers, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func authIDBytes(authID *authorizationDomain.AuthID) []byte {
	if authID == nil {
		return nil
	}
	return authID.Bytes()
}

// fillTransfer sets the columns that need conversion after a scan.
func fillTransfer(transfer *vaultDomain.Transfer, kind string, amount int64, authID []byte) error {
	transfer.Kind = vaultDomain.TransferKind(kind)
	transfer.Amount = uint64(amount) //nolint:gosec // amount column is CHECK (amount >= 0)
	if authID == nil {
		return nil
	}

	id, err := authorizationDomain.AuthIDFromBytes(authID)
	if err != nil {
		return apperrors.Wrap(err, "failed to decode transfer auth id")
	}
	transfer.AuthID = &id
	return nil
}
