package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// MySQLVaultRepository implements vault persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLVaultRepository struct {
	db *sql.DB
}

// NewMySQLVaultRepository creates a new MySQL vault repository.
func NewMySQLVaultRepository(db *sql.DB) *MySQLVaultRepository {
	return &MySQLVaultRepository{db: db}
}

// Create inserts a new vault.
func (m *MySQLVaultRepository) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO vaults (` + vaultColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := vault.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}
	managerID, err := marshalNullableUUID(vault.AuthorizationManagerID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		vault.AdminSecretHash,
		managerID,
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
func (m *MySQLVaultRepository) Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE id = ?`
	return m.get(ctx, query, vaultID)
}

// GetForUpdate retrieves a vault by ID and locks its row.
func (m *MySQLVaultRepository) GetForUpdate(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE id = ? FOR UPDATE`
	return m.get(ctx, query, vaultID)
}

func (m *MySQLVaultRepository) get(ctx context.Context, query string, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	querier := database.GetTx(ctx, m.db)

	idArg, err := vaultID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal vault id")
	}

	var vault vaultDomain.Vault
	var id, managerID []byte
	var balance int64
	err = querier.QueryRowContext(ctx, query, idArg).Scan(
		&id,
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

	if err := vault.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal vault id")
	}
	if managerID != nil {
		var bound uuid.UUID
		if err := bound.UnmarshalBinary(managerID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal authorization manager id")
		}
		vault.AuthorizationManagerID = &bound
	}
	vault.Balance = uint64(balance) //nolint:gosec // balance column is CHECK (balance >= 0)
	return &vault, nil
}

// Update persists the balance and manager binding.
func (m *MySQLVaultRepository) Update(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE vaults
			  SET authorization_manager_id = ?, balance = ?, initialized_at = ?, updated_at = ?
			  WHERE id = ?`

	id, err := vault.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}
	managerID, err := marshalNullableUUID(vault.AuthorizationManagerID)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		managerID,
		int64(vault.Balance), //nolint:gosec // bounded by MaxBalance
		vault.InitializedAt,
		vault.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault")
	}
	return nil
}

// MySQLTransferRepository implements the transfer ledger for MySQL.
type MySQLTransferRepository struct {
	db *sql.DB
}

// NewMySQLTransferRepository creates a new MySQL transfer repository.
func NewMySQLTransferRepository(db *sql.DB) *MySQLTransferRepository {
	return &MySQLTransferRepository{db: db}
}

// Create appends a transfer to the ledger.
func (m *MySQLTransferRepository) Create(ctx context.Context, transfer *vaultDomain.Transfer) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO vault_transfers (id, vault_id, kind, counterparty, amount, auth_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := transfer.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault transfer id")
	}
	vaultID, err := transfer.VaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		vaultID,
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
func (m *MySQLTransferRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Transfer, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, vault_id, kind, counterparty, amount, auth_id, created_at
			  FROM vault_transfers
			  WHERE vault_id = ?
			  ORDER BY created_at ASC, id ASC
			  LIMIT ? OFFSET ?`

	vaultIDArg, err := vaultID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal vault id")
	}

	rows, err := querier.QueryContext(ctx, query, vaultIDArg, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list vault transfers")
	}
	defer rows.Close() //nolint:errcheck

	transfers := make([]*vaultDomain.Transfer, 0)
	for rows.Next() {
		var transfer vaultDomain.Transfer
		var id, rowVaultID, authID []byte
		var kind string
		var amount int64
		if err := rows.Scan(
			&id,
			&rowVaultID,
			&kind,
			&transfer.Counterparty,
			&amount,
			&authID,
			&transfer.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan vault transfer")
		}

		if err := transfer.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal vault transfer id")
		}
		if err := transfer.VaultID.UnmarshalBinary(rowVaultID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal vault id")
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

func marshalNullableUUID(id *uuid.UUID) ([]byte, error) {
	if id == nil {
		return nil, nil
	}
	b, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal authorization manager id")
	}
	return b, nil
}
