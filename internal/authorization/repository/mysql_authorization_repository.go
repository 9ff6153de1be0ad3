package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	"github.com/allisson/securevault/internal/database"
	apperrors "github.com/allisson/securevault/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations.
const mysqlDuplicateEntry = 1062

// MySQLManagerRepository implements authorization manager persistence for MySQL.
type MySQLManagerRepository struct {
	db *sql.DB
}

// NewMySQLManagerRepository creates a new MySQL manager repository.
func NewMySQLManagerRepository(db *sql.DB) *MySQLManagerRepository {
	return &MySQLManagerRepository{db: db}
}

// Create inserts a new authorization manager.
func (m *MySQLManagerRepository) Create(
	ctx context.Context,
	manager *authorizationDomain.AuthorizationManager,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO authorization_managers (id, name, signer_public_key, created_at)
			  VALUES (?, ?, ?, ?)`

	id, err := manager.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorization manager id")
	}

	_, err = querier.ExecContext(ctx, query, id, manager.Name, manager.SignerPublicKey, manager.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create authorization manager")
	}
	return nil
}

// Get retrieves an authorization manager by ID.
func (m *MySQLManagerRepository) Get(
	ctx context.Context,
	managerID uuid.UUID,
) (*authorizationDomain.AuthorizationManager, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, signer_public_key, created_at FROM authorization_managers WHERE id = ?`

	idArg, err := managerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal authorization manager id")
	}

	var manager authorizationDomain.AuthorizationManager
	var id []byte
	err = querier.QueryRowContext(ctx, query, idArg).Scan(
		&id,
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

	if err := manager.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization manager id")
	}
	return &manager, nil
}

// MySQLConsumptionRepository implements the consumption ledger for MySQL.
type MySQLConsumptionRepository struct {
	db *sql.DB
}

// NewMySQLConsumptionRepository creates a new MySQL consumption repository.
func NewMySQLConsumptionRepository(db *sql.DB) *MySQLConsumptionRepository {
	return &MySQLConsumptionRepository{db: db}
}

// Consume inserts the consumption; the primary key on (manager_id, auth_id)
// rejects a second insert.
func (m *MySQLConsumptionRepository) Consume(
	ctx context.Context,
	consumption *authorizationDomain.Consumption,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO authorization_consumptions (manager_id, auth_id, vault_id, recipient, amount, consumed_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	managerID, err := consumption.ManagerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorization manager id")
	}

	vaultID, err := consumption.VaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		managerID,
		consumption.AuthID.Bytes(),
		vaultID,
		consumption.Recipient,
		int64(consumption.Amount), //nolint:gosec // bounded by Claim.Validate
		consumption.ConsumedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return authorizationDomain.ErrAlreadyConsumed
		}
		return apperrors.Wrap(err, "failed to consume authorization")
	}
	return nil
}

// IsConsumed reports whether a consumption row exists.
func (m *MySQLConsumptionRepository) IsConsumed(
	ctx context.Context,
	managerID uuid.UUID,
	authID authorizationDomain.AuthID,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (SELECT 1 FROM authorization_consumptions WHERE manager_id = ? AND auth_id = ?)`

	id, err := managerID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal authorization manager id")
	}

	var consumed bool
	if err := querier.QueryRowContext(ctx, query, id, authID.Bytes()).Scan(&consumed); err != nil {
		return false, apperrors.Wrap(err, "failed to check authorization consumption")
	}
	return consumed, nil
}
