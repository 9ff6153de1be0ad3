// Package domain defines the vault entities: the custodied balance and its
// movement ledger.
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
)

// MaxBalance is the largest balance a vault can hold.
const MaxBalance uint64 = math.MaxInt64

// MaxCounterpartyLength bounds depositor and recipient identifiers.
const MaxCounterpartyLength = authorizationDomain.MaxRecipientLength

// Vault holds pooled funds in integer minor units of a single asset.
// AuthorizationManagerID is nil until the vault is initialized and never changes afterwards.
type Vault struct {
	ID                     uuid.UUID
	AdminSecretHash        string
	AuthorizationManagerID *uuid.UUID
	Balance                uint64
	InitializedAt          *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsInitialized reports whether the vault is bound to an authorization manager.
func (v *Vault) IsInitialized() bool {
	return v.AuthorizationManagerID != nil
}

// Credit increases the balance by amount.
func (v *Vault) Credit(amount uint64) error {
	if amount > MaxBalance-v.Balance {
		return ErrBalanceOverflow
	}
	v.Balance += amount
	return nil
}

// Debit decreases the balance by amount.
func (v *Vault) Debit(amount uint64) error {
	if amount > v.Balance {
		return ErrInsufficientBalance
	}
	v.Balance -= amount
	return nil
}

// TransferKind distinguishes inbound and outbound movements.
type TransferKind string

const (
	TransferKindDeposit    TransferKind = "deposit"
	TransferKindWithdrawal TransferKind = "withdrawal"
)

// Transfer is one movement of funds into or out of a vault.
// The balance always equals the sum of deposits minus the sum of withdrawals.
type Transfer struct {
	ID           uuid.UUID
	VaultID      uuid.UUID
	Kind         TransferKind
	Counterparty string
	Amount       uint64
	// AuthID is set on withdrawals only.
	AuthID    *authorizationDomain.AuthID
	CreatedAt time.Time
}

// CreateVaultOutput is returned once when a vault is created.
// PlainAdminSecret is never stored and cannot be retrieved again.
type CreateVaultOutput struct {
	Vault            *Vault
	PlainAdminSecret string
}

// DepositInput contains the parameters of a deposit.
type DepositInput struct {
	From   string
	Amount uint64
}

// Validate checks the structural constraints of a deposit.
func (d *DepositInput) Validate() error {
	if d.From == "" || len(d.From) > MaxCounterpartyLength {
		return ErrInvalidCounterparty
	}
	if d.Amount > MaxBalance {
		return ErrBalanceOverflow
	}
	return nil
}

// WithdrawInput contains the claim presented to withdraw funds.
type WithdrawInput struct {
	Recipient string
	Amount    uint64
	AuthID    authorizationDomain.AuthID
	Signature []byte
}
