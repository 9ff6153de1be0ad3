package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/securevault/internal/errors"
)

func TestVault_IsInitialized(t *testing.T) {
	vault := &Vault{}
	assert.False(t, vault.IsInitialized())

	managerID := uuid.Must(uuid.NewV7())
	vault.AuthorizationManagerID = &managerID
	assert.True(t, vault.IsInitialized())
}

func TestVault_Credit(t *testing.T) {
	vault := &Vault{Balance: 10}
	assert.NoError(t, vault.Credit(5))
	assert.Equal(t, uint64(15), vault.Balance)

	vault.Balance = MaxBalance - 1
	assert.NoError(t, vault.Credit(1))
	assert.Equal(t, MaxBalance, vault.Balance)

	assert.ErrorIs(t, vault.Credit(1), ErrBalanceOverflow)
	assert.Equal(t, MaxBalance, vault.Balance)
}

func TestVault_Debit(t *testing.T) {
	vault := &Vault{Balance: 10}
	assert.NoError(t, vault.Debit(10))
	assert.Zero(t, vault.Balance)

	assert.ErrorIs(t, vault.Debit(1), ErrInsufficientBalance)
	assert.Zero(t, vault.Balance)
}

func TestDepositInput_Validate(t *testing.T) {
	assert.NoError(t, (&DepositInput{From: "acct-1", Amount: 1}).Validate())
	assert.NoError(t, (&DepositInput{From: "acct-1", Amount: 0}).Validate())
	assert.ErrorIs(t, (&DepositInput{Amount: 1}).Validate(), ErrInvalidCounterparty)
	assert.ErrorIs(t, (&DepositInput{From: "acct-1", Amount: MaxBalance + 1}).Validate(), ErrBalanceOverflow)
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, apperrors.Is(ErrNotInitialized, apperrors.ErrPreconditionFailed))
	assert.True(t, apperrors.Is(ErrAlreadyInitialized, apperrors.ErrConflict))
	assert.True(t, apperrors.Is(ErrInsufficientBalance, apperrors.ErrInvalidInput))
	assert.True(t, apperrors.Is(ErrUnauthorized, apperrors.ErrUnauthorized))
	assert.True(t, apperrors.Is(ErrReentrantCall, apperrors.ErrLocked))
	assert.True(t, apperrors.Is(ErrVaultNotFound, apperrors.ErrNotFound))
}
