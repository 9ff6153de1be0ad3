package domain

import (
	"github.com/allisson/securevault/internal/errors"
)

// Vault errors.
var (
	// ErrVaultNotFound indicates no vault exists with the given ID.
	ErrVaultNotFound = errors.Wrap(errors.ErrNotFound, "vault not found")

	// ErrNotInitialized indicates the vault has no authorization manager bound yet.
	ErrNotInitialized = errors.Wrap(errors.ErrPreconditionFailed, "vault not initialized")

	// ErrAlreadyInitialized indicates initialize was already called on the vault.
	ErrAlreadyInitialized = errors.Wrap(errors.ErrConflict, "vault already initialized")

	// ErrInsufficientBalance indicates a withdrawal larger than the current balance.
	ErrInsufficientBalance = errors.Wrap(errors.ErrInvalidInput, "insufficient balance")

	// ErrUnauthorized indicates the caller is not the vault administrator.
	ErrUnauthorized = errors.Wrap(errors.ErrUnauthorized, "caller is not the vault admin")

	// ErrReentrantCall indicates a withdrawal was issued from inside an in-flight withdrawal.
	ErrReentrantCall = errors.Wrap(errors.ErrLocked, "reentrant call rejected")

	// ErrBalanceOverflow indicates a deposit would push the balance past its maximum.
	ErrBalanceOverflow = errors.Wrap(errors.ErrInvalidInput, "balance overflow")

	// ErrInvalidCounterparty indicates an empty or oversized depositor or recipient.
	ErrInvalidCounterparty = errors.Wrap(errors.ErrInvalidInput, "invalid counterparty")

	// ErrTransferFailed indicates the payout to the recipient could not complete.
	ErrTransferFailed = errors.New("transfer failed")
)
