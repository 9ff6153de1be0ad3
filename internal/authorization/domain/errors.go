package domain

import (
	"github.com/allisson/securevault/internal/errors"
)

// Authorization errors.
var (
	// ErrAlreadyConsumed indicates the authorization identifier was already spent.
	ErrAlreadyConsumed = errors.Wrap(errors.ErrConflict, "authorization already consumed")

	// ErrInvalidSignature indicates the claim signature is missing, malformed or does not verify.
	ErrInvalidSignature = errors.Wrap(errors.ErrForbidden, "invalid authorization signature")

	// ErrManagerNotFound indicates no authorization manager exists with the given ID.
	ErrManagerNotFound = errors.Wrap(errors.ErrNotFound, "authorization manager not found")

	// ErrInvalidAuthID indicates the authorization identifier is not 32 bytes of hex.
	ErrInvalidAuthID = errors.Wrap(errors.ErrInvalidInput, "authorization id must be 32 bytes")

	// ErrInvalidRecipient indicates the claim recipient is empty or too long.
	ErrInvalidRecipient = errors.Wrap(errors.ErrInvalidInput, "invalid recipient")

	// ErrInvalidAmount indicates the claim amount exceeds the representable balance range.
	ErrInvalidAmount = errors.Wrap(errors.ErrInvalidInput, "amount out of range")

	// ErrInvalidSignerKey indicates the signer public key is not a valid ed25519 key.
	ErrInvalidSignerKey = errors.Wrap(errors.ErrInvalidInput, "signer public key must be 32 bytes")
)
