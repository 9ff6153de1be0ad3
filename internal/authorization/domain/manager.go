package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxRecipientLength bounds the recipient identifier of a claim.
const MaxRecipientLength = 255

// AuthorizationManager decides whether claims may be honored and records each
// decision in its consumption ledger. Its ID is mixed into every signed claim
// so that a signature issued for one manager cannot be replayed against another.
type AuthorizationManager struct {
	ID   uuid.UUID
	Name string
	// SignerPublicKey is the ed25519 key that claim signatures must verify against.
	// A manager without a key can only accept unsigned claims.
	SignerPublicKey []byte
	CreatedAt       time.Time
}

// HasSigner reports whether the manager has a designated signer key.
func (m *AuthorizationManager) HasSigner() bool {
	return len(m.SignerPublicKey) > 0
}

// Claim is the transient request to spend an authorization. It is never stored as-is.
type Claim struct {
	VaultID   uuid.UUID
	Recipient string
	Amount    uint64
	AuthID    AuthID
	Signature []byte
}

// Validate checks the structural constraints of a claim.
func (c *Claim) Validate() error {
	if c.Recipient == "" || len(c.Recipient) > MaxRecipientLength {
		return ErrInvalidRecipient
	}
	if c.Amount > math.MaxInt64 {
		return ErrInvalidAmount
	}
	return nil
}

// Consumption records that an AuthID was spent. Its existence is the consumed flag;
// rows are only ever inserted.
type Consumption struct {
	ManagerID  uuid.UUID
	AuthID     AuthID
	VaultID    uuid.UUID
	Recipient  string
	Amount     uint64
	ConsumedAt time.Time
}

// CreateManagerInput contains the parameters for creating an authorization manager.
type CreateManagerInput struct {
	Name            string
	SignerPublicKey []byte
}
