package service

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
)

// claimDomainTag versions the canonical message layout.
const claimDomainTag = "securevault/claim/v1"

type claimSigner struct{}

// NewClaimSigner creates a ClaimSigner based on ed25519.
func NewClaimSigner() ClaimSigner {
	return &claimSigner{}
}

// CanonicalMessage builds the signed message.
// Format: tag || manager_id || vault_id || recipient || amount || auth_id
// Variable-length fields are length-prefixed to prevent ambiguity.
func (s *claimSigner) CanonicalMessage(managerID uuid.UUID, claim *authorizationDomain.Claim) []byte {
	buf := make([]byte, 0, 128+len(claim.Recipient))

	buf = appendLengthPrefixed(buf, []byte(claimDomainTag))
	buf = append(buf, managerID[:]...)
	buf = append(buf, claim.VaultID[:]...)
	buf = appendLengthPrefixed(buf, []byte(claim.Recipient))
	buf = binary.BigEndian.AppendUint64(buf, claim.Amount)
	buf = append(buf, claim.AuthID[:]...)

	return buf
}

// Sign produces an ed25519 signature over the canonical message.
func (s *claimSigner) Sign(
	privateKey ed25519.PrivateKey,
	managerID uuid.UUID,
	claim *authorizationDomain.Claim,
) ([]byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signer private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return ed25519.Sign(privateKey, s.CanonicalMessage(managerID, claim)), nil
}

// Verify checks the claim signature against publicKey.
func (s *claimSigner) Verify(publicKey []byte, managerID uuid.UUID, claim *authorizationDomain.Claim) error {
	if len(publicKey) != ed25519.PublicKeySize || len(claim.Signature) != ed25519.SignatureSize {
		return authorizationDomain.ErrInvalidSignature
	}

	if !ed25519.Verify(ed25519.PublicKey(publicKey), s.CanonicalMessage(managerID, claim), claim.Signature) {
		return authorizationDomain.ErrInvalidSignature
	}

	return nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}
