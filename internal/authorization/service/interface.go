// Package service provides cryptographic services for authorization claims.
//
// Claims are signed with ed25519 over a canonical, length-prefixed message that
// embeds the authorization manager ID as a domain-separation tag.
package service

import (
	"context"
	"crypto/ed25519"

	"github.com/google/uuid"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
)

// ClaimSigner defines canonicalization, signing and verification of claims.
type ClaimSigner interface {
	// CanonicalMessage returns the exact bytes covered by a claim signature.
	CanonicalMessage(managerID uuid.UUID, claim *authorizationDomain.Claim) []byte

	// Sign produces an ed25519 signature over the canonical message.
	Sign(privateKey ed25519.PrivateKey, managerID uuid.UUID, claim *authorizationDomain.Claim) ([]byte, error)

	// Verify checks the claim signature against publicKey.
	// Returns nil if valid, ErrInvalidSignature otherwise.
	Verify(publicKey []byte, managerID uuid.UUID, claim *authorizationDomain.Claim) error
}

// KMSKeeper seals and unseals key material with an external key management service.
// *secrets.Keeper from gocloud.dev implements this interface.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for the configured KMS provider.
type KMSService interface {
	// OpenKeeper opens a KMSKeeper for keyURI.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

// SignerKeyService generates signer key pairs and seals private keys at rest.
type SignerKeyService interface {
	// GenerateKeyPair creates a new ed25519 signer key pair.
	GenerateKeyPair() (ed25519.PublicKey, ed25519.PrivateKey, error)

	// SealPrivateKey encrypts a private key with the keeper.
	SealPrivateKey(ctx context.Context, keeper KMSKeeper, privateKey ed25519.PrivateKey) ([]byte, error)

	// OpenPrivateKey decrypts a sealed private key and validates its size.
	OpenPrivateKey(ctx context.Context, keeper KMSKeeper, sealed []byte) (ed25519.PrivateKey, error)
}
