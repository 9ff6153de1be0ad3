package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

type signerKeyService struct{}

// NewSignerKeyService creates a SignerKeyService.
func NewSignerKeyService() SignerKeyService {
	return &signerKeyService{}
}

// GenerateKeyPair creates a new ed25519 signer key pair.
func (s *signerKeyService) GenerateKeyPair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate signer key: %w", err)
	}
	return publicKey, privateKey, nil
}

// SealPrivateKey encrypts a private key with the keeper.
func (s *signerKeyService) SealPrivateKey(
	ctx context.Context,
	keeper KMSKeeper,
	privateKey ed25519.PrivateKey,
) ([]byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signer private key must be %d bytes", ed25519.PrivateKeySize)
	}

	sealed, err := keeper.Encrypt(ctx, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to seal signer key: %w", err)
	}
	return sealed, nil
}

// OpenPrivateKey decrypts a sealed private key and validates its size.
func (s *signerKeyService) OpenPrivateKey(
	ctx context.Context,
	keeper KMSKeeper,
	sealed []byte,
) (ed25519.PrivateKey, error) {
	plaintext, err := keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to open signer key: %w", err)
	}

	if len(plaintext) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signer private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return ed25519.PrivateKey(plaintext), nil
}
