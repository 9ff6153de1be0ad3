package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/securevault/internal/errors"
)

// adminSecretSize is the number of random bytes in a generated admin secret.
const adminSecretSize = 32

type adminSecretService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateSecret creates a random 32-byte secret, URL-safe base64 encoded.
func (s *adminSecretService) GenerateSecret() (string, string, error) {
	randomBytes := make([]byte, adminSecretSize)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate admin secret")
	}

	plainSecret := base64.URLEncoding.EncodeToString(randomBytes)

	hashedSecret, err := s.HashSecret(plainSecret)
	if err != nil {
		return "", "", err
	}
	return plainSecret, hashedSecret, nil
}

// HashSecret hashes a plain secret using Argon2id.
func (s *adminSecretService) HashSecret(plainSecret string) (string, error) {
	hashedSecret, err := s.hasher.Hash([]byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash admin secret")
	}
	return hashedSecret, nil
}

// CompareSecret verifies plainSecret against hashedSecret in constant time.
// Malformed hashes never match.
func (s *adminSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	if plainSecret == "" || hashedSecret == "" {
		return false
	}
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	if err != nil {
		return false
	}
	return ok
}

// NewAdminSecretService creates an AdminSecretService using the Moderate Argon2id policy.
func NewAdminSecretService() AdminSecretService {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		panic(err)
	}
	return &adminSecretService{hasher: hasher}
}
