// Package service provides vault admin secret generation and verification.
package service

// AdminSecretService issues and checks the secret that authorizes vault administration.
type AdminSecretService interface {
	// GenerateSecret returns a new random secret and its Argon2id hash.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	// HashSecret hashes a plain secret using Argon2id.
	HashSecret(plainSecret string) (string, error)

	// CompareSecret reports whether plainSecret matches hashedSecret.
	CompareSecret(plainSecret string, hashedSecret string) bool
}
