// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// CreateManagerRequest contains the parameters for creating an authorization manager.
type CreateManagerRequest struct {
	Name string `json:"name"`
	// SignerPublicKey is the base64-encoded ed25519 public key. Optional.
	SignerPublicKey string `json:"signer_public_key,omitempty"`
}

// Validate checks if the create manager request is valid.
func (r *CreateManagerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.SignerPublicKey,
			customValidation.Base64,
		),
	)
}

// ToInput converts the request into the use case input.
func (r *CreateManagerRequest) ToInput() (*authorizationDomain.CreateManagerInput, error) {
	input := &authorizationDomain.CreateManagerInput{Name: r.Name}
	if r.SignerPublicKey != "" {
		key, err := base64.StdEncoding.DecodeString(r.SignerPublicKey)
		if err != nil {
			return nil, authorizationDomain.ErrInvalidSignerKey
		}
		input.SignerPublicKey = key
	}
	return input, nil
}

// VerifyAuthorizationRequest carries a claim presented directly to a manager.
type VerifyAuthorizationRequest struct {
	VaultID   string `json:"vault_id"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	AuthID    string `json:"auth_id"`
	// Signature is the 0x-prefixed ed25519 signature. Optional.
	Signature string `json:"signature,omitempty"`
}

// Validate checks if the verify authorization request is valid.
func (r *VerifyAuthorizationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.VaultID,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&r.Recipient,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, authorizationDomain.MaxRecipientLength),
		),
		validation.Field(&r.AuthID,
			validation.Required,
			customValidation.AuthID,
		),
		validation.Field(&r.Signature,
			customValidation.HexBytes{},
		),
	)
}

// ToClaim converts a validated request into a claim.
func (r *VerifyAuthorizationRequest) ToClaim() (*authorizationDomain.Claim, error) {
	vaultID, err := uuid.Parse(r.VaultID)
	if err != nil {
		return nil, err
	}

	authID, err := authorizationDomain.ParseAuthID(r.AuthID)
	if err != nil {
		return nil, err
	}

	signature, err := DecodeHex(r.Signature)
	if err != nil {
		return nil, authorizationDomain.ErrInvalidSignature
	}

	return &authorizationDomain.Claim{
		VaultID:   vaultID,
		Recipient: r.Recipient,
		Amount:    r.Amount,
		AuthID:    authID,
		Signature: signature,
	}, nil
}

// DecodeHex decodes optional 0x-prefixed hex. An empty string yields nil.
func DecodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
