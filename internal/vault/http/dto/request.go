// Package dto provides data transfer objects for vault HTTP requests and responses.
package dto

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	customValidation "github.com/allisson/securevault/internal/validation"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// InitializeVaultRequest binds a vault to an authorization manager.
// The admin secret travels in the Authorization header.
type InitializeVaultRequest struct {
	AuthorizationManagerID string `json:"authorization_manager_id"`
}

// Validate checks if the initialize request is valid.
func (r *InitializeVaultRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AuthorizationManagerID,
			validation.Required,
			customValidation.UUID,
		),
	)
}

// ManagerID returns the parsed manager ID of a validated request.
func (r *InitializeVaultRequest) ManagerID() uuid.UUID {
	return uuid.MustParse(r.AuthorizationManagerID)
}

// DepositRequest credits funds to a vault.
type DepositRequest struct {
	From   string `json:"from"`
	Amount uint64 `json:"amount"`
}

// Validate checks if the deposit request is valid.
func (r *DepositRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.From,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, vaultDomain.MaxCounterpartyLength),
		),
		validation.Field(&r.Amount,
			validation.Max(vaultDomain.MaxBalance),
		),
	)
}

// ToInput converts the request into the use case input.
func (r *DepositRequest) ToInput() *vaultDomain.DepositInput {
	return &vaultDomain.DepositInput{From: r.From, Amount: r.Amount}
}

// WithdrawRequest presents a single-use authorization claim to a vault.
type WithdrawRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	AuthID    string `json:"auth_id"`
	// Signature is the 0x-prefixed ed25519 signature. Optional.
	Signature string `json:"signature,omitempty"`
}

// Validate checks if the withdraw request is valid.
func (r *WithdrawRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Recipient,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, vaultDomain.MaxCounterpartyLength),
		),
		validation.Field(&r.Amount,
			validation.Max(vaultDomain.MaxBalance),
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

// ToInput converts a validated request into the use case input.
func (r *WithdrawRequest) ToInput() (*vaultDomain.WithdrawInput, error) {
	authID, err := authorizationDomain.ParseAuthID(r.AuthID)
	if err != nil {
		return nil, err
	}

	var signature []byte
	if r.Signature != "" {
		signature, err = hex.DecodeString(strings.TrimPrefix(r.Signature, "0x"))
		if err != nil {
			return nil, authorizationDomain.ErrInvalidSignature
		}
	}

	return &vaultDomain.WithdrawInput{
		Recipient: r.Recipient,
		Amount:    r.Amount,
		AuthID:    authID,
		Signature: signature,
	}, nil
}
