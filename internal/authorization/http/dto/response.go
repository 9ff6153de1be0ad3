package dto

import (
	"encoding/base64"
	"time"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
)

// ManagerResponse represents an authorization manager in API responses.
type ManagerResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	SignerPublicKey string    `json:"signer_public_key,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// MapManagerToResponse converts a domain manager to an API response.
func MapManagerToResponse(manager *authorizationDomain.AuthorizationManager) ManagerResponse {
	response := ManagerResponse{
		ID:        manager.ID.String(),
		Name:      manager.Name,
		CreatedAt: manager.CreatedAt,
	}
	if manager.HasSigner() {
		response.SignerPublicKey = base64.StdEncoding.EncodeToString(manager.SignerPublicKey)
	}
	return response
}

// ConsumptionResponse reports whether an authorization identifier was spent.
type ConsumptionResponse struct {
	ManagerID string `json:"manager_id"`
	AuthID    string `json:"auth_id"`
	Consumed  bool   `json:"consumed"`
}
