package dto

import (
	"time"

	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// VaultResponse represents a vault in API responses.
type VaultResponse struct {
	ID                     string     `json:"id"`
	AuthorizationManagerID *string    `json:"authorization_manager_id"`
	Initialized            bool       `json:"initialized"`
	InitializedAt          *time.Time `json:"initialized_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// MapVaultToResponse converts a domain vault to an API response.
func MapVaultToResponse(vault *vaultDomain.Vault) VaultResponse {
	response := VaultResponse{
		ID:            vault.ID.String(),
		Initialized:   vault.IsInitialized(),
		InitializedAt: vault.InitializedAt,
		CreatedAt:     vault.CreatedAt,
	}
	if vault.AuthorizationManagerID != nil {
		managerID := vault.AuthorizationManagerID.String()
		response.AuthorizationManagerID = &managerID
	}
	return response
}

// CreateVaultResponse contains the new vault and its admin secret.
// SECURITY: The admin secret is only returned once and must be saved securely.
type CreateVaultResponse struct {
	VaultResponse
	AdminSecret string `json:"admin_secret"`
}

// BalanceResponse contains the balance of a vault.
type BalanceResponse struct {
	VaultID string `json:"vault_id"`
	Balance uint64 `json:"balance"`
}

// TransferResponse represents a vault transfer in API responses.
type TransferResponse struct {
	ID           string    `json:"id"`
	VaultID      string    `json:"vault_id"`
	Kind         string    `json:"kind"`
	Counterparty string    `json:"counterparty"`
	Amount       uint64    `json:"amount"`
	AuthID       string    `json:"auth_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MapTransferToResponse converts a domain transfer to an API response.
func MapTransferToResponse(transfer *vaultDomain.Transfer) TransferResponse {
	response := TransferResponse{
		ID:           transfer.ID.String(),
		VaultID:      transfer.VaultID.String(),
		Kind:         string(transfer.Kind),
		Counterparty: transfer.Counterparty,
		Amount:       transfer.Amount,
		CreatedAt:    transfer.CreatedAt,
	}
	if transfer.AuthID != nil {
		response.AuthID = transfer.AuthID.String()
	}
	return response
}

// ListTransfersResponse represents a page of vault transfers.
type ListTransfersResponse struct {
	Data []TransferResponse `json:"data"`
}

// MapTransfersToListResponse converts domain transfers to a list API response.
func MapTransfersToListResponse(transfers []*vaultDomain.Transfer) ListTransfersResponse {
	responses := make([]TransferResponse, 0, len(transfers))
	for _, transfer := range transfers {
		responses = append(responses, MapTransferToResponse(transfer))
	}
	return ListTransfersResponse{Data: responses}
}
