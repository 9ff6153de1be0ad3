package dto

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

func TestInitializeVaultRequest_Validate(t *testing.T) {
	managerID := uuid.Must(uuid.NewV7())

	req := InitializeVaultRequest{AuthorizationManagerID: managerID.String()}
	require.NoError(t, req.Validate())
	assert.Equal(t, managerID, req.ManagerID())

	assert.Error(t, (&InitializeVaultRequest{}).Validate())
	assert.Error(t, (&InitializeVaultRequest{AuthorizationManagerID: "not-a-uuid"}).Validate())
}

func TestDepositRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request DepositRequest
		wantErr bool
	}{
		{name: "Valid", request: DepositRequest{From: "acct-1", Amount: 1}},
		{name: "ZeroAmount", request: DepositRequest{From: "acct-1"}},
		{name: "MissingFrom", request: DepositRequest{Amount: 1}, wantErr: true},
		{name: "BlankFrom", request: DepositRequest{From: "   ", Amount: 1}, wantErr: true},
		{name: "FromTooLong", request: DepositRequest{From: strings.Repeat("a", 256), Amount: 1}, wantErr: true},
		{name: "AmountTooLarge", request: DepositRequest{From: "acct-1", Amount: vaultDomain.MaxBalance + 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithdrawRequest(t *testing.T) {
	authID := authorizationDomain.HashAuthID("test-auth-1")

	t.Run("Valid_Unsigned", func(t *testing.T) {
		req := WithdrawRequest{Recipient: "acct-2", Amount: 4, AuthID: authID.String()}
		require.NoError(t, req.Validate())

		input, err := req.ToInput()
		require.NoError(t, err)
		assert.Equal(t, authID, input.AuthID)
		assert.Nil(t, input.Signature)
	})

	t.Run("Valid_Signed", func(t *testing.T) {
		req := WithdrawRequest{Recipient: "acct-2", Amount: 4, AuthID: authID.String(), Signature: "0xabcd"}
		require.NoError(t, req.Validate())

		input, err := req.ToInput()
		require.NoError(t, err)
		assert.Equal(t, []byte{0xab, 0xcd}, input.Signature)
	})

	t.Run("Invalid_AuthID", func(t *testing.T) {
		req := WithdrawRequest{Recipient: "acct-2", Amount: 4, AuthID: "0x1234"}
		assert.Error(t, req.Validate())
	})

	t.Run("Invalid_Signature", func(t *testing.T) {
		req := WithdrawRequest{Recipient: "acct-2", Amount: 4, AuthID: authID.String(), Signature: "0xzz"}
		assert.Error(t, req.Validate())
	})

	t.Run("Invalid_MissingRecipient", func(t *testing.T) {
		req := WithdrawRequest{Amount: 4, AuthID: authID.String()}
		assert.Error(t, req.Validate())
	})
}

func TestMapTransferToResponse(t *testing.T) {
	authID := authorizationDomain.HashAuthID("test-auth-1")
	transfer := &vaultDomain.Transfer{
		ID:           uuid.Must(uuid.NewV7()),
		VaultID:      uuid.Must(uuid.NewV7()),
		Kind:         vaultDomain.TransferKindWithdrawal,
		Counterparty: "acct-2",
		Amount:       4,
		AuthID:       &authID,
	}

	response := MapTransferToResponse(transfer)
	assert.Equal(t, "withdrawal", response.Kind)
	assert.Equal(t, authID.String(), response.AuthID)

	transfer.AuthID = nil
	assert.Empty(t, MapTransferToResponse(transfer).AuthID)
}
