package service

import (
	"context"

	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// TransferWriter persists transfer rows.
type TransferWriter interface {
	Create(ctx context.Context, transfer *vaultDomain.Transfer) error
}

// PayoutGateway moves funds out of the custodian to a recipient.
// Transfer runs inside the withdrawal transaction; a returned error rolls the withdrawal back.
type PayoutGateway interface {
	Transfer(ctx context.Context, transfer *vaultDomain.Transfer) error
}

// ledgerPayoutGateway settles payouts by appending the withdrawal to the transfer ledger.
type ledgerPayoutGateway struct {
	transfers TransferWriter
}

// Transfer records the withdrawal row.
func (l *ledgerPayoutGateway) Transfer(ctx context.Context, transfer *vaultDomain.Transfer) error {
	return l.transfers.Create(ctx, transfer)
}

// NewLedgerPayoutGateway creates a PayoutGateway backed by the transfer ledger.
func NewLedgerPayoutGateway(transfers TransferWriter) PayoutGateway {
	return &ledgerPayoutGateway{transfers: transfers}
}
