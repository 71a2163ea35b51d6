package loyalty

import (
	"context"

	"github.com/vetpoint/vetpoint/internal/types"
)

// Repository defines the interface for loyalty ledger persistence.
// Transactions are append-only: there is no update or delete operation.
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*Transaction, error)
	GetTransactionByIdempotencyKey(ctx context.Context, key string) (*Transaction, error)
	// ListTransactions returns a client's transactions newest first,
	// bounded by the filter limit
	ListTransactions(ctx context.Context, f *types.LoyaltyTransactionFilter) ([]*Transaction, error)
}
