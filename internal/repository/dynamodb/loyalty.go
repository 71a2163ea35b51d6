package dynamodb

import (
	"context"

	ierr "github.com/vetpoint/vetpoint/internal/errors"

	"github.com/vetpoint/vetpoint/internal/domain/loyalty"
	"github.com/vetpoint/vetpoint/internal/dynamodb"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/types"
)

const loyaltyCollection = "loyalty_transactions"

type loyaltyRepository struct {
	store  *dynamodb.Store
	logger *logger.Logger
}

func NewLoyaltyRepository(store *dynamodb.Store, logger *logger.Logger) loyalty.Repository {
	return &loyaltyRepository{
		store:  store,
		logger: logger,
	}
}

func (r *loyaltyRepository) CreateTransaction(ctx context.Context, tx *loyalty.Transaction) error {
	if tx.ID == "" {
		tx.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LOYALTY_TRANSACTION)
	}

	r.logger.Debugw("appending loyalty transaction",
		"transaction_id", tx.ID,
		"client_id", tx.ClientID,
		"type", tx.Type,
		"points", tx.Points,
		"balance_after", tx.BalanceAfter,
	)
	return r.store.AddDocument(ctx, loyaltyCollection, tx.ID, tx)
}

func (r *loyaltyRepository) GetTransactionByID(ctx context.Context, id string) (*loyalty.Transaction, error) {
	var tx loyalty.Transaction
	if err := r.store.GetDocument(ctx, loyaltyCollection, id, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *loyaltyRepository) GetTransactionByIdempotencyKey(ctx context.Context, key string) (*loyalty.Transaction, error) {
	var txs []*loyalty.Transaction
	err := r.store.QueryDocuments(ctx, loyaltyCollection, dynamodb.QueryOptions{
		Filters: []dynamodb.QueryFilter{
			{Field: "idempotency_key", Value: key},
		},
		Limit: 1,
	}, &txs)
	if err != nil {
		return nil, err
	}

	if len(txs) == 0 {
		return nil, ierr.NewError("transaction not found").
			WithHint("No transaction found for idempotency key").
			WithReportableDetails(map[string]any{
				"idempotency_key": key,
			}).
			Mark(ierr.ErrNotFound)
	}
	return txs[0], nil
}

func (r *loyaltyRepository) ListTransactions(ctx context.Context, f *types.LoyaltyTransactionFilter) ([]*loyalty.Transaction, error) {
	opts := dynamodb.QueryOptions{
		Descending: true,
		Limit:      f.GetLimit(),
	}
	if f != nil && f.ClientID != "" {
		opts.Filters = append(opts.Filters, dynamodb.QueryFilter{
			Field: "client_id", Value: f.ClientID,
		})
	}

	var txs []*loyalty.Transaction
	if err := r.store.QueryDocuments(ctx, loyaltyCollection, opts, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
