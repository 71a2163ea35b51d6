package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/vetpoint/vetpoint/internal/errors"

	"github.com/vetpoint/vetpoint/internal/domain/loyalty"
	"github.com/vetpoint/vetpoint/internal/types"
)

type InMemoryLoyaltyStore struct {
	mu           sync.RWMutex
	transactions map[string]*loyalty.Transaction
	order        []string

	// FailCreates makes CreateTransaction fail, to exercise the
	// soft-fail award path
	FailCreates bool
}

func NewInMemoryLoyaltyStore() *InMemoryLoyaltyStore {
	return &InMemoryLoyaltyStore{
		transactions: make(map[string]*loyalty.Transaction),
	}
}

func (r *InMemoryLoyaltyStore) CreateTransaction(ctx context.Context, tx *loyalty.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreates {
		return ierr.NewError("ledger store unavailable").Mark(ierr.ErrDatabase)
	}

	if tx.ID == "" {
		tx.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LOYALTY_TRANSACTION)
	}
	if _, exists := r.transactions[tx.ID]; exists {
		return ierr.NewError("transaction already exists").Mark(ierr.ErrAlreadyExists)
	}

	cp := *tx
	r.transactions[tx.ID] = &cp
	r.order = append(r.order, tx.ID)
	return nil
}

func (r *InMemoryLoyaltyStore) GetTransactionByID(ctx context.Context, id string) (*loyalty.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if tx, exists := r.transactions[id]; exists {
		cp := *tx
		return &cp, nil
	}
	return nil, ierr.NewError("transaction not found").
		WithHintf("Transaction %s not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryLoyaltyStore) GetTransactionByIdempotencyKey(ctx context.Context, key string) (*loyalty.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tx := range r.transactions {
		if tx.IdempotencyKey == key {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, ierr.NewError("transaction not found").
		WithHint("No transaction found for idempotency key").
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryLoyaltyStore) ListTransactions(ctx context.Context, f *types.LoyaltyTransactionFilter) ([]*loyalty.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*loyalty.Transaction, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		tx := r.transactions[r.order[i]]
		if f != nil && f.ClientID != "" && tx.ClientID != f.ClientID {
			continue
		}
		cp := *tx
		result = append(result, &cp)
		if len(result) >= f.GetLimit() {
			break
		}
	}

	// Newest first
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
