package loyalty

import (
	"github.com/vetpoint/vetpoint/internal/types"
)

// Transaction is a single row of the loyalty ledger. Rows are append-only:
// they are created exactly once per point event and never mutated or deleted.
// The ledger is the audit source of truth for a client's balance.
type Transaction struct {
	ID       string                       `dynamodbav:"id" json:"id"`
	ClientID string                       `dynamodbav:"client_id" json:"client_id"`
	Type     types.LoyaltyTransactionType `dynamodbav:"type" json:"type"`
	// Points is the signed delta: positive = credit, negative = debit
	Points int64 `dynamodbav:"points" json:"points"`
	// BalanceAfter snapshots the client's spendable balance immediately
	// after this transaction was applied
	BalanceAfter   int64                        `dynamodbav:"balance_after" json:"balance_after"`
	ReferenceType  types.LoyaltyTxReferenceType `dynamodbav:"reference_type" json:"reference_type,omitempty"`
	ReferenceID    string                       `dynamodbav:"reference_id" json:"reference_id,omitempty"`
	Description    string                       `dynamodbav:"description" json:"description"`
	IdempotencyKey string                       `dynamodbav:"idempotency_key" json:"idempotency_key,omitempty"`
	Metadata       types.Metadata               `dynamodbav:"metadata" json:"metadata,omitempty"`
	types.BaseModel
}

func (t *Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	return t.ReferenceType.Validate()
}
