package loyalty

import (
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/types"
)

// PointsOperation represents the request to credit or debit a client's points.
// The client's current balance is read by the ledger service under a per-client
// lock; callers never supply a balance snapshot.
type PointsOperation struct {
	ClientID string                       `json:"client_id"`
	Type     types.LoyaltyTransactionType `json:"type"`
	// Points is the signed delta: positive = earn, negative = spend
	Points        int64                        `json:"points"`
	Description   string                       `json:"description,omitempty"`
	ReferenceType types.LoyaltyTxReferenceType `json:"reference_type,omitempty"`
	ReferenceID   string                       `json:"reference_id,omitempty"`
	// ActorID overrides the context user as the crediting actor, e.g. the
	// user who created the appointment being awarded
	ActorID        string         `json:"actor_id,omitempty"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	Metadata       types.Metadata `json:"metadata,omitempty"`
	// Program is the tenant's loyalty configuration resolved by the caller
	Program *Program `json:"program,omitempty"`
}

func (op *PointsOperation) Validate() error {
	if op.ClientID == "" {
		return ierr.NewError("client_id is required").
			WithHint("Client is required for a points operation").
			Mark(ierr.ErrValidation)
	}

	if err := op.Type.Validate(); err != nil {
		return err
	}

	if err := op.ReferenceType.Validate(); err != nil {
		return err
	}

	if op.Points == 0 {
		return ierr.NewError("points delta must be non-zero").
			WithHint("Points must be a non-zero signed value").
			Mark(ierr.ErrValidation)
	}

	return nil
}
