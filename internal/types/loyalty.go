package types

import (
	ierr "github.com/vetpoint/vetpoint/internal/errors"

	"github.com/samber/lo"
)

// LoyaltyTier represents a loyalty status level derived from lifetime earned points
type LoyaltyTier string

const (
	LoyaltyTierBronze   LoyaltyTier = "bronze"
	LoyaltyTierSilver   LoyaltyTier = "silver"
	LoyaltyTierGold     LoyaltyTier = "gold"
	LoyaltyTierPlatinum LoyaltyTier = "platinum"
)

// LoyaltyTransactionType represents the kind of point movement recorded in the ledger
type LoyaltyTransactionType string

const (
	// TransactionTypeEarnedVisit is credited for a completed appointment
	TransactionTypeEarnedVisit LoyaltyTransactionType = "earned_visit"
	// TransactionTypeEarnedPurchase is credited for a product purchase
	TransactionTypeEarnedPurchase LoyaltyTransactionType = "earned_purchase"
	// TransactionTypeEarnedGrooming is credited for a grooming service
	TransactionTypeEarnedGrooming LoyaltyTransactionType = "earned_grooming"
	// TransactionTypeRedeemed is a debit for a redemption (discount etc)
	TransactionTypeRedeemed LoyaltyTransactionType = "redeemed"
	// TransactionTypeAdjusted is a signed manual correction by an admin
	TransactionTypeAdjusted LoyaltyTransactionType = "adjusted"
	// TransactionTypeExpired is a debit for expired points
	TransactionTypeExpired LoyaltyTransactionType = "expired"
)

func (t LoyaltyTransactionType) Validate() error {
	allowedValues := []string{
		string(TransactionTypeEarnedVisit),
		string(TransactionTypeEarnedPurchase),
		string(TransactionTypeEarnedGrooming),
		string(TransactionTypeRedeemed),
		string(TransactionTypeAdjusted),
		string(TransactionTypeExpired),
	}
	if !lo.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid loyalty transaction type").
			WithHint("Invalid loyalty transaction type").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsCredit reports whether the type represents earned points
func (t LoyaltyTransactionType) IsCredit() bool {
	switch t {
	case TransactionTypeEarnedVisit, TransactionTypeEarnedPurchase, TransactionTypeEarnedGrooming:
		return true
	}
	return false
}

// LoyaltyTxReferenceType links a ledger transaction to its originating entity
type LoyaltyTxReferenceType string

const (
	LoyaltyTxReferenceTypeAppointment LoyaltyTxReferenceType = "appointment"
	LoyaltyTxReferenceTypePurchase    LoyaltyTxReferenceType = "purchase"
	LoyaltyTxReferenceTypeRedemption  LoyaltyTxReferenceType = "redemption"
)

func (t LoyaltyTxReferenceType) Validate() error {
	if t == "" {
		return nil
	}

	allowedValues := []string{
		string(LoyaltyTxReferenceTypeAppointment),
		string(LoyaltyTxReferenceTypePurchase),
		string(LoyaltyTxReferenceTypeRedemption),
	}
	if !lo.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid loyalty transaction reference type").
			WithHint("Invalid loyalty transaction reference type").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LoyaltyTransactionFilter bounds and orders ledger history reads
type LoyaltyTransactionFilter struct {
	ClientID string `form:"client_id"`
	Limit    int    `form:"limit,default=20"`
}

const LOYALTY_HISTORY_DEFAULT_LIMIT = 20

func (f *LoyaltyTransactionFilter) GetLimit() int {
	if f == nil || f.Limit <= 0 {
		return LOYALTY_HISTORY_DEFAULT_LIMIT
	}
	return f.Limit
}
