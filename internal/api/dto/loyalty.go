package dto

import (
	"github.com/vetpoint/vetpoint/internal/domain/loyalty"
	"github.com/vetpoint/vetpoint/internal/validator"
)

type RedeemPointsRequest struct {
	Points      int64  `json:"points" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
}

func (r *RedeemPointsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type AdjustPointsRequest struct {
	// Points is signed: positive credits, negative debits (floor at 0)
	Points      int64  `json:"points" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (r *AdjustPointsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type LoyaltyHistoryResponse struct {
	Items []*loyalty.Transaction `json:"items"`
	Count int                    `json:"count"`
}

type NextTierResponse struct {
	TotalEarned int64             `json:"total_earned"`
	NextTier    *loyalty.NextTier `json:"next_tier,omitempty"`
}
