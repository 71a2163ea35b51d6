package client

import (
	"time"

	"github.com/vetpoint/vetpoint/internal/types"
)

// Client is the mutable aggregate for a practice's client (pet owner).
// Loyalty fields are mutated only by the loyalty ledger service; the
// invariant LoyaltyPoints == max(0, TotalEarned - TotalRedeemed) holds
// after every ledger write.
type Client struct {
	ID        string `dynamodbav:"id" json:"id"`
	FirstName string `dynamodbav:"first_name" json:"first_name"`
	LastName  string `dynamodbav:"last_name" json:"last_name"`
	Email     string `dynamodbav:"email" json:"email"`
	Phone     string `dynamodbav:"phone" json:"phone"`

	// LoyaltyPoints is the current spendable balance, clamped at 0 on write
	LoyaltyPoints int64         `dynamodbav:"loyalty_points" json:"loyalty_points"`
	Loyalty       LoyaltyStatus `dynamodbav:"loyalty" json:"loyalty"`
	types.BaseModel
}

// LoyaltyStatus holds the client's lifetime loyalty aggregates.
// TotalEarned and TotalRedeemed are monotonic non-decreasing; Tier is
// derived from TotalEarned on every change; EnrolledAt is set once, on
// the client's first point event.
type LoyaltyStatus struct {
	TotalEarned   int64             `dynamodbav:"total_earned" json:"total_earned"`
	TotalRedeemed int64             `dynamodbav:"total_redeemed" json:"total_redeemed"`
	Tier          types.LoyaltyTier `dynamodbav:"tier" json:"tier"`
	EnrolledAt    *time.Time        `dynamodbav:"enrolled_at" json:"enrolled_at,omitempty"`
}

// FullName returns the client's display name
func (c *Client) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
