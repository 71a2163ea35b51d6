package client

import (
	"context"
)

// Repository defines the interface for client persistence operations
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, limit int) ([]*Client, error)
	// UpdateLoyalty persists the loyalty fields of the client aggregate:
	// LoyaltyPoints, Loyalty.* and the updated-at markers
	UpdateLoyalty(ctx context.Context, c *Client) error
}
