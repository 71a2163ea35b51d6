package dynamodb

import (
	"context"
	"time"

	"github.com/vetpoint/vetpoint/internal/domain/client"
	"github.com/vetpoint/vetpoint/internal/dynamodb"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/types"
)

const clientCollection = "clients"

type clientRepository struct {
	store  *dynamodb.Store
	logger *logger.Logger
}

func NewClientRepository(store *dynamodb.Store, logger *logger.Logger) client.Repository {
	return &clientRepository{
		store:  store,
		logger: logger,
	}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	if c.ID == "" {
		c.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT)
	}

	r.logger.Debugw("creating client",
		"client_id", c.ID,
		"tenant_id", c.TenantID,
	)
	return r.store.AddDocument(ctx, clientCollection, c.ID, c)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*client.Client, error) {
	var c client.Client
	if err := r.store.GetDocument(ctx, clientCollection, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) List(ctx context.Context, limit int) ([]*client.Client, error) {
	var clients []*client.Client
	err := r.store.QueryDocuments(ctx, clientCollection, dynamodb.QueryOptions{
		Descending: true,
		Limit:      limit,
	}, &clients)
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) UpdateLoyalty(ctx context.Context, c *client.Client) error {
	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUserID(ctx)

	r.logger.Debugw("updating client loyalty fields",
		"client_id", c.ID,
		"loyalty_points", c.LoyaltyPoints,
		"total_earned", c.Loyalty.TotalEarned,
		"total_redeemed", c.Loyalty.TotalRedeemed,
		"tier", c.Loyalty.Tier,
	)
	return r.store.UpdateDocument(ctx, clientCollection, c.ID, c)
}
