package dynamodb

import (
	"context"
	"time"

	"github.com/vetpoint/vetpoint/internal/domain/tenant"
	"github.com/vetpoint/vetpoint/internal/dynamodb"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/types"
)

const tenantCollection = "tenants"

type tenantRepository struct {
	store  *dynamodb.Store
	logger *logger.Logger
}

func NewTenantRepository(store *dynamodb.Store, logger *logger.Logger) tenant.Repository {
	return &tenantRepository{
		store:  store,
		logger: logger,
	}
}

func (r *tenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	if t.ID == "" {
		t.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TENANT)
	}
	return r.store.AddDocument(ctx, tenantCollection, t.ID, t)
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	if err := r.store.GetDocument(ctx, tenantCollection, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	t.UpdatedAt = time.Now().UTC()
	t.UpdatedBy = types.GetUserID(ctx)
	return r.store.UpdateDocument(ctx, tenantCollection, t.ID, t)
}
