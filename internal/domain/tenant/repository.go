package tenant

import (
	"context"
)

// Repository defines the interface for tenant persistence operations
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
}
