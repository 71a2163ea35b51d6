package testutil

import (
	"context"
	"sync"
	"time"

	ierr "github.com/vetpoint/vetpoint/internal/errors"

	"github.com/vetpoint/vetpoint/internal/domain/tenant"
	"github.com/vetpoint/vetpoint/internal/types"
)

type InMemoryTenantStore struct {
	mu      sync.RWMutex
	tenants map[string]*tenant.Tenant

	// FailReads makes GetByID fail, simulating a store outage
	FailReads bool
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		tenants: make(map[string]*tenant.Tenant),
	}
}

func (r *InMemoryTenantStore) Create(ctx context.Context, t *tenant.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TENANT)
	}
	if _, exists := r.tenants[t.ID]; exists {
		return ierr.NewError("tenant already exists").Mark(ierr.ErrAlreadyExists)
	}

	cp := *t
	r.tenants[t.ID] = &cp
	return nil
}

func (r *InMemoryTenantStore) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.FailReads {
		return nil, ierr.NewError("simulated tenant read failure").Mark(ierr.ErrDatabase)
	}

	if t, exists := r.tenants[id]; exists {
		cp := *t
		return &cp, nil
	}
	return nil, ierr.NewError("tenant not found").
		WithHintf("Tenant %s not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryTenantStore) Update(ctx context.Context, t *tenant.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tenants[t.ID]; !exists {
		return ierr.NewError("tenant not found").
			WithHintf("Tenant %s not found", t.ID).
			Mark(ierr.ErrNotFound)
	}

	t.UpdatedAt = time.Now().UTC()
	cp := *t
	r.tenants[t.ID] = &cp
	return nil
}
