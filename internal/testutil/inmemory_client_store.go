package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vetpoint/vetpoint/internal/domain/client"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/types"
)

type InMemoryClientStore struct {
	mu      sync.RWMutex
	clients map[string]*client.Client

	// FailUpdates makes UpdateLoyalty fail, to exercise the
	// transaction-log-without-aggregate failure path
	FailUpdates bool
}

func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		clients: make(map[string]*client.Client),
	}
}

func (r *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT)
	}
	if _, exists := r.clients[c.ID]; exists {
		return ierr.NewError("client already exists").Mark(ierr.ErrAlreadyExists)
	}

	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *InMemoryClientStore) GetByID(ctx context.Context, id string) (*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, exists := r.clients[id]; exists {
		cp := *c
		return &cp, nil
	}
	return nil, ierr.NewError("client not found").
		WithHintf("Client %s not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryClientStore) List(ctx context.Context, limit int) ([]*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*client.Client, 0, len(r.clients))
	for _, c := range r.clients {
		cp := *c
		result = append(result, &cp)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *InMemoryClientStore) UpdateLoyalty(ctx context.Context, c *client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailUpdates {
		return ierr.NewError("client store unavailable").Mark(ierr.ErrDatabase)
	}

	if _, exists := r.clients[c.ID]; !exists {
		return ierr.NewError("client not found").
			WithHintf("Client %s not found", c.ID).
			Mark(ierr.ErrNotFound)
	}

	c.UpdatedAt = time.Now().UTC()
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}
