package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vetpoint/vetpoint/internal/domain/appointment"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/types"
)

type InMemoryAppointmentStore struct {
	mu           sync.RWMutex
	appointments map[string]*appointment.Appointment
}

func NewInMemoryAppointmentStore() *InMemoryAppointmentStore {
	return &InMemoryAppointmentStore{
		appointments: make(map[string]*appointment.Appointment),
	}
}

func (r *InMemoryAppointmentStore) Create(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_APPOINTMENT)
	}
	if _, exists := r.appointments[a.ID]; exists {
		return ierr.NewError("appointment already exists").Mark(ierr.ErrAlreadyExists)
	}

	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *InMemoryAppointmentStore) GetByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, exists := r.appointments[id]; exists {
		cp := *a
		return &cp, nil
	}
	return nil, ierr.NewError("appointment not found").
		WithHintf("Appointment %s not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryAppointmentStore) ListByDate(ctx context.Context, date string) ([]*appointment.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*appointment.Appointment, 0)
	for _, a := range r.appointments {
		if a.Date == date {
			cp := *a
			result = append(result, &cp)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].ScheduledTime != result[j].ScheduledTime {
			return result[i].ScheduledTime < result[j].ScheduledTime
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryAppointmentStore) Update(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.appointments[a.ID]; !exists {
		return ierr.NewError("appointment not found").
			WithHintf("Appointment %s not found", a.ID).
			Mark(ierr.ErrNotFound)
	}

	a.UpdatedAt = time.Now().UTC()
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}
