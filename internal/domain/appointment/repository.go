package appointment

import (
	"context"
)

// Repository defines the interface for appointment persistence operations
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	// ListByDate returns a tenant's appointments for a YYYY-MM-DD date,
	// ordered by scheduled time then creation time
	ListByDate(ctx context.Context, date string) ([]*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
}
