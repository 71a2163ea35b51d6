package dynamodb

import (
	"context"
	"sort"
	"time"

	"github.com/vetpoint/vetpoint/internal/domain/appointment"
	"github.com/vetpoint/vetpoint/internal/dynamodb"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/types"
)

const appointmentCollection = "appointments"

type appointmentRepository struct {
	store  *dynamodb.Store
	logger *logger.Logger
}

func NewAppointmentRepository(store *dynamodb.Store, logger *logger.Logger) appointment.Repository {
	return &appointmentRepository{
		store:  store,
		logger: logger,
	}
}

func (r *appointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if a.ID == "" {
		a.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_APPOINTMENT)
	}

	r.logger.Debugw("creating appointment",
		"appointment_id", a.ID,
		"client_id", a.ClientID,
		"status", a.Status,
		"date", a.Date,
	)
	return r.store.AddDocument(ctx, appointmentCollection, a.ID, a)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := r.store.GetDocument(ctx, appointmentCollection, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) ListByDate(ctx context.Context, date string) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.store.QueryDocuments(ctx, appointmentCollection, dynamodb.QueryOptions{
		Filters: []dynamodb.QueryFilter{
			{Field: "date", Value: date},
		},
	}, &appts)
	if err != nil {
		return nil, err
	}

	// Day view order: scheduled time first, walk-ins by arrival
	sort.SliceStable(appts, func(i, j int) bool {
		if appts[i].ScheduledTime != appts[j].ScheduledTime {
			return appts[i].ScheduledTime < appts[j].ScheduledTime
		}
		return appts[i].CreatedAt.Before(appts[j].CreatedAt)
	})
	return appts, nil
}

func (r *appointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	a.UpdatedAt = time.Now().UTC()
	a.UpdatedBy = types.GetUserID(ctx)

	r.logger.Debugw("updating appointment",
		"appointment_id", a.ID,
		"status", a.Status,
		"loyalty_awarded", a.LoyaltyAwarded,
	)
	return r.store.UpdateDocument(ctx, appointmentCollection, a.ID, a)
}
