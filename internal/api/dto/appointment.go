package dto

import (
	"context"

	"github.com/vetpoint/vetpoint/internal/domain/appointment"
	"github.com/vetpoint/vetpoint/internal/types"
	"github.com/vetpoint/vetpoint/internal/validator"
)

type CreateAppointmentRequest struct {
	ClientID      string `json:"client_id" validate:"required"`
	PetID         string `json:"pet_id" validate:"required"`
	ClientName    string `json:"client_name" validate:"required"`
	PetName       string `json:"pet_name" validate:"required"`
	PetSpecies    string `json:"pet_species"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	ScheduledTime string `json:"scheduled_time" validate:"omitempty,datetime=15:04"`
	Reason        string `json:"reason" validate:"required"`
	Notes         string `json:"notes"`
	Priority      string `json:"priority"`
}

func (r *CreateAppointmentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return types.AppointmentPriority(r.Priority).Validate()
}

func (r *CreateAppointmentRequest) ToAppointment(ctx context.Context) *appointment.Appointment {
	priority := types.AppointmentPriority(r.Priority)
	if priority == "" {
		priority = types.AppointmentPriorityNormal
	}

	return &appointment.Appointment{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_APPOINTMENT),
		ClientID:      r.ClientID,
		PetID:         r.PetID,
		ClientName:    r.ClientName,
		PetName:       r.PetName,
		PetSpecies:    r.PetSpecies,
		Date:          r.Date,
		ScheduledTime: r.ScheduledTime,
		Reason:        r.Reason,
		Notes:         r.Notes,
		Priority:      priority,
		Status:        types.AppointmentStatusScheduled,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

type RegisterWalkInRequest struct {
	ClientID   string `json:"client_id" validate:"required"`
	PetID      string `json:"pet_id" validate:"required"`
	ClientName string `json:"client_name" validate:"required"`
	PetName    string `json:"pet_name" validate:"required"`
	PetSpecies string `json:"pet_species"`
	Reason     string `json:"reason" validate:"required"`
	Notes      string `json:"notes"`
	Priority   string `json:"priority"`
}

func (r *RegisterWalkInRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return types.AppointmentPriority(r.Priority).Validate()
}

type UpdateAppointmentStatusRequest struct {
	Status types.AppointmentStatus `json:"status" validate:"required"`
}

func (r *UpdateAppointmentStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Status.Validate()
}

type TimeSlotsResponse struct {
	Slots []string `json:"slots"`
}
