package appointment

import (
	"github.com/vetpoint/vetpoint/internal/types"
)

// Appointment models a scheduled or walk-in visit. The status field is
// mutated only through the appointment service's transition operation;
// appointments are never deleted, cancellation is a terminal status.
type Appointment struct {
	ID         string `dynamodbav:"id" json:"id"`
	ClientID   string `dynamodbav:"client_id" json:"client_id"`
	PetID      string `dynamodbav:"pet_id" json:"pet_id"`
	ClientName string `dynamodbav:"client_name" json:"client_name"`
	PetName    string `dynamodbav:"pet_name" json:"pet_name"`
	PetSpecies string `dynamodbav:"pet_species" json:"pet_species,omitempty"`

	// Date is the visit date in YYYY-MM-DD
	Date string `dynamodbav:"date" json:"date"`
	// Time fields are HH:mm, populated as the status advances
	ScheduledTime string `dynamodbav:"scheduled_time" json:"scheduled_time,omitempty"`
	ArrivalTime   string `dynamodbav:"arrival_time" json:"arrival_time,omitempty"`
	StartTime     string `dynamodbav:"start_time" json:"start_time,omitempty"`
	EndTime       string `dynamodbav:"end_time" json:"end_time,omitempty"`

	Reason   string                    `dynamodbav:"reason" json:"reason"`
	Notes    string                    `dynamodbav:"notes" json:"notes,omitempty"`
	IsWalkIn bool                      `dynamodbav:"is_walk_in" json:"is_walk_in"`
	Priority types.AppointmentPriority `dynamodbav:"priority" json:"priority"`
	Status   types.AppointmentStatus   `dynamodbav:"status" json:"status"`

	// LoyaltyAwarded is true only after a successful point award for this
	// visit; it is the guard against duplicate awarding across retries
	LoyaltyAwarded bool `dynamodbav:"loyalty_awarded" json:"loyalty_awarded"`
	types.BaseModel
}

func (a *Appointment) Validate() error {
	if err := a.Status.Validate(); err != nil {
		return err
	}
	return a.Priority.Validate()
}
