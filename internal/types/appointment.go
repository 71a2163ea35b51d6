package types

import (
	ierr "github.com/vetpoint/vetpoint/internal/errors"

	"github.com/samber/lo"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusWaiting    AppointmentStatus = "waiting"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

func (s AppointmentStatus) Validate() error {
	allowedValues := []string{
		string(AppointmentStatusScheduled),
		string(AppointmentStatusWaiting),
		string(AppointmentStatusInProgress),
		string(AppointmentStatusCompleted),
		string(AppointmentStatusCancelled),
		string(AppointmentStatusNoShow),
	}
	if !lo.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid appointment status").
			WithHint("Invalid appointment status").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether the status ends the appointment lifecycle.
// Terminal appointments cannot transition to any other status.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// AppointmentPriority represents the triage priority of an appointment
type AppointmentPriority string

const (
	AppointmentPriorityNormal AppointmentPriority = "normal"
	AppointmentPriorityUrgent AppointmentPriority = "urgent"
)

func (p AppointmentPriority) Validate() error {
	if p == "" {
		return nil
	}

	allowedValues := []string{
		string(AppointmentPriorityNormal),
		string(AppointmentPriorityUrgent),
	}
	if !lo.Contains(allowedValues, string(p)) {
		return ierr.NewError("invalid appointment priority").
			WithHint("Invalid appointment priority").
			WithReportableDetails(map[string]any{
				"allowed":  allowedValues,
				"priority": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AppointmentMode is how a practice accepts appointments
type AppointmentMode string

const (
	AppointmentModeWalkIn    AppointmentMode = "walk_in"
	AppointmentModeScheduled AppointmentMode = "scheduled"
	AppointmentModeBoth      AppointmentMode = "both"
)
