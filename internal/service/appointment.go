package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vetpoint/vetpoint/internal/api/dto"
	"github.com/vetpoint/vetpoint/internal/domain/appointment"
	"github.com/vetpoint/vetpoint/internal/domain/tenant"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/idempotency"
	"github.com/vetpoint/vetpoint/internal/types"
)

const awardMaxAttempts = 3

// AppointmentService manages the appointment lifecycle. Completing an
// appointment triggers the loyalty award hook; the hook never fails the
// status transition.
type AppointmentService interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*appointment.Appointment, error)

	// RegisterWalkIn creates an appointment already in the waiting room,
	// stamped with the current time as arrival
	RegisterWalkIn(ctx context.Context, req *dto.RegisterWalkInRequest) (*appointment.Appointment, error)

	// UpdateStatus transitions the appointment to the given status, stamping
	// arrival/start/end times as the lifecycle advances. Terminal statuses
	// cannot transition out. Completing awards visit points as a side effect.
	UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus) (*appointment.Appointment, error)

	// Cancel is shorthand for a transition to cancelled
	Cancel(ctx context.Context, id string) (*appointment.Appointment, error)

	GetByID(ctx context.Context, id string) (*appointment.Appointment, error)

	// GetByDate lists the day's appointments ordered by scheduled time
	GetByDate(ctx context.Context, date string) ([]*appointment.Appointment, error)

	// GenerateTimeSlots enumerates bookable HH:mm slots between opening and
	// closing time at the given interval; the closing time is excluded
	GenerateTimeSlots(openTime, closeTime string, intervalMinutes int) ([]string, error)

	// GetSettings returns the tenant's appointment settings, falling back to
	// defaults when none are configured
	GetSettings(ctx context.Context) *tenant.AppointmentSettings
}

type appointmentService struct {
	ServiceParams
	loyaltySvc LoyaltyService
	idempGen   *idempotency.Generator
}

// NewAppointmentService creates a new instance of AppointmentService
func NewAppointmentService(params ServiceParams, loyaltySvc LoyaltyService) AppointmentService {
	return &appointmentService{
		ServiceParams: params,
		loyaltySvc:    loyaltySvc,
		idempGen:      idempotency.NewGenerator(),
	}
}

func appointmentLockKey(tenantID, appointmentID string) string {
	return fmt.Sprintf("appointment:%s:%s", tenantID, appointmentID)
}

func (s *appointmentService) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*appointment.Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The client must exist before the appointment references it
	if _, err := s.ClientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	a := req.ToAppointment(ctx)
	if err := s.AppointmentRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.Logger.Debugw("created appointment",
		"appointment_id", a.ID,
		"client_id", a.ClientID,
		"date", a.Date,
		"scheduled_time", a.ScheduledTime,
	)
	return a, nil
}

func (s *appointmentService) RegisterWalkIn(ctx context.Context, req *dto.RegisterWalkInRequest) (*appointment.Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ClientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	priority := types.AppointmentPriority(req.Priority)
	if priority == "" {
		priority = types.AppointmentPriorityNormal
	}

	now := time.Now()
	a := &appointment.Appointment{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_APPOINTMENT),
		ClientID:    req.ClientID,
		PetID:       req.PetID,
		ClientName:  req.ClientName,
		PetName:     req.PetName,
		PetSpecies:  req.PetSpecies,
		Date:        toDateString(now),
		ArrivalTime: toTimeString(now),
		Reason:      req.Reason,
		Notes:       req.Notes,
		IsWalkIn:    true,
		Priority:    priority,
		Status:      types.AppointmentStatusWaiting,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}

	if err := s.AppointmentRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.Logger.Debugw("registered walk-in",
		"appointment_id", a.ID,
		"client_id", a.ClientID,
		"arrival_time", a.ArrivalTime,
	)
	return a, nil
}

func (s *appointmentService) UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus) (*appointment.Appointment, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	key := appointmentLockKey(types.GetTenantID(ctx), id)
	s.Locks.Lock(key)
	defer s.Locks.Unlock(key)

	a, err := s.AppointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status.IsTerminal() {
		return nil, ierr.NewError("appointment is in a terminal status").
			WithHintf("Appointment in status %s cannot be moved to %s", a.Status, status).
			WithReportableDetails(map[string]any{
				"appointment_id": id,
				"status":         a.Status,
				"target_status":  status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if a.Status == status {
		return a, nil
	}

	now := time.Now()
	switch status {
	case types.AppointmentStatusWaiting:
		if a.ArrivalTime == "" {
			a.ArrivalTime = toTimeString(now)
		}
	case types.AppointmentStatusInProgress:
		if a.StartTime == "" {
			a.StartTime = toTimeString(now)
		}
	case types.AppointmentStatusCompleted:
		if a.EndTime == "" {
			a.EndTime = toTimeString(now)
		}
	}

	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	a.UpdatedBy = types.GetUserID(ctx)

	if err := s.AppointmentRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.Logger.Debugw("updated appointment status",
		"appointment_id", a.ID,
		"status", status,
	)

	if status == types.AppointmentStatusCompleted {
		// Award failures are logged, never surfaced: the completion itself
		// already stands
		s.awardCompletionPoints(ctx, a.ID)
	}

	return a, nil
}

// awardCompletionPoints credits visit points for a completed appointment.
// Retried in-process with backoff; the loyalty_awarded flag plus the ledger
// idempotency key keep retries and concurrent completions single-shot.
func (s *appointmentService) awardCompletionPoints(ctx context.Context, appointmentID string) {
	var lastErr error
	for attempt := 1; attempt <= awardMaxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(time.Duration(attempt-1) * 100 * time.Millisecond)
		}

		err := s.awardCompletionPointsOnce(ctx, appointmentID)
		if err == nil {
			return
		}
		lastErr = err

		// Conditions a retry cannot fix
		if ierr.IsValidation(err) || ierr.IsInvalidOperation(err) || ierr.IsNotFound(err) {
			break
		}
	}

	s.Logger.Errorw("failed to award visit points for completed appointment",
		"error", lastErr,
		"appointment_id", appointmentID,
	)
}

func (s *appointmentService) awardCompletionPointsOnce(ctx context.Context, appointmentID string) error {
	// Re-read inside each attempt so the loyalty_awarded guard sees the
	// latest state
	a, err := s.AppointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if a.LoyaltyAwarded {
		return nil
	}

	program, err := resolveLoyaltyProgram(ctx, s.ServiceParams)
	if err != nil {
		return err
	}
	if !program.Enabled {
		s.Logger.Debugw("loyalty program disabled, skipping visit award",
			"appointment_id", a.ID,
		)
		return nil
	}

	idempotencyKey := s.idempGen.GenerateKey(idempotency.ScopeVisitAward, map[string]interface{}{
		"appointment_id": a.ID,
	})

	if _, err := s.loyaltySvc.AwardVisitPoints(ctx, &AwardVisitParams{
		ClientID:      a.ClientID,
		AppointmentID: a.ID,
		PetName:       a.PetName,
		// Credit the user who booked the visit, not whoever closed it
		ActorID:        a.CreatedBy,
		IdempotencyKey: idempotencyKey,
		Program:        program,
	}); err != nil {
		return err
	}

	a.LoyaltyAwarded = true
	a.UpdatedAt = time.Now().UTC()
	return s.AppointmentRepo.Update(ctx, a)
}

func (s *appointmentService) Cancel(ctx context.Context, id string) (*appointment.Appointment, error) {
	return s.UpdateStatus(ctx, id, types.AppointmentStatusCancelled)
}

func (s *appointmentService) GetByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	if id == "" {
		return nil, ierr.NewError("appointment id is required").
			WithHint("Appointment ID is required").
			Mark(ierr.ErrValidation)
	}
	return s.AppointmentRepo.GetByID(ctx, id)
}

func (s *appointmentService) GetByDate(ctx context.Context, date string) ([]*appointment.Appointment, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Date must be YYYY-MM-DD").
			WithReportableDetails(map[string]any{
				"date": date,
			}).
			Mark(ierr.ErrValidation)
	}
	return s.AppointmentRepo.ListByDate(ctx, date)
}

func (s *appointmentService) GenerateTimeSlots(openTime, closeTime string, intervalMinutes int) ([]string, error) {
	start, err := time.Parse("15:04", openTime)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Opening time must be HH:mm").
			Mark(ierr.ErrValidation)
	}
	end, err := time.Parse("15:04", closeTime)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Closing time must be HH:mm").
			Mark(ierr.ErrValidation)
	}
	if intervalMinutes <= 0 {
		return nil, ierr.NewError("slot interval must be positive").
			WithHint("Slot interval must be a positive number of minutes").
			Mark(ierr.ErrValidation)
	}

	// Half-open window: the closing time itself is not a bookable slot
	slots := []string{}
	for t := start; t.Before(end); t = t.Add(time.Duration(intervalMinutes) * time.Minute) {
		slots = append(slots, t.Format("15:04"))
	}
	return slots, nil
}

func (s *appointmentService) GetSettings(ctx context.Context) *tenant.AppointmentSettings {
	t, err := s.TenantRepo.GetByID(ctx, types.GetTenantID(ctx))
	if err != nil || t.AppointmentSettings == nil {
		return DefaultAppointmentSettings()
	}
	return t.AppointmentSettings
}

// DefaultAppointmentSettings returns the slot configuration applied when a
// tenant has none
func DefaultAppointmentSettings() *tenant.AppointmentSettings {
	return &tenant.AppointmentSettings{
		Mode:            types.AppointmentModeBoth,
		DefaultDuration: 30,
		SlotInterval:    30,
		MaxAdvanceDays:  60,
	}
}

func toDateString(t time.Time) string {
	return t.Format("2006-01-02")
}

func toTimeString(t time.Time) string {
	return t.Format("15:04")
}
