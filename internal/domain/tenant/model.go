package tenant

import (
	"github.com/vetpoint/vetpoint/internal/domain/loyalty"
	"github.com/vetpoint/vetpoint/internal/types"
)

// Tenant is the practice/business account record. All other documents are
// scoped by its ID. It owns the loyalty program configuration consumed
// read-only by the ledger and the appointment completion hook.
type Tenant struct {
	ID      string `dynamodbav:"id" json:"id"`
	Name    string `dynamodbav:"name" json:"name"`
	Email   string `dynamodbav:"email" json:"email,omitempty"`
	Phone   string `dynamodbav:"phone" json:"phone,omitempty"`
	Address string `dynamodbav:"address" json:"address,omitempty"`

	// LoyaltyProgram is nil for tenants that never configured the program;
	// consumers fall back to loyalty.DefaultProgram()
	LoyaltyProgram *loyalty.Program `dynamodbav:"loyalty_program" json:"loyalty_program,omitempty"`

	AppointmentSettings *AppointmentSettings `dynamodbav:"appointment_settings" json:"appointment_settings,omitempty"`
	types.BaseModel
}

// AppointmentSettings configures how the practice accepts appointments
type AppointmentSettings struct {
	Mode types.AppointmentMode `dynamodbav:"mode" json:"mode"`
	// DefaultDuration and SlotInterval are minutes
	DefaultDuration int `dynamodbav:"default_duration" json:"default_duration"`
	SlotInterval    int `dynamodbav:"slot_interval" json:"slot_interval"`
	MaxAdvanceDays  int `dynamodbav:"max_advance_days" json:"max_advance_days"`
}

// Program returns the tenant's loyalty program or the default when none
// is configured
func (t *Tenant) Program() *loyalty.Program {
	if t == nil || t.LoyaltyProgram == nil {
		return loyalty.DefaultProgram()
	}
	return t.LoyaltyProgram
}
