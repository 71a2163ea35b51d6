package dto

import (
	"context"

	"github.com/vetpoint/vetpoint/internal/domain/client"
	"github.com/vetpoint/vetpoint/internal/types"
	"github.com/vetpoint/vetpoint/internal/validator"
)

type CreateClientRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
}

func (r *CreateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToClient builds the client aggregate with zero loyalty fields; the
// ledger service is the only mutator of those from here on
func (r *CreateClientRequest) ToClient(ctx context.Context) *client.Client {
	return &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Loyalty: client.LoyaltyStatus{
			Tier: types.LoyaltyTierBronze,
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}
