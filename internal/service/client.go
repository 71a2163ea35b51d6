package service

import (
	"context"

	"github.com/vetpoint/vetpoint/internal/api/dto"
	"github.com/vetpoint/vetpoint/internal/domain/client"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
)

// ClientService manages client records. Loyalty fields on a client are
// owned by the loyalty ledger and are read-only here.
type ClientService interface {
	Create(ctx context.Context, req *dto.CreateClientRequest) (*client.Client, error)
	GetByID(ctx context.Context, id string) (*client.Client, error)
	List(ctx context.Context, limit int) ([]*client.Client, error)
}

type clientService struct {
	ServiceParams
}

// NewClientService creates a new instance of ClientService
func NewClientService(params ServiceParams) ClientService {
	return &clientService{
		ServiceParams: params,
	}
}

func (s *clientService) Create(ctx context.Context, req *dto.CreateClientRequest) (*client.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToClient(ctx)
	if err := s.ClientRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Debugw("created client",
		"client_id", c.ID,
		"name", c.FullName(),
	)
	return c, nil
}

func (s *clientService) GetByID(ctx context.Context, id string) (*client.Client, error) {
	if id == "" {
		return nil, ierr.NewError("client id is required").
			WithHint("Client ID is required").
			Mark(ierr.ErrValidation)
	}
	return s.ClientRepo.GetByID(ctx, id)
}

func (s *clientService) List(ctx context.Context, limit int) ([]*client.Client, error) {
	return s.ClientRepo.List(ctx, limit)
}
