package service

import (
	"context"

	"github.com/vetpoint/vetpoint/internal/cache"
	"github.com/vetpoint/vetpoint/internal/config"
	"github.com/vetpoint/vetpoint/internal/domain/appointment"
	"github.com/vetpoint/vetpoint/internal/domain/client"
	"github.com/vetpoint/vetpoint/internal/domain/loyalty"
	"github.com/vetpoint/vetpoint/internal/domain/tenant"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/lock"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Locks serializes read-then-write sequences per document; shared by
	// all services so a key maps to exactly one mutex process-wide
	Locks *lock.KeyedMutex

	// Repositories
	ClientRepo      client.Repository
	LoyaltyRepo     loyalty.Repository
	AppointmentRepo appointment.Repository
	TenantRepo      tenant.Repository
}

// NewServiceParams creates a new ServiceParams instance
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	locks *lock.KeyedMutex,
	clientRepo client.Repository,
	loyaltyRepo loyalty.Repository,
	appointmentRepo appointment.Repository,
	tenantRepo tenant.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:          logger,
		Config:          config,
		Cache:           cache,
		Locks:           locks,
		ClientRepo:      clientRepo,
		LoyaltyRepo:     loyaltyRepo,
		AppointmentRepo: appointmentRepo,
		TenantRepo:      tenantRepo,
	}
}

// resolveLoyaltyProgram returns the loyalty program of the tenant in the
// context, falling back to the default program only when no tenant record
// exists. Read failures are returned as-is; a tenant that disabled the
// program must not be awarded points because of a transient store error.
// The resolved program is cached.
func resolveLoyaltyProgram(ctx context.Context, params ServiceParams) (*loyalty.Program, error) {
	tenantID := types.GetTenantID(ctx)
	cacheKey := cache.PrefixProgram + tenantID

	if params.Cache != nil {
		if cached, found := params.Cache.Get(ctx, cacheKey); found {
			if program, ok := cached.(*loyalty.Program); ok {
				return program, nil
			}
		}
	}

	t, err := params.TenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if ierr.IsNotFound(err) {
			params.Logger.Debugw("tenant not found, using default loyalty program",
				"tenant_id", tenantID,
			)
			return loyalty.DefaultProgram(), nil
		}
		return nil, err
	}

	program := t.Program()
	if params.Cache != nil {
		params.Cache.Set(ctx, cacheKey, program, 0)
	}
	return program, nil
}
