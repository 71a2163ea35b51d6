package main

import (
	"context"
	"time"

	"github.com/vetpoint/vetpoint/internal/api"
	v1 "github.com/vetpoint/vetpoint/internal/api/v1"
	"github.com/vetpoint/vetpoint/internal/cache"
	"github.com/vetpoint/vetpoint/internal/config"
	"github.com/vetpoint/vetpoint/internal/dynamodb"
	"github.com/vetpoint/vetpoint/internal/lock"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/repository"
	"github.com/vetpoint/vetpoint/internal/service"
	"github.com/vetpoint/vetpoint/internal/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Per-document locks
			lock.NewKeyedMutex,

			// DynamoDB
			dynamodb.NewClient,
			dynamodb.NewStore,

			// Repositories
			repository.NewClientRepository,
			repository.NewLoyaltyRepository,
			repository.NewAppointmentRepository,
			repository.NewTenantRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewClientService,
			service.NewLoyaltyService,
			service.NewAppointmentService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	clientService service.ClientService,
	loyaltyService service.LoyaltyService,
	appointmentService service.AppointmentService,
) api.Handlers {
	return api.Handlers{
		Health:      v1.NewHealthHandler(logger),
		Client:      v1.NewClientHandler(clientService, logger),
		Loyalty:     v1.NewLoyaltyHandler(loyaltyService, logger),
		Appointment: v1.NewAppointmentHandler(appointmentService, logger),
	}
}

func provideRouter(handlers api.Handlers, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
