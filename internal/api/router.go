package api

import (
	v1 "github.com/vetpoint/vetpoint/internal/api/v1"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/rest/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Client      *v1.ClientHandler
	Loyalty     *v1.LoyaltyHandler
	Appointment *v1.AppointmentHandler
}

func NewRouter(handlers Handlers, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.TenantMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Client routes
	clients := router.Group("/clients")
	{
		clients.POST("", handlers.Client.CreateClient)
		clients.GET("", handlers.Client.ListClients)
		clients.GET("/:id", handlers.Client.GetClient)

		// Loyalty routes hang off the owning client
		clients.POST("/:id/loyalty/redeem", handlers.Loyalty.RedeemPoints)
		clients.POST("/:id/loyalty/adjust", handlers.Loyalty.AdjustPoints)
		clients.GET("/:id/loyalty/history", handlers.Loyalty.GetHistory)
		clients.GET("/:id/loyalty/next-tier", handlers.Loyalty.GetNextTier)
	}

	// Appointment routes
	appointments := router.Group("/appointments")
	{
		appointments.POST("", handlers.Appointment.CreateAppointment)
		appointments.POST("/walk-in", handlers.Appointment.RegisterWalkIn)
		appointments.GET("", handlers.Appointment.ListAppointmentsByDate)
		appointments.GET("/slots", handlers.Appointment.GetTimeSlots)
		appointments.GET("/:id", handlers.Appointment.GetAppointment)
		appointments.POST("/:id/status", handlers.Appointment.UpdateStatus)
		appointments.POST("/:id/cancel", handlers.Appointment.CancelAppointment)
	}
}
