package v1

import (
	"net/http"
	"strconv"

	"github.com/vetpoint/vetpoint/internal/api/dto"
	ierr "github.com/vetpoint/vetpoint/internal/errors"
	"github.com/vetpoint/vetpoint/internal/logger"
	"github.com/vetpoint/vetpoint/internal/service"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service service.AppointmentService
	log     *logger.Logger
}

func NewAppointmentHandler(
	service service.AppointmentService,
	log *logger.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log,
	}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AppointmentHandler) RegisterWalkIn(c *gin.Context) {
	var req dto.RegisterWalkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.RegisterWalkIn(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentHandler) ListAppointmentsByDate(c *gin.Context) {
	date := c.Query("date")

	resp, err := h.service.GetByDate(c.Request.Context(), date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	id := c.Param("id")

	resp, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentHandler) GetTimeSlots(c *gin.Context) {
	settings := h.service.GetSettings(c.Request.Context())

	openTime := c.DefaultQuery("open", "09:00")
	closeTime := c.DefaultQuery("close", "18:00")
	interval, err := strconv.Atoi(c.DefaultQuery("interval", strconv.Itoa(settings.SlotInterval)))
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Interval must be a number of minutes").
			Mark(ierr.ErrValidation))
		return
	}

	slots, err := h.service.GenerateTimeSlots(openTime, closeTime, interval)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.TimeSlotsResponse{Slots: slots})
}
