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

type ClientHandler struct {
	service service.ClientService
	log     *logger.Logger
}

func NewClientHandler(
	service service.ClientService,
	log *logger.Logger,
) *ClientHandler {
	return &ClientHandler{
		service: service,
		log:     log,
	}
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
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

func (h *ClientHandler) GetClient(c *gin.Context) {
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	resp, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
