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

type LoyaltyHandler struct {
	service service.LoyaltyService
	log     *logger.Logger
}

func NewLoyaltyHandler(
	service service.LoyaltyService,
	log *logger.Logger,
) *LoyaltyHandler {
	return &LoyaltyHandler{
		service: service,
		log:     log,
	}
}

func (h *LoyaltyHandler) RedeemPoints(c *gin.Context) {
	clientID := c.Param("id")

	var req dto.RedeemPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.RedeemPoints(c.Request.Context(), clientID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *LoyaltyHandler) AdjustPoints(c *gin.Context) {
	clientID := c.Param("id")

	var req dto.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AdjustPoints(c.Request.Context(), clientID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *LoyaltyHandler) GetHistory(c *gin.Context) {
	clientID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	items, err := h.service.GetHistory(c.Request.Context(), clientID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.LoyaltyHistoryResponse{
		Items: items,
		Count: len(items),
	})
}

func (h *LoyaltyHandler) GetNextTier(c *gin.Context) {
	clientID := c.Param("id")

	resp, err := h.service.GetNextTier(c.Request.Context(), clientID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
