package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frescomar/allocation-api/internal/dto"
	"github.com/frescomar/allocation-api/pkg/response"
)

type trackingService interface {
	Resolve(token string) dto.TrackingView
}

// TrackingHandler serves the public, unauthenticated tracking view.
type TrackingHandler struct {
	service trackingService
}

// NewTrackingHandler builds a new handler.
func NewTrackingHandler(service trackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// Track godoc
// @Summary Public tracking view for one allocation
// @Tags Tracking
// @Produce json
// @Param token path string true "Tracking token"
// @Success 200 {object} response.Envelope
// @Router /track/{token} [get]
func (h *TrackingHandler) Track(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Resolve(c.Param("token")))
}
