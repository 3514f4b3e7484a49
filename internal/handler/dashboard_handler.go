package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frescomar/allocation-api/internal/dto"
	"github.com/frescomar/allocation-api/pkg/response"
)

type dashboardService interface {
	Build(ctx context.Context) dto.Dashboard
}

// DashboardHandler serves the operator landing-page aggregates.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler builds a new handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get godoc
// @Summary Inventory and allocation dashboard aggregates
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Build(c.Request.Context()))
}
