package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/pkg/response"
)

type orderService interface {
	SalesOrders() []models.SalesOrder
	AssignedBySalesOrder() map[string]int
}

// OrderHandler exposes the read-only sales-order reference endpoints.
type OrderHandler struct {
	service orderService
}

// NewOrderHandler builds a new handler.
func NewOrderHandler(service orderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// List godoc
// @Summary List sales orders with assigned box counts
// @Tags Orders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	orders := h.service.SalesOrders()
	assigned := h.service.AssignedBySalesOrder()

	type orderView struct {
		models.SalesOrder
		AssignedBoxes int  `json:"assigned_boxes"`
		Pending       bool `json:"pending"`
	}
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, orderView{
			SalesOrder:    order,
			AssignedBoxes: assigned[order.ID],
			Pending:       assigned[order.ID] < order.Cases,
		})
	}
	response.JSON(c, http.StatusOK, views)
}
