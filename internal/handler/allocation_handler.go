package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frescomar/allocation-api/internal/dto"
	"github.com/frescomar/allocation-api/internal/models"
	appErrors "github.com/frescomar/allocation-api/pkg/errors"
	"github.com/frescomar/allocation-api/pkg/response"
)

type allocationService interface {
	List() []models.Allocation
	Get(id string) (models.Allocation, error)
	Create(ctx context.Context, req dto.CreateAllocationRequest) (models.Allocation, error)
	Cancel(ctx context.Context, id string) error
}

type milestoneService interface {
	Set(ctx context.Context, allocationID string, milestone models.Milestone) (models.Allocation, error)
}

type notificationService interface {
	UpdateRule(ctx context.Context, allocationID string, req dto.NotifyRuleRequest) (models.Allocation, error)
	SendNow(ctx context.Context, allocationID string) (models.NotificationLogEntry, bool, error)
}

// AllocationHandler exposes the allocation lifecycle endpoints.
type AllocationHandler struct {
	allocations   allocationService
	milestones    milestoneService
	notifications notificationService
}

// NewAllocationHandler builds a new handler.
func NewAllocationHandler(allocations allocationService, milestones milestoneService, notifications notificationService) *AllocationHandler {
	return &AllocationHandler{
		allocations:   allocations,
		milestones:    milestones,
		notifications: notifications,
	}
}

// List godoc
// @Summary List allocations, newest first
// @Tags Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /allocations [get]
func (h *AllocationHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.allocations.List())
}

// Get godoc
// @Summary Get one allocation
// @Tags Allocations
// @Produce json
// @Param id path string true "Allocation ID"
// @Success 200 {object} response.Envelope
// @Router /allocations/{id} [get]
func (h *AllocationHandler) Get(c *gin.Context) {
	alloc, err := h.allocations.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alloc)
}

// Create godoc
// @Summary Create an ORDER or SPOT allocation
// @Tags Allocations
// @Accept json
// @Produce json
// @Param payload body dto.CreateAllocationRequest true "Allocation payload"
// @Success 201 {object} response.Envelope
// @Router /allocations [post]
func (h *AllocationHandler) Create(c *gin.Context) {
	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	alloc, err := h.allocations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, alloc)
}

// Cancel godoc
// @Summary Cancel an allocation, returning its boxes to inventory
// @Tags Allocations
// @Param id path string true "Allocation ID"
// @Success 204
// @Router /allocations/{id} [delete]
func (h *AllocationHandler) Cancel(c *gin.Context) {
	if err := h.allocations.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetMilestone godoc
// @Summary Set the shipment milestone of an allocation
// @Tags Allocations
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param payload body dto.SetMilestoneRequest true "Milestone payload"
// @Success 200 {object} response.Envelope
// @Router /allocations/{id}/milestone [put]
func (h *AllocationHandler) SetMilestone(c *gin.Context) {
	var req dto.SetMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid milestone payload"))
		return
	}
	alloc, err := h.milestones.Set(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alloc)
}

// UpdateNotifyRule godoc
// @Summary Update the notification policy of an allocation
// @Tags Allocations
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param payload body dto.NotifyRuleRequest true "Notify rule payload"
// @Success 200 {object} response.Envelope
// @Router /allocations/{id}/notify-rule [put]
func (h *AllocationHandler) UpdateNotifyRule(c *gin.Context) {
	var req dto.NotifyRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notify rule payload"))
		return
	}
	alloc, err := h.notifications.UpdateRule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alloc)
}

// Notify godoc
// @Summary Send the current status notification now
// @Tags Allocations
// @Produce json
// @Param id path string true "Allocation ID"
// @Success 200 {object} response.Envelope
// @Router /allocations/{id}/notify [post]
func (h *AllocationHandler) Notify(c *gin.Context) {
	entry, sent, err := h.notifications.SendNow(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !sent {
		response.JSON(c, http.StatusOK, nil, map[string]interface{}{"sent": false})
		return
	}
	response.JSON(c, http.StatusOK, entry, map[string]interface{}{"sent": true})
}
