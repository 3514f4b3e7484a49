package dto

import "github.com/frescomar/allocation-api/internal/models"

// LineRequest asks to consume boxes from one lot.
type LineRequest struct {
	LotID string `json:"lot_id" validate:"required"`
	Boxes int    `json:"boxes"`
}

// CreateAllocationRequest creates an ORDER or SPOT allocation.
type CreateAllocationRequest struct {
	Type         models.AllocationType `json:"type" validate:"required,oneof=ORDER SPOT"`
	SalesOrderID string                `json:"sales_order_id,omitempty"`
	SpotCustomer string                `json:"spot_customer,omitempty"`
	SpotRef      string                `json:"spot_ref,omitempty"`
	Lines        []LineRequest         `json:"lines" validate:"required,dive"`
}

// SetMilestoneRequest moves an allocation to a new shipment milestone.
type SetMilestoneRequest struct {
	Status models.Milestone `json:"status" validate:"required"`
}

// NotifyRuleRequest updates the allocation's notification policy.
type NotifyRuleRequest struct {
	Enabled        *bool              `json:"enabled,omitempty"`
	Milestones     []models.Milestone `json:"milestones,omitempty"`
	RecipientEmail *string            `json:"recipient_email,omitempty"`
}
