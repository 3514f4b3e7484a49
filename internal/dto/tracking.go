package dto

import (
	"time"

	"github.com/frescomar/allocation-api/internal/models"
)

// TrackingItem is one allocation line joined against its lot for the
// public view.
type TrackingItem struct {
	PO        string `json:"po"`
	Material  string `json:"material"`
	Product   string `json:"product"`
	Boxes     int    `json:"boxes"`
	Size      string `json:"size"`
	ETA       string `json:"eta"`
	AWB       string `json:"awb"`
	Warehouse string `json:"warehouse"`
}

// TrackingView is the public, token-addressed projection of one
// allocation. Demo marks the fallback view served for unknown tokens.
type TrackingView struct {
	AllocationID string                `json:"allocation_id"`
	Customer     string                `json:"customer"`
	Date         time.Time             `json:"date"`
	Status       models.Milestone      `json:"status"`
	Items        []TrackingItem        `json:"items"`
	History      []models.StatusChange `json:"history"`
	Demo         bool                  `json:"demo"`
}
