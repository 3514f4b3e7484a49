package dto

import "github.com/shopspring/decimal"

// WarehouseAggregate sums available stock per warehouse.
type WarehouseAggregate struct {
	Warehouse string          `json:"warehouse"`
	Boxes     int             `json:"boxes"`
	Lbs       decimal.Decimal `json:"lbs"`
}

// LotStatusAggregate sums available boxes per lot status string.
type LotStatusAggregate struct {
	Status string `json:"status"`
	Boxes  int    `json:"boxes"`
}

// MilestoneAggregate counts allocations per current milestone.
type MilestoneAggregate struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Dashboard is the operator landing-page payload.
type Dashboard struct {
	AvailableBoxes      int                  `json:"available_boxes"`
	AvailableLbs        decimal.Decimal      `json:"available_lbs"`
	PendingOrders       int                  `json:"pending_orders"`
	Allocations         int                  `json:"allocations"`
	ByWarehouse         []WarehouseAggregate `json:"by_warehouse"`
	ByLotStatus         []LotStatusAggregate `json:"by_lot_status"`
	AllocationsByStatus []MilestoneAggregate `json:"allocations_by_status"`
}
