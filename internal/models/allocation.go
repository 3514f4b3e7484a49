package models

import "time"

// AllocationType distinguishes order-linked allocations from spot sales.
type AllocationType string

const (
	AllocationOrder AllocationType = "ORDER"
	AllocationSpot  AllocationType = "SPOT"
)

// AllocationState is the lifecycle state of an allocation.
type AllocationState string

const (
	StatePending   AllocationState = "PENDING"
	StateCompleted AllocationState = "COMPLETED"
	StateCancelled AllocationState = "CANCELLED"
)

// Milestone is a discrete shipment-progress state. There is no enforced
// ordering: the operator may set any milestone from any other.
type Milestone string

const (
	MilestoneConfirmed        Milestone = "CONFIRMED"
	MilestoneInTransit        Milestone = "IN_TRANSIT"
	MilestoneReadyForDelivery Milestone = "READY_FOR_DELIVERY"
	MilestoneDelivered        Milestone = "DELIVERED"
	MilestoneDelayed          Milestone = "DELAYED"
	MilestoneIncident         Milestone = "INCIDENT"
)

// AllMilestones lists every milestone; also the default notify set.
var AllMilestones = []Milestone{
	MilestoneConfirmed,
	MilestoneInTransit,
	MilestoneReadyForDelivery,
	MilestoneDelivered,
	MilestoneDelayed,
	MilestoneIncident,
}

// ValidMilestone reports whether the value names a known milestone.
func ValidMilestone(m Milestone) bool {
	for _, known := range AllMilestones {
		if m == known {
			return true
		}
	}
	return false
}

// LineItem reserves boxes from one lot. PO, material and product are
// snapshots taken at assignment time and are not re-synced if the lot
// later changes.
type LineItem struct {
	LotID    string `json:"lot_id"`
	PO       string `json:"po"`
	Material string `json:"material"`
	Product  string `json:"product"`
	Boxes    int    `json:"boxes"`
}

// OrderLink carries the fields required by ORDER allocations.
type OrderLink struct {
	SalesOrderID string `json:"sales_order_id"`
}

// SpotSale carries the fields required by SPOT allocations.
type SpotSale struct {
	Customer  string `json:"customer"`
	Reference string `json:"reference,omitempty"`
}

// StatusChange is one entry in an allocation's milestone history.
type StatusChange struct {
	At     time.Time `json:"at"`
	Status Milestone `json:"status"`
}

// Allocation reserves boxes from one or more lots against a sales order
// or a spot sale. Items are immutable once created; only State, Status,
// StatusHistory, NotifyRule and NotificationsLog change afterwards.
type Allocation struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Type     AllocationType  `json:"type"`
	Order    *OrderLink      `json:"order,omitempty"`
	Spot     *SpotSale       `json:"spot,omitempty"`
	Customer string          `json:"customer"`
	State    AllocationState `json:"state"`
	Items    []LineItem      `json:"items"`

	Status           Milestone              `json:"status"`
	StatusHistory    []StatusChange         `json:"status_history"`
	NotifyRule       NotificationRule       `json:"notify_rule"`
	NotificationsLog []NotificationLogEntry `json:"notifications_log"`

	// TrackingToken grants public read access to this allocation's
	// status. Assigned at creation, immutable afterwards.
	TrackingToken string `json:"tracking_token"`
}

// TotalBoxes sums the boxes across all line items.
func (a *Allocation) TotalBoxes() int {
	total := 0
	for _, item := range a.Items {
		total += item.Boxes
	}
	return total
}

// BoxesForLot sums the boxes this allocation holds against one lot.
func (a *Allocation) BoxesForLot(lotID string) int {
	total := 0
	for _, item := range a.Items {
		if item.LotID == lotID {
			total += item.Boxes
		}
	}
	return total
}
