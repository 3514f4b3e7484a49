package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/internal/store"
)

func TestTrackingResolveKnownToken(t *testing.T) {
	awb := "125-88293311"
	state := store.New(
		[]models.Lot{
			{ID: "lot-1", PO: "40538940", Material: "1113199", Product: "TD 4-5 35", Size: "4-5", ETA: "2026-09-02", AWB: &awb, Warehouse: "MIA", AvailableBoxes: 70, Active: true},
		},
		nil,
		[]models.Allocation{{
			ID:       "ASG-0001",
			Customer: "Fulton Fish",
			Status:   models.MilestoneInTransit,
			Items: []models.LineItem{
				{LotID: "lot-1", PO: "40538940", Material: "1113199", Product: "TD 4-5 35", Boxes: 30},
				{LotID: "lot-gone", PO: "40530000", Material: "1110000", Boxes: 5},
			},
			StatusHistory: []models.StatusChange{
				{Status: models.MilestoneReadyForDelivery},
				{Status: models.MilestoneInTransit},
			},
			TrackingToken: "tok-1",
		}},
	)
	svc := NewTrackingService(state)

	view := svc.Resolve("tok-1")
	assert.Equal(t, "ASG-0001", view.AllocationID)
	assert.Equal(t, "Fulton Fish", view.Customer)
	assert.Equal(t, models.MilestoneInTransit, view.Status)
	assert.False(t, view.Demo)
	assert.Len(t, view.History, 2)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "4-5", view.Items[0].Size)
	assert.Equal(t, "2026-09-02", view.Items[0].ETA)
	assert.Equal(t, "125-88293311", view.Items[0].AWB)
	assert.Equal(t, "MIA", view.Items[0].Warehouse)

	// Line against a lot no longer in state keeps its snapshot and the
	// placeholder join fields.
	assert.Equal(t, "40530000", view.Items[1].PO)
	assert.Equal(t, "?", view.Items[1].Size)
	assert.Equal(t, "?", view.Items[1].ETA)
	assert.Equal(t, "-", view.Items[1].AWB)
}

func TestTrackingUnknownTokenFallsBackToDemo(t *testing.T) {
	state := store.New([]models.Lot{
		{ID: "lot-1", PO: "40538940", Material: "1113199", Product: "TD 4-5 35", PrimaryCustomer: "Fulton Fish", AvailableBoxes: 100, Active: true},
	}, nil, nil)
	svc := NewTrackingService(state)

	view := svc.Resolve("stale-token")
	assert.True(t, view.Demo)
	assert.Equal(t, "ASG-stale-token", view.AllocationID)
	assert.Equal(t, "Fulton Fish", view.Customer)
	assert.Equal(t, models.MilestoneInTransit, view.Status)
	assert.Len(t, view.History, 2)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "40538940", view.Items[0].PO)
	assert.Equal(t, 50, view.Items[0].Boxes)
}

func TestTrackingDemoViewKeepsPlaceholderCustomer(t *testing.T) {
	state := store.New([]models.Lot{
		{ID: "lot-1", PO: "40538940", Material: "1113199", Product: "TD 4-5 35", AvailableBoxes: 100, Active: true},
	}, nil, nil)
	svc := NewTrackingService(state)

	// The first lot has no primary customer on record; the view must
	// still carry a non-empty one.
	view := svc.Resolve("unknown-token")
	assert.True(t, view.Demo)
	assert.NotEmpty(t, view.Customer)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "40538940", view.Items[0].PO)
}

func TestTrackingDemoViewWithEmptyInventory(t *testing.T) {
	svc := NewTrackingService(store.New(nil, nil, nil))

	view := svc.Resolve("")
	assert.True(t, view.Demo)
	assert.Equal(t, "ASG-DEMO", view.AllocationID)
	assert.NotEmpty(t, view.Items)
}
