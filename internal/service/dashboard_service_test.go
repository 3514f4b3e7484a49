package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/internal/store"
	appErrors "github.com/frescomar/allocation-api/pkg/errors"
)

type fakeDashboardCache struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func newFakeDashboardCache() *fakeDashboardCache {
	return &fakeDashboardCache{entries: make(map[string][]byte)}
}

func (f *fakeDashboardCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeDashboardCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.sets++
	return nil
}

func (f *fakeDashboardCache) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	f.deletes++
	return nil
}

func dashboardFixture() *store.State {
	return store.New(
		[]models.Lot{
			{ID: "lot-1", Warehouse: "MIA", Status: "ARRIVED", BoxFormat: decimal.NewFromInt(35), AvailableBoxes: 100, Active: true},
			{ID: "lot-2", Warehouse: "MIA", Status: "IN_TRANSIT", BoxFormat: decimal.NewFromInt(35), AvailableBoxes: 40, Active: true},
			{ID: "lot-3", Warehouse: "LAX", Status: "ARRIVED", BoxFormat: decimal.NewFromInt(10), AvailableBoxes: 20, Active: true},
		},
		[]models.SalesOrder{
			{ID: "SO-1", Cases: 50},
			{ID: "SO-2", Cases: 80},
		},
		[]models.Allocation{
			{
				ID:     "ASG-0001",
				Type:   models.AllocationOrder,
				Order:  &models.OrderLink{SalesOrderID: "SO-1"},
				State:  models.StatePending,
				Status: models.MilestoneInTransit,
				Items:  []models.LineItem{{LotID: "lot-1", Boxes: 60}},
			},
			{
				ID:     "ASG-0002",
				Type:   models.AllocationSpot,
				Spot:   &models.SpotSale{Customer: "Harbor Trading"},
				State:  models.StatePending,
				Status: models.MilestoneInTransit,
				Items:  []models.LineItem{{LotID: "lot-3", Boxes: 10}},
			},
			{
				ID:     "ASG-0003",
				Type:   models.AllocationOrder,
				Order:  &models.OrderLink{SalesOrderID: "SO-2"},
				State:  models.StateCancelled,
				Status: models.MilestoneIncident,
				Items:  []models.LineItem{{LotID: "lot-2", Boxes: 80}},
			},
		},
	)
}

func TestDashboardBuild(t *testing.T) {
	svc := NewDashboardService(dashboardFixture(), nil, 0, nil)

	dashboard := svc.Build(context.Background())

	assert.Equal(t, 160, dashboard.AvailableBoxes)
	assert.True(t, dashboard.AvailableLbs.Equal(decimal.NewFromInt(5100)))
	assert.Equal(t, 3, dashboard.Allocations)

	// SO-1 has 60 of 50 cases assigned, SO-2 only a cancelled
	// allocation, so it stays pending.
	assert.Equal(t, 1, dashboard.PendingOrders)

	require.Len(t, dashboard.ByWarehouse, 2)
	assert.Equal(t, "LAX", dashboard.ByWarehouse[0].Warehouse)
	assert.Equal(t, 20, dashboard.ByWarehouse[0].Boxes)
	assert.Equal(t, "MIA", dashboard.ByWarehouse[1].Warehouse)
	assert.Equal(t, 140, dashboard.ByWarehouse[1].Boxes)

	require.Len(t, dashboard.ByLotStatus, 2)
	assert.Equal(t, "ARRIVED", dashboard.ByLotStatus[0].Status)
	assert.Equal(t, 120, dashboard.ByLotStatus[0].Boxes)

	require.Len(t, dashboard.AllocationsByStatus, 2)
	assert.Equal(t, "INCIDENT", dashboard.AllocationsByStatus[0].Status)
	assert.Equal(t, 1, dashboard.AllocationsByStatus[0].Count)
	assert.Equal(t, "IN_TRANSIT", dashboard.AllocationsByStatus[1].Status)
	assert.Equal(t, 2, dashboard.AllocationsByStatus[1].Count)
}

func TestDashboardCacheRoundTrip(t *testing.T) {
	cache := newFakeDashboardCache()
	svc := NewDashboardService(dashboardFixture(), cache, time.Minute, nil)
	ctx := context.Background()

	first := svc.Build(ctx)
	assert.Equal(t, 1, cache.sets)

	second := svc.Build(ctx)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first.AvailableBoxes, second.AvailableBoxes)

	svc.Invalidate(ctx)
	assert.Equal(t, 1, cache.deletes)

	svc.Build(ctx)
	assert.Equal(t, 2, cache.sets)
}
