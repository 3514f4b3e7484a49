package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/frescomar/allocation-api/internal/dto"
	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/internal/store"
)

const dashboardCacheKey = "dashboard_v1"

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DashboardService aggregates the operator landing-page figures over
// live inventory and allocations, with a short-lived cache in front.
type DashboardService struct {
	state  *store.State
	cache  dashboardCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardService builds the aggregator.
func NewDashboardService(state *store.State, cache dashboardCache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{state: state, cache: cache, ttl: ttl, logger: logger}
}

// Build computes (or serves from cache) the dashboard payload.
func (s *DashboardService) Build(ctx context.Context) dto.Dashboard {
	if s.cache != nil {
		var cached dto.Dashboard
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			return cached
		}
	}

	dashboard := s.compute()

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, dashboard, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return dashboard
}

// Invalidate drops the cached payload after a mutating operation.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) compute() dto.Dashboard {
	lots := s.state.Lots(models.LotFilter{})
	allocations := s.state.Allocations()
	orders := s.state.SalesOrders()

	dashboard := dto.Dashboard{
		AvailableLbs: decimal.Zero,
		Allocations:  len(allocations),
	}

	byWarehouse := make(map[string]*dto.WarehouseAggregate)
	byLotStatus := make(map[string]*dto.LotStatusAggregate)
	for _, lot := range lots {
		dashboard.AvailableBoxes += lot.AvailableBoxes
		dashboard.AvailableLbs = dashboard.AvailableLbs.Add(lot.AvailableLbs())

		wh := byWarehouse[lot.Warehouse]
		if wh == nil {
			wh = &dto.WarehouseAggregate{Warehouse: lot.Warehouse, Lbs: decimal.Zero}
			byWarehouse[lot.Warehouse] = wh
		}
		wh.Boxes += lot.AvailableBoxes
		wh.Lbs = wh.Lbs.Add(lot.AvailableLbs())

		st := byLotStatus[lot.Status]
		if st == nil {
			st = &dto.LotStatusAggregate{Status: lot.Status}
			byLotStatus[lot.Status] = st
		}
		st.Boxes += lot.AvailableBoxes
	}

	assigned := make(map[string]int)
	byMilestone := make(map[string]*dto.MilestoneAggregate)
	for _, alloc := range allocations {
		status := string(alloc.Status)
		agg := byMilestone[status]
		if agg == nil {
			agg = &dto.MilestoneAggregate{Status: status}
			byMilestone[status] = agg
		}
		agg.Count++

		if alloc.State == models.StateCancelled {
			continue
		}
		if alloc.Type == models.AllocationOrder && alloc.Order != nil {
			assigned[alloc.Order.SalesOrderID] += alloc.TotalBoxes()
		}
	}

	for _, order := range orders {
		if assigned[order.ID] < order.Cases {
			dashboard.PendingOrders++
		}
	}

	for _, agg := range byWarehouse {
		dashboard.ByWarehouse = append(dashboard.ByWarehouse, *agg)
	}
	sort.Slice(dashboard.ByWarehouse, func(i, j int) bool {
		return dashboard.ByWarehouse[i].Warehouse < dashboard.ByWarehouse[j].Warehouse
	})

	for _, agg := range byLotStatus {
		dashboard.ByLotStatus = append(dashboard.ByLotStatus, *agg)
	}
	sort.Slice(dashboard.ByLotStatus, func(i, j int) bool {
		return dashboard.ByLotStatus[i].Status < dashboard.ByLotStatus[j].Status
	})

	for _, agg := range byMilestone {
		dashboard.AllocationsByStatus = append(dashboard.AllocationsByStatus, *agg)
	}
	sort.Slice(dashboard.AllocationsByStatus, func(i, j int) bool {
		return dashboard.AllocationsByStatus[i].Status < dashboard.AllocationsByStatus[j].Status
	})

	return dashboard
}
