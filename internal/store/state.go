// Package store holds the in-memory working state of the tracker: lots,
// sales orders and allocations. The container is created by main and
// injected into services; there are no package-level singletons. A
// single logical writer is assumed (see the persistence model), the
// mutex only guards in-process access.
package store

import (
	"fmt"
	"sync"

	"github.com/frescomar/allocation-api/internal/models"
)

// State is the shared state container.
type State struct {
	mu sync.RWMutex

	lots     map[string]*models.Lot
	lotOrder []string

	orders    map[string]*models.SalesOrder
	orderList []models.SalesOrder

	allocations []*models.Allocation
	byID        map[string]*models.Allocation
	byToken     map[string]*models.Allocation

	created int
}

// New builds a State from loaded reference data and the persisted
// allocation collection.
func New(lots []models.Lot, orders []models.SalesOrder, allocations []models.Allocation) *State {
	s := &State{
		lots:    make(map[string]*models.Lot, len(lots)),
		orders:  make(map[string]*models.SalesOrder, len(orders)),
		byID:    make(map[string]*models.Allocation, len(allocations)),
		byToken: make(map[string]*models.Allocation, len(allocations)),
	}
	for i := range lots {
		lot := lots[i]
		s.lots[lot.ID] = &lot
		s.lotOrder = append(s.lotOrder, lot.ID)
	}
	for i := range orders {
		order := orders[i]
		s.orders[order.ID] = &order
		s.orderList = append(s.orderList, order)
	}
	for i := range allocations {
		alloc := cloneAllocation(&allocations[i])
		s.allocations = append(s.allocations, alloc)
		s.byID[alloc.ID] = alloc
		if alloc.TrackingToken != "" {
			s.byToken[alloc.TrackingToken] = alloc
		}
	}
	s.created = len(allocations)
	return s
}

// Lots returns copies of the lots matching the filter, in load order.
func (s *State) Lots(filter models.LotFilter) []models.Lot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Lot, 0, len(s.lotOrder))
	for _, id := range s.lotOrder {
		lot := s.lots[id]
		if lot.Matches(filter) {
			result = append(result, *lot)
		}
	}
	return result
}

// Lot returns a copy of one lot.
func (s *State) Lot(id string) (models.Lot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lot, ok := s.lots[id]
	if !ok {
		return models.Lot{}, false
	}
	return *lot, true
}

// FirstLot returns the first lot in load order, used by the tracking
// demo fallback.
func (s *State) FirstLot() (models.Lot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.lotOrder) == 0 {
		return models.Lot{}, false
	}
	return *s.lots[s.lotOrder[0]], true
}

// UpdateLot applies fn to the stored lot under the write lock. The
// update is discarded when fn returns an error.
func (s *State) UpdateLot(id string, fn func(*models.Lot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lot, ok := s.lots[id]
	if !ok {
		return fmt.Errorf("lot %s not in state", id)
	}
	scratch := *lot
	if err := fn(&scratch); err != nil {
		return err
	}
	*lot = scratch
	return nil
}

// SalesOrders returns the immutable order reference list.
func (s *State) SalesOrders() []models.SalesOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.SalesOrder, len(s.orderList))
	copy(result, s.orderList)
	return result
}

// SalesOrder returns one sales order by id.
func (s *State) SalesOrder(id string) (models.SalesOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return models.SalesOrder{}, false
	}
	return *order, true
}

// Allocations returns copies of every allocation, newest first.
func (s *State) Allocations() []models.Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Allocation, 0, len(s.allocations))
	for _, alloc := range s.allocations {
		result = append(result, *cloneAllocation(alloc))
	}
	return result
}

// Allocation returns a copy of one allocation by id.
func (s *State) Allocation(id string) (models.Allocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alloc, ok := s.byID[id]
	if !ok {
		return models.Allocation{}, false
	}
	return *cloneAllocation(alloc), true
}

// AllocationByToken resolves a public tracking token.
func (s *State) AllocationByToken(token string) (models.Allocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alloc, ok := s.byToken[token]
	if !ok {
		return models.Allocation{}, false
	}
	return *cloneAllocation(alloc), true
}

// AddAllocation prepends a new allocation, newest first as the operator
// sees them.
func (s *State) AddAllocation(a models.Allocation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alloc := cloneAllocation(&a)
	s.allocations = append([]*models.Allocation{alloc}, s.allocations...)
	s.byID[alloc.ID] = alloc
	if alloc.TrackingToken != "" {
		s.byToken[alloc.TrackingToken] = alloc
	}
	s.created++
}

// UpdateAllocation applies fn to the stored allocation under the write
// lock and returns a copy of the result.
func (s *State) UpdateAllocation(id string, fn func(*models.Allocation) error) (models.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alloc, ok := s.byID[id]
	if !ok {
		return models.Allocation{}, fmt.Errorf("allocation %s not in state", id)
	}
	scratch := cloneAllocation(alloc)
	if err := fn(scratch); err != nil {
		return models.Allocation{}, err
	}
	*alloc = *scratch
	return *cloneAllocation(alloc), nil
}

// NextAllocationID issues the next sequential operator-facing id.
func (s *State) NextAllocationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fmt.Sprintf("ASG-%04d", s.created+1)
}

func cloneAllocation(a *models.Allocation) *models.Allocation {
	clone := *a
	if a.Order != nil {
		link := *a.Order
		clone.Order = &link
	}
	if a.Spot != nil {
		spot := *a.Spot
		clone.Spot = &spot
	}
	clone.Items = append([]models.LineItem(nil), a.Items...)
	clone.StatusHistory = append([]models.StatusChange(nil), a.StatusHistory...)
	clone.NotificationsLog = append([]models.NotificationLogEntry(nil), a.NotificationsLog...)
	clone.NotifyRule.Milestones = append([]models.Milestone(nil), a.NotifyRule.Milestones...)
	return &clone
}
