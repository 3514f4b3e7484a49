package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/internal/store"
	appErrors "github.com/frescomar/allocation-api/pkg/errors"
)

type lotWriter interface {
	UpdateStock(ctx context.Context, lot models.Lot) error
}

// InventoryService is the inventory ledger: it owns every mutation of a
// lot's available-box count and keeps the active flag and closure
// timestamp consistent with it.
type InventoryService struct {
	state  *store.State
	lots   lotWriter
	logger *zap.Logger
	now    func() time.Time
}

// NewInventoryService builds the ledger over the shared state.
func NewInventoryService(state *store.State, lots lotWriter, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		state:  state,
		lots:   lots,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns lots matching the operator's free-text filter.
func (s *InventoryService) List(filter models.LotFilter) []models.Lot {
	return s.state.Lots(filter)
}

// Lot returns one lot by id.
func (s *InventoryService) Lot(id string) (models.Lot, error) {
	lot, ok := s.state.Lot(id)
	if !ok {
		return models.Lot{}, appErrors.ErrLotNotFound
	}
	return lot, nil
}

// Reserve takes boxes out of a lot. It fails with INSUFFICIENT_STOCK
// when the lot cannot cover the quantity and leaves the lot untouched.
// When the count reaches zero the lot is deactivated and its closure
// time stamped (only on the transition from active).
func (s *InventoryService) Reserve(ctx context.Context, lotID string, boxes int) (models.Lot, error) {
	if _, ok := s.state.Lot(lotID); !ok {
		return models.Lot{}, appErrors.ErrLotNotFound
	}

	var updated models.Lot
	err := s.state.UpdateLot(lotID, func(lot *models.Lot) error {
		if boxes > lot.AvailableBoxes {
			return appErrors.InsufficientStock(lot.PO, lot.Material, lot.AvailableBoxes)
		}
		lot.AvailableBoxes -= boxes
		if lot.AvailableBoxes == 0 {
			if lot.Active {
				closed := s.now()
				lot.ClosedAt = &closed
			}
			lot.Active = false
		}
		updated = *lot
		return nil
	})
	if err != nil {
		return models.Lot{}, err
	}

	s.persist(ctx, updated)
	return updated, nil
}

// Release returns boxes to a lot, reactivating it and clearing the
// closure time when the count rises above zero.
func (s *InventoryService) Release(ctx context.Context, lotID string, boxes int) (models.Lot, error) {
	if _, ok := s.state.Lot(lotID); !ok {
		return models.Lot{}, appErrors.ErrLotNotFound
	}

	var updated models.Lot
	err := s.state.UpdateLot(lotID, func(lot *models.Lot) error {
		lot.AvailableBoxes += boxes
		if lot.AvailableBoxes > 0 {
			lot.Active = true
			lot.ClosedAt = nil
		}
		updated = *lot
		return nil
	})
	if err != nil {
		return models.Lot{}, err
	}

	s.persist(ctx, updated)
	return updated, nil
}

// persist writes the stock columns back. The in-memory ledger is the
// working truth for the session; a failed write is logged, not raised.
func (s *InventoryService) persist(ctx context.Context, lot models.Lot) {
	if s.lots == nil {
		return
	}
	if err := s.lots.UpdateStock(ctx, lot); err != nil {
		s.logger.Warn("lot stock write-back failed",
			zap.String("lot_id", lot.ID),
			zap.Error(err),
		)
	}
}
