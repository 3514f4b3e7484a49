package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frescomar/allocation-api/internal/dto"
	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/internal/store"
	appErrors "github.com/frescomar/allocation-api/pkg/errors"
)

type allocationSnapshots interface {
	Save(ctx context.Context, allocations []models.Allocation) error
}

type ledger interface {
	Reserve(ctx context.Context, lotID string, boxes int) (models.Lot, error)
	Release(ctx context.Context, lotID string, boxes int) (models.Lot, error)
}

type milestoneNotifier interface {
	Notify(ctx context.Context, allocationID string, milestone models.Milestone) (models.NotificationLogEntry, bool)
}

type dashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

type allocationMetrics interface {
	IncAllocationCreated(boxes int)
	IncAllocationCancelled()
}

// AllocationService is the allocation engine: it validates availability
// against the ledger, commits reservations, and owns the allocation
// lifecycle.
type AllocationService struct {
	state     *store.State
	ledger    ledger
	snapshots allocationSnapshots
	directory clientDirectory
	notifier  milestoneNotifier
	dashboard dashboardInvalidator
	metrics   allocationMetrics
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAllocationService builds an AllocationService with sane defaults.
func NewAllocationService(
	state *store.State,
	ledger ledger,
	snapshots allocationSnapshots,
	directory clientDirectory,
	notifier milestoneNotifier,
	dashboard dashboardInvalidator,
	metrics allocationMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationService{
		state:     state,
		ledger:    ledger,
		snapshots: snapshots,
		directory: directory,
		notifier:  notifier,
		dashboard: dashboard,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns every allocation, newest first.
func (s *AllocationService) List() []models.Allocation {
	return s.state.Allocations()
}

// Get returns one allocation by id.
func (s *AllocationService) Get(id string) (models.Allocation, error) {
	alloc, ok := s.state.Allocation(id)
	if !ok {
		return models.Allocation{}, appErrors.ErrNotFound
	}
	return alloc, nil
}

// Create validates and commits a new allocation. Validation is
// all-or-nothing across the whole line set: no lot is touched unless
// every line can be covered.
func (s *AllocationService) Create(ctx context.Context, req dto.CreateAllocationRequest) (models.Allocation, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Allocation{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation request")
	}

	customer, orderLink, spotSale, err := s.resolveTarget(req)
	if err != nil {
		return models.Allocation{}, err
	}

	items, err := s.buildLines(req.Lines)
	if err != nil {
		return models.Allocation{}, err
	}

	// Commit. Each reserve is now guaranteed by the validation pass;
	// an unexpected failure still unwinds the lines already taken.
	for i, item := range items {
		if _, err := s.ledger.Reserve(ctx, item.LotID, item.Boxes); err != nil {
			for _, committed := range items[:i] {
				if _, releaseErr := s.ledger.Release(ctx, committed.LotID, committed.Boxes); releaseErr != nil {
					s.logger.Error("rollback release failed",
						zap.String("lot_id", committed.LotID),
						zap.Error(releaseErr),
					)
				}
			}
			return models.Allocation{}, err
		}
	}

	recipient := ""
	if s.directory != nil {
		if email, dirErr := s.directory.FindEmailByName(ctx, customer); dirErr == nil {
			recipient = email
		}
	}

	now := s.now()
	alloc := models.Allocation{
		ID:               s.state.NextAllocationID(),
		Date:             now,
		Type:             req.Type,
		Order:            orderLink,
		Spot:             spotSale,
		Customer:         customer,
		State:            models.StatePending,
		Items:            items,
		Status:           models.MilestoneReadyForDelivery,
		StatusHistory:    []models.StatusChange{{At: now, Status: models.MilestoneReadyForDelivery}},
		NotifyRule:       models.DefaultNotificationRule(recipient),
		NotificationsLog: []models.NotificationLogEntry{},
		TrackingToken:    uuid.NewString(),
	}
	s.state.AddAllocation(alloc)
	s.saveSnapshot(ctx)
	s.invalidateDashboard(ctx)

	if s.metrics != nil {
		s.metrics.IncAllocationCreated(alloc.TotalBoxes())
	}
	s.logger.Info("allocation created",
		zap.String("allocation_id", alloc.ID),
		zap.String("customer", customer),
		zap.Int("boxes", alloc.TotalBoxes()),
		zap.Int("lines", len(items)),
	)

	if s.notifier != nil && alloc.NotifyRule.Enabled && alloc.NotifyRule.Includes(alloc.Status) {
		s.notifier.Notify(ctx, alloc.ID, alloc.Status)
	}

	created, ok := s.state.Allocation(alloc.ID)
	if !ok {
		return alloc, nil
	}
	return created, nil
}

// Cancel returns every reserved box to its lot and marks the allocation
// CANCELLED. Cancelling an already-cancelled allocation is a silent
// no-op. History and the notification log are retained.
func (s *AllocationService) Cancel(ctx context.Context, id string) error {
	alloc, ok := s.state.Allocation(id)
	if !ok {
		return appErrors.ErrNotFound
	}
	if alloc.State == models.StateCancelled {
		return nil
	}

	for _, item := range alloc.Items {
		if _, err := s.ledger.Release(ctx, item.LotID, item.Boxes); err != nil {
			s.logger.Error("release on cancel failed",
				zap.String("allocation_id", id),
				zap.String("lot_id", item.LotID),
				zap.Error(err),
			)
		}
	}

	if _, err := s.state.UpdateAllocation(id, func(a *models.Allocation) error {
		a.State = models.StateCancelled
		return nil
	}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel allocation")
	}
	s.saveSnapshot(ctx)
	s.invalidateDashboard(ctx)

	if s.metrics != nil {
		s.metrics.IncAllocationCancelled()
	}
	s.logger.Info("allocation cancelled", zap.String("allocation_id", id))
	return nil
}

// SalesOrders exposes the order context the engine allocates against.
func (s *AllocationService) SalesOrders() []models.SalesOrder {
	return s.state.SalesOrders()
}

// AssignedBySalesOrder sums boxes committed per sales order across
// non-cancelled ORDER allocations.
func (s *AllocationService) AssignedBySalesOrder() map[string]int {
	assigned := make(map[string]int)
	for _, alloc := range s.state.Allocations() {
		if alloc.State == models.StateCancelled {
			continue
		}
		if alloc.Type != models.AllocationOrder || alloc.Order == nil {
			continue
		}
		assigned[alloc.Order.SalesOrderID] += alloc.TotalBoxes()
	}
	return assigned
}

func (s *AllocationService) resolveTarget(req dto.CreateAllocationRequest) (string, *models.OrderLink, *models.SpotSale, error) {
	switch req.Type {
	case models.AllocationOrder:
		if req.SalesOrderID == "" {
			return "", nil, nil, appErrors.ErrOrderNotFound
		}
		order, ok := s.state.SalesOrder(req.SalesOrderID)
		if !ok {
			return "", nil, nil, appErrors.ErrOrderNotFound
		}
		return order.ShipTo, &models.OrderLink{SalesOrderID: order.ID}, nil, nil
	case models.AllocationSpot:
		customer := strings.TrimSpace(req.SpotCustomer)
		if customer == "" {
			return "", nil, nil, appErrors.ErrInvalidSpotCustomer
		}
		return customer, nil, &models.SpotSale{Customer: customer, Reference: strings.TrimSpace(req.SpotRef)}, nil
	default:
		return "", nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown allocation type")
	}
}

// buildLines drops empty lines, snapshots lot identity into each line
// item and verifies availability for the whole set.
func (s *AllocationService) buildLines(lines []dto.LineRequest) ([]models.LineItem, error) {
	requested := make(map[string]int)
	var items []models.LineItem
	for _, line := range lines {
		if line.Boxes <= 0 {
			continue
		}
		lot, ok := s.state.Lot(line.LotID)
		if !ok {
			// A line against a lot the ledger no longer knows reads as
			// zero available boxes, not as a distinct failure.
			return nil, appErrors.InsufficientStock(line.LotID, "?", 0)
		}
		items = append(items, models.LineItem{
			LotID:    lot.ID,
			PO:       lot.PO,
			Material: lot.Material,
			Product:  lot.Product,
			Boxes:    line.Boxes,
		})
		requested[lot.ID] += line.Boxes
	}
	if len(items) == 0 {
		return nil, appErrors.ErrEmptyAllocation
	}

	for lotID, boxes := range requested {
		lot, ok := s.state.Lot(lotID)
		if !ok {
			return nil, appErrors.InsufficientStock(lotID, "?", 0)
		}
		if boxes > lot.AvailableBoxes {
			return nil, appErrors.InsufficientStock(lot.PO, lot.Material, lot.AvailableBoxes)
		}
	}
	return items, nil
}

func (s *AllocationService) saveSnapshot(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.state.Allocations()); err != nil {
		s.logger.Warn("allocation snapshot save failed", zap.Error(err))
	}
}

func (s *AllocationService) invalidateDashboard(ctx context.Context) {
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}
}
