package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/internal/store"
	appErrors "github.com/frescomar/allocation-api/pkg/errors"
)

// MilestoneService advances an allocation's shipment status. Any
// milestone may be set from any other; the service's job is
// bookkeeping and notification triggering, not transition validation.
type MilestoneService struct {
	state     *store.State
	snapshots allocationSnapshots
	notifier  milestoneNotifier
	dashboard dashboardInvalidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewMilestoneService builds the state machine over the shared state.
func NewMilestoneService(
	state *store.State,
	snapshots allocationSnapshots,
	notifier milestoneNotifier,
	dashboard dashboardInvalidator,
	logger *zap.Logger,
) *MilestoneService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MilestoneService{
		state:     state,
		snapshots: snapshots,
		notifier:  notifier,
		dashboard: dashboard,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Set appends the new milestone to the history and makes it current,
// then evaluates the notification rule. The transition is recorded
// before any delivery side effect, so a failed dispatch never rolls it
// back.
func (s *MilestoneService) Set(ctx context.Context, allocationID string, milestone models.Milestone) (models.Allocation, error) {
	if !models.ValidMilestone(milestone) {
		return models.Allocation{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown milestone %q", milestone))
	}
	if _, ok := s.state.Allocation(allocationID); !ok {
		return models.Allocation{}, appErrors.ErrNotFound
	}

	updated, err := s.state.UpdateAllocation(allocationID, func(a *models.Allocation) error {
		a.StatusHistory = append(a.StatusHistory, models.StatusChange{At: s.now(), Status: milestone})
		a.Status = milestone
		return nil
	})
	if err != nil {
		return models.Allocation{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set milestone")
	}
	s.saveSnapshot(ctx)
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}

	s.logger.Info("milestone set",
		zap.String("allocation_id", allocationID),
		zap.String("milestone", string(milestone)),
	)

	if s.notifier != nil {
		s.notifier.Notify(ctx, allocationID, milestone)
	}

	// Re-read so the caller sees any log entry the dispatch appended.
	if withLog, ok := s.state.Allocation(allocationID); ok {
		return withLog, nil
	}
	return updated, nil
}

func (s *MilestoneService) saveSnapshot(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.state.Allocations()); err != nil {
		s.logger.Warn("allocation snapshot save failed", zap.Error(err))
	}
}
