package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescomar/allocation-api/internal/models"
	"github.com/frescomar/allocation-api/internal/store"
	appErrors "github.com/frescomar/allocation-api/pkg/errors"
)

func milestoneFixture() *store.State {
	return store.New(nil, nil, []models.Allocation{{
		ID:     "ASG-0001",
		State:  models.StatePending,
		Status: models.MilestoneReadyForDelivery,
		StatusHistory: []models.StatusChange{
			{Status: models.MilestoneReadyForDelivery},
		},
		NotifyRule: models.DefaultNotificationRule("ops@fulton.example"),
	}})
}

func TestMilestoneSet(t *testing.T) {
	state := milestoneFixture()
	notifier := &mockNotifier{}
	svc := NewMilestoneService(state, &mockSnapshots{}, notifier, &mockInvalidator{}, nil)

	alloc, err := svc.Set(context.Background(), "ASG-0001", models.MilestoneInTransit)
	require.NoError(t, err)

	assert.Equal(t, models.MilestoneInTransit, alloc.Status)
	require.Len(t, alloc.StatusHistory, 2)
	assert.Equal(t, models.MilestoneInTransit, alloc.StatusHistory[1].Status)
	assert.False(t, alloc.StatusHistory[1].At.IsZero())

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, models.MilestoneInTransit, notifier.calls[0].Milestone)
}

func TestMilestoneSetAnyOrder(t *testing.T) {
	state := milestoneFixture()
	svc := NewMilestoneService(state, &mockSnapshots{}, nil, nil, nil)
	ctx := context.Background()

	// No transition guard: DELIVERED then back to IN_TRANSIT is legal.
	_, err := svc.Set(ctx, "ASG-0001", models.MilestoneDelivered)
	require.NoError(t, err)
	alloc, err := svc.Set(ctx, "ASG-0001", models.MilestoneInTransit)
	require.NoError(t, err)

	assert.Equal(t, models.MilestoneInTransit, alloc.Status)
	assert.Len(t, alloc.StatusHistory, 3)
}

func TestMilestoneSetUnknownMilestone(t *testing.T) {
	svc := NewMilestoneService(milestoneFixture(), &mockSnapshots{}, nil, nil, nil)

	_, err := svc.Set(context.Background(), "ASG-0001", "LOST_AT_SEA")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMilestoneSetUnknownAllocation(t *testing.T) {
	svc := NewMilestoneService(milestoneFixture(), &mockSnapshots{}, nil, nil, nil)

	_, err := svc.Set(context.Background(), "ASG-0404", models.MilestoneDelivered)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
