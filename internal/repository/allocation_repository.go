package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/frescomar/allocation-api/internal/models"
)

// AllocationSnapshotKey is the single well-known key holding the whole
// serialized allocation collection.
const AllocationSnapshotKey = "allocations_v1"

// AllocationRepository snapshots the allocation collection wholesale
// after every mutating operation (snapshot-on-write, no incremental
// persistence).
type AllocationRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewAllocationRepository constructs an allocation snapshot store.
func NewAllocationRepository(client *redis.Client, logger *zap.Logger) *AllocationRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationRepository{client: client, logger: logger}
}

// Load reads the persisted collection. Absent or malformed data
// degrades to an empty collection, never an error.
func (r *AllocationRepository) Load(ctx context.Context) []models.Allocation {
	if r.client == nil {
		return nil
	}

	raw, err := r.client.Get(ctx, AllocationSnapshotKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("allocation snapshot unreadable, starting empty", zap.Error(err))
		}
		return nil
	}

	var allocations []models.Allocation
	if err := json.Unmarshal(raw, &allocations); err != nil {
		r.logger.Warn("allocation snapshot malformed, starting empty", zap.Error(err))
		return nil
	}
	return allocations
}

// Save writes the whole collection under the snapshot key.
func (r *AllocationRepository) Save(ctx context.Context, allocations []models.Allocation) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(allocations)
	if err != nil {
		return fmt.Errorf("marshal allocation snapshot: %w", err)
	}
	if err := r.client.Set(ctx, AllocationSnapshotKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("save allocation snapshot: %w", err)
	}
	return nil
}
