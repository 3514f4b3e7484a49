package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/frescomar/allocation-api/internal/models"
)

// LotRepository persists inventory lots. Lots load whole at startup;
// only the stock columns are written back as allocations mutate them.
type LotRepository struct {
	db *sqlx.DB
}

// NewLotRepository creates a new repository instance.
func NewLotRepository(db *sqlx.DB) *LotRepository {
	return &LotRepository{db: db}
}

// List returns every lot in intake order.
func (r *LotRepository) List(ctx context.Context) ([]models.Lot, error) {
	query := `SELECT id, po, warehouse, location, plant, production_date, eta, status, awb,
		primary_customer, customers, material, description, product, sector, trim, size,
		scales, box_format, packing, ordered_boxes, available_boxes, active, closed_at
		FROM lots ORDER BY id`
	var lots []models.Lot
	if err := r.db.SelectContext(ctx, &lots, query); err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return lots, nil
}

// UpdateStock writes back the mutable stock columns of one lot.
func (r *LotRepository) UpdateStock(ctx context.Context, lot models.Lot) error {
	query := `UPDATE lots SET available_boxes = $2, active = $3, closed_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, lot.ID, lot.AvailableBoxes, lot.Active, lot.ClosedAt)
	if err != nil {
		return fmt.Errorf("update lot stock %s: %w", lot.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lot stock %s: %w", lot.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update lot stock %s: no such lot", lot.ID)
	}
	return nil
}
