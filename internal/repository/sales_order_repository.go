package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/frescomar/allocation-api/internal/models"
)

// SalesOrderRepository reads the sales-order reference data supplied by
// the commercial system. The tracker never writes to it.
type SalesOrderRepository struct {
	db *sqlx.DB
}

// NewSalesOrderRepository creates a new repository instance.
func NewSalesOrderRepository(db *sqlx.DB) *SalesOrderRepository {
	return &SalesOrderRepository{db: db}
}

// List returns every sales order in demand order.
func (r *SalesOrderRepository) List(ctx context.Context) ([]models.SalesOrder, error) {
	query := `SELECT id, demand_id, sales_rep, ship_to, pickup_date, material, description,
		cases, price, price_unit, customer_po, incoterm, port_entry, week, truck, brand
		FROM sales_orders ORDER BY demand_id`
	var orders []models.SalesOrder
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	return orders, nil
}
