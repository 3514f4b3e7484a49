package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Lot represents an inbound batch of product tracked by purchase order,
// material and warehouse. AvailableBoxes is the only quantity the
// allocation engine mutates; OrderedBoxes is the original intake.
type Lot struct {
	ID              string          `db:"id" json:"id"`
	PO              string          `db:"po" json:"po"`
	Warehouse       string          `db:"warehouse" json:"warehouse"`
	Location        string          `db:"location" json:"location"`
	Plant           string          `db:"plant" json:"plant"`
	ProductionDate  string          `db:"production_date" json:"production_date"`
	ETA             string          `db:"eta" json:"eta"`
	Status          string          `db:"status" json:"status"`
	AWB             *string         `db:"awb" json:"awb,omitempty"`
	PrimaryCustomer string          `db:"primary_customer" json:"primary_customer"`
	Customers       pq.StringArray  `db:"customers" json:"customers"`
	Material        string          `db:"material" json:"material"`
	Description     string          `db:"description" json:"description"`
	Product         string          `db:"product" json:"product"`
	Sector          string          `db:"sector" json:"sector"`
	Trim            string          `db:"trim" json:"trim"`
	Size            string          `db:"size" json:"size"`
	Scales          *string         `db:"scales" json:"scales,omitempty"`
	BoxFormat       decimal.Decimal `db:"box_format" json:"box_format"`
	Packing         string          `db:"packing" json:"packing"`
	OrderedBoxes    int             `db:"ordered_boxes" json:"ordered_boxes"`
	AvailableBoxes  int             `db:"available_boxes" json:"available_boxes"`
	Active          bool            `db:"active" json:"active"`
	ClosedAt        *time.Time      `db:"closed_at" json:"closed_at,omitempty"`
}

// AvailableLbs is the remaining weight in the lot.
func (l *Lot) AvailableLbs() decimal.Decimal {
	return l.BoxFormat.Mul(decimal.NewFromInt(int64(l.AvailableBoxes)))
}

// LotFilter captures supported filters for listing lots.
type LotFilter struct {
	Search        string
	IncludeClosed bool
}

// Matches reports whether the lot satisfies the free-text filter. The
// search covers the same columns the operator sees in the inventory grid.
func (l *Lot) Matches(filter LotFilter) bool {
	if !filter.IncludeClosed && !l.Active {
		return false
	}
	if filter.Search == "" {
		return true
	}
	return containsFold(filter.Search,
		l.PO, l.Material, l.Description, l.Product, l.PrimaryCustomer,
		l.Warehouse, l.Sector, l.Trim, l.Size, joinStrings(l.Customers),
	)
}
