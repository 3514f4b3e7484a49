package models

import "github.com/shopspring/decimal"

// SalesOrder is read-only reference data supplied by the commercial
// system. Allocations link against it; the tracker never mutates it.
type SalesOrder struct {
	ID          string          `db:"id" json:"id"`
	DemandID    string          `db:"demand_id" json:"demand_id"`
	SalesRep    string          `db:"sales_rep" json:"sales_rep"`
	ShipTo      string          `db:"ship_to" json:"ship_to"`
	PickupDate  string          `db:"pickup_date" json:"pickup_date"`
	Material    string          `db:"material" json:"material"`
	Description string          `db:"description" json:"description"`
	Cases       int             `db:"cases" json:"cases"`
	Price       decimal.Decimal `db:"price" json:"price"`
	PriceUnit   string          `db:"price_unit" json:"price_unit"`
	CustomerPO  string          `db:"customer_po" json:"customer_po"`
	Incoterm    string          `db:"incoterm" json:"incoterm"`
	PortEntry   string          `db:"port_entry" json:"port_entry"`
	Week        string          `db:"week" json:"week"`
	Truck       string          `db:"truck" json:"truck"`
	Brand       string          `db:"brand" json:"brand"`
}

// Client maps a customer name to its default notification contact.
type Client struct {
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}
