package domain

import "time"

// StockRecord holds the on-hand quantity for one (product, stockroom) pair.
// It is the unit of mutation for every inventory operation; quantity never
// goes below zero.
type StockRecord struct {
	ProductID   int
	StockroomID int
	Quantity    int
	UpdatedAt   time.Time
}
