package domain

import "time"

type Sale struct {
	ID          uint
	PublicID    string
	StockroomID int
	Status      string
	TotalPrice  float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	SaleStatusPending   = "PENDING"
	SaleStatusPaid      = "PAID"
	SaleStatusCancelled = "CANCELLED"
)

type SaleLineItem struct {
	ID        uint
	SaleID    uint
	ProductID int
	Quantity  int
	UnitPrice float64
}

// TotalPrice sums quantity times unit price across the line items.
func TotalPrice(items []SaleLineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}
