package domain

import "time"

type Product struct {
	ID        int
	Name      string
	SalePrice float64
	CostPrice float64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
