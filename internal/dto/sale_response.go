package dto

import "time"

type SaleResponse struct {
	TraceID     string            `json:"traceId"`
	SaleID      uint              `json:"saleId,omitempty"`
	PublicID    string            `json:"publicId,omitempty"`
	StockroomID int               `json:"stockroomId"`
	Status      string            `json:"status,omitempty"`
	TotalPrice  float64           `json:"totalPrice"`
	Success     bool              `json:"success"`
	Errors      []string          `json:"errors,omitempty"`
	Adjustments []StockAdjustment `json:"adjustments,omitempty"`
	MoveOutcome MoveOutcome       `json:"moveOutcome,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

type SaleErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}
