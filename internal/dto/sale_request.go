package dto

type SaleItemRequest struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type CreateSaleRequest struct {
	StockroomID int               `json:"stockroomId"`
	Items       []SaleItemRequest `json:"items"`
}

type UpdateSaleRequest struct {
	StockroomID int               `json:"stockroomId"`
	Items       []SaleItemRequest `json:"items"`
}

type SetStockRequest struct {
	Quantity int `json:"quantity"`
}
