package dto

// MovementFilter is bound from the query string of GET /v1/stock/movements.
type MovementFilter struct {
	BranchID  string `form:"branch_id"  validate:"omitempty,uuid"`
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Type      string `form:"type"       validate:"omitempty,oneof=sale adjustment restock"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// AdjustStockRequest is a manual correction by a supervisor; positive delta
// adds stock, negative removes (floored at zero by the store).
type AdjustStockRequest struct {
	BranchID  string `json:"branch_id"  validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required,uuid"`
	Delta     int    `json:"delta"      validate:"required"`
	Note      string `json:"note"       validate:"required"`
}

type BranchStockResponse struct {
	BranchID    string `json:"branch_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	MinStock    int    `json:"min_stock"`
}

type StockMovementResponse struct {
	ID             string  `json:"id"`
	BranchID       string  `json:"branch_id"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Type           string  `json:"type"`
	Quantity       int     `json:"quantity"`
	QuantityBefore int     `json:"quantity_before"`
	QuantityAfter  int     `json:"quantity_after"`
	Note           string  `json:"note"`
	ReferenceID    *string `json:"reference_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type MovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

type StockAlertResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	MinStock    int    `json:"min_stock"`
}
