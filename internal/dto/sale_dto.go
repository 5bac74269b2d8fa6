package dto

import "github.com/shopspring/decimal"

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	BranchID string `form:"branch_id" validate:"omitempty,uuid"`
	Date     string `form:"date"` // YYYY-MM-DD; empty = all
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// SaleLineRequest is the tagged line variant of a checkout request.
// Product lines carry product_id (+ optional unit name); compounding lines
// carry recipe_id. The kind tag decides which payload is read.
type SaleLineRequest struct {
	Kind      string          `json:"kind"       validate:"required,oneof=product compound"`
	ProductID *string         `json:"product_id" validate:"omitempty,uuid"`
	Unit      string          `json:"unit"`
	RecipeID  *string         `json:"recipe_id"  validate:"omitempty,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	Discount  decimal.Decimal `json:"discount"   validate:"min=0"`
}

type CheckoutRequest struct {
	BranchID    string            `json:"branch_id"    validate:"required,uuid"`
	CustomerID  *string           `json:"customer_id"  validate:"omitempty,uuid"`
	Lines       []SaleLineRequest `json:"lines"        validate:"required,min=1,dive"`
	DiscountPct decimal.Decimal   `json:"discount_pct" validate:"min=0,max=100"`
	VATRate     int               `json:"vat_rate"     validate:"oneof=0 11 12"`
	// Payment method mirrors what the POS terminal accepts.
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash debit credit transfer qris"`
}

type SaleLineResponse struct {
	Kind      string          `json:"kind"`
	ProductID *string         `json:"product_id,omitempty"`
	RecipeID  *string         `json:"recipe_id,omitempty"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID             string             `json:"id"`
	ReceiptNumber  int                `json:"receipt_number"`
	BranchID       string             `json:"branch_id"`
	CustomerID     *string            `json:"customer_id,omitempty"`
	Lines          []SaleLineResponse `json:"lines"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountPct    decimal.Decimal    `json:"discount_pct"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	VATRate        int                `json:"vat_rate"`
	VATAmount      decimal.Decimal    `json:"vat_amount"`
	Total          decimal.Decimal    `json:"total"`
	PaymentMethod  string             `json:"payment_method"`
	CreatedAt      string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
