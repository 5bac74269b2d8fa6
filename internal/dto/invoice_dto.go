package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceFilter is bound from the query string of GET /v1/invoices.
// Bucket is a display classification over due dates; the ledger service
// translates it into the due-date bounds below so the query itself filters
// and pagination counts stay correct. Status filters on the stored state.
type InvoiceFilter struct {
	SupplierID string `form:"supplier_id" validate:"omitempty,uuid"`
	Status     string `form:"status"      validate:"omitempty,oneof=unpaid partial paid"`
	Bucket     string `form:"bucket"      validate:"omitempty,oneof=due_soon overdue"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`

	// Derived from Bucket by the service — never bound from the query string.
	OpenOnly  bool       `form:"-"`
	DueFrom   *time.Time `form:"-"`
	DueBefore *time.Time `form:"-"`
}

type InvoiceLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Unit      string          `json:"unit"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number" validate:"required"`
	SupplierID    string               `json:"supplier_id"    validate:"required,uuid"`
	BranchID      string               `json:"branch_id"      validate:"required,uuid"`
	Lines         []InvoiceLineRequest `json:"lines"          validate:"required,min=1,dive"`
	DiscountPct   decimal.Decimal      `json:"discount_pct"   validate:"min=0,max=100"`
	VATRate       int                  `json:"vat_rate"       validate:"oneof=0 11 12"`
	DueDate       string               `json:"due_date"       validate:"required,datetime=2006-01-02"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Date   string          `json:"date"   validate:"required,datetime=2006-01-02"`
	Method string          `json:"method" validate:"required,oneof=cash transfer giro"`
	// Reference is free text (bank mutation code, giro number, …).
	Reference *string `json:"reference"`
	// ProofRef points at an uploaded proof-of-transfer; upload handling
	// lives in the back-office, only the reference travels here.
	ProofRef *string `json:"proof_ref"`
}

type PaymentResponse struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	ReceiptNumber string          `json:"receipt_number"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Reference     *string         `json:"reference,omitempty"`
	ProofRef      *string         `json:"proof_ref,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type InvoiceLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type InvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	SupplierID     string                `json:"supplier_id"`
	SupplierName   string                `json:"supplier_name"`
	BranchID       string                `json:"branch_id"`
	Lines          []InvoiceLineResponse `json:"lines,omitempty"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	VATRate        int                   `json:"vat_rate"`
	VATAmount      decimal.Decimal       `json:"vat_amount"`
	Total          decimal.Decimal       `json:"total"`
	PaidTotal      decimal.Decimal       `json:"paid_total"`
	Remaining      decimal.Decimal       `json:"remaining"`
	Status         string                `json:"status"`
	DueDate        string                `json:"due_date"`
	DaysUntilDue   int                   `json:"days_until_due"`
	Badge          string                `json:"badge"`
	Payments       []PaymentResponse     `json:"payments,omitempty"`
	CreatedAt      string                `json:"created_at"`
}

type InvoiceListResponse struct {
	Data  []InvoiceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type CreateSupplierRequest struct {
	Name        string  `json:"name"    validate:"required"`
	TaxID       string  `json:"tax_id"  validate:"required"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"   validate:"omitempty,email"`
	Address     *string `json:"address"`
	PaymentTerm *string `json:"payment_term"`
}

type SupplierResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	TaxID       string  `json:"tax_id"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	PaymentTerm *string `json:"payment_term,omitempty"`
}
