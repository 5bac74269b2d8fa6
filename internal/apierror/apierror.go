// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
//
// The settlement engine returns errors from this taxonomy as plain values:
// a failed stock check leaves stock untouched, a failed payment leaves the
// ledger untouched. Handlers map each type to an HTTP status in respondError.
package apierror

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError reports a missing or invalid field, a non-positive quantity
// or amount, or a malformed request body.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func NewValidation(detail string) *ValidationError {
	return &ValidationError{Detail: detail}
}

// NewFieldValidation wraps multiple field errors from the request validator.
func NewFieldValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

func (e *ValidationError) Error() string { return e.Detail }

// NotFoundError identifies an unknown product, unit, recipe, invoice or supplier.
type NotFoundError struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StockShortage describes one product that cannot cover the requested
// quantity, expressed in base units.
type StockShortage struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Available   int    `json:"available"`
	Required    int    `json:"required"`
}

// InsufficientStockError carries the full itemized list of shortfalls for a
// checkout. The validation pass never stops at the first failure, and no
// deduction is applied when this error is returned.
type InsufficientStockError struct {
	Shortages []StockShortage `json:"shortages"`
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		names = append(names, fmt.Sprintf("%s (need %d, have %d)", s.ProductName, s.Required, s.Available))
	}
	return "insufficient stock: " + strings.Join(names, ", ")
}

// OverpaymentError is returned when a payment amount exceeds the invoice's
// remaining balance. The ledger is left untouched.
type OverpaymentError struct {
	Amount    decimal.Decimal `json:"amount"`
	Remaining decimal.Decimal `json:"remaining"`
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds remaining balance of %s", e.Amount, e.Remaining)
}
