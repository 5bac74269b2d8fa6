package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is the counterparty of a purchase invoice.
type Supplier struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	TaxID       string    `gorm:"column:tax_id;uniqueIndex;not null"`
	Phone       *string
	Email       *string
	Address     *string
	PaymentTerm *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Invoice payment states, derived exclusively from PaidTotal vs Total.
const (
	InvoiceUnpaid  = "unpaid"
	InvoicePartial = "partial"
	InvoicePaid    = "paid"
)

// PurchaseInvoice is the accounts-payable record for one supplier invoice.
// Created when a procurement receipt is invoiced; mutated only by payment
// recording. Status is recomputed from authoritative amounts on every
// payment — there are no cached flags that can drift.
type PurchaseInvoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	SupplierID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DiscountPct   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	VATRate       int             `gorm:"not null;default:0"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaidTotal     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Status        string          `gorm:"type:varchar(10);not null;default:'unpaid';index"`
	DueDate       time.Time       `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Supplier *Supplier             `gorm:"foreignKey:SupplierID"`
	Lines    []PurchaseInvoiceLine `gorm:"foreignKey:InvoiceID"`
	Payments []Payment             `gorm:"foreignKey:InvoiceID"`
}

// Remaining is the open balance, floored at zero.
func (inv *PurchaseInvoice) Remaining() decimal.Decimal {
	r := inv.Total.Sub(inv.PaidTotal)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// PurchaseInvoiceLine is one received product at the agreed unit price.
type PurchaseInvoiceLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	UnitName  string
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Payment is one append-only installment against a purchase invoice.
// Once recorded a payment is never edited, only referenced. Cancellation has
// no path here: reversals are unspecified upstream and deliberately absent.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ReceiptNumber string    `gorm:"uniqueIndex;not null"`
	Date          time.Time `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Method        string          `gorm:"type:varchar(20);not null"`
	Reference     *string
	// ProofRef stores an attachment reference issued by the upload service;
	// file handling itself is outside this engine.
	ProofRef  *string
	CreatedAt time.Time
}
