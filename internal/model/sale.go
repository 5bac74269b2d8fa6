package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine kinds. A cart mixes plain product lines and compounding-service
// lines; the Kind tag drives dispatch, not the shape of the struct.
const (
	LineKindProduct  = "product"
	LineKindCompound = "compound"
)

// Sale is an immutable checkout record. Totals are computed once by the cart
// total engine and stored; they can always be re-derived from the lines.
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceiptNumber int       `gorm:"uniqueIndex;not null"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// DiscountPct is the global cart discount percentage (0–100).
	DiscountPct    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// VATRate is tri-state: 0 (none), 11 or 12 — never an arbitrary percentage.
	VATRate       int             `gorm:"not null;default:0"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	CashierID     uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt     time.Time

	Lines    []SaleLine `gorm:"foreignKey:SaleID"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
}

// SaleLine is the tagged variant shared by product and compounding lines.
// Invariant for both kinds: Subtotal = Quantity * UnitPrice - Discount,
// never negative.
type SaleLine struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind   string    `gorm:"type:varchar(10);not null"`

	// Product line payload. UnitName and ConversionFactor are snapshotted at
	// checkout so the sale stays re-derivable after catalog edits.
	ProductID        *uuid.UUID `gorm:"type:uuid;index"`
	UnitName         string
	ConversionFactor int `gorm:"not null;default:1"`

	// Compounding line payload. UnitPrice holds the amortized per-unit fee.
	RecipeID *uuid.UUID `gorm:"type:uuid"`

	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Product *Product           `gorm:"foreignKey:ProductID"`
	Recipe  *CompoundingRecipe `gorm:"foreignKey:RecipeID"`
}

// Customer is an optional reference on a sale; customer management itself
// belongs to the back-office surface.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     *string
	CreatedAt time.Time
}
