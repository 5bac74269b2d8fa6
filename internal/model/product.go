package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item tracked in base units. Every packaging unit the
// product can be sold in is listed in Units, ordered by Position.
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code     string    `gorm:"uniqueIndex;not null"`
	Name     string    `gorm:"index;not null"`
	Category string    `gorm:"not null;default:'general'"`
	// MinStock is the base-unit level below which the product appears in low-stock alerts.
	MinStock   int  `gorm:"not null;default:10"`
	Active     bool `gorm:"not null;default:true"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Units    []ProductUnit `gorm:"foreignKey:ProductID"`
	Supplier *Supplier     `gorm:"foreignKey:SupplierID"`
}

// ProductUnit is one packaging unit of a product (strip, box, bottle, …).
// ConversionFactor expresses how many base units one packaging unit equals;
// the base unit carries factor 1 and IsBase=true. Legacy rows imported from
// the old system may lack the IsBase flag entirely — the price resolver falls
// back to the first unit in that case.
type ProductUnit struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_product_unit;not null"`
	Name             string          `gorm:"uniqueIndex:idx_product_unit;not null"`
	SellPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BuyPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ConversionFactor int             `gorm:"not null;default:1"`
	IsBase           bool            `gorm:"not null;default:false"`
	Position         int             `gorm:"not null;default:0"`
}
