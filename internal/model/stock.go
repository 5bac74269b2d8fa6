package model

import (
	"time"

	"github.com/google/uuid"
)

// Branch is a pharmacy location. Stock is scoped per branch.
type Branch struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (Branch) TableName() string { return "branches" }

// BranchStock is the on-hand quantity of one product at one branch,
// always expressed in base units. Quantity never goes below zero.
type BranchStock struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_branch_product;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_branch_product;not null"`
	Quantity  int       `gorm:"not null;default:0"`
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (BranchStock) TableName() string { return "branch_stock" }

// StockMovement records every change to branch stock.
// Type: "sale" | "adjustment" | "restock"
// Quantity is the signed base-unit delta: positive = in, negative = out.
// Movements are never modified or deleted.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Type           string    `gorm:"not null"`
	Quantity       int       `gorm:"not null"`
	QuantityBefore int       `gorm:"not null"`
	QuantityAfter  int       `gorm:"not null"`
	Note           string
	// ReferenceID links to the originating sale or invoice if applicable.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
