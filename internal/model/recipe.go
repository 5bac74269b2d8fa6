package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeSchedule is one half of a compounding recipe's service fee: a flat
// BaseFee charged per started tier of TierSize units.
//
// AboveTierMultiplier is captured by the master-data screens but is NOT
// applied by the observed fee formula; tiers are simply counted and
// multiplied by the base fee. The field is stored so the data round-trips,
// pending product clarification.
type FeeSchedule struct {
	BaseFee             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TierSize            int             `gorm:"not null;default:1"`
	AboveTierMultiplier decimal.Decimal `gorm:"type:decimal(6,2);not null;default:1"`
}

// CompoundingRecipe prices the labor of grinding and wrapping a custom drug
// preparation. The two schedules are independent and summed.
type CompoundingRecipe struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string      `gorm:"not null"`
	Grinding  FeeSchedule `gorm:"embedded;embeddedPrefix:grinding_"`
	Wrapping  FeeSchedule `gorm:"embedded;embeddedPrefix:wrapping_"`
	Active    bool        `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
