package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
)

// CompoundingFee computes the total service fee for preparing quantity units
// of a compounding recipe: grinding and wrapping are charged independently
// per started tier and summed.
//
// Tier counting uses ceiling division — a partial tier still incurs a full
// tier's fee. This is a step function, not a proportional charge, and the
// schedule's above-tier multiplier does not enter the formula (see the field
// doc on model.FeeSchedule).
func CompoundingFee(r *model.CompoundingRecipe, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, apierror.NewValidation("compounding quantity must be a positive integer")
	}
	fee := scheduleFee(r.Grinding, quantity).Add(scheduleFee(r.Wrapping, quantity))
	return fee, nil
}

// AmortizedUnitPrice is the per-unit price displayed on a compounding line:
// the total fee spread over the quantity. The result may be fractional.
func AmortizedUnitPrice(totalFee decimal.Decimal, quantity int) decimal.Decimal {
	return totalFee.Div(decimal.NewFromInt(int64(quantity)))
}

func scheduleFee(s model.FeeSchedule, quantity int) decimal.Decimal {
	tierSize := s.TierSize
	if tierSize < 1 {
		tierSize = 1
	}
	tiers := (quantity + tierSize - 1) / tierSize
	return s.BaseFee.Mul(decimal.NewFromInt(int64(tiers)))
}
