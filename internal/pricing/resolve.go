// Package pricing implements the settlement math of the engine: unit price
// resolution across packaging units, tiered compounding fees, and cart
// totals. Everything here is a pure function over catalog data — no I/O, no
// hidden accumulators, safe to call repeatedly.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/kasukras-star/Apotikme-sub004/internal/model"
)

// ErrNoUnits is returned when a product carries no packaging units at all.
// Callers surface this as a validation failure; it is distinct from an
// unknown product, which the catalog layer reports as NotFoundError.
var ErrNoUnits = errors.New("product has no packaging units")

// ResolvedUnit is the outcome of resolving a packaging unit choice.
type ResolvedUnit struct {
	UnitName         string
	SellPrice        decimal.Decimal
	ConversionFactor int
}

// ResolveUnit returns the sell price and base-unit conversion factor for the
// requested packaging unit of a product. When unitName is empty or unknown it
// falls back to the unit marked base, or to the first defined unit for legacy
// rows that never got the flag.
func ResolveUnit(p *model.Product, unitName string) (ResolvedUnit, error) {
	if len(p.Units) == 0 {
		return ResolvedUnit{}, ErrNoUnits
	}

	if unitName != "" {
		for _, u := range p.Units {
			if u.Name == unitName {
				return resolved(u), nil
			}
		}
	}
	for _, u := range p.Units {
		if u.IsBase {
			return resolved(u), nil
		}
	}
	return resolved(p.Units[0]), nil
}

func resolved(u model.ProductUnit) ResolvedUnit {
	factor := u.ConversionFactor
	if factor < 1 {
		factor = 1
	}
	return ResolvedUnit{
		UnitName:         u.Name,
		SellPrice:        u.SellPrice,
		ConversionFactor: factor,
	}
}
