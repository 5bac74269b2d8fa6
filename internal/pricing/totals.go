package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/kasukras-star/Apotikme-sub004/internal/apierror"
	"github.com/kasukras-star/Apotikme-sub004/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ValidVATRate reports whether rate is one of the three legal VAT states:
// none, 11% or 12%. Arbitrary percentages are rejected at the door.
func ValidVATRate(rate int) bool {
	return rate == 0 || rate == 11 || rate == 12
}

// Totals is the aggregated money of a cart or invoice.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	VATAmount      decimal.Decimal
	Total          decimal.Decimal
}

// LineSubtotal applies the shared line invariant: quantity * unitPrice -
// discount, never negative. A discount larger than the gross amount is a
// validation failure, not a silent clamp.
func LineSubtotal(quantity int, unitPrice, discount decimal.Decimal) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, apierror.NewValidation("line quantity must be a positive integer")
	}
	if discount.IsNegative() {
		return decimal.Zero, apierror.NewValidation("line discount cannot be negative")
	}
	sub := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount)
	if sub.IsNegative() {
		return decimal.Zero, apierror.NewValidation("line discount exceeds line amount")
	}
	return sub, nil
}

// CartTotals aggregates heterogeneous lines into subtotal, global discount,
// VAT and grand total. Product and compounding lines contribute identically —
// only their Subtotal matters here. The function is pure and idempotent:
// calling it twice on unchanged lines yields identical totals.
func CartTotals(lines []model.SaleLine, discountPct decimal.Decimal, vatRate int) (Totals, error) {
	if discountPct.IsNegative() || discountPct.GreaterThan(hundred) {
		return Totals{}, apierror.NewValidation("discount percentage must be between 0 and 100")
	}
	if !ValidVATRate(vatRate) {
		return Totals{}, apierror.NewValidation("vat rate must be 0, 11 or 12")
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
	}

	discountAmount := subtotal.Mul(discountPct).Div(hundred)
	afterDiscount := subtotal.Sub(discountAmount)

	vatAmount := decimal.Zero
	if vatRate != 0 {
		vatAmount = afterDiscount.Mul(decimal.NewFromInt(int64(vatRate))).Div(hundred)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		VATAmount:      vatAmount,
		Total:          afterDiscount.Add(vatAmount),
	}, nil
}

// SumSubtotals is CartTotals for callers that only have raw line subtotals,
// e.g. the purchase-invoice builder.
func SumSubtotals(subtotals []decimal.Decimal, discountPct decimal.Decimal, vatRate int) (Totals, error) {
	lines := make([]model.SaleLine, len(subtotals))
	for i, s := range subtotals {
		lines[i].Subtotal = s
	}
	return CartTotals(lines, discountPct, vatRate)
}
