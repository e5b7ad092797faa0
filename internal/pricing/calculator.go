package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sanikapatil01/chakali-store/internal/store"
)

// Line is one priced cart entry. DiscountPercent is only non-zero on
// the cart-preview path; the finalization pipeline bakes the discount
// into UnitPrice first and passes zero here.
type Line struct {
	UnitPrice       float64
	Quantity        int
	DiscountPercent float64
}

type Totals struct {
	Subtotal       float64
	DeliveryCharge float64
	Total          float64
}

// Calculate aggregates cart totals. The free-delivery threshold is
// compared against the raw (unrounded) subtotal; the three outputs are
// then rounded independently.
func Calculate(lines []Line, settings *store.Settings) Totals {
	subtotal := decimal.Zero
	hundred := decimal.NewFromInt(100)

	for _, l := range lines {
		unit := decimal.NewFromFloat(l.UnitPrice)
		discount := decimal.NewFromFloat(ClampDiscount(l.DiscountPercent))
		discounted := unit.Mul(hundred.Sub(discount)).Div(hundred)
		subtotal = subtotal.Add(discounted.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	delivery := decimal.NewFromFloat(settings.DeliveryCharge)
	if settings.FreeDeliveryAbove != nil &&
		subtotal.GreaterThanOrEqual(decimal.NewFromFloat(*settings.FreeDeliveryAbove)) {
		delivery = decimal.Zero
	}

	total := subtotal.Add(delivery)
	if total.IsNegative() {
		total = decimal.Zero
	}

	sub, _ := subtotal.Round(0).Float64()
	del, _ := delivery.Round(0).Float64()
	tot, _ := total.Round(0).Float64()

	return Totals{Subtotal: sub, DeliveryCharge: del, Total: tot}
}
