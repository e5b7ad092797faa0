// Package pricing resolves authoritative unit prices for cart lines
// and aggregates cart totals with the store's delivery rules.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds to the nearest whole currency unit, halves away from
// zero. Every published amount goes through this exactly once;
// subtotal, delivery and total are each rounded independently
// (round-then-sum), matching the storefront's historical arithmetic.
func Round(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(0).Float64()
	return f
}

// ParseWeightGrams extracts the first integer token from a free-text
// weight option. "500g" and "grams: 500" both yield 500; an empty or
// digit-free string yields ok=false and the base price applies.
func ParseWeightGrams(s string) (int, bool) {
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}

	grams := 0
	for _, r := range s[start:end] {
		grams = grams*10 + int(r-'0')
		if grams > 1<<31 {
			return 0, false
		}
	}
	if grams <= 0 {
		return 0, false
	}
	return grams, true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// ClampDiscount forces a discount percentage into [0,100] before it is
// applied, whatever the stored value says.
func ClampDiscount(d float64) float64 {
	if d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}
