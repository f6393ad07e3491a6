// Package pricing resolves price tiers to monetary amounts.  Amounts are
// kept in integer cents, the same way reservations are totalled, so fee
// arithmetic never accumulates floating point error.
package pricing

import (
	"fmt"
	"sort"
	"strings"
)

// Amount is a monetary value in cents.
type Amount int64

// Dollars returns the amount as a float for JSON and display.
func (a Amount) Dollars() float64 { return float64(a) / 100 }

// String formats the amount as "$123.45".
func (a Amount) String() string {
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s$%d.%02d", sign, a/100, a%100)
}

// Short formats the amount without trailing zero cents: "$50", "$72.5".
func (a Amount) Short() string {
	s := a.String()
	if strings.HasSuffix(s, ".00") {
		return strings.TrimSuffix(s, ".00")
	}
	return strings.TrimSuffix(s, "0")
}

// tierPrices is the fixed tier table.
var tierPrices = map[int]Amount{
	1: 5000,
	2: 7500,
	3: 10000,
	4: 15000,
}

// ServiceFeePercent is applied to the subtotal of an order.
const ServiceFeePercent = 5

// PriceForTier returns the price of a tier.  Unknown tiers cost nothing;
// malformed venue data must never break pricing.
func PriceForTier(tier int) Amount {
	return tierPrices[tier]
}

// AvailableTiers returns the known tiers in ascending order.
func AvailableTiers() []int {
	tiers := make([]int, 0, len(tierPrices))
	for t := range tierPrices {
		tiers = append(tiers, t)
	}
	sort.Ints(tiers)
	return tiers
}

// PriceRange returns the cheapest and most expensive tier prices.
func PriceRange() (min, max Amount) {
	first := true
	for _, p := range tierPrices {
		if first || p < min {
			min = p
		}
		if first || p > max {
			max = p
		}
		first = false
	}
	return min, max
}

// ServiceFee returns the fee owed on a subtotal, rounded half up to the cent.
func ServiceFee(subtotal Amount) Amount {
	return (subtotal*ServiceFeePercent + 50) / 100
}
