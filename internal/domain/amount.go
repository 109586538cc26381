package domain

import "github.com/shopspring/decimal"

// LineAmount is quantity × price computed in decimal to avoid float drift.
func LineAmount(quantity, price float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).InexactFloat64()
}

// TotalAmount sums the line amounts of an order.
func TotalAmount(lines []OrderLine) float64 {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(line.Amount))
	}
	return total.InexactFloat64()
}
