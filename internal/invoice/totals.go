// Package invoice derives the totals printed under an invoice's line items.
//
// Discount is taken off the subtotal first and tax is charged on what
// remains. No rounding is applied here; display rounding is left to callers.
package invoice

import "taxiledger/internal/core"

// Subtotal is the sum of quantity times rate over all items.
func Subtotal(items []core.LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Quantity * it.Rate
	}
	return sum
}

func DiscountAmount(subtotal, discountRatePercent float64) float64 {
	return subtotal * discountRatePercent / 100
}

// TaxAmount charges tax on the post-discount base.
func TaxAmount(subtotal, discountAmount, taxRatePercent float64) float64 {
	return (subtotal - discountAmount) * taxRatePercent / 100
}

func Total(subtotal, discountAmount, taxAmount float64) float64 {
	return subtotal - discountAmount + taxAmount
}

// Compute derives all four figures at once.
func Compute(items []core.LineItem, discountRatePercent, taxRatePercent float64) core.InvoiceTotals {
	sub := Subtotal(items)
	disc := DiscountAmount(sub, discountRatePercent)
	tax := TaxAmount(sub, disc, taxRatePercent)
	return core.InvoiceTotals{
		Subtotal:       sub,
		DiscountAmount: disc,
		TaxAmount:      tax,
		Total:          Total(sub, disc, tax),
	}
}

// ComputeFor applies Compute to an invoice's own items and rates.
func ComputeFor(data core.InvoiceData) core.InvoiceTotals {
	return Compute(data.Items, data.DiscountRate, data.TaxRate)
}
