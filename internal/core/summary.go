package core

// Summary is the headline of an expense report.
type Summary struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// CategoryBreakdown is the per-category share of a filtered expense set.
type CategoryBreakdown struct {
	CategoryID string  `json:"categoryId"`
	Title      string  `json:"title"`
	Color      string  `json:"color"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// InvoiceTotals are the derived amounts shown under an invoice's items.
type InvoiceTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	Total          float64 `json:"total"`
}
