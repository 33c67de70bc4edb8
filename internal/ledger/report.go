package ledger

import "taxiledger/internal/core"

// Report is everything the expense report view shows for one range.
type Report struct {
	Range     core.DateRange           `json:"range"`
	Now       core.CivilDate           `json:"-"`
	Records   []core.Expense           `json:"records"`
	Summary   core.Summary             `json:"summary"`
	Breakdown []core.CategoryBreakdown `json:"breakdown"`
	Top       *core.CategoryBreakdown  `json:"top,omitempty"`
}

// BuildReport filters records to r and aggregates the result.
func BuildReport(records []core.Expense, categories []core.Category, r core.DateRange, now core.CivilDate) Report {
	filtered := FilterByRange(records, r, now)
	breakdown := BreakdownByCategory(filtered, categories)
	return Report{
		Range:     r,
		Now:       now,
		Records:   filtered,
		Summary:   Summarize(filtered),
		Breakdown: breakdown,
		Top:       TopCategory(breakdown),
	}
}
