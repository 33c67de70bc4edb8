package ledger

import (
	"cmp"
	"slices"

	"taxiledger/internal/core"
)

// UnknownCategoryID is the bucket for records whose category is missing.
const UnknownCategoryID = "unknown"

// UnknownCategory is the fallback used when a record references a category
// that does not exist.
var UnknownCategory = core.Category{
	ID:    UnknownCategoryID,
	Title: "نامشخص",
	Color: "#9ca3af",
}

// FilterByRange returns the records whose date falls in r, in input order.
//
// Dates are compared as parsed integers. Records whose date does not parse
// are dropped from every range, "all" included. An unknown selector yields
// an empty result.
func FilterByRange(records []core.Expense, r core.DateRange, now core.CivilDate) []core.Expense {
	out := make([]core.Expense, 0, len(records))
	m, err := GetRangeMatcher(r)
	if err != nil {
		return out
	}
	for _, rec := range records {
		d, err := core.ParseCivilDate(rec.Date)
		if err != nil {
			continue
		}
		if m.Contains(d, now) {
			out = append(out, rec)
		}
	}
	return out
}

// Summarize totals the records. Average is zero for an empty set.
func Summarize(records []core.Expense) core.Summary {
	var s core.Summary
	for _, rec := range records {
		s.Total += rec.Amount
	}
	s.Count = len(records)
	if s.Count > 0 {
		s.Average = s.Total / float64(s.Count)
	}
	return s
}

// BreakdownByCategory groups records per category.
//
// Records that reference no known category are attributed to
// UnknownCategory. Only buckets whose amount is nonzero are returned (NaN
// counts as nonzero). Entries are sorted by amount descending; ties keep
// the order of categories, with the unknown bucket last. If a category ID
// appears twice, the first definition wins.
func BreakdownByCategory(records []core.Expense, categories []core.Category) []core.CategoryBreakdown {
	if len(records) == 0 {
		return []core.CategoryBreakdown{}
	}

	index := make(map[string]int, len(categories))
	buckets := make([]core.CategoryBreakdown, 0, len(categories)+1)
	for _, c := range categories {
		if _, dup := index[c.ID]; dup {
			continue
		}
		index[c.ID] = len(buckets)
		buckets = append(buckets, core.CategoryBreakdown{CategoryID: c.ID, Title: c.Title, Color: c.Color})
	}
	unknown := core.CategoryBreakdown{
		CategoryID: UnknownCategory.ID,
		Title:      UnknownCategory.Title,
		Color:      UnknownCategory.Color,
	}

	var total float64
	for _, rec := range records {
		total += rec.Amount
		b := &unknown
		if i, ok := index[rec.CategoryID]; ok {
			b = &buckets[i]
		}
		b.Amount += rec.Amount
		b.Count++
	}
	if unknown.Count > 0 {
		buckets = append(buckets, unknown)
	}

	out := make([]core.CategoryBreakdown, 0, len(buckets))
	for _, b := range buckets {
		if b.Count == 0 || b.Amount == 0 {
			continue
		}
		if total > 0 {
			b.Percentage = b.Amount / total * 100
		}
		out = append(out, b)
	}
	slices.SortStableFunc(out, func(a, b core.CategoryBreakdown) int {
		return cmp.Compare(b.Amount, a.Amount)
	})
	return out
}

// TopCategory returns the largest entry of a sorted breakdown, or nil.
func TopCategory(breakdown []core.CategoryBreakdown) *core.CategoryBreakdown {
	if len(breakdown) == 0 {
		return nil
	}
	top := breakdown[0]
	return &top
}
