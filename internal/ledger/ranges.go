// Package ledger aggregates expense records into report figures.
//
// Everything here is a pure function over in-memory slices. Nothing in the
// package performs I/O or keeps state between calls, so the functions may be
// used from concurrent requests without coordination.
//
// This file holds the date-range strategies. Each selector has a matcher
// that decides whether a parsed record date falls in its window relative to
// a caller-supplied "now".
package ledger

import (
	"fmt"

	"taxiledger/internal/core"
)

// RangeMatcher is the strategy interface for a date-range selector.
type RangeMatcher interface {
	// Contains reports whether d falls inside the window resolved against now.
	Contains(d, now core.CivilDate) bool
}

// MonthMatcher selects records in now's year and month.
type MonthMatcher struct{}

func (MonthMatcher) Contains(d, now core.CivilDate) bool {
	return d.Year == now.Year && d.Month == now.Month
}

// PreviousMonthMatcher selects records in the month before now's month.
// Month 1 rolls back to month 12 of the previous year.
type PreviousMonthMatcher struct{}

func (PreviousMonthMatcher) Contains(d, now core.CivilDate) bool {
	y, m := now.PreviousMonth()
	return d.Year == y && d.Month == m
}

// YearMatcher selects records in now's year.
type YearMatcher struct{}

func (YearMatcher) Contains(d, now core.CivilDate) bool {
	return d.Year == now.Year
}

// AllMatcher selects every record whose date parsed.
type AllMatcher struct{}

func (AllMatcher) Contains(core.CivilDate, core.CivilDate) bool { return true }

var rangeMatchers = map[core.DateRange]RangeMatcher{
	core.ThisMonth: MonthMatcher{},
	core.LastMonth: PreviousMonthMatcher{},
	core.ThisYear:  YearMatcher{},
	core.AllTime:   AllMatcher{},
}

// GetRangeMatcher returns the matcher for a selector.
func GetRangeMatcher(r core.DateRange) (RangeMatcher, error) {
	m, ok := rangeMatchers[r]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidRange, r)
	}
	return m, nil
}
