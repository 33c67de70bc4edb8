package core

import (
	"fmt"
	"strconv"
	"strings"
)

// CivilDate is a calendar date in the ledger's calendar (Jalali by default).
// No month-length or leap-year rules are applied.
type CivilDate struct {
	Year  int
	Month int
	Day   int
}

// DateRange selects the calendar window a report aggregates over.
type DateRange string

const (
	ThisMonth DateRange = "thisMonth"
	LastMonth DateRange = "lastMonth"
	ThisYear  DateRange = "thisYear"
	AllTime   DateRange = "all"
)

// DateRanges lists the selectors in display order.
func DateRanges() []DateRange {
	return []DateRange{ThisMonth, LastMonth, ThisYear, AllTime}
}

// ParseDateRange accepts the selector names used by the API and CLI.
// An empty string defaults to ThisMonth.
func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(strings.TrimSpace(s)); r {
	case "":
		return ThisMonth, nil
	case ThisMonth, LastMonth, ThisYear, AllTime:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
}

func (r DateRange) String() string { return string(r) }

// PreviousMonth returns the year and month before d's month.
func (d CivilDate) PreviousMonth() (year, month int) {
	if d.Month <= 1 {
		return d.Year - 1, 12
	}
	return d.Year, d.Month - 1
}

// String formats the date as zero-padded YYYY/MM/DD with Latin digits.
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Before reports whether d falls strictly before o.
func (d CivilDate) Before(o CivilDate) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// ParseCivilDate parses "Y/M/D" (or "Y-M-D") with Latin, Persian or
// Arabic-Indic digits. Padding is optional.
func ParseCivilDate(s string) (CivilDate, error) {
	norm := NormalizeDigits(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "/")
	parts := strings.Split(norm, "/")
	if len(parts) != 3 {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	var vals [3]int
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		vals[i] = n
	}
	d := CivilDate{Year: vals[0], Month: vals[1], Day: vals[2]}
	if d.Year < 1 || d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// NormalizeDigits rewrites Persian (۰-۹) and Arabic-Indic (٠-٩) digits as
// ASCII digits and leaves every other rune untouched.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}, s)
}
