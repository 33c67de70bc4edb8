// Package core holds the bookkeeping domain types and the parsing helpers
// the entry workflow uses before anything reaches the store.
//
// This file contains amount parsing for user-entered Rial values.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user-entered Rial amount to a number.
//
// It accepts Latin, Persian and Arabic-Indic digits and the common thousands
// separators (",", "٬", "،" and spaces). Rials have no minor unit, so a
// fractional part is rejected. Zero and negative values are invalid.
//
// Examples:
//
//	ParseAmount("9500000")      -> 9500000, nil
//	ParseAmount("9,500,000")    -> 9500000, nil
//	ParseAmount("۹٬۵۰۰٬۰۰۰")    -> 9500000, nil
//	ParseAmount("12.5")         -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = NormalizeDigits(strings.TrimSpace(s))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', '٬', '،', ' ', '\u00a0', '\u200c':
			return -1
		}
		return r
	}, s)
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return 0, ErrInvalidAmount
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidAmount
	}
	// float64 represents integers exactly up to 2^53.
	if n > 1<<53 {
		return 0, ErrInvalidAmount
	}
	return float64(n), nil
}
