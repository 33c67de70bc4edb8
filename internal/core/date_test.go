package core

import (
	"errors"
	"testing"
)

func TestParseCivilDate(t *testing.T) {
	cases := []struct {
		in   string
		want CivilDate
		ok   bool
	}{
		{"1403/01/15", CivilDate{1403, 1, 15}, true},
		{"1403/1/5", CivilDate{1403, 1, 5}, true},
		{"۱۴۰۳/۰۱/۱۵", CivilDate{1403, 1, 15}, true},
		{"١٤٠٣/٠٢/٠١", CivilDate{1403, 2, 1}, true},
		{"1403-12-30", CivilDate{1403, 12, 30}, true},
		{" 1402/12/29 ", CivilDate{1402, 12, 29}, true},
		{"1403/13/01", CivilDate{}, false},
		{"1403/00/10", CivilDate{}, false},
		{"1403/01/32", CivilDate{}, false},
		{"1403/01", CivilDate{}, false},
		{"1403//01", CivilDate{}, false},
		{"", CivilDate{}, false},
		{"garbage", CivilDate{}, false},
	}
	for _, tc := range cases {
		got, err := ParseCivilDate(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestPreviousMonthRollsOverYear(t *testing.T) {
	y, m := CivilDate{1403, 1, 10}.PreviousMonth()
	if y != 1402 || m != 12 {
		t.Fatalf("expected 1402/12, got %d/%d", y, m)
	}
	y, m = CivilDate{1403, 7, 1}.PreviousMonth()
	if y != 1403 || m != 6 {
		t.Fatalf("expected 1403/6, got %d/%d", y, m)
	}
}

func TestParseDateRange(t *testing.T) {
	for _, r := range DateRanges() {
		got, err := ParseDateRange(string(r))
		if err != nil || got != r {
			t.Fatalf("%q round trip failed: %v %v", r, got, err)
		}
	}
	if got, _ := ParseDateRange(""); got != ThisMonth {
		t.Fatalf("expected default thisMonth, got %q", got)
	}
	if _, err := ParseDateRange("nextWeek"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestCivilDateOrdering(t *testing.T) {
	a := CivilDate{1403, 1, 15}
	b := CivilDate{1403, 2, 1}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Fatalf("ordering broken for %v and %v", a, b)
	}
	if a.String() != "1403/01/15" {
		t.Fatalf("unexpected format %q", a.String())
	}
}
