package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"9500000", 9500000, true},
		{"9,500,000", 9500000, true},
		{" 1200 ", 1200, true},
		{"۹٬۵۰۰٬۰۰۰", 9500000, true},
		{"٣٠٠٠", 3000, true},
		{"1 000", 1000, true},
		{"12.5", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %v", tc.in, got)
		}
	}
}
