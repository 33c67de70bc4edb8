package core

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	odo := int64(120500)
	good := Expense{
		CategoryID:  "1",
		Amount:      9_500_000,
		Date:        "1403/01/15",
		Description: "بنزین",
		Odometer:    &odo,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	neg := int64(-1)
	cases := []struct {
		name string
		mut  func(e *Expense)
		want error
	}{
		{"empty category", func(e *Expense) { e.CategoryID = " " }, ErrEmptyCategory},
		{"zero amount", func(e *Expense) { e.Amount = 0 }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount = -5 }, ErrInvalidAmount},
		{"nan amount", func(e *Expense) { e.Amount = math.NaN() }, ErrInvalidAmount},
		{"bad date", func(e *Expense) { e.Date = "1403/13/01" }, ErrInvalidDate},
		{"negative odometer", func(e *Expense) { e.Odometer = &neg }, ErrInvalidOdometer},
		{"long description", func(e *Expense) { e.Description = strings.Repeat("ب", 501) }, ErrDescriptionLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := good
			tc.mut(&e)
			if err := e.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Title: "سوخت", Color: "#ef4444"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Color: "#ef4444"}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if err := (Category{Title: "x"}).Validate(); !errors.Is(err, ErrEmptyColor) {
		t.Fatalf("expected ErrEmptyColor, got %v", err)
	}
}

func TestCustomerAndCompanyValidate(t *testing.T) {
	if err := (Customer{}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (CompanyInfo{Name: "تاکسی فرودگاه"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}
