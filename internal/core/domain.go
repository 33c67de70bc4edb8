package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

type (
	Customer struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Phone     string    `json:"phone"`
		Address   string    `json:"address"`
		Notes     string    `json:"notes,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
	}

	CompanyInfo struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
		Logo    string `json:"logo,omitempty"`
	}

	Category struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Color     string `json:"color"`
		Icon      string `json:"icon,omitempty"`
		IsDefault bool   `json:"isDefault,omitempty"`
	}

	// Expense is a single vehicle expense. Amount is in whole Rials by
	// convention; Date is kept exactly as entered and parsed on demand.
	Expense struct {
		ID          string    `json:"id"`
		CategoryID  string    `json:"categoryId"`
		Amount      float64   `json:"amount"`
		Date        string    `json:"date"`
		Description string    `json:"description"`
		Odometer    *int64    `json:"odometer,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	LineItem struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		Rate        float64 `json:"rate"`
	}

	InvoiceData struct {
		InvoiceNumber     string     `json:"invoiceNumber"`
		Date              string     `json:"date"`
		DueDate           string     `json:"dueDate"`
		FromName          string     `json:"fromName"`
		FromEmail         string     `json:"fromEmail"`
		FromAddress       string     `json:"fromAddress"`
		Logo              string     `json:"logo,omitempty"`
		ToName            string     `json:"toName"`
		ToEmail           string     `json:"toEmail"`
		ToAddress         string     `json:"toAddress"`
		Items             []LineItem `json:"items"`
		Notes             string     `json:"notes"`
		Terms             string     `json:"terms"`
		Currency          string     `json:"currency"`
		TaxRate           float64    `json:"taxRate"`
		DiscountRate      float64    `json:"discountRate"`
		CompanySignature  string     `json:"companySignature,omitempty"`
		CustomerSignature string     `json:"customerSignature,omitempty"`
	}
)

const maxDescriptionLen = 500

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidOdometer  = errors.New("invalid odometer reading")
	ErrInvalidRange     = errors.New("invalid date range")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyTitle       = errors.New("empty category title")
	ErrEmptyColor       = errors.New("empty category color")
	ErrEmptyName        = errors.New("empty name")
	ErrNotFound         = errors.New("record not found")
	ErrDefaultCategory  = errors.New("default categories cannot be deleted")
	ErrDescriptionLimit = errors.New("description too long (max 500 characters)")
)

// Validate is the entry-workflow check. The aggregation code never calls it
// and tolerates records that would fail here.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseCivilDate(e.Date); err != nil {
		return err
	}
	if e.Odometer != nil && *e.Odometer < 0 {
		return ErrInvalidOdometer
	}
	if len([]rune(e.Description)) > maxDescriptionLen {
		return ErrDescriptionLimit
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(c.Color) == "" {
		return ErrEmptyColor
	}
	return nil
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c CompanyInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
