package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taxiledger/internal/assistant"
	"taxiledger/internal/core"
	"taxiledger/internal/invoice"
	"taxiledger/internal/log"
	"taxiledger/internal/records"
)

const (
	defaultCurrency = "ریال"
	defaultTaxRate  = 9
)

// InvoiceService composes invoice drafts from stored records and computes
// their totals.
type InvoiceService struct {
	customers records.CustomerStore
	company   records.CompanyStore
	extractor assistant.Extractor
	clock     Clock
	logger    *log.Logger
}

func NewInvoiceService(store records.Store, extractor assistant.Extractor, clock Clock, logger *log.Logger) *InvoiceService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if extractor == nil {
		extractor = assistant.Disabled{}
	}
	return &InvoiceService{
		customers: store,
		company:   store,
		extractor: extractor,
		clock:     clock,
		logger:    logger.WithComponent(log.ComponentInvoice),
	}
}

// Draft returns a new invoice dated today. The sender block comes from the
// saved company profile and, when customerID is set, the recipient block
// from that customer.
func (s *InvoiceService) Draft(ctx context.Context, customerID string, items []core.LineItem) (core.InvoiceData, error) {
	today := s.clock.Today()
	data := core.InvoiceData{
		InvoiceNumber: fmt.Sprintf("TAX-%d-1001", today.Year),
		Date:          today.String(),
		DueDate:       today.String(),
		Currency:      defaultCurrency,
		TaxRate:       defaultTaxRate,
		Items:         withItemIDs(items),
	}

	company, err := s.company.GetCompany(ctx)
	if err != nil {
		return core.InvoiceData{}, fmt.Errorf("load company: %w", err)
	}
	if company != nil {
		ApplyCompany(&data, *company)
	}

	if customerID != "" {
		c, err := s.customers.GetCustomer(ctx, customerID)
		if err != nil {
			return core.InvoiceData{}, fmt.Errorf("load customer %s: %w", customerID, err)
		}
		ApplyCustomer(&data, c)
	}
	return data, nil
}

// ApplyCompany copies the company profile into the sender block.
func ApplyCompany(data *core.InvoiceData, c core.CompanyInfo) {
	data.FromName = c.Name
	data.FromEmail = c.Email
	data.FromAddress = c.Address
	data.Logo = c.Logo
}

// ApplyCustomer copies a customer into the recipient block.
func ApplyCustomer(data *core.InvoiceData, c core.Customer) {
	data.ToName = c.Name
	data.ToEmail = c.Email
	data.ToAddress = c.Address
}

func (s *InvoiceService) Totals(data core.InvoiceData) core.InvoiceTotals {
	return invoice.ComputeFor(data)
}

// SuggestItems asks the line-item assistant to turn free text into items.
// Every returned item gets a fresh ID; the values are passed through as the
// assistant produced them.
func (s *InvoiceService) SuggestItems(ctx context.Context, text string) ([]core.LineItem, error) {
	items, err := s.extractor.ExtractLineItems(ctx, text)
	if err != nil {
		s.logger.ErrorContext(ctx, "Line-item extraction failed", log.FieldOperation, log.OpExtract, log.FieldError, err)
		return nil, fmt.Errorf("extract line items: %w", err)
	}
	items = withItemIDs(items)
	s.logger.InfoContext(ctx, "Line items suggested", log.FieldOperation, log.OpExtract, log.FieldCount, len(items))
	return items, nil
}

func withItemIDs(items []core.LineItem) []core.LineItem {
	out := make([]core.LineItem, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		out[i] = it
	}
	return out
}
