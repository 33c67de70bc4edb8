package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"taxiledger/internal/assistant"
	"taxiledger/internal/core"
	"taxiledger/internal/records/memory"
)

type stubExtractor struct {
	items []core.LineItem
	err   error
	seen  string
}

func (s *stubExtractor) ExtractLineItems(_ context.Context, text string) ([]core.LineItem, error) {
	s.seen = text
	return s.items, s.err
}

func TestInvoiceService_Draft(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if err := store.SaveCompany(ctx, core.CompanyInfo{Name: "تاکسی رویال", Email: "info@royal-taxi.ir", Address: "فرودگاه امام", Logo: "data:image/png;base64,AA"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCustomer(ctx, core.Customer{ID: "c1", Name: "شرکت افق", Email: "acc@ofogh.ir", Address: "بلوار آفریقا", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	service := NewInvoiceService(store, nil, fixedClock{Year: 1403, Month: 7, Day: 3}, quietLogger())

	data, err := service.Draft(ctx, "c1", []core.LineItem{{Description: "ترانسفر", Quantity: 1, Rate: 9_500_000}})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}

	checks := map[string][2]string{
		"invoice number": {data.InvoiceNumber, "TAX-1403-1001"},
		"date":           {data.Date, "1403/07/03"},
		"due date":       {data.DueDate, "1403/07/03"},
		"currency":       {data.Currency, "ریال"},
		"from name":      {data.FromName, "تاکسی رویال"},
		"from email":     {data.FromEmail, "info@royal-taxi.ir"},
		"logo":           {data.Logo, "data:image/png;base64,AA"},
		"to name":        {data.ToName, "شرکت افق"},
		"to address":     {data.ToAddress, "بلوار آفریقا"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}
	if data.TaxRate != 9 || data.DiscountRate != 0 {
		t.Errorf("rates = %v/%v, want 9/0", data.TaxRate, data.DiscountRate)
	}
	if len(data.Items) != 1 || data.Items[0].ID == "" {
		t.Errorf("items should carry IDs: %+v", data.Items)
	}

	if _, err := service.Draft(ctx, "missing", nil); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Draft(missing customer) = %v, want ErrNotFound", err)
	}
}

func TestInvoiceService_DraftWithoutCompany(t *testing.T) {
	service := NewInvoiceService(memory.New(), nil, fixedClock{Year: 1404, Month: 1, Day: 1}, quietLogger())
	data, err := service.Draft(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if data.FromName != "" || data.ToName != "" {
		t.Errorf("blocks should stay empty: %+v", data)
	}
	if data.Items == nil {
		t.Error("items should be an empty list, not nil")
	}
}

func TestInvoiceService_Totals(t *testing.T) {
	service := NewInvoiceService(memory.New(), nil, fixedClock{}, quietLogger())
	got := service.Totals(core.InvoiceData{
		Items: []core.LineItem{
			{Quantity: 1, Rate: 9_500_000},
			{Quantity: 1, Rate: 25_000_000},
			{Quantity: 2, Rate: 2_000_000},
		},
		TaxRate: 9,
	})
	if got.Subtotal != 38_500_000 || got.TaxAmount != 3_465_000 || got.Total != 41_965_000 {
		t.Errorf("totals = %+v", got)
	}
}

func TestInvoiceService_SuggestItems(t *testing.T) {
	ctx := context.Background()
	stub := &stubExtractor{items: []core.LineItem{
		{Description: "ونک به فرودگاه", Quantity: 1, Rate: 9_500_000},
		{Description: "توقف", Quantity: 2, Rate: 2_000_000},
	}}
	service := NewInvoiceService(memory.New(), stub, fixedClock{}, quietLogger())

	items, err := service.SuggestItems(ctx, "دو ساعت توقف و ترانسفر")
	if err != nil {
		t.Fatalf("SuggestItems: %v", err)
	}
	if stub.seen != "دو ساعت توقف و ترانسفر" {
		t.Errorf("extractor saw %q", stub.seen)
	}
	if len(items) != 2 || items[0].ID == "" || items[0].ID == items[1].ID {
		t.Errorf("items should get distinct IDs: %+v", items)
	}
	if items[1].Quantity != 2 {
		t.Errorf("values should pass through: %+v", items[1])
	}

	disabled := NewInvoiceService(memory.New(), nil, fixedClock{}, quietLogger())
	if _, err := disabled.SuggestItems(ctx, "x"); !errors.Is(err, assistant.ErrNotConfigured) {
		t.Errorf("SuggestItems without assistant = %v", err)
	}
}

func TestCustomerService(t *testing.T) {
	ctx := context.Background()
	service := NewCustomerService(memory.New(), quietLogger())

	if _, err := service.SaveCustomer(ctx, core.Customer{Phone: "0912"}); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("SaveCustomer without name = %v", err)
	}

	c, err := service.SaveCustomer(ctx, core.Customer{Name: "هتل آزادی"})
	if err != nil {
		t.Fatalf("SaveCustomer: %v", err)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Errorf("new customer should get ID and CreatedAt: %+v", c)
	}
	list, _ := service.ListCustomers(ctx)
	if len(list) != 1 {
		t.Fatalf("customers = %d", len(list))
	}
	if err := service.DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := service.GetCustomer(ctx, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetCustomer after delete = %v", err)
	}

	company, err := service.Company(ctx)
	if err != nil || company != nil {
		t.Errorf("Company before save = %v, %v", company, err)
	}
	if err := service.SaveCompany(ctx, core.CompanyInfo{Name: "تاکسی رویال"}); err != nil {
		t.Fatal(err)
	}
	company, _ = service.Company(ctx)
	if company == nil || company.Name != "تاکسی رویال" {
		t.Errorf("Company = %+v", company)
	}
}
