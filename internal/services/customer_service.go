package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxiledger/internal/core"
	"taxiledger/internal/log"
	"taxiledger/internal/records"
)

// CustomerService manages the invoice address book and the company profile.
type CustomerService struct {
	customers records.CustomerStore
	company   records.CompanyStore
	logger    *log.Logger
	now       func() time.Time
}

func NewCustomerService(store records.Store, logger *log.Logger) *CustomerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &CustomerService{
		customers: store,
		company:   store,
		logger:    logger.WithComponent(log.ComponentInvoice),
		now:       time.Now,
	}
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	list, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return list, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (core.Customer, error) {
	return s.customers.GetCustomer(ctx, id)
}

// SaveCustomer creates or updates c. A new customer gets an ID and CreatedAt.
func (s *CustomerService) SaveCustomer(ctx context.Context, c core.Customer) (core.Customer, error) {
	if err := c.Validate(); err != nil {
		return core.Customer{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	if err := s.customers.SaveCustomer(ctx, c); err != nil {
		return core.Customer{}, fmt.Errorf("save customer: %w", err)
	}
	s.logger.InfoContext(ctx, "Customer saved", "customer_id", c.ID)
	return c, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.customers.DeleteCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Customer deleted", "customer_id", id)
	return nil
}

// Company returns the saved profile, or nil when none exists yet.
func (s *CustomerService) Company(ctx context.Context) (*core.CompanyInfo, error) {
	c, err := s.company.GetCompany(ctx)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	return c, nil
}

func (s *CustomerService) SaveCompany(ctx context.Context, c core.CompanyInfo) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.company.SaveCompany(ctx, c); err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	s.logger.InfoContext(ctx, "Company profile saved")
	return nil
}
