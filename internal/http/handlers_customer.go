package http

import (
	"net/http"

	"taxiledger/internal/core"
	"taxiledger/internal/log"
)

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Customers.ListCustomers(r.Context())
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	if list == nil {
		list = []core.Customer{}
	}
	NewJSONResponse().Body(list).Write(w)
}

func (s *Server) handleSaveCustomer(w http.ResponseWriter, r *http.Request) {
	var c core.Customer
	if err := decodeJSON(w, r, &c); err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	c.ID = sanitizeInput(c.ID)
	c.Name = sanitizeInput(c.Name)
	c.Email = sanitizeInput(c.Email)
	c.Phone = sanitizeInput(c.Phone)
	c.Address = sanitizeInput(c.Address)
	c.Notes = sanitizeInput(c.Notes)

	saved, err := s.svc.Customers.SaveCustomer(r.Context(), c)
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(saved).Write(w)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	c, err := s.svc.Customers.GetCustomer(r.Context(), id)
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(c).Write(w)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	if err := s.svc.Customers.DeleteCustomer(r.Context(), id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handleGetCompany answers with an empty profile until one is saved, so
// invoice forms can bind to it unconditionally.
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Customers.Company(r.Context())
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	if c == nil {
		c = &core.CompanyInfo{}
	}
	NewJSONResponse().Body(c).Write(w)
}

func (s *Server) handleSaveCompany(w http.ResponseWriter, r *http.Request) {
	var c core.CompanyInfo
	if err := decodeJSON(w, r, &c); err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	c.Name = sanitizeInput(c.Name)
	c.Email = sanitizeInput(c.Email)
	c.Phone = sanitizeInput(c.Phone)
	c.Address = sanitizeInput(c.Address)

	if err := s.svc.Customers.SaveCompany(r.Context(), c); err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().Body(c).Write(w)
}
