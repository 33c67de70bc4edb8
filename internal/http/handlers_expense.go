package http

import (
	"net/http"

	"taxiledger/internal/core"
	"taxiledger/internal/display"
	"taxiledger/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Expenses.ListExpenses(r.Context())
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	if list == nil {
		list = []core.Expense{}
	}
	NewJSONResponse().Body(list).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}

	var today func() string
	if s.svc.Clock != nil {
		today = func() string { return s.svc.Clock.Today().String() }
	}
	exp, err := req.toExpense(today)
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}

	saved, err := s.svc.Expenses.CreateExpense(r.Context(), exp)
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/expenses/"+saved.ID).
		Body(saved).
		Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	exp, err := s.svc.Expenses.GetExpense(r.Context(), id)
	if err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(exp).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	if err := s.svc.Expenses.DeleteExpense(r.Context(), id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

type historyResponse struct {
	Items        []core.Expense `json:"items"`
	Count        int            `json:"count"`
	Total        float64        `json:"total"`
	TotalDisplay string         `json:"totalDisplay"`
}

func (s *Server) handleExpenseHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.svc.Reports.History(r.Context(), parseHistoryFilter(r))
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	items := h.Items
	if items == nil {
		items = []core.Expense{}
	}
	NewJSONResponse().Body(historyResponse{
		Items:        items,
		Count:        h.Count,
		Total:        h.Total,
		TotalDisplay: display.Rials(h.Total),
	}).Write(w)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.Expenses.ListCategories(r.Context())
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}
	if cats == nil {
		cats = []core.Category{}
	}
	NewJSONResponse().Body(cats).Write(w)
}

// handleSaveCategory creates a category, or updates one when the body
// carries an existing ID.
func (s *Server) handleSaveCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(w, r, &c); err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	c.ID = sanitizeInput(c.ID)
	c.Title = sanitizeInput(c.Title)
	c.Color = sanitizeInput(c.Color)
	c.Icon = sanitizeInput(c.Icon)

	saved, err := s.svc.Expenses.SaveCategory(r.Context(), c)
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(saved).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	if err := s.svc.Expenses.DeleteCategory(r.Context(), id); err != nil {
		s.fail(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
