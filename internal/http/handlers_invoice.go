package http

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"taxiledger/internal/core"
	"taxiledger/internal/display"
	"taxiledger/internal/log"
)

const maxSuggestTextLen = 4000

type totalsResponse struct {
	core.InvoiceTotals
	Display totalsDisplay `json:"display"`
}

type totalsDisplay struct {
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discountAmount"`
	TaxAmount      string `json:"taxAmount"`
	Total          string `json:"total"`
}

func newTotalsResponse(t core.InvoiceTotals) totalsResponse {
	return totalsResponse{
		InvoiceTotals: t,
		Display: totalsDisplay{
			Subtotal:       display.Rials(t.Subtotal),
			DiscountAmount: display.Rials(t.DiscountAmount),
			TaxAmount:      display.Rials(t.TaxAmount),
			Total:          display.Rials(t.Total),
		},
	}
}

func (s *Server) handleInvoiceTotals(w http.ResponseWriter, r *http.Request) {
	var data core.InvoiceData
	if err := decodeJSON(w, r, &data); err != nil {
		s.fail(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(newTotalsResponse(s.svc.Invoices.Totals(data))).Write(w)
}

type draftRequest struct {
	Items []core.LineItem `json:"items"`
}

type draftResponse struct {
	Invoice core.InvoiceData `json:"invoice"`
	Totals  totalsResponse   `json:"totals"`
}

// handleInvoiceDraft returns an invoice prefilled from the company profile
// and, with ?customer=ID, that customer. The body is optional.
func (s *Server) handleInvoiceDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.fail(w, r, log.OpCreate, err)
			return
		}
	}

	data, err := s.svc.Invoices.Draft(r.Context(), sanitizeInput(r.URL.Query().Get("customer")), req.Items)
	if err != nil {
		s.fail(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().Body(draftResponse{
		Invoice: data,
		Totals:  newTotalsResponse(s.svc.Invoices.Totals(data)),
	}).Write(w)
}

type suggestRequest struct {
	Text string `json:"text"`
}

type suggestResponse struct {
	Items []core.LineItem `json:"items"`
}

func (s *Server) handleSuggestItems(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, log.OpExtract, err)
		return
	}
	text := sanitizeInput(req.Text)
	if text == "" {
		s.fail(w, r, log.OpExtract, fmt.Errorf("%w: text is required", errBadRequest))
		return
	}
	if utf8.RuneCountInString(text) > maxSuggestTextLen {
		s.fail(w, r, log.OpExtract, fmt.Errorf("%w: text longer than %d characters", errBadRequest, maxSuggestTextLen))
		return
	}

	items, err := s.svc.Invoices.SuggestItems(r.Context(), strings.TrimSpace(text))
	if err != nil {
		s.fail(w, r, log.OpExtract, err)
		return
	}
	NewJSONResponse().Body(suggestResponse{Items: items}).Write(w)
}
