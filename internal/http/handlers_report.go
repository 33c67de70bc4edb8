package http

import (
	"net/http"

	"taxiledger/internal/core"
	"taxiledger/internal/display"
	"taxiledger/internal/ledger"
	"taxiledger/internal/log"
)

type breakdownDisplay struct {
	CategoryID string `json:"categoryId"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage"`
}

type reportDisplay struct {
	Total     string             `json:"total"`
	Average   string             `json:"average"`
	Breakdown []breakdownDisplay `json:"breakdown"`
}

type reportResponse struct {
	ledger.Report
	Today   string        `json:"today"`
	Display reportDisplay `json:"display"`
}

func newReportResponse(rep ledger.Report) reportResponse {
	if rep.Records == nil {
		rep.Records = []core.Expense{}
	}
	if rep.Breakdown == nil {
		rep.Breakdown = []core.CategoryBreakdown{}
	}

	d := reportDisplay{
		Total:     display.Rials(rep.Summary.Total),
		Average:   display.Rials(rep.Summary.Average),
		Breakdown: make([]breakdownDisplay, 0, len(rep.Breakdown)),
	}
	for _, b := range rep.Breakdown {
		d.Breakdown = append(d.Breakdown, breakdownDisplay{
			CategoryID: b.CategoryID,
			Amount:     display.Rials(b.Amount),
			Percentage: display.Percent(b.Percentage),
		})
	}
	return reportResponse{Report: rep, Today: rep.Now.String(), Display: d}
}

func (s *Server) handleExpenseReport(w http.ResponseWriter, r *http.Request) {
	dr, err := parseRange(r)
	if err != nil {
		s.fail(w, r, log.OpReport, err)
		return
	}
	rep, err := s.svc.Reports.Report(r.Context(), dr)
	if err != nil {
		s.fail(w, r, log.OpReport, err)
		return
	}
	NewJSONResponse().Body(newReportResponse(rep)).Write(w)
}
