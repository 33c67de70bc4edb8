package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"taxiledger/internal/core"
	"taxiledger/internal/services"
)

const (
	maxBodyBytes   = 1 << 20
	maxBackupBytes = 32 << 20
)

// errBadRequest marks a body or parameter the server could not read at all,
// as opposed to one that was read but failed validation.
var errBadRequest = errors.New("bad request")

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decodeJSONLimit(w, r, v, maxBodyBytes)
}

func decodeJSONLimit(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON value", errBadRequest)
	}
	return nil
}

// flexNumber holds a JSON field that clients send either as a number or as
// the text a user typed, Persian digits and separators included.
type flexNumber struct {
	raw json.RawMessage
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	n.raw = append(n.raw[:0], data...)
	return nil
}

func (n flexNumber) isSet() bool {
	trimmed := bytes.TrimSpace(n.raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// text returns the value as a string without interpreting it.
func (n flexNumber) text() (string, error) {
	var s string
	if len(n.raw) > 0 && n.raw[0] == '"' {
		if err := json.Unmarshal(n.raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(n.raw, &f); err != nil {
		return "", err
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

type expenseRequest struct {
	CategoryID  string     `json:"categoryId"`
	Amount      flexNumber `json:"amount"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Odometer    flexNumber `json:"odometer"`
}

// toExpense applies the entry form rules: amounts go through
// core.ParseAmount, the odometer is optional but must be a whole number
// when present, and an empty date means today.
func (req expenseRequest) toExpense(today func() string) (core.Expense, error) {
	e := core.Expense{
		CategoryID:  sanitizeInput(req.CategoryID),
		Date:        sanitizeInput(req.Date),
		Description: sanitizeInput(req.Description),
	}

	if !req.Amount.isSet() {
		return core.Expense{}, core.ErrInvalidAmount
	}
	amountText, err := req.Amount.text()
	if err != nil {
		return core.Expense{}, core.ErrInvalidAmount
	}
	if e.Amount, err = core.ParseAmount(amountText); err != nil {
		return core.Expense{}, err
	}

	if req.Odometer.isSet() {
		odoText, err := req.Odometer.text()
		if err != nil {
			return core.Expense{}, core.ErrInvalidOdometer
		}
		odoText = core.NormalizeDigits(strings.TrimSpace(odoText))
		if odoText != "" {
			odo, err := strconv.ParseInt(odoText, 10, 64)
			if err != nil {
				return core.Expense{}, core.ErrInvalidOdometer
			}
			e.Odometer = &odo
		}
	}

	if e.Date == "" && today != nil {
		e.Date = today()
	}
	return e, nil
}

// parseRange reads the ?range= selector; absent means this month.
func parseRange(r *http.Request) (core.DateRange, error) {
	return core.ParseDateRange(r.URL.Query().Get("range"))
}

func parseHistoryFilter(r *http.Request) services.HistoryFilter {
	q := r.URL.Query()
	return services.HistoryFilter{
		Query:      sanitizeInput(q.Get("q")),
		CategoryID: sanitizeInput(q.Get("category")),
	}
}

// pathID returns the {id} wildcard, or errBadRequest when it is blank.
func pathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", fmt.Errorf("%w: missing id", errBadRequest)
	}
	return id, nil
}
