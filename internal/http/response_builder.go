package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"taxiledger/internal/assistant"
	"taxiledger/internal/core"
	"taxiledger/internal/log"
	"taxiledger/internal/middleware/trace"
	"taxiledger/internal/services"
)

// JSONResponse builds a JSON reply fluently:
//
//	NewJSONResponse().Status(http.StatusCreated).Body(expense).Write(w)
type JSONResponse struct {
	statusCode int
	headers    map[string]string
	body       any
}

func NewJSONResponse() *JSONResponse {
	return &JSONResponse{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponse) Status(code int) *JSONResponse {
	b.statusCode = code
	return b
}

func (b *JSONResponse) Header(name, value string) *JSONResponse {
	b.headers[name] = value
	return b
}

// Body sets the value to encode. A nil body sends headers and status only.
func (b *JSONResponse) Body(v any) *JSONResponse {
	b.body = v
	return b
}

func (b *JSONResponse) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	data, err := json.Marshal(b.body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"response encoding failed"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n"))
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorResponse is a JSON error reply carrying the request ID when known.
func ErrorResponse(r *http.Request, statusCode int, message string) *JSONResponse {
	body := errorBody{Error: message}
	if r != nil {
		body.RequestID = trace.GetRequestID(r.Context())
	}
	return NewJSONResponse().Status(statusCode).Body(body)
}

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrInvalidOdometer,
	core.ErrInvalidRange,
	core.ErrEmptyCategory,
	core.ErrEmptyTitle,
	core.ErrEmptyColor,
	core.ErrEmptyName,
	core.ErrDescriptionLimit,
	services.ErrUnsupportedSnapshot,
}

// statusFor maps a service error to the status code the API answers with.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDefaultCategory):
		return http.StatusConflict
	case errors.Is(err, assistant.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// fail writes the error reply for err. Server-side failures are logged and
// their detail withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op)
		msg = http.StatusText(status)
	}
	ErrorResponse(r, status, msg).Write(w)
}
