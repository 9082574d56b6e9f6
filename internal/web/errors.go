package web

// errors.go centralizes error responses for the API. Every failure is
// logged with full detail server-side and returned to the client as a JSON
// envelope with a machine-readable code, so claim-system integrations can
// branch on code instead of parsing messages.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/restoration-tools/drycost/internal/estimate"
	"github.com/restoration-tools/drycost/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in the envelope.
const (
	codeBadRequest      = "BAD_REQUEST"
	codePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	codeBatchTooLarge   = "BATCH_TOO_LARGE"
	codeRatesOutOfRange = "RATES_OUT_OF_RANGE"
	codeRateLimited     = "RATE_LIMITED"
	codeServerBusy      = "SERVER_BUSY"
	codeInternal        = "INTERNAL"
)

// respondError logs err with request context and writes the mapped JSON
// envelope for it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)

	logging.FromContext(r.Context()).Error("request failed",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)

	writeError(w, status, code, err.Error())
}

// classifyError maps engine faults to HTTP status and code. Batch size
// violations are the client's problem; an out-of-range rate snapshot
// reaching the engine means the store let a bad configuration through.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, estimate.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, codeBatchTooLarge
	case errors.Is(err, estimate.ErrRateOutOfRange):
		return http.StatusInternalServerError, codeRatesOutOfRange
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// writeError writes a JSON error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 envelope and logs the cause.
func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	logging.FromContext(r.Context()).Warn("bad request",
		"path", r.URL.Path,
		"method", r.Method,
		"reason", message,
	)
	writeError(w, http.StatusBadRequest, codeBadRequest, message)
}

// writeJSON encodes v as JSON with the given status. Encoding errors are
// logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
