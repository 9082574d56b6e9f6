package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/restoration-tools/drycost/internal/estimate"
	"github.com/restoration-tools/drycost/internal/export"
	"github.com/restoration-tools/drycost/internal/ingest"
	"github.com/restoration-tools/drycost/internal/logging"
)

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// materialsResponse lists the canonical material catalog.
type materialsResponse struct {
	Count     int                                       `json:"count"`
	Fallback  estimate.MaterialSpecification            `json:"fallback"`
	Materials map[string]estimate.MaterialSpecification `json:"materials"`
}

// handleListMaterials returns every material the resolver knows, plus the
// fallback used for names it does not.
func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, materialsResponse{
		Count:     s.library.Len(),
		Fallback:  s.library.Fallback(),
		Materials: s.library.Specs(),
	})
}

// ratesResponse pairs the active configuration with the permitted ranges so
// clients can build edit forms without hardcoding limits.
type ratesResponse struct {
	Rates  estimate.RateConfiguration    `json:"rates"`
	Limits map[string]estimate.RateLimit `json:"limits"`
}

func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ratesResponse{
		Rates:  s.rates.Snapshot(),
		Limits: estimate.RateLimits(),
	})
}

// handlePutRates replaces the full rate configuration. A payload that fails
// range validation leaves the previous configuration in place.
func (s *Server) handlePutRates(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	// A typo'd field name must fail loudly, not silently zero a rate.
	dec.DisallowUnknownFields()

	var cfg estimate.RateConfiguration
	if err := dec.Decode(&cfg); err != nil {
		writeBadRequest(w, r, "invalid rate payload: "+err.Error())
		return
	}

	if err := s.rates.Replace(cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeRatesOutOfRange, err.Error())
		return
	}

	logging.FromContext(r.Context()).Info("rate configuration replaced")
	writeJSON(w, http.StatusOK, ratesResponse{
		Rates:  s.rates.Snapshot(),
		Limits: estimate.RateLimits(),
	})
}

// estimateRequest is the JSON input shape for estimate endpoints. Multipart
// uploads carry the same rows as a CSV file part instead.
type estimateRequest struct {
	Rows []estimate.RawRoomRecord `json:"rows"`
}

// decodeRecords reads assessment rows from the request, accepting either a
// multipart CSV upload under "file" or a JSON body. On failure it writes
// the error response and returns false.
func (s *Server) decodeRecords(w http.ResponseWriter, r *http.Request) ([]estimate.RawRoomRecord, bool) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxSize); err != nil {
			s.writeDecodeError(w, r, err)
			return nil, false
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeBadRequest(w, r, "no file provided")
			return nil, false
		}
		defer file.Close()

		records, err := ingest.ParseAssessments(file)
		if err != nil {
			s.writeDecodeError(w, r, err)
			return nil, false
		}
		return records, true
	}

	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDecodeError(w, r, err)
		return nil, false
	}
	return req.Rows, true
}

// writeDecodeError distinguishes oversized inputs from malformed ones.
func (s *Server) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit))
	case errors.Is(err, estimate.ErrBatchTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, codeBatchTooLarge, err.Error())
	default:
		writeBadRequest(w, r, err.Error())
	}
}

// runBatch executes the estimation pipeline against the current rate
// snapshot and stamps the result with a batch id.
func (s *Server) runBatch(r *http.Request, records []estimate.RawRoomRecord) (estimate.BatchResult, error) {
	start := time.Now()
	result, err := estimate.Run(records, s.rates.Snapshot(), s.library)
	if err != nil {
		return estimate.BatchResult{}, err
	}
	elapsed := time.Since(start)

	result.EstimateID = uuid.NewString()
	s.metrics.observeEstimate(len(result.Rooms), result.Skipped, elapsed)

	logging.FromContext(r.Context()).Info("batch estimated",
		"estimate_id", result.EstimateID,
		"rooms", len(result.Rooms),
		"skipped", result.Skipped,
		"total_cost", result.Summary.TotalCost,
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, nil
}

// handleEstimates runs a batch and returns the full JSON result. Row-level
// failures are reported inside the 200 response; only rate or batch-size
// faults fail the request.
func (s *Server) handleEstimates(w http.ResponseWriter, r *http.Request) {
	records, ok := s.decodeRecords(w, r)
	if !ok {
		return
	}

	result, err := s.runBatch(r, records)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Export sheets selectable via the "sheet" query parameter.
const (
	sheetRooms   = "rooms"
	sheetSummary = "summary"
	sheetErrors  = "errors"
)

// handleEstimatesExport runs a batch and streams one CSV sheet back instead
// of JSON. The per-room sheet is the default; "summary" and "errors" select
// the project rollup and the skipped-row report.
func (s *Server) handleEstimatesExport(w http.ResponseWriter, r *http.Request) {
	sheet := r.URL.Query().Get("sheet")
	if sheet == "" {
		sheet = sheetRooms
	}
	if sheet != sheetRooms && sheet != sheetSummary && sheet != sheetErrors {
		writeBadRequest(w, r, fmt.Sprintf("unknown sheet %q", sheet))
		return
	}

	records, ok := s.decodeRecords(w, r)
	if !ok {
		return
	}

	result, err := s.runBatch(r, records)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logger := logging.WithFields(r.Context(), "estimate_id", result.EstimateID, "sheet", sheet)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("estimate_%s_%s.csv", sheet, timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("X-Estimate-Id", result.EstimateID)

	switch sheet {
	case sheetSummary:
		err = export.WriteSummary(w, result.Summary)
	case sheetErrors:
		err = export.WriteRowErrors(w, result.Errors)
	default:
		err = export.WriteRooms(w, result.Rooms)
	}
	if err != nil {
		logger.Error("export stream failed", "error", err)
		return
	}
	logger.Info("export streamed", "filename", filename)
}
