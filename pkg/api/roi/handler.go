package roi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"logistics_roi/pkg/core/benchmark"
	"logistics_roi/pkg/core/intake"
	"logistics_roi/pkg/core/report"
	coreROI "logistics_roi/pkg/core/roi"
)

const maxBodyBytes = 1 << 20

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "api.roi").Logger()

// ReportResponse is the body of POST /api/roi/report.
type ReportResponse struct {
	ReportID  string         `json:"report_id"`
	PDFBase64 string         `json:"pdf_base64"`
	Filename  string         `json:"filename"`
	Metrics   coreROI.Result `json:"metrics"`
}

// BenchmarksResponse is the body of GET /api/benchmarks.
type BenchmarksResponse struct {
	Industries []string            `json:"industries"`
	Profiles   []benchmark.Profile `json:"profiles"`
	Default    benchmark.Profile   `json:"default"`
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []intake.FieldError `json:"fields,omitempty"`
}

// Handler serves the calculation and report endpoints.
type Handler struct {
	Calculator *coreROI.Calculator
}

// NewHandler creates a new ROI handler
func NewHandler(calculator *coreROI.Calculator) *Handler {
	return &Handler{Calculator: calculator}
}

// HandleCompute returns the ROI result as JSON.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	input, result, ok := h.run(w, r)
	if !ok {
		return
	}
	logger.Info().Str("company", input.CompanyName).Float64("roi_percent", result.ROIPercent).Msg("[ROI] computed")
	writeJSON(w, http.StatusOK, result)
}

// HandleReport returns the PDF report (base64) with the metrics it shows.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	input, result, ok := h.run(w, r)
	if !ok {
		return
	}

	rep, err := report.Generate(input, result)
	if err != nil {
		logger.Error().Err(err).Msg("[ROI] report generation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to generate report"})
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{
		ReportID:  rep.ID,
		PDFBase64: rep.PDFBase64,
		Filename:  rep.Filename,
		Metrics:   result,
	})
}

// HandleReportHTML returns the report as a standalone HTML page.
func (h *Handler) HandleReportHTML(w http.ResponseWriter, r *http.Request) {
	input, result, ok := h.run(w, r)
	if !ok {
		return
	}

	page, err := report.HTML(input, result)
	if err != nil {
		logger.Error().Err(err).Msg("[ROI] html rendering failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to render report"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page)
}

// HandleBenchmarks lists the configured industries and the default profile.
func (h *Handler) HandleBenchmarks(w http.ResponseWriter, r *http.Request) {
	table := h.Calculator.Benchmarks.Table()
	writeJSON(w, http.StatusOK, BenchmarksResponse{
		Industries: h.Calculator.Benchmarks.Industries(),
		Profiles:   table.Profiles(),
		Default:    table.Default(),
	})
}

// run decodes and validates the body, then computes. It writes the error
// response itself and reports false when the request was rejected.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (coreROI.Input, coreROI.Result, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return coreROI.Input{}, coreROI.Result{}, false
	}

	input, err := intake.Decode(body)
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid ROI input", Fields: verr.Fields})
		} else {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return coreROI.Input{}, coreROI.Result{}, false
	}

	result := h.Calculator.Run(input)
	if !result.Finite() {
		logger.Warn().Str("company", input.CompanyName).Msg("[ROI] result overflowed")
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "inputs are too large to compute"})
		return coreROI.Input{}, coreROI.Result{}, false
	}
	if result.Benchmark.Fallback {
		logger.Warn().Str("industry", input.Industry).Msg("[ROI] unknown industry, default benchmarks applied")
	}
	return input, result, true
}

// writeJSON encodes v before committing the status, so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("[ROI] failed to encode response")
		status = http.StatusInternalServerError
		data = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}
