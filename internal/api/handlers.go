package api

import (
	"encoding/json"
	"net/http"

	"github.com/wonny/trendscan/internal/report"
	"github.com/wonny/trendscan/pkg/logger"
)

// ScanHandler serves persisted scan results.
type ScanHandler struct {
	repo   *report.Repository
	logger *logger.Logger
}

// NewScanHandler creates a scan results handler.
func NewScanHandler(repo *report.Repository, log *logger.Logger) *ScanHandler {
	return &ScanHandler{repo: repo, logger: log}
}

// GetLatest returns the most recent run header.
func (h *ScanHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.LatestRun(r.Context())
	if err != nil {
		h.writeError(w, http.StatusNotFound, "no scan runs found")
		return
	}
	h.writeJSON(w, summary)
}

// GetResults returns the latest run's final ranked table.
func (h *ScanHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.LatestRun(r.Context())
	if err != nil {
		h.writeError(w, http.StatusNotFound, "no scan runs found")
		return
	}

	finals, err := h.repo.FinalRecords(r.Context(), summary.Date)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load final records")
		h.writeError(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"date":    summary.Date,
		"policy":  summary.Policy,
		"results": finals,
	})
}

// GetFailures returns the latest run's classified diagnostic set.
func (h *ScanHandler) GetFailures(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.LatestRun(r.Context())
	if err != nil {
		h.writeError(w, http.StatusNotFound, "no scan runs found")
		return
	}

	failures, err := h.repo.Failures(r.Context(), summary.Date)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load failures")
		h.writeError(w, http.StatusInternalServerError, "failed to load failures")
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"date":     summary.Date,
		"failures": failures,
	})
}

func (h *ScanHandler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *ScanHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
