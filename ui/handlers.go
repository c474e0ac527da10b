package ui

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"cytostat/adapters/excel"
	"cytostat/app"
	"cytostat/domain/cohort"
	"cytostat/domain/core"
	"cytostat/internal"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.runForRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, ok := s.runForRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report.Summary)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	report, ok := s.runForRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report.Comparison)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, ok := s.runForRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report.Stats)
}

func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	report, ok := s.runForRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rows":      report.Baseline,
		"breakdown": report.Breakdown,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.runForRequest(w, r)
	if !ok {
		return
	}

	name := excel.ExportName(report.RunID.String())
	path := filepath.Join(os.TempDir(), name)
	if err := excel.WriteReport(path, report.Summary, report.Comparison, report.Stats,
		report.Baseline, report.Breakdown); err != nil {
		respondError(w, err)
		return
	}
	defer os.Remove(path)

	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}

// runForRequest resolves the cohort filter and significance threshold from
// query parameters and runs the (memoized) analysis. On failure it writes the
// error response and returns ok=false.
func (s *Server) runForRequest(w http.ResponseWriter, r *http.Request) (*app.Report, bool) {
	filter := cohortFromQuery(r)

	alpha := 0.0
	if raw := r.URL.Query().Get("alpha"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed >= 1 {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "alpha must be a number in (0, 1)"})
			return nil, false
		}
		alpha = parsed
	}

	report, err := s.service.RunWithAlpha(r.Context(), filter, alpha)
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	return report, true
}

// cohortFromQuery builds the cohort filter, defaulting to the canonical
// melanoma miraclib PBMC responder comparison.
func cohortFromQuery(r *http.Request) cohort.Filter {
	filter := cohort.MelanomaMiraclibPBMC()
	q := r.URL.Query()
	if v := q.Get("condition"); v != "" {
		filter.Condition = v
	}
	if v := q.Get("treatment"); v != "" {
		filter.Treatment = v
	}
	if v := q.Get("sample_type"); v != "" {
		filter.SampleType = v
	}
	return filter
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		internal.DefaultLogger.Error("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsDataIntegrityError(err):
		status = http.StatusUnprocessableEntity
	case core.IsStoreAccessError(err):
		status = http.StatusServiceUnavailable
	}
	internal.DefaultLogger.Error("request failed: %v", err)
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
