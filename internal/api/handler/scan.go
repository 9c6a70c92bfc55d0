package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/careops/internal/api/response"
	"github.com/Rrens/careops/internal/scanner"
	"github.com/go-chi/chi/v5"
)

// ScanRunner runs a scan cadence on demand
type ScanRunner interface {
	RunNow(ctx context.Context, name string) ([]scanner.Summary, error)
	Cadences() []string
}

// ScanHandler exposes operator scan triggers
type ScanHandler struct {
	scans ScanRunner
}

func NewScanHandler(scans ScanRunner) *ScanHandler {
	return &ScanHandler{scans: scans}
}

// List returns the configured cadence names
func (h *ScanHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string][]string{"cadences": h.scans.Cadences()})
}

// Run handles POST /admin/scans/{cadence}/run
func (h *ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.scans.RunNow(r.Context(), chi.URLParam(r, "cadence"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, summaries)
}
