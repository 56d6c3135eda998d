// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/fieldside/crease/internal/domain/analyze"
	"github.com/fieldside/crease/internal/domain/dataset"
)

// PhaseDependencies defines the interface for phase summaries.
type PhaseDependencies interface {
	PhaseSummary(phase dataset.Phase) analyze.PhaseSummary
}

// PhasesHandler handles phase summary requests.
type PhasesHandler struct {
	deps PhaseDependencies
}

// NewPhasesHandler creates a new phases handler.
func NewPhasesHandler(deps PhaseDependencies) *PhasesHandler {
	return &PhasesHandler{deps: deps}
}

// HandleGetPhase handles GET /phases/{phase} requests.
func (h *PhasesHandler) HandleGetPhase(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_phase"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/phases/")
	phase, ok := dataset.ParsePhase(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_phase", NewKind(op, ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.PhaseSummary(phase))
}
