// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/fieldside/crease/internal/domain/analyze"
)

// CompareDependencies defines the interface for player comparison.
type CompareDependencies interface {
	ComparePlayers(names []string) []analyze.ComparisonEntry
}

// CompareHandler handles comparison requests.
type CompareHandler struct {
	deps CompareDependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps CompareDependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandleGetCompare handles GET /compare?players=a,b requests.
func (h *CompareHandler) HandleGetCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_compare"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var names []string
	for _, part := range strings.Split(r.URL.Query().Get("players"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	if len(names) < 2 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": h.deps.ComparePlayers(names)})
}
