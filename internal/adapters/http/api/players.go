// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fieldside/crease/internal/domain/analyze"
)

const defaultSuggestLimit = 10

// PlayerDependencies defines the interface for player lookups.
type PlayerDependencies interface {
	PlayerSummary(name string) (*analyze.PlayerSummary, bool)
	SuggestPlayers(prefix string, limit int) []string
}

// PlayersHandler handles player lookup requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleSuggest handles GET /players?prefix=&limit= requests.
func (h *PlayersHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := defaultSuggestLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	names := h.deps.SuggestPlayers(r.URL.Query().Get("prefix"), limit)
	writeJSON(w, http.StatusOK, map[string]any{"players": names})
}

// HandleGetPlayer handles GET /players/{name} requests. The name goes
// through the same layered resolution as questions do, so partial and
// misspelled names still land on the right player.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/players/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	summary, ok := h.deps.PlayerSummary(name)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
