// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fieldside/crease/internal/domain/analyze"
	"github.com/fieldside/crease/internal/domain/dataset"
)

// LeaderboardDependencies defines the interface for leaderboard queries.
type LeaderboardDependencies interface {
	PhaseLeaders(phase dataset.Phase, f analyze.LeadersFilter) []analyze.PhaseLine
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetLeaderboard handles GET /leaderboard/{phase}?min_matches=&top=&min_sr=&max_sr= requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/leaderboard/")
	phase, ok := dataset.ParsePhase(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_phase", NewKind(op, ErrBadRequest))
		return
	}

	var f analyze.LeadersFilter
	q := r.URL.Query()
	if s := q.Get("min_matches"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		f.MinMatches = n
	}
	if s := q.Get("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		f.TopN = n
	}
	if s := q.Get("min_sr"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		f.MinSR = v
	}
	if s := q.Get("max_sr"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		f.MaxSR = v
	}
	if f.TopN == 0 {
		f.TopN = h.maxLimit
	}

	lines := h.deps.PhaseLeaders(phase, f)
	writeJSON(w, http.StatusOK, map[string]any{"phase": phase, "leaders": lines})
}
