// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/fieldside/crease/internal/app"
	"github.com/fieldside/crease/internal/domain/analyze"
	"github.com/fieldside/crease/internal/domain/dataset"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the dispatcher implementation.
type Dependencies interface {
	// Ask runs one question through the full pipeline.
	Ask(ctx context.Context, question string) (Answer, error)

	// Read operations expose analysis data directly.
	PlayerSummary(name string) (*analyze.PlayerSummary, bool)
	SuggestPlayers(prefix string, limit int) []string
	PhaseLeaders(phase dataset.Phase, f analyze.LeadersFilter) []analyze.PhaseLine
	PhaseSummary(phase dataset.Phase) analyze.PhaseSummary
	TeamStrategy(team string) (*analyze.TeamSummary, bool)
	ComparePlayers(names []string) []analyze.ComparisonEntry
	History(limit int) []Turn
}

// Answer and Turn mirror the shapes returned by the dispatcher.
type (
	Answer = service.Answer
	Turn   = service.Turn
)

// Server wires HTTP routes for the question API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	askHandler         *AskHandler
	playersHandler     *PlayersHandler
	leaderboardHandler *LeaderboardHandler
	phasesHandler      *PhasesHandler
	teamsHandler       *TeamsHandler
	compareHandler     *CompareHandler
	historyHandler     *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		askHandler:         NewAskHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		phasesHandler:      NewPhasesHandler(deps),
		teamsHandler:       NewTeamsHandler(deps),
		compareHandler:     NewCompareHandler(deps),
		historyHandler:     NewHistoryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ask", MetricsMiddleware(s.askHandler.HandlePostAsk, "ask"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleSuggest, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "players"))
	mux.HandleFunc("/leaderboard/", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/phases/", MetricsMiddleware(s.phasesHandler.HandleGetPhase, "phases"))
	mux.HandleFunc("/teams/", MetricsMiddleware(s.teamsHandler.HandleGetTeam, "teams"))
	mux.HandleFunc("/compare", MetricsMiddleware(s.compareHandler.HandleGetCompare, "compare"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
