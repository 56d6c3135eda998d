// Package service provides the core business service that implements
// the dependencies required by the HTTP API: it loads the dataset, wires
// the question pipeline (validator, extractor, planner, analyzer,
// observation builder, response generator) and keeps the conversation
// history.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldside/crease/internal/adapters/llm"
	"github.com/fieldside/crease/internal/domain/analyze"
	"github.com/fieldside/crease/internal/domain/dataset"
	"github.com/fieldside/crease/internal/domain/extract"
	"github.com/fieldside/crease/internal/domain/observe"
	"github.com/fieldside/crease/internal/domain/plan"
	"github.com/fieldside/crease/internal/domain/respond"
	"github.com/fieldside/crease/internal/domain/roster"
	"github.com/fieldside/crease/internal/domain/validate"
	"github.com/fieldside/crease/pkg/logger"
	"github.com/fieldside/crease/pkg/metrics"
)

// Turn is one question/answer exchange kept in history.
type Turn struct {
	ID       string    `json:"id"`
	Question string    `json:"question"`
	Actions  []string  `json:"actions,omitempty"`
	Answer   string    `json:"answer"`
	Rejected bool      `json:"rejected"`
	Outcome  string    `json:"outcome,omitempty"`
	AskedAt  time.Time `json:"asked_at"`
}

// Answer is the result of one Ask call.
type Answer struct {
	ID       string          `json:"id"`
	Question string          `json:"question"`
	Text     string          `json:"answer"`
	Rejected bool            `json:"rejected"`
	Actions  []string        `json:"actions,omitempty"`
	Outcome  respond.Outcome `json:"outcome,omitempty"`
}

// Service implements the API dependencies for the question dispatcher.
type Service struct {
	mu sync.RWMutex

	// Core components
	ds        *dataset.Dataset
	roster    *roster.Roster
	validator *validate.Validator
	extractor *extract.Extractor
	analyzer  *analyze.Analyzer
	builder   *observe.Builder
	responder *respond.Generator

	// Configuration
	datasetPath string
	minMatches  int
	fuzzyCutoff float64
	cacheSize   int
	maxHistory  int
	llmClient   llm.Client

	// State
	started bool
	history []Turn

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath points the service at a ball-by-ball export file.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
	}
}

// WithDataset injects an already-built dataset, bypassing the file load.
func WithDataset(ds *dataset.Dataset) Option {
	return func(s *Service) {
		s.ds = ds
	}
}

// WithMinMatches sets the sample-size floor for leaderboards and pools.
func WithMinMatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minMatches = n
		}
	}
}

// WithFuzzyCutoff sets the minimum similarity for fuzzy name matching.
func WithFuzzyCutoff(cutoff float64) Option {
	return func(s *Service) {
		if cutoff > 0 && cutoff <= 1 {
			s.fuzzyCutoff = cutoff
		}
	}
}

// WithResolutionCacheSize bounds the name resolution cache.
func WithResolutionCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithMaxHistory bounds the in-memory conversation history.
func WithMaxHistory(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// WithLLM sets the language model client used to phrase answers.
func WithLLM(client llm.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.llmClient = client
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetPath: "data/balls.csv",
		minMatches:  2,
		fuzzyCutoff: 0.6,
		cacheSize:   4096,
		maxHistory:  100,
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and wires the pipeline components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting question dispatcher...")

	if s.ds == nil {
		ds, err := dataset.Load(s.datasetPath)
		if err != nil {
			metrics.RecordErrorByComponent("dataset", "load_failed")
			return fmt.Errorf("load dataset: %w", err)
		}
		s.ds = ds
	}

	r := roster.New(s.ds.Players(), s.ds.PlayerEntryCount,
		roster.WithFuzzyCutoff(s.fuzzyCutoff),
		roster.WithCacheSize(s.cacheSize),
	)
	s.roster = r

	surfaces := r.Surfaces()
	v, err := validate.New(surfaces)
	if err != nil {
		return fmt.Errorf("build validator: %w", err)
	}
	s.validator = v
	ex, err := extract.New(surfaces, s.ds.Teams())
	if err != nil {
		return fmt.Errorf("build extractor: %w", err)
	}
	s.extractor = ex
	s.analyzer = analyze.New(s.ds, r, analyze.WithMinMatches(s.minMatches))
	s.builder = observe.New(s.ds.Columns())

	if s.llmClient == nil {
		s.llmClient = llm.NewStatic("")
	}
	s.responder = respond.New(s.llmClient, s.logger)

	metrics.UpdateDatasetBalls(len(s.ds.Balls()))
	metrics.UpdateDatasetEntryPoints(len(s.ds.Entries()))
	metrics.UpdateDatasetPlayers(len(s.ds.Players()))

	s.started = true
	s.logger.Info(ctx, "question dispatcher started",
		logger.String("dataset", s.datasetPath),
		logger.Int("balls", len(s.ds.Balls())),
		logger.Int("entryPoints", len(s.ds.Entries())),
		logger.Int("players", len(s.ds.Players())),
		logger.String("model", s.llmClient.Name()),
	)

	return nil
}

// Stop releases the service. The dataset is in-memory only, so this just
// flips state and logs.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "question dispatcher stopped")
}

// Ask runs one question through the full pipeline.
func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return Answer{}, fmt.Errorf("service not started")
	}

	begin := time.Now()
	metrics.RecordQuestionReceived()

	ans := Answer{
		ID:       uuid.NewString(),
		Question: question,
	}

	if res := s.validator.Check(question); !res.Valid {
		metrics.RecordQuestionRejected(string(res.Concept))
		s.logger.Info(ctx, "question rejected",
			logger.String("id", ans.ID),
			logger.String("concept", string(res.Concept)),
			logger.String("keyword", res.Keyword),
		)
		ans.Rejected = true
		ans.Text = res.Message
		s.remember(ans, begin)
		return ans, nil
	}

	ents := s.extractor.Extract(question)
	actions := plan.Build(question, ents)
	ans.Actions = plan.Labels(actions)

	s.logger.Debug(ctx, "planned actions",
		logger.String("id", ans.ID),
		logger.Any("actions", ans.Actions),
		logger.String("intent", string(ents.Intent)),
	)

	observations, players := s.execute(ctx, ents, actions)

	metrics.RecordModelRequest(s.llmClient.Name())
	modelBegin := time.Now()
	text, outcome := s.responder.Answer(ctx, question, ents, observations, players)
	metrics.RecordModelLatency(float64(time.Since(modelBegin).Milliseconds()))
	ans.Text = text
	ans.Outcome = outcome
	metrics.RecordQuestionAnswered(string(outcome))
	if outcome == respond.OutcomeFallback {
		metrics.RecordModelError(s.llmClient.Name())
		metrics.RecordModelFallback()
	}
	metrics.RecordPipelineLatency(float64(time.Since(begin).Milliseconds()))

	s.remember(ans, begin)
	return ans, nil
}

// execute runs the planned actions against the analyzer and returns the
// joined observation text plus the resolved player names it covers.
func (s *Service) execute(ctx context.Context, ents extract.Entities, actions []plan.Action) (string, []string) {
	blocks := make([]string, 0, len(actions))
	players := make([]string, 0, 2)

	for _, action := range actions {
		start := time.Now()
		metrics.RecordActionExecution(kindOf(action))

		switch a := action.(type) {
		case plan.Note:
			if a.Kind == plan.NoteBowlingStyle {
				blocks = append(blocks, s.builder.StyleNotice(ents.BowlingStyles))
			}
		case plan.PlayerStats:
			if sum, ok := s.analyzer.PlayerStats(a.Name); ok {
				blocks = append(blocks, s.builder.Player(sum))
				players = append(players, sum.Name)
			} else {
				metrics.RecordResolutionFailure()
				blocks = append(blocks, s.builder.PlayerNotFound(a.Name))
			}
		case plan.PhaseLeaders:
			lines := s.analyzer.PhaseLeaders(a.Phase, analyze.LeadersFilter{})
			blocks = append(blocks, s.builder.Leaders(a.Phase, lines))
		case plan.DiversePool:
			blocks = append(blocks, s.builder.Pool(a.Phase, s.analyzer.DiversePool(a.Phase)))
		case plan.Compare:
			entries := s.analyzer.Compare(a.Names)
			for _, e := range entries {
				if e.Summary != nil {
					players = append(players, e.Summary.Name)
				} else {
					metrics.RecordResolutionFailure()
				}
			}
			blocks = append(blocks, s.builder.Comparison(entries))
		case plan.TeamStrategy:
			if sum, ok := s.analyzer.TeamStrategy(a.Team); ok {
				blocks = append(blocks, s.builder.Team(sum))
			} else {
				blocks = append(blocks, s.builder.TeamNotFound(a.Team))
			}
		default:
			s.logger.Warn(ctx, "unknown action in plan", logger.String("action", action.Label()))
		}

		metrics.RecordAnalysisLatency(float64(time.Since(start).Milliseconds()))
	}

	metrics.UpdateResolutionCacheStats(s.roster.CacheStats())

	return s.builder.Join(blocks), players
}

// kindOf strips the parameter from an action label for metrics.
func kindOf(a plan.Action) string {
	label := a.Label()
	for i := 0; i < len(label); i++ {
		if label[i] == ':' {
			return label[:i]
		}
	}
	return label
}

// remember appends a turn, evicting the oldest beyond the history bound.
func (s *Service) remember(ans Answer, begin time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, Turn{
		ID:       ans.ID,
		Question: ans.Question,
		Actions:  ans.Actions,
		Answer:   ans.Text,
		Rejected: ans.Rejected,
		Outcome:  string(ans.Outcome),
		AskedAt:  begin,
	})
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
	metrics.UpdateHistoryTurns(len(s.history))
}

// History returns the most recent turns, newest last. limit <= 0 returns
// everything retained.
func (s *Service) History(limit int) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.history
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// PlayerSummary resolves a name and returns the player's summary.
func (s *Service) PlayerSummary(name string) (*analyze.PlayerSummary, bool) {
	return s.analyzer.PlayerStats(name)
}

// SuggestPlayers returns roster names starting with the prefix.
func (s *Service) SuggestPlayers(prefix string, limit int) []string {
	return s.roster.Suggest(prefix, limit)
}

// PhaseLeaders ranks players for a phase.
func (s *Service) PhaseLeaders(phase dataset.Phase, f analyze.LeadersFilter) []analyze.PhaseLine {
	return s.analyzer.PhaseLeaders(phase, f)
}

// PhaseSummary aggregates one phase.
func (s *Service) PhaseSummary(phase dataset.Phase) analyze.PhaseSummary {
	return s.analyzer.SummarizePhase(phase)
}

// TeamStrategy profiles a team.
func (s *Service) TeamStrategy(team string) (*analyze.TeamSummary, bool) {
	return s.analyzer.TeamStrategy(team)
}

// ComparePlayers summarizes each name side by side.
func (s *Service) ComparePlayers(names []string) []analyze.ComparisonEntry {
	return s.analyzer.Compare(names)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"minMatches": s.minMatches,
		"maxHistory": s.maxHistory,
	}

	if s.started {
		hits, misses := s.roster.CacheStats()
		stats["balls"] = len(s.ds.Balls())
		stats["entryPoints"] = len(s.ds.Entries())
		stats["players"] = len(s.ds.Players())
		stats["teams"] = len(s.ds.Teams())
		stats["maxYear"] = s.ds.MaxYear()
		stats["historyTurns"] = len(s.history)
		stats["resolutionCacheHits"] = hits
		stats["resolutionCacheMisses"] = misses
		stats["model"] = s.llmClient.Name()

		// Update metrics
		metrics.UpdateDatasetBalls(len(s.ds.Balls()))
		metrics.UpdateDatasetEntryPoints(len(s.ds.Entries()))
		metrics.UpdateDatasetPlayers(len(s.ds.Players()))
		metrics.UpdateHistoryTurns(len(s.history))
	}

	return stats
}
