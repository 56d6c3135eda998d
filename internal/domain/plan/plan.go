// Package plan turns extracted entities into an ordered list of analysis
// actions. Actions are tagged variants rather than strings so the
// executor can switch on type; Label exists for logs and history.
package plan

import (
	"fmt"
	"strings"

	"github.com/fieldside/crease/internal/domain/dataset"
	"github.com/fieldside/crease/internal/domain/extract"
)

// Action is one unit of analysis work.
type Action interface {
	// Label is a stable, human-readable tag for logs and metrics.
	Label() string
}

// PlayerStats looks up one player's full summary.
type PlayerStats struct{ Name string }

// PhaseLeaders ranks players for one phase by strike rate.
type PhaseLeaders struct{ Phase dataset.Phase }

// DiversePool builds the categorized candidate pool for one phase,
// used for batting-order questions.
type DiversePool struct{ Phase dataset.Phase }

// Compare puts two or more players side by side.
type Compare struct{ Names []string }

// TeamStrategy summarizes one team's entry-point profile.
type TeamStrategy struct{ Team string }

// NoteKind names a data limitation to surface in the answer.
type NoteKind string

// NoteBowlingStyle flags that the question asked about bowling styles,
// which the dataset cannot distinguish.
const NoteBowlingStyle NoteKind = "bowling_style"

// Note records a limitation to prepend to the observations.
type Note struct{ Kind NoteKind }

func (a PlayerStats) Label() string  { return "get_player_stats:" + a.Name }
func (a PhaseLeaders) Label() string { return "get_best_players_for_phase:" + phaseTag(a.Phase) }
func (a DiversePool) Label() string  { return "get_diverse_player_pool:" + phaseTag(a.Phase) }
func (a Compare) Label() string      { return "compare_players:" + strings.Join(a.Names, ",") }
func (a TeamStrategy) Label() string { return "get_team_strategy:" + a.Team }
func (a Note) Label() string         { return fmt.Sprintf("note:%s", a.Kind) }

func phaseTag(p dataset.Phase) string { return strings.ToLower(string(p)) }

// Labels renders the whole plan for history entries.
func Labels(actions []Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Label()
	}
	return out
}

// generalPhrases mark recommendation questions that name players only as
// examples, so per-player lookups would be noise.
var generalPhrases = []string{
	"who are", "who is best", "best players", "top players",
	"best batsmen", "best bowlers", "top performers", "which players",
}

// lineupPhrases mark batting-order questions, which get the full diverse
// pool across all three phases.
var lineupPhrases = []string{
	"batting order", "batting lineup", "batting line up",
	"order for", "lineup for", "line up for",
	"who should open", "who should bat", "optimal order", "best order",
	"batting positions", "who bats where",
	"chasing", "chase", "defending", "defend",
}

// strategyPhrases mark team-level questions.
var strategyPhrases = []string{"strategy", "approach", "game plan"}

// Build decides the actions for one question. Priority: batting-order
// phrasing beats everything, named players beat phase leaderboards,
// phases beat intent defaults, and recommendation intent defaults to the
// death phase when no phase was named.
func Build(question string, ents extract.Entities) []Action {
	q := strings.ToLower(question)
	isGeneral := containsAny(q, generalPhrases)
	isLineup := containsAny(q, lineupPhrases)

	var actions []Action

	if ents.Intent == extract.IntentComparison && len(ents.Players) >= 2 {
		actions = append(actions, Compare{Names: ents.Players})
	} else if len(ents.Players) > 0 && !isGeneral {
		for _, p := range ents.Players {
			actions = append(actions, PlayerStats{Name: p})
		}
	}

	if len(ents.BowlingStyles) > 0 {
		actions = append(actions, Note{Kind: NoteBowlingStyle})
	}

	if len(ents.Teams) > 0 && containsAny(q, strategyPhrases) {
		for _, team := range ents.Teams {
			actions = append(actions, TeamStrategy{Team: team})
		}
	}

	switch {
	case isLineup:
		for _, ph := range []dataset.Phase{dataset.PhasePowerplay, dataset.PhaseMiddle, dataset.PhaseDeath} {
			actions = append(actions, DiversePool{Phase: ph})
		}
	case len(ents.Phases) > 0:
		if !hasAnalysis(actions) || isGeneral {
			for _, ph := range ents.Phases {
				actions = append(actions, PhaseLeaders{Phase: ph})
			}
		}
	case isGeneral || (ents.Intent == extract.IntentRecommendation && len(ents.Players) == 0):
		actions = append(actions, PhaseLeaders{Phase: dataset.PhaseDeath})
	}

	if !hasAnalysis(actions) {
		actions = append(actions, PhaseLeaders{Phase: dataset.PhasePowerplay})
	}
	return actions
}

// hasAnalysis reports whether the plan already contains something beyond
// limitation notes.
func hasAnalysis(actions []Action) bool {
	for _, a := range actions {
		if _, ok := a.(Note); !ok {
			return true
		}
	}
	return false
}

func containsAny(q string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}
