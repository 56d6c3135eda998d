// Package extract pulls structured entities out of a free-text question:
// player name fragments, team names, bowling styles, match phases and a
// coarse intent. Player and team dictionaries are compiled into
// Aho-Corasick automatons at startup; intent is decided by an ordered
// rule table where the first rule with a hit wins.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/ahocorasick"

	"github.com/fieldside/crease/internal/domain/dataset"
)

// Intent classifies what the question wants done with the entities.
type Intent string

const (
	IntentDeployment     Intent = "deployment"
	IntentRecommendation Intent = "recommendation"
	IntentComparison     Intent = "comparison"
	IntentGeneral        Intent = "general"
)

// intentRules is checked in order; the first rule whose keywords hit
// decides the intent. Questions matching nothing are general.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentDeployment, []string{"when", "should", "deploy", "play"}},
	{IntentRecommendation, []string{"best", "top", "who"}},
	{IntentComparison, []string{"compare", "vs", "versus"}},
}

// styleKeywords map surface forms to canonical bowling styles. Styles
// survive extraction so downstream stages can attach a data limitation
// note; the dataset itself has no bowling information.
var styleKeywords = map[string]string{
	"spin":    "spin",
	"spinner": "spin",
	"pace":    "pace",
	"pacer":   "pace",
	"fast":    "pace",
	"seam":    "pace",
}

// phaseKeywords map phase vocabulary to canonical phases.
var phaseKeywords = []struct {
	surface string
	phase   dataset.Phase
}{
	{"powerplay", dataset.PhasePowerplay},
	{"power play", dataset.PhasePowerplay},
	{"death over", dataset.PhaseDeath},
	{"death", dataset.PhaseDeath},
	{"final over", dataset.PhaseDeath},
	{"last over", dataset.PhaseDeath},
	{"middle", dataset.PhaseMiddle},
}

// Entities is everything recognized in one question.
type Entities struct {
	Players       []string        `json:"players,omitempty"`
	Teams         []string        `json:"teams,omitempty"`
	BowlingStyles []string        `json:"bowling_styles,omitempty"`
	Phases        []dataset.Phase `json:"phases,omitempty"`
	Intent        Intent          `json:"intent"`
}

// Extractor holds the compiled dictionaries.
type Extractor struct {
	players     *ahocorasick.Automaton
	playerNames []string

	teams     *ahocorasick.Automaton
	teamNames []string
}

// New compiles the player and team dictionaries. surfaces are the
// lowercased player name fragments to recognize; teams are the dataset's
// team names.
func New(surfaces, teams []string) (*Extractor, error) {
	e := &Extractor{}
	var err error
	e.players, e.playerNames, err = compile(surfaces)
	if err != nil {
		return nil, fmt.Errorf("extract: player dictionary: %w", err)
	}
	e.teams, e.teamNames, err = compile(lowerAll(teams))
	if err != nil {
		return nil, fmt.Errorf("extract: team dictionary: %w", err)
	}
	return e, nil
}

func compile(patterns []string) (*ahocorasick.Automaton, []string, error) {
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		// Empty dictionaries never match; keep a placeholder pattern
		// that cannot occur in natural text.
		kept = []string{"\x00"}
	}
	ac, err := ahocorasick.NewBuilder().
		AddStrings(kept).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, nil, err
	}
	return ac, kept, nil
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// Extract scans one question. The returned player and team lists are
// lowercased matched fragments, deduplicated in order of appearance.
func (e *Extractor) Extract(question string) Entities {
	q := strings.ToLower(question)

	ents := Entities{
		Players: e.scan(e.players, e.playerNames, q),
		Teams:   e.scan(e.teams, e.teamNames, q),
		Intent:  IntentGeneral,
	}

	seen := make(map[string]bool)
	for surface, style := range styleKeywords {
		if strings.Contains(q, surface) && !seen[style] {
			seen[style] = true
			ents.BowlingStyles = append(ents.BowlingStyles, style)
		}
	}
	sort.Strings(ents.BowlingStyles)

	seenPhase := make(map[dataset.Phase]bool)
	for _, pk := range phaseKeywords {
		if strings.Contains(q, pk.surface) && !seenPhase[pk.phase] {
			seenPhase[pk.phase] = true
			ents.Phases = append(ents.Phases, pk.phase)
		}
	}

	for _, rule := range intentRules {
		if containsAny(q, rule.keywords) {
			ents.Intent = rule.intent
			break
		}
	}
	return ents
}

// scan returns the non-overlapping matched fragments, preferring the
// longest match at each position so "virat kohli" beats "kohli".
func (e *Extractor) scan(ac *ahocorasick.Automaton, names []string, q string) []string {
	matches := ac.FindAllOverlapping([]byte(q))
	if len(matches) == 0 {
		return nil
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		return matches[i].End > matches[j].End
	})

	var out []string
	seen := make(map[string]bool)
	lastEnd := -1
	for _, m := range matches {
		if m.Start < lastEnd {
			continue
		}
		lastEnd = m.End
		name := names[m.PatternID]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
