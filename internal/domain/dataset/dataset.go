// Package dataset loads ball-by-ball batting data and derives per-innings
// entry points. The dataset is built once at startup and treated as
// read-only afterwards, so no locking is required for concurrent readers.
package dataset

import (
	"sort"
	"strings"
)

// Phase is a coarse segment of a 20-over innings.
type Phase string

// Innings phases, keyed off the over a batter first faces a delivery.
const (
	PhasePowerplay Phase = "Powerplay"
	PhaseMiddle    Phase = "Middle"
	PhaseDeath     Phase = "Death"
)

// Phase over thresholds.
const (
	powerplayMaxOver = 6
	middleMaxOver    = 15
)

// AllPhases lists the phases in innings order.
var AllPhases = []Phase{PhasePowerplay, PhaseMiddle, PhaseDeath}

// PhaseOf categorizes an entry over. Pure function: over <= 6 is Powerplay,
// 7-15 is Middle, 16+ is Death.
func PhaseOf(entryOver int) Phase {
	switch {
	case entryOver <= powerplayMaxOver:
		return PhasePowerplay
	case entryOver <= middleMaxOver:
		return PhaseMiddle
	default:
		return PhaseDeath
	}
}

// ParsePhase maps user-facing phase names to a Phase.
func ParsePhase(s string) (Phase, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "powerplay", "power play":
		return PhasePowerplay, true
	case "middle":
		return PhaseMiddle, true
	case "death":
		return PhaseDeath, true
	default:
		return "", false
	}
}

// Ball is one delivery faced by a batter. Rows are immutable once loaded.
type Ball struct {
	Match       string
	Player      string
	Team        string
	Year        int
	Over        int
	Runs        float64
	BallsFaced  float64
	StrikeRate  float64
	DotPct      float64
	BoundaryPct float64
	Dismissed   bool
	// Match-situation fields, present only in some exports.
	RequiredRunRate float64
	Target          float64
}

// Columns records which optional source columns were actually present.
// Aggregations still zero-fill absent metrics so sums and counts stay
// comparable across exports, but presentation layers must render absent
// metrics as unavailable rather than zero.
type Columns struct {
	StrikeRate      bool
	DotPct          bool
	BoundaryPct     bool
	Dismissal       bool
	RequiredRunRate bool
	Target          bool
}

// EntryPoint aggregates one (player, team, match, year) innings.
// Invariant: EntryOver <= ExitOver; Phase is PhaseOf(EntryOver).
type EntryPoint struct {
	Player      string
	Team        string
	Match       string
	Year        int
	EntryOver   int
	ExitOver    int
	OversPlayed int
	Duration    int
	Runs        float64
	BallsFaced  float64
	StrikeRate  float64
	DotPct      float64
	BoundaryPct float64
	Phase       Phase
}

// Dataset holds the loaded balls plus derived entry points and indexes.
type Dataset struct {
	balls   []Ball
	entries []EntryPoint
	cols    Columns
	players []string
	teams   []string
	maxYear int

	byPlayer map[string][]int // player -> entry indexes
}

type groupKey struct {
	player string
	team   string
	match  string
	year   int
}

// New derives entry points from ball-level rows. Grouping is by
// (player, team, match, year); the entry over is the minimum over faced,
// the exit over the maximum.
func New(balls []Ball, cols Columns) *Dataset {
	groups := make(map[groupKey][]int)
	order := make([]groupKey, 0)
	for i, b := range balls {
		k := groupKey{player: b.Player, team: b.Team, match: b.Match, year: b.Year}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	d := &Dataset{
		balls:    balls,
		cols:     cols,
		entries:  make([]EntryPoint, 0, len(order)),
		byPlayer: make(map[string][]int),
	}

	playerSet := make(map[string]struct{})
	teamSet := make(map[string]struct{})

	for _, k := range order {
		idxs := groups[k]
		ep := EntryPoint{
			Player:      k.player,
			Team:        k.team,
			Match:       k.match,
			Year:        k.year,
			OversPlayed: len(idxs),
		}
		var srSum, dotSum, bndSum float64
		first := true
		for _, i := range idxs {
			b := balls[i]
			if first || b.Over < ep.EntryOver {
				ep.EntryOver = b.Over
			}
			if first || b.Over > ep.ExitOver {
				ep.ExitOver = b.Over
			}
			first = false
			ep.Runs += b.Runs
			ep.BallsFaced += b.BallsFaced
			srSum += b.StrikeRate
			dotSum += b.DotPct
			bndSum += b.BoundaryPct
		}
		n := float64(len(idxs))
		ep.Duration = ep.ExitOver - ep.EntryOver + 1
		ep.DotPct = dotSum / n
		ep.BoundaryPct = bndSum / n
		if ep.BallsFaced > 0 {
			ep.StrikeRate = ep.Runs / ep.BallsFaced * 100
		} else {
			ep.StrikeRate = srSum / n
		}
		ep.Phase = PhaseOf(ep.EntryOver)

		d.byPlayer[k.player] = append(d.byPlayer[k.player], len(d.entries))
		d.entries = append(d.entries, ep)

		playerSet[k.player] = struct{}{}
		teamSet[k.team] = struct{}{}
		if k.year > d.maxYear {
			d.maxYear = k.year
		}
	}

	d.players = sortedKeys(playerSet)
	d.teams = sortedKeys(teamSet)
	return d
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Entries returns all derived entry points. Callers must not mutate.
func (d *Dataset) Entries() []EntryPoint { return d.entries }

// Balls returns the raw ball-level rows. Callers must not mutate.
func (d *Dataset) Balls() []Ball { return d.balls }

// Columns reports which optional source columns were present.
func (d *Dataset) Columns() Columns { return d.cols }

// Players returns the sorted unique player names.
func (d *Dataset) Players() []string { return d.players }

// Teams returns the sorted unique team names.
func (d *Dataset) Teams() []string { return d.teams }

// MaxYear is the most recent year in the dataset, the anchor for recency
// classification.
func (d *Dataset) MaxYear() int { return d.maxYear }

// PlayerEntries returns the entry points for an exact player name.
func (d *Dataset) PlayerEntries(player string) []EntryPoint {
	idxs, ok := d.byPlayer[player]
	if !ok {
		return nil
	}
	out := make([]EntryPoint, len(idxs))
	for i, idx := range idxs {
		out[i] = d.entries[idx]
	}
	return out
}

// PlayerEntryCount reports how many entry points a player has, without
// copying. Used by name resolution to prefer players with more data.
func (d *Dataset) PlayerEntryCount(player string) int {
	return len(d.byPlayer[player])
}

// PhaseEntries returns the entry points whose entry phase matches.
func (d *Dataset) PhaseEntries(phase Phase) []EntryPoint {
	out := make([]EntryPoint, 0)
	for _, ep := range d.entries {
		if ep.Phase == phase {
			out = append(out, ep)
		}
	}
	return out
}
