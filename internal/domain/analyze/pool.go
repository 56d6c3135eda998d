package analyze

import (
	"strings"

	"github.com/fieldside/crease/internal/domain/dataset"
)

// PoolCategory is one angle on the phase candidates: the same qualified
// players re-ranked by a different strength.
type PoolCategory struct {
	Key     string
	Title   string
	Players []PhaseLine
}

// DiversePool builds the batting-order candidate pool for one phase.
// Each category re-ranks the qualified players by a different metric and
// keeps the top entries, so the response generator can pick a balanced
// lineup rather than fifteen copies of the same profile.
func (a *Analyzer) DiversePool(phase dataset.Phase) []PoolCategory {
	base := a.phaseLines(phase, a.minMatches)

	categories := []struct {
		key, title string
		rank       func([]PhaseLine) []PhaseLine
	}{
		{"aggressive_strikers", "Aggressive strikers (highest strike rate)", func(l []PhaseLine) []PhaseLine {
			return topBy(l, func(x, y PhaseLine) bool { return x.StrikeRate > y.StrikeRate })
		}},
		{"consistent_scorers", "Consistent scorers (most runs)", func(l []PhaseLine) []PhaseLine {
			return topBy(l, func(x, y PhaseLine) bool { return x.Runs > y.Runs })
		}},
		{"boundary_hitters", "Boundary hitters (highest boundary percentage)", func(l []PhaseLine) []PhaseLine {
			return topBy(l, func(x, y PhaseLine) bool { return x.BoundaryPct > y.BoundaryPct })
		}},
		{"strike_rotators", "Strike rotators (fewest dot balls)", func(l []PhaseLine) []PhaseLine {
			return topBy(l, func(x, y PhaseLine) bool { return x.DotPct < y.DotPct })
		}},
		{"experienced_players", "Experienced players (most entries)", func(l []PhaseLine) []PhaseLine {
			return topBy(l, func(x, y PhaseLine) bool { return x.Matches > y.Matches })
		}},
		{"balanced_options", "Balanced options (strike rate 120-150, most runs)", func(l []PhaseLine) []PhaseLine {
			balanced := make([]PhaseLine, 0, len(l))
			for _, line := range l {
				if line.StrikeRate >= balancedMinSR && line.StrikeRate <= balancedMaxSR {
					balanced = append(balanced, line)
				}
			}
			return topBy(balanced, func(x, y PhaseLine) bool { return x.Runs > y.Runs })
		}},
	}

	out := make([]PoolCategory, 0, len(categories))
	for _, c := range categories {
		out = append(out, PoolCategory{Key: c.key, Title: c.title, Players: c.rank(base)})
	}
	return out
}

// topBy copies, sorts and caps one category ranking.
func topBy(lines []PhaseLine, less func(x, y PhaseLine) bool) []PhaseLine {
	ranked := append([]PhaseLine(nil), lines...)
	sortLines(ranked, less)
	if len(ranked) > poolCategorySize {
		ranked = ranked[:poolCategorySize]
	}
	return ranked
}

// PhaseSummary is the aggregate shape of one phase across all players.
type PhaseSummary struct {
	Phase          dataset.Phase
	TotalEntries   int
	UniquePlayers  int
	AvgEntryOver   float64
	AvgStrikeRate  float64
	AvgRuns        float64
	AvgDotPct      float64
	AvgBoundaryPct float64
}

// SummarizePhase aggregates every entry in one phase.
func (a *Analyzer) SummarizePhase(phase dataset.Phase) PhaseSummary {
	s := PhaseSummary{Phase: phase}
	players := make(map[string]struct{})
	for _, ep := range a.ds.PhaseEntries(phase) {
		s.TotalEntries++
		s.AvgEntryOver += float64(ep.EntryOver)
		s.AvgStrikeRate += ep.StrikeRate
		s.AvgRuns += ep.Runs
		s.AvgDotPct += ep.DotPct
		s.AvgBoundaryPct += ep.BoundaryPct
		players[ep.Player] = struct{}{}
	}
	s.UniquePlayers = len(players)
	if s.TotalEntries > 0 {
		n := float64(s.TotalEntries)
		s.AvgEntryOver /= n
		s.AvgStrikeRate /= n
		s.AvgRuns /= n
		s.AvgDotPct /= n
		s.AvgBoundaryPct /= n
	}
	return s
}

// ComparisonEntry pairs a query string with its resolved summary; the
// summary is nil when the name could not be resolved.
type ComparisonEntry struct {
	Query   string
	Summary *PlayerSummary
}

// Compare resolves and summarizes each name, keeping query order.
func (a *Analyzer) Compare(names []string) []ComparisonEntry {
	out := make([]ComparisonEntry, 0, len(names))
	for _, name := range names {
		entry := ComparisonEntry{Query: name}
		if s, ok := a.PlayerStats(name); ok {
			entry.Summary = s
		}
		out = append(out, entry)
	}
	return out
}

// TeamSummary profiles one team's entry points.
type TeamSummary struct {
	Team              string
	TotalEntries      int
	UniquePlayers     int
	AvgEntryOver      float64
	AvgStrikeRate     float64
	PhaseDistribution map[dataset.Phase]int
	TopPerformers     []PhaseLine
}

const teamTopPerformers = 5

// TeamStrategy profiles a team's batting entries. Team matching is
// case-insensitive on substring, so "mumbai" finds "Mumbai Indians".
func (a *Analyzer) TeamStrategy(team string) (*TeamSummary, bool) {
	canonical, ok := matchTeam(a.ds.Teams(), team)
	if !ok {
		return nil, false
	}

	s := &TeamSummary{Team: canonical, PhaseDistribution: make(map[dataset.Phase]int)}
	byPlayer := make(map[string]*PhaseLine)
	order := make([]string, 0)
	players := make(map[string]struct{})
	for _, ep := range a.ds.Entries() {
		if ep.Team != canonical {
			continue
		}
		s.TotalEntries++
		s.AvgEntryOver += float64(ep.EntryOver)
		s.AvgStrikeRate += ep.StrikeRate
		s.PhaseDistribution[ep.Phase]++
		players[ep.Player] = struct{}{}

		l, seen := byPlayer[ep.Player]
		if !seen {
			l = &PhaseLine{Player: ep.Player}
			byPlayer[ep.Player] = l
			order = append(order, ep.Player)
		}
		l.Matches++
		l.StrikeRate += ep.StrikeRate
		l.Runs += ep.Runs
	}
	if s.TotalEntries == 0 {
		return nil, false
	}
	n := float64(s.TotalEntries)
	s.AvgEntryOver /= n
	s.AvgStrikeRate /= n
	s.UniquePlayers = len(players)

	lines := make([]PhaseLine, 0, len(order))
	for _, p := range order {
		l := byPlayer[p]
		if l.Matches < a.minMatches {
			continue
		}
		l.StrikeRate /= float64(l.Matches)
		l.Runs /= float64(l.Matches)
		lines = append(lines, *l)
	}
	sortLines(lines, func(x, y PhaseLine) bool { return x.StrikeRate > y.StrikeRate })
	if len(lines) > teamTopPerformers {
		lines = lines[:teamTopPerformers]
	}
	s.TopPerformers = lines
	return s, true
}

// matchTeam finds the canonical team for a user-supplied fragment.
// Exact match wins; otherwise the first team containing the fragment.
func matchTeam(teams []string, query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	for _, t := range teams {
		if strings.ToLower(t) == q {
			return t, true
		}
	}
	for _, t := range teams {
		if strings.Contains(strings.ToLower(t), q) {
			return t, true
		}
	}
	return "", false
}
