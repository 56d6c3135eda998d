// Package analyze computes entry-point statistics over the loaded
// dataset: per-player summaries, phase leaderboards, diverse candidate
// pools for batting-order questions, team profiles and player
// comparisons. All computations are pure reads; the dataset never
// changes after startup.
package analyze

import (
	"sort"

	"github.com/fieldside/crease/internal/domain/dataset"
	"github.com/fieldside/crease/internal/domain/roster"
)

const (
	defaultMinMatches = 2
	recentYearWindow  = 2
	poolCategorySize  = 15
	balancedMinSR     = 120
	balancedMaxSR     = 150
)

// Analyzer answers analysis questions against one dataset.
type Analyzer struct {
	ds         *dataset.Dataset
	roster     *roster.Roster
	minMatches int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMinMatches sets the sample-size floor for leaderboards and pools.
func WithMinMatches(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.minMatches = n
		}
	}
}

// New builds an Analyzer over a dataset and its name roster.
func New(ds *dataset.Dataset, r *roster.Roster, opts ...Option) *Analyzer {
	a := &Analyzer{ds: ds, roster: r, minMatches: defaultMinMatches}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MinMatches is the configured sample-size floor.
func (a *Analyzer) MinMatches() int { return a.minMatches }

// Recency classifies how current a player's data is relative to the
// dataset's most recent year.
type Recency string

const (
	RecencyActive     Recency = "ACTIVE"
	RecencyRecent     Recency = "RECENT"
	RecencySemiRecent Recency = "SEMI-RECENT"
	RecencyHistorical Recency = "HISTORICAL"
)

// classifyRecency maps years behind the dataset's max year to a status
// and a weight usable for ranking.
func classifyRecency(behind int) (Recency, float64) {
	switch {
	case behind <= 0:
		return RecencyActive, 1.0
	case behind == 1:
		return RecencyRecent, 0.8
	case behind <= 2:
		return RecencySemiRecent, 0.6
	default:
		return RecencyHistorical, 0.3
	}
}

// PhasePerformance is a player's averaged line for one phase.
type PhasePerformance struct {
	StrikeRate  float64
	Runs        float64
	DotPct      float64
	BoundaryPct float64
	Matches     int
}

// WindowPerformance is a player's averaged line over a set of seasons.
type WindowPerformance struct {
	Years      []int
	Matches    int
	StrikeRate float64
	Runs       float64
}

// PlayerSummary is the full per-player view.
type PlayerSummary struct {
	Name       string
	Query      string
	Confidence float64

	TotalMatches   int
	TotalRuns      float64
	AvgRuns        float64
	AvgEntryOver   float64
	AvgStrikeRate  float64
	BestStrikeRate float64
	AvgDotPct      float64
	AvgBoundaryPct float64
	AvgDuration    float64

	Teams          []string
	Years          []int // most recent first
	MostRecentYear int
	Recency        Recency
	RecencyWeight  float64

	PhaseBreakdown   map[dataset.Phase]int
	PhasePerformance map[dataset.Phase]PhasePerformance

	Recent     *WindowPerformance
	Historical *WindowPerformance
}

// PlayerStats resolves a (possibly partial or misspelled) name and
// summarizes that player's entry points. The second return is false when
// no player could be resolved.
func (a *Analyzer) PlayerStats(name string) (*PlayerSummary, bool) {
	canonical, confidence, ok := a.roster.Resolve(name)
	if !ok {
		return nil, false
	}
	entries := a.ds.PlayerEntries(canonical)
	if len(entries) == 0 {
		return nil, false
	}

	s := &PlayerSummary{
		Name:             canonical,
		Query:            name,
		Confidence:       confidence,
		TotalMatches:     len(entries),
		PhaseBreakdown:   make(map[dataset.Phase]int),
		PhasePerformance: make(map[dataset.Phase]PhasePerformance),
	}

	teamSet := make(map[string]struct{})
	yearSet := make(map[int]struct{})
	n := float64(len(entries))
	for _, ep := range entries {
		s.TotalRuns += ep.Runs
		s.AvgEntryOver += float64(ep.EntryOver) / n
		s.AvgStrikeRate += ep.StrikeRate / n
		s.AvgDotPct += ep.DotPct / n
		s.AvgBoundaryPct += ep.BoundaryPct / n
		s.AvgDuration += float64(ep.Duration) / n
		if ep.StrikeRate > s.BestStrikeRate {
			s.BestStrikeRate = ep.StrikeRate
		}
		s.PhaseBreakdown[ep.Phase]++
		teamSet[ep.Team] = struct{}{}
		yearSet[ep.Year] = struct{}{}
		if ep.Year > s.MostRecentYear {
			s.MostRecentYear = ep.Year
		}
	}
	s.AvgRuns = s.TotalRuns / n

	s.Teams = make([]string, 0, len(teamSet))
	for t := range teamSet {
		s.Teams = append(s.Teams, t)
	}
	sort.Strings(s.Teams)

	s.Years = make([]int, 0, len(yearSet))
	for y := range yearSet {
		s.Years = append(s.Years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(s.Years)))

	s.Recency, s.RecencyWeight = classifyRecency(a.ds.MaxYear() - s.MostRecentYear)

	for _, ph := range dataset.AllPhases {
		perf, ok := phaseLine(entries, ph)
		if ok {
			s.PhasePerformance[ph] = perf
		}
	}

	a.splitByRecency(s, entries)
	return s, true
}

// phaseLine averages a player's entries for one phase.
func phaseLine(entries []dataset.EntryPoint, ph dataset.Phase) (PhasePerformance, bool) {
	var p PhasePerformance
	for _, ep := range entries {
		if ep.Phase != ph {
			continue
		}
		p.Matches++
		p.StrikeRate += ep.StrikeRate
		p.Runs += ep.Runs
		p.DotPct += ep.DotPct
		p.BoundaryPct += ep.BoundaryPct
	}
	if p.Matches == 0 {
		return PhasePerformance{}, false
	}
	n := float64(p.Matches)
	p.StrikeRate /= n
	p.Runs /= n
	p.DotPct /= n
	p.BoundaryPct /= n
	return p, true
}

// splitByRecency computes the recent window (the player's two most
// recent seasons) and, when older seasons exist, the historical
// remainder for trend comparison.
func (a *Analyzer) splitByRecency(s *PlayerSummary, entries []dataset.EntryPoint) {
	if len(s.Years) == 0 {
		return
	}
	recentYears := s.Years
	if len(recentYears) > recentYearWindow {
		recentYears = recentYears[:recentYearWindow]
	}
	isRecent := make(map[int]bool, len(recentYears))
	for _, y := range recentYears {
		isRecent[y] = true
	}

	var recent, historical WindowPerformance
	histYears := make(map[int]struct{})
	for _, ep := range entries {
		if isRecent[ep.Year] {
			recent.Matches++
			recent.StrikeRate += ep.StrikeRate
			recent.Runs += ep.Runs
		} else {
			historical.Matches++
			historical.StrikeRate += ep.StrikeRate
			historical.Runs += ep.Runs
			histYears[ep.Year] = struct{}{}
		}
	}

	recent.Years = append([]int(nil), recentYears...)
	recent.StrikeRate /= float64(recent.Matches)
	recent.Runs /= float64(recent.Matches)
	s.Recent = &recent

	if historical.Matches > 0 {
		historical.Years = make([]int, 0, len(histYears))
		for y := range histYears {
			historical.Years = append(historical.Years, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(historical.Years)))
		historical.StrikeRate /= float64(historical.Matches)
		historical.Runs /= float64(historical.Matches)
		s.Historical = &historical
	}
}

// PhaseLine is one player's averaged row in a phase leaderboard.
type PhaseLine struct {
	Player      string
	StrikeRate  float64
	Runs        float64
	DotPct      float64
	BoundaryPct float64
	Matches     int
}

// LeadersFilter narrows a phase leaderboard. Zero values mean "no
// constraint"; MinMatches zero falls back to the analyzer default.
type LeadersFilter struct {
	MinMatches int
	TopN       int
	MinSR      float64
	MaxSR      float64
}

// PhaseLeaders ranks players who entered in a phase by average strike
// rate, highest first. Players below the match floor are dropped so
// single-innings flukes don't top the board.
func (a *Analyzer) PhaseLeaders(phase dataset.Phase, f LeadersFilter) []PhaseLine {
	minMatches := f.MinMatches
	if minMatches <= 0 {
		minMatches = a.minMatches
	}

	lines := a.phaseLines(phase, minMatches)
	if f.MinSR > 0 || f.MaxSR > 0 {
		kept := lines[:0]
		for _, l := range lines {
			if f.MinSR > 0 && l.StrikeRate < f.MinSR {
				continue
			}
			if f.MaxSR > 0 && l.StrikeRate > f.MaxSR {
				continue
			}
			kept = append(kept, l)
		}
		lines = kept
	}

	sortLines(lines, func(x, y PhaseLine) bool { return x.StrikeRate > y.StrikeRate })
	if f.TopN > 0 && len(lines) > f.TopN {
		lines = lines[:f.TopN]
	}
	return lines
}

// phaseLines aggregates per-player averages for one phase.
func (a *Analyzer) phaseLines(phase dataset.Phase, minMatches int) []PhaseLine {
	byPlayer := make(map[string]*PhaseLine)
	order := make([]string, 0)
	for _, ep := range a.ds.PhaseEntries(phase) {
		l, ok := byPlayer[ep.Player]
		if !ok {
			l = &PhaseLine{Player: ep.Player}
			byPlayer[ep.Player] = l
			order = append(order, ep.Player)
		}
		l.Matches++
		l.StrikeRate += ep.StrikeRate
		l.Runs += ep.Runs
		l.DotPct += ep.DotPct
		l.BoundaryPct += ep.BoundaryPct
	}

	lines := make([]PhaseLine, 0, len(order))
	for _, p := range order {
		l := byPlayer[p]
		if l.Matches < minMatches {
			continue
		}
		n := float64(l.Matches)
		l.StrikeRate /= n
		l.Runs /= n
		l.DotPct /= n
		l.BoundaryPct /= n
		lines = append(lines, *l)
	}
	return lines
}

// sortLines sorts by the given order, breaking ties by player name so
// results are deterministic.
func sortLines(lines []PhaseLine, less func(x, y PhaseLine) bool) {
	sort.SliceStable(lines, func(i, j int) bool {
		if less(lines[i], lines[j]) {
			return true
		}
		if less(lines[j], lines[i]) {
			return false
		}
		return lines[i].Player < lines[j].Player
	})
}
