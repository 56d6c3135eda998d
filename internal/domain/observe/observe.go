// Package observe renders analysis results as labeled plain-text blocks.
// The blocks feed the language model prompt and double as the fallback
// answer when the model is unreachable, so they are written for humans:
// one block per executed action, metrics rounded, absent source columns
// shown as n/a instead of a misleading zero.
package observe

import (
	"fmt"
	"strings"

	"github.com/fieldside/crease/internal/domain/analyze"
	"github.com/fieldside/crease/internal/domain/dataset"
)

// NoData is the stand-in observation when no action produced output.
const NoData = "No specific data retrieved."

// Builder formats analysis results. cols gates which metrics render as
// real numbers.
type Builder struct {
	cols dataset.Columns
}

// New builds a Builder for a dataset's column set.
func New(cols dataset.Columns) *Builder {
	return &Builder{cols: cols}
}

// Join assembles the final observation text from the per-action blocks.
func (b *Builder) Join(blocks []string) string {
	kept := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		if strings.TrimSpace(blk) != "" {
			kept = append(kept, strings.TrimRight(blk, "\n"))
		}
	}
	if len(kept) == 0 {
		return NoData
	}
	return strings.Join(kept, "\n\n")
}

// StyleNotice renders the data limitation warning for bowling-style
// questions. It is placed before any data block so the model cannot
// miss it.
func (b *Builder) StyleNotice(styles []string) string {
	return fmt.Sprintf(
		"NOTE: The dataset does not record bowling types, so %s-specific numbers are not available. The statistics below cover all bowling faced.",
		strings.Join(styles, " and "))
}

// Player renders one player's full summary block.
func (b *Builder) Player(s *analyze.PlayerSummary) string {
	var w strings.Builder
	fmt.Fprintf(&w, "PLAYER DATA FOR %s:\n", strings.ToUpper(s.Name))
	if s.Query != "" && !strings.EqualFold(s.Query, s.Name) {
		fmt.Fprintf(&w, "- Matched from %q (confidence %.2f)\n", s.Query, s.Confidence)
	}
	fmt.Fprintf(&w, "- Matches: %d, Total runs: %.0f (%.1f per innings)\n", s.TotalMatches, s.TotalRuns, s.AvgRuns)
	fmt.Fprintf(&w, "- Average entry over: %.1f, Average stay: %.1f overs\n", s.AvgEntryOver, s.AvgDuration)
	fmt.Fprintf(&w, "- Strike rate: %s avg, %s best\n", b.rate(s.AvgStrikeRate, b.cols.StrikeRate), b.rate(s.BestStrikeRate, b.cols.StrikeRate))
	fmt.Fprintf(&w, "- Dot balls: %s, Boundaries: %s\n", b.pct(s.AvgDotPct, b.cols.DotPct), b.pct(s.AvgBoundaryPct, b.cols.BoundaryPct))
	fmt.Fprintf(&w, "- Teams: %s\n", strings.Join(s.Teams, ", "))
	fmt.Fprintf(&w, "- Seasons: %s (latest %d, %s)\n", joinYears(s.Years), s.MostRecentYear, s.Recency)

	if len(s.PhaseBreakdown) > 0 {
		w.WriteString("- Entries by phase:")
		for _, ph := range dataset.AllPhases {
			if n := s.PhaseBreakdown[ph]; n > 0 {
				fmt.Fprintf(&w, " %s=%d", ph, n)
			}
		}
		w.WriteByte('\n')
	}
	for _, ph := range dataset.AllPhases {
		p, ok := s.PhasePerformance[ph]
		if !ok {
			continue
		}
		fmt.Fprintf(&w, "- %s: SR %s, %.1f runs over %d entries\n",
			ph, b.rate(p.StrikeRate, b.cols.StrikeRate), p.Runs, p.Matches)
	}
	if s.Recent != nil {
		fmt.Fprintf(&w, "- Recent form (%s): SR %s, %.1f runs over %d entries\n",
			joinYears(s.Recent.Years), b.rate(s.Recent.StrikeRate, b.cols.StrikeRate), s.Recent.Runs, s.Recent.Matches)
	}
	if s.Historical != nil {
		fmt.Fprintf(&w, "- Earlier seasons (%s): SR %s, %.1f runs over %d entries\n",
			joinYears(s.Historical.Years), b.rate(s.Historical.StrikeRate, b.cols.StrikeRate), s.Historical.Runs, s.Historical.Matches)
	}
	return w.String()
}

// PlayerNotFound renders the block for an unresolvable name.
func (b *Builder) PlayerNotFound(query string) string {
	return fmt.Sprintf("PLAYER DATA FOR %s:\n- No player matching %q was found in the dataset.", strings.ToUpper(query), query)
}

// Leaders renders a phase leaderboard block.
func (b *Builder) Leaders(phase dataset.Phase, lines []analyze.PhaseLine) string {
	var w strings.Builder
	fmt.Fprintf(&w, "TOP PERFORMERS FOR %s PHASE:\n", strings.ToUpper(string(phase)))
	if len(lines) == 0 {
		w.WriteString("- No players with enough entries in this phase.")
		return w.String()
	}
	for i, l := range lines {
		fmt.Fprintf(&w, "%d. %s: SR %s, %.1f runs, %d entries\n",
			i+1, l.Player, b.rate(l.StrikeRate, b.cols.StrikeRate), l.Runs, l.Matches)
	}
	return w.String()
}

// Pool renders the diverse candidate pool for one phase.
func (b *Builder) Pool(phase dataset.Phase, pool []analyze.PoolCategory) string {
	var w strings.Builder
	fmt.Fprintf(&w, "DIVERSE PLAYER POOL FOR %s PHASE:\n", strings.ToUpper(string(phase)))
	for _, cat := range pool {
		if len(cat.Players) == 0 {
			continue
		}
		fmt.Fprintf(&w, "%s:\n", cat.Title)
		for _, p := range cat.Players {
			fmt.Fprintf(&w, "  - %s (SR %s, %.1f runs, %d entries)\n",
				p.Player, b.rate(p.StrikeRate, b.cols.StrikeRate), p.Runs, p.Matches)
		}
	}
	return w.String()
}

// Comparison renders a side-by-side block for two or more players.
func (b *Builder) Comparison(entries []analyze.ComparisonEntry) string {
	var w strings.Builder
	w.WriteString("PLAYER COMPARISON:\n")
	for _, e := range entries {
		if e.Summary == nil {
			fmt.Fprintf(&w, "- %s: no matching player in the dataset\n", e.Query)
			continue
		}
		s := e.Summary
		fmt.Fprintf(&w, "- %s: SR %s over %d entries, %.1f runs per innings, latest season %d (%s)\n",
			s.Name, b.rate(s.AvgStrikeRate, b.cols.StrikeRate), s.TotalMatches, s.AvgRuns, s.MostRecentYear, s.Recency)
	}
	return w.String()
}

// Team renders a team profile block.
func (b *Builder) Team(s *analyze.TeamSummary) string {
	var w strings.Builder
	fmt.Fprintf(&w, "TEAM PROFILE FOR %s:\n", strings.ToUpper(s.Team))
	fmt.Fprintf(&w, "- Entries: %d across %d players, average entry over %.1f, SR %s\n",
		s.TotalEntries, s.UniquePlayers, s.AvgEntryOver, b.rate(s.AvgStrikeRate, b.cols.StrikeRate))
	w.WriteString("- Entries by phase:")
	for _, ph := range dataset.AllPhases {
		if n := s.PhaseDistribution[ph]; n > 0 {
			fmt.Fprintf(&w, " %s=%d", ph, n)
		}
	}
	w.WriteByte('\n')
	if len(s.TopPerformers) > 0 {
		w.WriteString("- Top performers:\n")
		for _, p := range s.TopPerformers {
			fmt.Fprintf(&w, "  - %s (SR %s, %d entries)\n", p.Player, b.rate(p.StrikeRate, b.cols.StrikeRate), p.Matches)
		}
	}
	return w.String()
}

// TeamNotFound renders the block for an unknown team.
func (b *Builder) TeamNotFound(query string) string {
	return fmt.Sprintf("TEAM PROFILE FOR %s:\n- No team matching %q in the dataset.", strings.ToUpper(query), query)
}

// rate formats a strike rate, or n/a when the source column was absent
// and the value is therefore derived from zero-fill.
func (b *Builder) rate(v float64, present bool) string {
	if !present && v == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", v)
}

// pct formats a percentage metric, honoring column presence.
func (b *Builder) pct(v float64, present bool) string {
	if !present {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v)
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprintf("%d", y)
	}
	return strings.Join(parts, ", ")
}
