package analyze

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fieldside/crease/internal/domain/dataset"
	"github.com/fieldside/crease/internal/domain/roster"
)

// ball builds one single-ball innings row; strike rate derives from
// runs/balls when the dataset aggregates.
func ball(player, team, match string, year, over int, runs, bf float64) dataset.Ball {
	return dataset.Ball{
		Player: player, Team: team, Match: match, Year: year,
		Over: over, Runs: runs, BallsFaced: bf,
		StrikeRate: runs / bf * 100, DotPct: 30, BoundaryPct: 15,
	}
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	balls := []dataset.Ball{
		// Test Player: three death entries, strike rates 100, 150, 200.
		ball("Test Player", "Alpha XI", "m1", 2024, 17, 10, 10),
		ball("Test Player", "Alpha XI", "m2", 2024, 18, 15, 10),
		ball("Test Player", "Alpha XI", "m3", 2023, 16, 20, 10),
		// Opener Singh: powerplay regular with an older history.
		ball("Opener Singh", "Alpha XI", "m1", 2024, 1, 12, 10),
		ball("Opener Singh", "Alpha XI", "m2", 2024, 2, 14, 10),
		ball("Opener Singh", "Beta CC", "m4", 2021, 1, 30, 20),
		ball("Opener Singh", "Beta CC", "m5", 2021, 3, 25, 20),
		// Anchor Kumar: middle overs, one entry only.
		ball("Anchor Kumar", "Beta CC", "m4", 2021, 8, 40, 35),
		// Finisher Yadav: death specialist, balanced strike rate.
		ball("Finisher Yadav", "Beta CC", "m4", 2024, 16, 13, 10),
		ball("Finisher Yadav", "Beta CC", "m5", 2024, 17, 14, 10),
	}
	ds := dataset.New(balls, dataset.Columns{StrikeRate: true, DotPct: true, BoundaryPct: true})
	r := roster.New(ds.Players(), ds.PlayerEntryCount)
	return New(ds, r)
}

func TestPlayerStats(t *testing.T) {
	a := newTestAnalyzer(t)

	Convey("Given an analyzer over a small dataset", t, func() {
		Convey("When a player with three death entries is summarized", func() {
			s, ok := a.PlayerStats("test player")

			Convey("Then the strike rates average to 150", func() {
				So(ok, ShouldBeTrue)
				So(s.Name, ShouldEqual, "Test Player")
				So(s.TotalMatches, ShouldEqual, 3)
				So(s.AvgStrikeRate, ShouldAlmostEqual, 150, 0.001)
				So(s.BestStrikeRate, ShouldAlmostEqual, 200, 0.001)
			})

			Convey("And the phase breakdown is all death entries", func() {
				So(s.PhaseBreakdown[dataset.PhaseDeath], ShouldEqual, 3)
				So(s.PhaseBreakdown[dataset.PhasePowerplay], ShouldEqual, 0)
			})

			Convey("And the player reads as active this season", func() {
				So(s.MostRecentYear, ShouldEqual, 2024)
				So(s.Recency, ShouldEqual, RecencyActive)
				So(s.RecencyWeight, ShouldAlmostEqual, 1.0, 0.001)
			})
		})

		Convey("When a player spans recent and older seasons", func() {
			s, ok := a.PlayerStats("opener singh")

			Convey("Then the recent window holds the two latest seasons", func() {
				So(ok, ShouldBeTrue)
				So(s.Recent, ShouldNotBeNil)
				So(s.Recent.Years, ShouldResemble, []int{2024, 2021})
				So(s.Historical, ShouldBeNil)
			})

			Convey("And teams are collected across seasons", func() {
				So(s.Teams, ShouldResemble, []string{"Alpha XI", "Beta CC"})
			})
		})

		Convey("When a misspelled name is close enough", func() {
			s, ok := a.PlayerStats("opener sing")

			Convey("Then fuzzy resolution finds the player", func() {
				So(ok, ShouldBeTrue)
				So(s.Name, ShouldEqual, "Opener Singh")
				So(s.Confidence, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the name resolves to nobody", func() {
			_, ok := a.PlayerStats("zzzzzz")

			Convey("Then the lookup reports failure", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestPhaseLeaders(t *testing.T) {
	a := newTestAnalyzer(t)

	Convey("Given an analyzer over a small dataset", t, func() {
		Convey("When the death leaderboard is requested", func() {
			lines := a.PhaseLeaders(dataset.PhaseDeath, LeadersFilter{})

			Convey("Then players are ranked by strike rate descending", func() {
				So(lines, ShouldHaveLength, 2)
				So(lines[0].Player, ShouldEqual, "Test Player")
				So(lines[0].StrikeRate, ShouldAlmostEqual, 150, 0.001)
				So(lines[1].Player, ShouldEqual, "Finisher Yadav")
				So(lines[1].StrikeRate, ShouldAlmostEqual, 135, 0.001)
			})
		})

		Convey("When the match floor excludes small samples", func() {
			lines := a.PhaseLeaders(dataset.PhaseMiddle, LeadersFilter{})

			Convey("Then the lone middle-overs entry is dropped", func() {
				So(lines, ShouldBeEmpty)
			})
		})

		Convey("When a minimum of one match is allowed", func() {
			lines := a.PhaseLeaders(dataset.PhaseMiddle, LeadersFilter{MinMatches: 1})

			Convey("Then the single-entry player appears", func() {
				So(lines, ShouldHaveLength, 1)
				So(lines[0].Player, ShouldEqual, "Anchor Kumar")
			})
		})

		Convey("When a strike rate band is applied", func() {
			lines := a.PhaseLeaders(dataset.PhaseDeath, LeadersFilter{MinSR: 140})

			Convey("Then only players above the floor remain", func() {
				So(lines, ShouldHaveLength, 1)
				So(lines[0].Player, ShouldEqual, "Test Player")
			})
		})

		Convey("When the board is capped", func() {
			lines := a.PhaseLeaders(dataset.PhaseDeath, LeadersFilter{TopN: 1})

			Convey("Then only the leader is returned", func() {
				So(lines, ShouldHaveLength, 1)
				So(lines[0].Player, ShouldEqual, "Test Player")
			})
		})
	})
}

func TestDiversePool(t *testing.T) {
	a := newTestAnalyzer(t)

	Convey("Given an analyzer over a small dataset", t, func() {
		Convey("When the death pool is built", func() {
			pool := a.DiversePool(dataset.PhaseDeath)

			Convey("Then all six categories are present in order", func() {
				So(pool, ShouldHaveLength, 6)
				So(pool[0].Key, ShouldEqual, "aggressive_strikers")
				So(pool[5].Key, ShouldEqual, "balanced_options")
			})

			Convey("And aggressive strikers lead with the highest strike rate", func() {
				So(pool[0].Players[0].Player, ShouldEqual, "Test Player")
			})

			Convey("And balanced options only hold the 120-150 band", func() {
				for _, p := range pool[5].Players {
					So(p.StrikeRate, ShouldBeBetweenOrEqual, 120, 150)
				}
			})
		})
	})
}

func TestCompareAndTeams(t *testing.T) {
	a := newTestAnalyzer(t)

	Convey("Given an analyzer over a small dataset", t, func() {
		Convey("When two players are compared", func() {
			entries := a.Compare([]string{"test player", "nobody at all"})

			Convey("Then resolved and unresolved entries keep query order", func() {
				So(entries, ShouldHaveLength, 2)
				So(entries[0].Summary, ShouldNotBeNil)
				So(entries[0].Summary.Name, ShouldEqual, "Test Player")
				So(entries[1].Summary, ShouldBeNil)
			})
		})

		Convey("When a team fragment is profiled", func() {
			s, ok := a.TeamStrategy("beta")

			Convey("Then substring matching finds the team", func() {
				So(ok, ShouldBeTrue)
				So(s.Team, ShouldEqual, "Beta CC")
				So(s.TotalEntries, ShouldEqual, 5)
				So(s.UniquePlayers, ShouldEqual, 3)
			})

			Convey("And the phase distribution covers the team's entries", func() {
				So(s.PhaseDistribution[dataset.PhaseDeath], ShouldEqual, 2)
				So(s.PhaseDistribution[dataset.PhaseMiddle], ShouldEqual, 1)
				So(s.PhaseDistribution[dataset.PhasePowerplay], ShouldEqual, 2)
			})
		})

		Convey("When no team matches", func() {
			_, ok := a.TeamStrategy("gamma giants")

			Convey("Then the lookup reports failure", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a phase is summarized", func() {
			s := a.SummarizePhase(dataset.PhaseDeath)

			Convey("Then totals and averages cover every death entry", func() {
				So(s.TotalEntries, ShouldEqual, 5)
				So(s.UniquePlayers, ShouldEqual, 2)
				So(s.AvgStrikeRate, ShouldAlmostEqual, 144, 0.001)
			})
		})
	})
}
