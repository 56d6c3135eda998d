package service_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fieldside/crease/internal/adapters/llm"
	service "github.com/fieldside/crease/internal/app"
)

func writeFixtureCSV(t *testing.T) string {
	t.Helper()
	var rows string
	rows = "player,team,match,year,over,runs,bf,sr,dot%,bnd%\n"
	add := func(player, team, match string, year, over int, runs, bf, sr, dot, bnd float64) {
		rows += fmt.Sprintf("%s,%s,%s,%d,%d,%.0f,%.0f,%.1f,%.1f,%.1f\n",
			player, team, match, year, over, runs, bf, sr, dot, bnd)
	}
	add("Virat Kohli", "Bangalore", "m1", 2024, 3, 52, 40, 130, 35, 14)
	add("Virat Kohli", "Bangalore", "m2", 2024, 2, 44, 35, 125.7, 38, 12)
	add("Virat Kohli", "Bangalore", "m3", 2023, 4, 61, 44, 138.6, 30, 16)
	add("Rohit Sharma", "Mumbai", "m4", 2024, 1, 38, 28, 135.7, 33, 18)
	add("Rohit Sharma", "Mumbai", "m5", 2024, 1, 21, 18, 116.7, 44, 11)
	add("Hardik Pandya", "Mumbai", "m4", 2024, 16, 33, 18, 183.3, 22, 25)
	add("Hardik Pandya", "Mumbai", "m5", 2024, 17, 27, 15, 180.0, 20, 22)
	add("Suryakumar Yadav", "Mumbai", "m4", 2024, 8, 45, 30, 150.0, 28, 20)
	add("Suryakumar Yadav", "Mumbai", "m5", 2024, 9, 50, 32, 156.3, 26, 21)

	path := filepath.Join(t.TempDir(), "balls.csv")
	if err := os.WriteFile(path, []byte(rows), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestServiceIntegration_CSVPipeline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service loading a real CSV export", t, func() {
		path := writeFixtureCSV(t)
		svc := service.New(
			service.WithDatasetPath(path),
			service.WithLLM(llm.NewStatic("Based on entry point analysis, pick Hardik Pandya for the death overs.")),
			service.WithMinMatches(2),
		)
		startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		So(svc.Start(startCtx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the dataset stats are inspected", func() {
			stats := svc.GetStats()

			Convey("Then the grouped entry points are counted", func() {
				So(stats["players"], ShouldEqual, 4)
				So(stats["balls"], ShouldEqual, 9)
				So(stats["entryPoints"], ShouldEqual, 9)
				So(stats["teams"], ShouldEqual, 2)
				So(stats["maxYear"], ShouldEqual, 2024)
			})
		})

		Convey("When a misspelled player question runs end to end", func() {
			ans, err := svc.Ask(ctx, "How effective is Kohli when he comes in early?")

			Convey("Then fuzzy resolution still finds the player", func() {
				So(err, ShouldBeNil)
				So(ans.Rejected, ShouldBeFalse)
				So(ans.Actions, ShouldContain, "get_player_stats:kohli")
				So(ans.Text, ShouldNotBeEmpty)
			})
		})

		Convey("When a lineup question runs end to end", func() {
			ans, err := svc.Ask(ctx, "Suggest a batting order for the next match")

			Convey("Then all three phase pools are planned", func() {
				So(err, ShouldBeNil)
				So(ans.Actions, ShouldContain, "get_diverse_player_pool:powerplay")
				So(ans.Actions, ShouldContain, "get_diverse_player_pool:middle")
				So(ans.Actions, ShouldContain, "get_diverse_player_pool:death")
			})
		})

		Convey("When a comparison question runs end to end", func() {
			ans, err := svc.Ask(ctx, "Compare Kohli vs Rohit for the opening slot")

			Convey("Then a single comparison action is planned", func() {
				So(err, ShouldBeNil)
				So(ans.Actions, ShouldHaveLength, 1)
				So(ans.Actions[0], ShouldStartWith, "compare_players:")
			})
		})

		Convey("When a bowling question runs end to end", func() {
			ans, err := svc.Ask(ctx, "Which bowler troubles Kohli the most?")

			Convey("Then validation rejects it before planning", func() {
				So(err, ShouldBeNil)
				So(ans.Rejected, ShouldBeTrue)
				So(ans.Actions, ShouldBeEmpty)
				So(ans.Text, ShouldContainSubstring, "What I can answer")
			})
		})

		Convey("When questions arrive concurrently", func() {
			questions := []string{
				"How good is Hardik Pandya at the death?",
				"Who are the best players entering in the middle overs?",
				"Compare Suryakumar Yadav vs Rohit Sharma",
				"Which players should we send in at the death?",
			}
			results := make([]error, len(questions))
			var wg sync.WaitGroup
			for i, q := range questions {
				wg.Add(1)
				go func(i int, q string) {
					defer wg.Done()
					_, err := svc.Ask(ctx, q)
					results[i] = err
				}(i, q)
			}
			wg.Wait()

			Convey("Then every question is answered without error", func() {
				for _, err := range results {
					So(err, ShouldBeNil)
				}
				So(svc.History(0), ShouldHaveLength, len(questions))
			})
		})
	})

	Convey("Given a service pointed at a missing dataset", t, func() {
		svc := service.New(service.WithDatasetPath(filepath.Join(t.TempDir(), "nope.csv")))

		Convey("When it starts", func() {
			err := svc.Start(ctx)

			Convey("Then startup fails cleanly", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
