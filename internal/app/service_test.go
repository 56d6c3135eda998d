package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fieldside/crease/internal/adapters/llm"
	service "github.com/fieldside/crease/internal/app"
	"github.com/fieldside/crease/internal/domain/dataset"
	"github.com/fieldside/crease/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func testDataset() *dataset.Dataset {
	ball := func(player, team, match string, year, over int, runs, bf float64) dataset.Ball {
		return dataset.Ball{
			Player: player, Team: team, Match: match, Year: year,
			Over: over, Runs: runs, BallsFaced: bf,
			StrikeRate: runs / bf * 100, DotPct: 30, BoundaryPct: 15,
		}
	}
	balls := []dataset.Ball{
		ball("Test Player", "Alpha XI", "m1", 2024, 17, 10, 10),
		ball("Test Player", "Alpha XI", "m2", 2024, 18, 15, 10),
		ball("Test Player", "Alpha XI", "m3", 2023, 16, 20, 10),
		ball("Opener Singh", "Alpha XI", "m1", 2024, 1, 12, 10),
		ball("Opener Singh", "Alpha XI", "m2", 2024, 2, 14, 10),
		ball("Finisher Yadav", "Beta CC", "m4", 2024, 16, 13, 10),
		ball("Finisher Yadav", "Beta CC", "m5", 2024, 17, 14, 10),
	}
	return dataset.New(balls, dataset.Columns{StrikeRate: true, DotPct: true, BoundaryPct: true})
}

func startedService(t *testing.T, client llm.Client) *service.Service {
	t.Helper()
	svc := service.New(
		service.WithDataset(testDataset()),
		service.WithLLM(client),
		service.WithMaxHistory(3),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithDatasetPath("/tmp/balls.csv"),
			service.WithMinMatches(3),
			service.WithFuzzyCutoff(0.7),
			service.WithResolutionCacheSize(128),
			service.WithMaxHistory(10),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Ask(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with a working model", t, func() {
		client := llm.NewStatic("Test Player is your death-overs pick with a strike rate around 150.")
		svc := startedService(t, client)
		defer svc.Stop()

		Convey("When a player question is asked", func() {
			ans, err := svc.Ask(ctx, "How good is Test Player at the death?")

			Convey("Then the model's answer comes back with a turn id", func() {
				So(err, ShouldBeNil)
				So(ans.Rejected, ShouldBeFalse)
				So(ans.ID, ShouldNotBeEmpty)
				So(ans.Text, ShouldContainSubstring, "Test Player")
			})

			Convey("And the plan targeted the player", func() {
				So(ans.Actions, ShouldContain, "get_player_stats:test player")
			})

			Convey("And the turn is in history", func() {
				turns := svc.History(0)
				So(turns, ShouldHaveLength, 1)
				So(turns[0].ID, ShouldEqual, ans.ID)
				So(turns[0].Rejected, ShouldBeFalse)
			})
		})

		Convey("When an unanswerable question is asked", func() {
			ans, err := svc.Ask(ctx, "How does Test Player handle spin bowling?")

			Convey("Then the rejection explains the data limits", func() {
				So(err, ShouldBeNil)
				So(ans.Rejected, ShouldBeTrue)
				So(ans.Text, ShouldContainSubstring, "bowling types")
				So(ans.Actions, ShouldBeEmpty)
			})
		})

		Convey("When more questions than the history bound arrive", func() {
			for _, q := range []string{
				"How good is Test Player at the death?",
				"Who are the best players in the powerplay?",
				"Who are the best players at the death?",
				"How good is Opener Singh in the powerplay?",
			} {
				_, err := svc.Ask(ctx, q)
				So(err, ShouldBeNil)
			}

			Convey("Then only the newest turns are retained", func() {
				turns := svc.History(0)
				So(turns, ShouldHaveLength, 3)
				So(turns[2].Question, ShouldContainSubstring, "Opener Singh")
			})
		})
	})

	Convey("Given a started service with an unreachable model", t, func() {
		client := llm.NewStatic("")
		client.Err = errors.New("connection refused")
		svc := startedService(t, client)
		defer svc.Stop()

		Convey("When a question is asked", func() {
			ans, err := svc.Ask(ctx, "How good is Test Player at the death?")

			Convey("Then the fallback answer still carries the analysis", func() {
				So(err, ShouldBeNil)
				So(ans.Rejected, ShouldBeFalse)
				So(ans.Text, ShouldNotBeEmpty)
				So(ans.Text, ShouldContainSubstring, "PLAYER DATA FOR TEST PLAYER")
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithDataset(testDataset()))

		Convey("When a question is asked", func() {
			_, err := svc.Ask(ctx, "anything")

			Convey("Then it refuses", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t, llm.NewStatic("ok"))
		defer svc.Stop()

		Convey("When a player summary is requested directly", func() {
			sum, ok := svc.PlayerSummary("finisher yadav")

			Convey("Then the summary is resolved", func() {
				So(ok, ShouldBeTrue)
				So(sum.Name, ShouldEqual, "Finisher Yadav")
				So(sum.TotalMatches, ShouldEqual, 2)
			})
		})

		Convey("When player suggestions are requested", func() {
			names := svc.SuggestPlayers("test", 5)

			Convey("Then prefix matches come back", func() {
				So(names, ShouldContain, "Test Player")
			})
		})

		Convey("When stats are requested", func() {
			stats := svc.GetStats()

			Convey("Then dataset shape is reported", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["players"], ShouldEqual, 3)
				So(stats["balls"], ShouldEqual, 7)
				So(stats["maxYear"], ShouldEqual, 2024)
			})
		})
	})
}
