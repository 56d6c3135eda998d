package extract

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fieldside/crease/internal/domain/dataset"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	surfaces := []string{"virat kohli", "virat", "kohli", "rohit sharma", "rohit", "sharma"}
	teams := []string{"Mumbai Indians", "Chennai Super Kings"}
	e, err := New(surfaces, teams)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestExtract(t *testing.T) {
	e := newTestExtractor(t)

	Convey("Given a compiled extractor", t, func() {
		Convey("When the question names a full player", func() {
			ents := e.Extract("How good is Virat Kohli in the death overs?")

			Convey("Then the longest fragment wins over its parts", func() {
				So(ents.Players, ShouldResemble, []string{"virat kohli"})
			})

			Convey("And the death phase is recognized", func() {
				So(ents.Phases, ShouldResemble, []dataset.Phase{dataset.PhaseDeath})
			})
		})

		Convey("When the question names two players with vs", func() {
			ents := e.Extract("Kohli vs Rohit at the death")

			Convey("Then both fragments are extracted in order", func() {
				So(ents.Players, ShouldResemble, []string{"kohli", "rohit"})
			})

			Convey("And the intent is comparison", func() {
				So(ents.Intent, ShouldEqual, IntentComparison)
			})
		})

		Convey("When the question asks who is best", func() {
			ents := e.Extract("Who is best in the middle overs?")

			Convey("Then the recommendation rule fires before comparison", func() {
				So(ents.Intent, ShouldEqual, IntentRecommendation)
				So(ents.Phases, ShouldResemble, []dataset.Phase{dataset.PhaseMiddle})
			})
		})

		Convey("When the question uses deployment phrasing", func() {
			ents := e.Extract("When should we send Rohit in?")

			Convey("Then deployment outranks recommendation", func() {
				So(ents.Intent, ShouldEqual, IntentDeployment)
			})
		})

		Convey("When the question mentions bowling styles", func() {
			ents := e.Extract("Is Kohli better versus spin or fast bowling?")

			Convey("Then canonical styles come back deduplicated and sorted", func() {
				So(ents.BowlingStyles, ShouldResemble, []string{"pace", "spin"})
			})
		})

		Convey("When the question names a team", func() {
			ents := e.Extract("What should the Mumbai Indians batting approach be?")

			Convey("Then the team is extracted lowercased", func() {
				So(ents.Teams, ShouldResemble, []string{"mumbai indians"})
			})
		})

		Convey("When nothing matches", func() {
			ents := e.Extract("Tell me something interesting")

			Convey("Then the intent falls back to general", func() {
				So(ents.Intent, ShouldEqual, IntentGeneral)
				So(ents.Players, ShouldBeEmpty)
				So(ents.Phases, ShouldBeEmpty)
			})
		})
	})
}
