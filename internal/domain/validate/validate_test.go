package validate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New([]string{"virat kohli", "kohli", "rohit sharma", "rohit", "sharma"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestCheck(t *testing.T) {
	v := newTestValidator(t)

	Convey("Given a compiled validator", t, func() {
		Convey("When the question is about entry points", func() {
			res := v.Check("What is Kohli's strike rate in the death overs?")

			Convey("Then it is accepted", func() {
				So(res.Valid, ShouldBeTrue)
			})
		})

		Convey("When the question asks about spin bowling", func() {
			res := v.Check("How does Kohli play spin in the powerplay?")

			Convey("Then it is rejected as a bowling type question", func() {
				So(res.Valid, ShouldBeFalse)
				So(res.Concept, ShouldEqual, ConceptBowlingType)
				So(res.Keyword, ShouldEqual, "spin")
				So(res.Message, ShouldContainSubstring, "bowling types")
				So(res.Message, ShouldContainSubstring, "What I can answer")
			})
		})

		Convey("When the question asks about a specific bowler", func() {
			res := v.Check("Which bowler troubles Rohit the most?")

			Convey("Then it is rejected as a bowler identity question", func() {
				So(res.Valid, ShouldBeFalse)
				So(res.Concept, ShouldEqual, ConceptBowlerIdentity)
			})
		})

		Convey("When 'against' refers to a team matchup", func() {
			res := v.Check("How does Rohit perform against CSK?")

			Convey("Then the exception lets it through", func() {
				So(res.Valid, ShouldBeTrue)
			})
		})

		Convey("When 'against' compares two known players", func() {
			res := v.Check("Compare Virat Kohli against Rohit Sharma")

			Convey("Then the exception lets it through", func() {
				So(res.Valid, ShouldBeTrue)
			})
		})

		Convey("When 'against' has no team or player context", func() {
			res := v.Check("Who scores best against the new ball?")

			Convey("Then it is rejected", func() {
				So(res.Valid, ShouldBeFalse)
				So(res.Keyword, ShouldEqual, "against")
			})
		})

		Convey("When the question is about the toss", func() {
			res := v.Check("Should we bat first after winning the toss?")

			Convey("Then it is rejected", func() {
				So(res.Valid, ShouldBeFalse)
			})
		})

		Convey("When chase vocabulary appears in a batting order question", func() {
			res := v.Check("What is the best batting order when chasing 180?")

			Convey("Then the lineup exception lets it through", func() {
				So(res.Valid, ShouldBeTrue)
			})
		})

		Convey("When the question mentions a venue", func() {
			res := v.Check("How do batsmen score at this stadium?")

			Convey("Then it is rejected with the generic template", func() {
				So(res.Valid, ShouldBeFalse)
				So(res.Concept, ShouldEqual, ConceptVenue)
				So(res.Message, ShouldContainSubstring, "venues")
			})
		})

		Convey("When two concepts are mentioned", func() {
			res := v.Check("Does weather matter for pace bowling?")

			Convey("Then the earliest rule wins", func() {
				So(res.Valid, ShouldBeFalse)
				So(res.Concept, ShouldEqual, ConceptBowlingType)
				So(res.Keyword, ShouldEqual, "pace")
			})
		})
	})
}

func TestContainsWord(t *testing.T) {
	Convey("Given the whole-word matcher", t, func() {
		Convey("Then short team codes only match as words", func() {
			So(containsWord("how does mi play", "mi"), ShouldBeTrue)
			So(containsWord("in the middle overs", "mi"), ShouldBeFalse)
			So(containsWord("premier league", "rr"), ShouldBeFalse)
		})
	})
}
