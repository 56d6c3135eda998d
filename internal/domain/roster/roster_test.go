package roster_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fieldside/crease/internal/domain/roster"
)

var testPlayers = []string{
	"Virat Kohli",
	"Rohit Sharma",
	"Ishan Kishan",
	"Shubman Gill",
	"Hardik Pandya",
	"Krunal Pandya",
}

func entryCount(name string) int {
	counts := map[string]int{
		"Virat Kohli":   40,
		"Rohit Sharma":  35,
		"Hardik Pandya": 20,
		"Krunal Pandya": 8,
	}
	return counts[name]
}

func TestResolve(t *testing.T) {
	Convey("Given a roster over the player names", t, func() {
		r := roster.New(testPlayers, entryCount)

		Convey("When a full name is resolved", func() {
			name, conf, ok := r.Resolve("Virat Kohli")

			Convey("Then the substring layer matches with full confidence", func() {
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Virat Kohli")
				So(conf, ShouldEqual, 1.0)
			})
		})

		Convey("When a partial name is resolved", func() {
			name, _, ok := r.Resolve("kohli")

			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "Virat Kohli")
		})

		Convey("When a misspelled full name is resolved", func() {
			name, conf, ok := r.Resolve("virat kohly")

			Convey("Then the fuzzy layer finds it", func() {
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Virat Kohli")
				So(conf, ShouldBeGreaterThan, 0.6)
			})
		})

		Convey("When a shared last name is resolved", func() {
			name, conf, ok := r.Resolve("pandya")

			Convey("Then a single player still comes back at reduced confidence", func() {
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Hardik Pandya")
				So(conf, ShouldBeLessThan, 0.5)
			})
		})

		Convey("When only a unique first name is given with junk after it", func() {
			name, _, ok := r.Resolve("shubman someone")

			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "Shubman Gill")
		})

		Convey("When nothing matches", func() {
			_, _, ok := r.Resolve("zzzz qqqq")

			So(ok, ShouldBeFalse)
		})

		Convey("When the query is blank", func() {
			_, _, ok := r.Resolve("   ")

			So(ok, ShouldBeFalse)
		})
	})
}

func TestResolutionCache(t *testing.T) {
	Convey("Given a roster with a small cache", t, func() {
		r := roster.New(testPlayers, entryCount, roster.WithCacheSize(2))

		Convey("When the same query repeats", func() {
			_, _, _ = r.Resolve("kohli")
			_, _, _ = r.Resolve("kohli")
			_, _, _ = r.Resolve("kohli")

			Convey("Then later lookups hit the cache", func() {
				hits, misses := r.CacheStats()
				So(misses, ShouldEqual, 1)
				So(hits, ShouldEqual, 2)
			})
		})

		Convey("When failed lookups repeat", func() {
			_, _, ok1 := r.Resolve("zzzz")
			_, _, ok2 := r.Resolve("zzzz")

			Convey("Then the failure is remembered too", func() {
				So(ok1, ShouldBeFalse)
				So(ok2, ShouldBeFalse)
				hits, _ := r.CacheStats()
				So(hits, ShouldEqual, 1)
			})
		})

		Convey("When more queries arrive than the cache holds", func() {
			_, _, _ = r.Resolve("kohli")
			_, _, _ = r.Resolve("rohit")
			_, _, _ = r.Resolve("gill")
			_, _, _ = r.Resolve("kohli")

			Convey("Then the oldest entry was evicted and misses again", func() {
				_, misses := r.CacheStats()
				So(misses, ShouldEqual, 4)
			})
		})
	})

	Convey("Given a roster with the cache disabled", t, func() {
		r := roster.New(testPlayers, entryCount, roster.WithCacheSize(0))

		Convey("Then resolution still works and stats stay zero", func() {
			name, _, ok := r.Resolve("kohli")
			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "Virat Kohli")
			hits, misses := r.CacheStats()
			So(hits, ShouldEqual, 0)
			So(misses, ShouldEqual, 0)
		})
	})
}

func TestSurfaces(t *testing.T) {
	Convey("Given a roster", t, func() {
		r := roster.New(testPlayers, entryCount)
		surfaces := r.Surfaces()

		Convey("Then full names and name tokens are all present", func() {
			So(surfaces, ShouldContain, "virat kohli")
			So(surfaces, ShouldContain, "kohli")
			So(surfaces, ShouldContain, "virat")
			So(surfaces, ShouldContain, "pandya")
		})

		Convey("And shared tokens appear once", func() {
			count := 0
			for _, s := range surfaces {
				if s == "pandya" {
					count++
				}
			}
			So(count, ShouldEqual, 1)
		})
	})
}

func TestSuggest(t *testing.T) {
	Convey("Given a roster", t, func() {
		r := roster.New(testPlayers, entryCount)

		Convey("When a prefix matches several players", func() {
			names := r.Suggest("i", 10)

			Convey("Then matches come back in sorted order", func() {
				So(names, ShouldResemble, []string{"Ishan Kishan"})
			})
		})

		Convey("When a limit is set", func() {
			names := r.Suggest("", 2)

			So(names, ShouldHaveLength, 2)
		})

		Convey("When nothing matches", func() {
			So(r.Suggest("xyz", 5), ShouldBeEmpty)
		})
	})
}

func TestLayerFunctions(t *testing.T) {
	Convey("Given the exported layer functions", t, func() {
		Convey("SubstringMatches ranks by query coverage", func() {
			cands := roster.SubstringMatches("han", []string{"Ishan Kishan", "Han Solo"})
			So(cands, ShouldHaveLength, 2)
			So(cands[0].Name, ShouldEqual, "Han Solo")
		})

		Convey("FuzzyMatches honors the cutoff", func() {
			So(roster.FuzzyMatches("kohli", []string{"Virat Kohli"}, 0.9), ShouldBeEmpty)
			cands := roster.FuzzyMatches("virat kohly", []string{"Virat Kohli"}, 0.6)
			So(cands, ShouldHaveLength, 1)
		})

		Convey("LastNameMatches splits shared confidence", func() {
			cands := roster.LastNameMatches("pandya", []string{"Hardik Pandya", "Krunal Pandya"}, entryCount)
			So(cands, ShouldHaveLength, 2)
			So(cands[0].Name, ShouldEqual, "Hardik Pandya")
			So(cands[0].Confidence, ShouldEqual, 0.5)
		})

		Convey("FirstNameMatches refuses ambiguity", func() {
			So(roster.FirstNameMatches("hardik x", []string{"Hardik Pandya"}), ShouldHaveLength, 1)
			So(roster.FirstNameMatches("pand x", []string{"Hardik Pandya", "Krunal Pandya"}), ShouldBeEmpty)
		})
	})
}
