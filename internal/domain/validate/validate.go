// Package validate rejects questions the dataset cannot answer before any
// analysis runs. Concepts absent from the data (bowling type, bowler
// identity, venue, toss, ...) are expressed as an ordered rule table; the
// keywords of every rule are compiled into a single Aho-Corasick automaton
// so one pass over the question finds all hits, and rule order decides
// which hit wins. Matching is substring-based, mirroring how the source
// exports' vocabulary is phrased.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/ahocorasick"
)

// Concept names a category of data the dataset does not carry.
type Concept string

// Unavailable concepts, in rule order. The first matching rule wins.
const (
	ConceptBowlingType    Concept = "bowling type"
	ConceptBowlerIdentity Concept = "bowler identity"
	ConceptBallByBall     Concept = "ball-by-ball detail"
	ConceptFielding       Concept = "fielding"
	ConceptBowlingStats   Concept = "bowling statistics"
	ConceptMatchOutcome   Concept = "match outcome"
	ConceptVenue          Concept = "venue"
	ConceptWeather        Concept = "weather"
	ConceptToss           Concept = "toss"
)

// Rule groups the keywords that signal one unavailable concept. An
// exception predicate, when set for a keyword, suppresses the rejection
// for questions where the keyword is legitimate.
type Rule struct {
	Concept  Concept
	Keywords []string
}

// rules is the fixed vocabulary of unanswerable concepts.
var rules = []Rule{
	{ConceptBowlingType, []string{"spin", "pace", "fast", "seam", "off-spin", "leg-spin", "left-arm", "right-arm"}},
	{ConceptBowlerIdentity, []string{"bowler", "against", "facing"}},
	{ConceptBallByBall, []string{"ball-by-ball", "delivery", "specific ball"}},
	{ConceptFielding, []string{"fielding", "catches", "run-outs", "field placement"}},
	{ConceptBowlingStats, []string{"wickets taken", "economy rate", "bowling average", "bowling strike rate"}},
	{ConceptMatchOutcome, []string{"win", "loss", "result", "victory"}},
	{ConceptVenue, []string{"ground", "stadium", "venue", "pitch"}},
	{ConceptWeather, []string{"weather", "rain", "dew"}},
	{ConceptToss, []string{"toss", "bat first", "chase"}},
}

// teamCodes are short team names that mark a matchup question as a team
// question rather than a bowler matchup.
var teamCodes = []string{"team", "mi", "csk", "rcb", "kkr", "dc", "pbks", "rr", "srh", "gt", "lsg"}

// lineupPhrases mark batting-order questions, which legitimately use
// chase/defend vocabulary.
var lineupPhrases = []string{
	"batting order", "batting lineup", "batting line up", "lineup", "line up",
	"who should open", "who should bat", "optimal order", "best order",
	"batting positions", "who bats where",
}

// Result is the validator's verdict for one question.
type Result struct {
	Valid   bool
	Concept Concept
	Keyword string
	Message string
}

// Validator checks questions against the unavailable-concept rules.
type Validator struct {
	ac *ahocorasick.Automaton

	// pattern index -> (rule order, keyword order, keyword text)
	patternRule    []int
	patternKeyword []int
	patternText    []string

	playerSurfaces []string
}

// New compiles the rule table. playerSurfaces are lowercased known player
// name fragments, used by the "against" exception to recognize player
// comparison questions.
func New(playerSurfaces []string) (*Validator, error) {
	v := &Validator{playerSurfaces: playerSurfaces}
	patterns := make([]string, 0)
	for ri, rule := range rules {
		for ki, kw := range rule.Keywords {
			patterns = append(patterns, kw)
			v.patternRule = append(v.patternRule, ri)
			v.patternKeyword = append(v.patternKeyword, ki)
			v.patternText = append(v.patternText, kw)
		}
	}
	ac, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("validate: compile keyword automaton: %w", err)
	}
	v.ac = ac
	return v, nil
}

// Check scans the question for unavailable concepts. The hit belonging to
// the earliest rule (and earliest keyword within it) decides the verdict.
func (v *Validator) Check(question string) Result {
	q := strings.ToLower(question)
	matches := v.ac.FindAllOverlapping([]byte(q))
	if len(matches) == 0 {
		return Result{Valid: true}
	}

	type hit struct{ rule, keyword int }
	hits := make([]hit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, hit{rule: v.patternRule[m.PatternID], keyword: v.patternKeyword[m.PatternID]})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].rule != hits[j].rule {
			return hits[i].rule < hits[j].rule
		}
		return hits[i].keyword < hits[j].keyword
	})

	for _, h := range hits {
		rule := rules[h.rule]
		keyword := rule.Keywords[h.keyword]
		if v.excepted(rule.Concept, keyword, q) {
			continue
		}
		return Result{
			Valid:   false,
			Concept: rule.Concept,
			Keyword: keyword,
			Message: rejectionMessage(rule.Concept, keyword),
		}
	}
	return Result{Valid: true}
}

// excepted reports whether a keyword hit should be ignored for this
// question.
func (v *Validator) excepted(concept Concept, keyword, q string) bool {
	switch {
	case keyword == "against":
		// Team matchups and player comparisons use "against" without
		// implying bowler-level data.
		for _, code := range teamCodes {
			if containsWord(q, code) {
				return true
			}
		}
		if strings.Contains(q, "compare") {
			return true
		}
		for _, surface := range v.playerSurfaces {
			if strings.Contains(q, surface) {
				return true
			}
		}
		return false
	case concept == ConceptToss && (keyword == "chase" || keyword == "bat first"):
		// Batting-order questions describe the match situation with
		// chase/defend vocabulary; they are answerable from entry data.
		for _, phrase := range lineupPhrases {
			if strings.Contains(q, phrase) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// containsWord checks for a whole-word occurrence, so the short team
// codes don't fire inside unrelated words.
func containsWord(q, word string) bool {
	for _, tok := range strings.FieldsFunc(q, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if tok == word {
			return true
		}
	}
	return false
}
