package validate

import (
	"fmt"
	"strings"
)

// availableFields is what the entry-point dataset actually carries.
var availableFields = []string{
	"batsman entry points (when players came in to bat)",
	"runs scored and balls faced per innings",
	"strike rates, dot ball and boundary percentages",
	"match phases (powerplay, middle, death) by entry over",
	"teams, seasons and match counts per player",
}

// unavailableFields is the data the dataset is known not to carry,
// keyed by concept for the generic template.
var unavailableFields = map[Concept]string{
	ConceptBowlingType:    "bowling type or bowler style (spin, pace, etc.)",
	ConceptBowlerIdentity: "which bowler was bowling at any point",
	ConceptBallByBall:     "individual deliveries or ball-by-ball events",
	ConceptFielding:       "fielding events such as catches or run-outs",
	ConceptBowlingStats:   "bowling figures such as wickets or economy",
	ConceptMatchOutcome:   "match results, wins or losses",
	ConceptVenue:          "venues, grounds or pitch conditions",
	ConceptWeather:        "weather or playing conditions",
	ConceptToss:           "toss decisions or innings order",
}

// rejectionMessage renders the explanation returned in place of an
// answer. Bowling type and bowler identity get dedicated wording because
// they are by far the most common unanswerable questions; everything else
// shares the generic template.
func rejectionMessage(concept Concept, keyword string) string {
	var b strings.Builder
	switch concept {
	case ConceptBowlingType:
		fmt.Fprintf(&b, "I can't answer questions about bowling types (your question mentions %q).\n\n", keyword)
		b.WriteString("The dataset tracks batsman entry points, not deliveries, so there is no record of whether a spinner or a pacer was bowling.\n\n")
	case ConceptBowlerIdentity:
		fmt.Fprintf(&b, "I can't answer questions about specific bowlers (your question mentions %q).\n\n", keyword)
		b.WriteString("The dataset records when batsmen entered and how they scored, but not who they were facing.\n\n")
	default:
		fmt.Fprintf(&b, "I can't answer that: the dataset has no %s (your question mentions %q).\n\n", unavailableFields[concept], keyword)
	}

	b.WriteString("What I can answer from this dataset:\n")
	for _, f := range availableFields {
		b.WriteString("- " + f + "\n")
	}
	b.WriteString("\nTry asking about entry points, phase performance, or player comparisons instead.")
	return b.String()
}
