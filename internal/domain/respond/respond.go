// Package respond turns observations into a final answer. The normal
// path asks the language model to phrase the answer; two quality checks
// guard the output (a re-prompt when the model echoes the raw data, a
// name-prepend when the model drops the players asked about), and a
// deterministic fallback embeds the observations verbatim when the model
// is unreachable so the caller still gets the numbers.
package respond

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fieldside/crease/internal/adapters/llm"
	"github.com/fieldside/crease/internal/domain/extract"
	"github.com/fieldside/crease/pkg/logger"
)

// echoPrefix marks a model reply that just parrots the prompt scaffold.
const echoPrefix = "Based on the data analysis:"

// Generator phrases answers via an llm.Client.
type Generator struct {
	client llm.Client
	log    logger.Logger
}

// Outcome reports how the answer was produced, for metrics and history.
type Outcome string

const (
	OutcomeModel      Outcome = "model"
	OutcomeReprompted Outcome = "reprompted"
	OutcomeFallback   Outcome = "fallback"
)

// New builds a Generator.
func New(client llm.Client, log logger.Logger) *Generator {
	return &Generator{client: client, log: log}
}

// Answer produces the final text for one question. ents is what the
// extractor found, embedded in the prompt so the model sees the parse.
// players are the resolved names the observations cover; they drive the
// name check.
func (g *Generator) Answer(ctx context.Context, question string, ents extract.Entities, observations string, players []string) (string, Outcome) {
	reply, err := g.client.Complete(ctx, buildPrompt(question, ents, observations, players))
	if err != nil {
		g.log.Warn(ctx, "model unavailable, using fallback answer",
			logger.String("provider", g.client.Name()), logger.Error(err))
		return fallbackAnswer(question, observations), OutcomeFallback
	}

	outcome := OutcomeModel
	if isEcho(reply, observations) {
		g.log.Debug(ctx, "model echoed observations, reprompting")
		reply, err = g.client.Complete(ctx, buildSimplifiedPrompt(question, observations))
		if err != nil || isEcho(reply, observations) {
			return fallbackAnswer(question, observations), OutcomeFallback
		}
		outcome = OutcomeReprompted
	}

	return ensureNames(reply, players), outcome
}

// buildPrompt is the full prompt with answering rules.
func buildPrompt(question string, ents extract.Entities, observations string, players []string) string {
	var b strings.Builder
	b.WriteString("You are a T20 cricket analyst. Answer the question using only the data provided.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	fmt.Fprintf(&b, "Extracted entities: %s\n\n", entityDump(ents))
	fmt.Fprintf(&b, "Data:\n%s\n\n", observations)
	fmt.Fprintf(&b, "Players with data available: %s\n\n", availability(observations, players))
	b.WriteString("Rules:\n")
	b.WriteString("- Answer in plain prose, two to five sentences.\n")
	b.WriteString("- Name the specific players your answer relies on.\n")
	b.WriteString("- Cite the numbers that support your recommendation.\n")
	b.WriteString("- The data covers entry phases, not bowling types or bowler names.\n")
	b.WriteString("- If the data carries a NOTE about limitations, acknowledge it briefly.\n")
	b.WriteString("- For batting order questions, draw from every pool category, not one.\n")
	b.WriteString("- Weigh recency and sample size; a high rate over two matches is weak evidence.\n")
	b.WriteString("- Do not repeat the data blocks back; interpret them.\n\n")
	b.WriteString("Answer:")
	return b.String()
}

// entityDump renders the extracted entities as compact JSON for the
// prompt. Marshaling a plain struct of strings cannot fail; the empty
// object covers the impossible branch.
func entityDump(ents extract.Entities) string {
	raw, err := json.Marshal(ents)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// availability summarizes which players the observations actually cover,
// so the model cannot claim data it was not given.
func availability(observations string, players []string) string {
	if len(players) > 0 {
		return strings.Join(players, ", ")
	}
	if strings.Contains(observations, "TOP PERFORMERS FOR") || strings.Contains(observations, "DIVERSE PLAYER POOL FOR") {
		return "top performers listed in the data"
	}
	return "none, general analysis only"
}

// buildSimplifiedPrompt drops the scaffolding for models that echo the
// structured prompt back.
func buildSimplifiedPrompt(question, observations string) string {
	return fmt.Sprintf(
		"Using this cricket data:\n%s\n\nAnswer this question in your own words: %s",
		observations, question)
}

// isEcho detects a reply that restates the observations instead of
// answering.
func isEcho(reply, observations string) bool {
	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, echoPrefix) {
		return true
	}
	obs := strings.TrimSpace(observations)
	return obs != "" && strings.Contains(trimmed, obs)
}

// ensureNames prepends the analyzed players when the model mentioned
// none of them, so the answer stays traceable to the data.
func ensureNames(reply string, players []string) string {
	if len(players) == 0 {
		return reply
	}
	lower := strings.ToLower(reply)
	for _, p := range players {
		if strings.Contains(lower, strings.ToLower(p)) {
			return reply
		}
	}
	return fmt.Sprintf("Analyzing %s:\n\n%s", strings.Join(players, ", "), reply)
}

// fallbackAnswer is the deterministic answer used when no model reply is
// available. It keeps the observations verbatim so the numbers reach the
// caller.
func fallbackAnswer(question, observations string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The analysis service could not reach the language model, so here is the raw analysis for %q:\n\n", question)
	b.WriteString(observations)
	b.WriteString("\n\n(The figures above are averages per entry point; strike rate is runs per 100 balls.)")
	return b.String()
}
