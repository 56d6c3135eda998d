package testquestions

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/fieldside/crease/pkg/logger"
)

// Constants for question template selection.
const (
	templateKindDivisor = 8
)

// Constants for template cases.
const (
	casePlayerStats    = 0
	casePhaseLeaders   = 1
	caseLineup         = 2
	caseComparison     = 3
	caseStrategy       = 4
	caseDeployment     = 5
	caseGeneralAdvice  = 6
	caseRejectedTopics = 7
)

// Topics the validator is expected to reject: the dataset has no bowling
// type, match outcome, or venue information.
var rejectedTemplates = []string{
	"How does %s play spin bowling?",
	"What is the win percentage when %s bats?",
	"How does %s perform at Wankhede Stadium?",
	"Should %s bat first after winning the toss?",
}

// pickIndex returns a random index below n using crypto/rand.
func pickIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// fetchPlayers pulls the known player names from the service so the
// generated questions reference real data.
func fetchPlayers(ctx context.Context, config *Config) ([]string, error) {
	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/players?limit=%d", config.BaseURL, config.NumQuestions)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Players []string `json:"players"`
	}
	if err := unmarshalJSON(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(payload.Players) == 0 {
		return nil, fmt.Errorf("service reported no players")
	}
	return payload.Players, nil
}

// generateQuestions creates the configured number of questions from the
// template pool, naming real players and phases.
func generateQuestions(ctx context.Context, config *Config, players []string, stats *Stats) []Question {
	logger.Get().Info(ctx, "generating questions",
		logger.Int("numQuestions", config.NumQuestions),
		logger.Int("players", len(players)))

	phases := []string{"powerplay", "middle overs", "death overs"}
	questions := make([]Question, 0, config.NumQuestions)

	for i := 0; i < config.NumQuestions; i++ {
		player := players[pickIndex(len(players))]
		other := players[pickIndex(len(players))]
		phase := phases[pickIndex(len(phases))]

		var q Question
		switch pickIndex(templateKindDivisor) {
		case casePlayerStats:
			q = Question{Kind: "player_stats", Text: fmt.Sprintf("How effective is %s when entering in the %s?", player, phase)}
		case casePhaseLeaders:
			q = Question{Kind: "phase_leaders", Text: fmt.Sprintf("Who are the best players entering in the %s?", phase)}
		case caseLineup:
			q = Question{Kind: "lineup", Text: "Suggest a batting order for the next match"}
		case caseComparison:
			q = Question{Kind: "comparison", Text: fmt.Sprintf("Compare %s vs %s", player, other)}
		case caseStrategy:
			q = Question{Kind: "strategy", Text: fmt.Sprintf("What is the ideal entry point for %s?", player)}
		case caseDeployment:
			q = Question{Kind: "deployment", Text: fmt.Sprintf("When should %s come in to bat?", player)}
		case caseGeneralAdvice:
			q = Question{Kind: "general", Text: "Which players should we send in at the death?"}
		case caseRejectedTopics:
			tmpl := rejectedTemplates[pickIndex(len(rejectedTemplates))]
			q = Question{Kind: "rejected", Text: fmt.Sprintf(tmpl, player), WantRejected: true}
		}
		questions = append(questions, q)
	}

	stats.QuestionsGenerated = len(questions)
	logger.Get().Info(ctx, "generated questions successfully", logger.Int("count", len(questions)))
	return questions
}
