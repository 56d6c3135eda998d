package testquestions

import (
	"fmt"
	"log"
	"strings"
)

// verifyResults checks the transcripts and leaderboard for consistency.
func verifyResults(config *Config, transcripts []Transcript, leaderboard []LeaderLine, stats *Stats) error {
	log.Println("Verifying results...")

	if len(transcripts) == 0 {
		return fmt.Errorf("no transcripts to verify")
	}

	// Every successful response must carry a non-empty answer, even when
	// the model was unreachable and the fallback kicked in.
	empty := 0
	for _, tr := range transcripts {
		if strings.TrimSpace(tr.Response.Text) == "" {
			empty++
		}
	}
	if empty > 0 {
		return fmt.Errorf("%d responses had empty answer text", empty)
	}
	log.Println("All responses carried answer text")

	// Rejections must come with zero planned actions.
	badRejections := 0
	for _, tr := range transcripts {
		if tr.Response.Rejected && len(tr.Response.Actions) > 0 {
			badRejections++
		}
	}
	if badRejections > 0 {
		return fmt.Errorf("%d rejected responses still planned actions", badRejections)
	}

	if err := verifyLeaderboardOrder(leaderboard); err != nil {
		log.Printf("Leaderboard consistency warning: %v", err)
	} else if len(leaderboard) > 0 {
		log.Println("Leaderboard ordering verified")
	}

	displayTopPerformers(leaderboard, config.Verbose)

	if stats.UnexpectedOutcomes > 0 {
		log.Printf("Warning: %d questions had unexpected accept/reject outcomes", stats.UnexpectedOutcomes)
	}

	log.Println("Result verification completed")
	return nil
}

// verifyLeaderboardOrder checks the leaderboard is sorted by strike rate.
func verifyLeaderboardOrder(leaderboard []LeaderLine) error {
	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}
	for i := 1; i < len(leaderboard); i++ {
		if leaderboard[i].StrikeRate > leaderboard[i-1].StrikeRate {
			return fmt.Errorf("leaderboard not properly sorted: entry %d has higher strike rate than entry %d",
				i, i-1)
		}
	}
	return nil
}

// displayTopPerformers shows the top leaderboard entries.
func displayTopPerformers(leaderboard []LeaderLine, verbose bool) {
	topN := 10
	if len(leaderboard) < topN {
		topN = len(leaderboard)
	}

	if topN > 0 {
		log.Printf("Top %d death-overs performers:", topN)
		for i := 0; i < topN; i++ {
			entry := leaderboard[i]
			log.Printf("   %d. %s - SR: %.1f over %d matches", i+1, entry.Player, entry.StrikeRate, entry.Matches)
		}
	}

	if verbose && len(leaderboard) > 0 {
		sum := 0.0
		for _, entry := range leaderboard {
			sum += entry.StrikeRate
		}
		log.Printf("Average strike rate across the board: %.1f", sum/float64(len(leaderboard)))
	}
}
