package testquestions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fieldside/crease/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete question test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting crease question test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("questions", config.NumQuestions),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Learn the roster from the service
	players, err := fetchPlayers(ctx, config)
	if err != nil {
		return fmt.Errorf("player fetch failed: %w", err)
	}

	// Step 3: Generate questions
	questions := generateQuestions(ctx, config, players, stats)

	// Step 4: Submit questions concurrently
	transcripts, err := submitQuestions(ctx, config, questions, stats)
	if err != nil {
		return fmt.Errorf("question submission failed: %w", err)
	}

	// Step 5: Get leaderboard
	leaderboard, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyResults(config, transcripts, leaderboard, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save transcripts to file
	if err := saveTranscriptsToFile(ctx, config, transcripts); err != nil {
		logger.Get().Warn(ctx, "failed to save transcripts to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveTranscriptsToFile saves the collected transcripts to a JSON file.
func saveTranscriptsToFile(ctx context.Context, config *Config, transcripts []Transcript) error {
	if len(transcripts) == 0 {
		return fmt.Errorf("no transcripts to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "transcripts_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write transcripts to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, tr := range transcripts {
		jsonData, err := marshalJSON(tr)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write transcript %d: %w", i, err)
		}

		// Add comma except for last transcript
		if i < len(transcripts)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "transcripts saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var answerRate, questionsPerSecond float64

	if stats.QuestionsSubmitted > 0 {
		answerRate = float64(stats.QuestionsAnswered) / float64(stats.QuestionsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		questionsPerSecond = float64(stats.QuestionsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("questionsGenerated", stats.QuestionsGenerated),
		logger.Int("questionsSubmitted", stats.QuestionsSubmitted),
		logger.Int("questionsAnswered", stats.QuestionsAnswered),
		logger.Int("questionsRejected", stats.QuestionsRejected),
		logger.Int("questionsFailed", stats.QuestionsFailed),
		logger.Int("unexpectedOutcomes", stats.UnexpectedOutcomes),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("answerRate", answerRate),
		logger.Float64("questionsPerSecond", questionsPerSecond))
}
