package testquestions

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// submitQuestions submits questions concurrently using worker pools and
// collects the transcripts.
func submitQuestions(ctx context.Context, config *Config, questions []Question, stats *Stats) ([]Transcript, error) {
	log.Printf("Submitting %d questions with %d workers...", len(questions), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/ask"

	transcripts := make([]Transcript, len(questions))

	// Counters for statistics
	var (
		answered   int64
		rejected   int64
		failed     int64
		unexpected int64
		submitted  int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					q := questions[index]
					resp, err := submitSingleQuestion(ctx, client, url, q)

					atomic.AddInt64(&submitted, 1)
					switch {
					case err != nil:
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("question failed: %v", err)
						}
					case resp.Rejected:
						atomic.AddInt64(&rejected, 1)
						transcripts[index] = Transcript{Question: q, Response: resp}
						if !q.WantRejected {
							atomic.AddInt64(&unexpected, 1)
						}
					default:
						atomic.AddInt64(&answered, 1)
						transcripts[index] = Transcript{Question: q, Response: resp}
						if q.WantRejected {
							atomic.AddInt64(&unexpected, 1)
						}
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						ans := atomic.LoadInt64(&answered)
						rej := atomic.LoadInt64(&rejected)
						fail := atomic.LoadInt64(&failed)

						log.Printf("Progress: %d/%d submitted (answered: %d, rejected: %d, failed: %d)",
							total, len(questions), ans, rej, fail)
					}
				}
			}
		}(i)
	}

	// Send question indices to workers
	go func() {
		defer close(indexChan)
		for i := range questions {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Update stats
	stats.QuestionsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.QuestionsAnswered = int(atomic.LoadInt64(&answered))
	stats.QuestionsRejected = int(atomic.LoadInt64(&rejected))
	stats.QuestionsFailed = int(atomic.LoadInt64(&failed))
	stats.UnexpectedOutcomes = int(atomic.LoadInt64(&unexpected))

	log.Printf(`Question submission completed:
   Answered: %d
   Rejected: %d
   Failed: %d
   Unexpected outcomes: %d
`, stats.QuestionsAnswered, stats.QuestionsRejected, stats.QuestionsFailed, stats.UnexpectedOutcomes)

	// Drop transcripts for failed submissions
	valid := make([]Transcript, 0, len(transcripts))
	for _, tr := range transcripts {
		if tr.Response.ID != "" {
			valid = append(valid, tr)
		}
	}
	return valid, nil
}

// submitSingleQuestion submits a single question and parses the answer.
func submitSingleQuestion(ctx context.Context, client *HTTPClient, url string, q Question) (AskResponse, error) {
	resp, err := client.Post(ctx, url, map[string]string{"question": q.Text})
	if err != nil {
		return AskResponse{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return AskResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var ask AskResponse
	if err := unmarshalJSON(body, &ask); err != nil {
		return AskResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return ask, nil
}

// getLeaderboard retrieves the top N death-overs leaderboard entries.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]LeaderLine, error) {
	log.Printf("Getting top %d death-overs leaderboard entries...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard/death?top=%d", config.BaseURL, config.TopN)

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
		Phase   string       `json:"phase"`
		Leaders []LeaderLine `json:"leaders"`
	}
	if err := unmarshalJSON(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries = len(payload.Leaders)
	log.Printf("Retrieved %d leaderboard entries", len(payload.Leaders))

	return payload.Leaders, nil
}
