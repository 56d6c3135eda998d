package testquestions

import "time"

// Config holds configuration for the question test
type Config struct {
	BaseURL      string        // Base URL of the service
	NumQuestions int           // Number of questions to generate
	TopN         int           // Number of leaderboard entries to fetch
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Output file for transcripts
	LogFile      string        // Log file for test output
	Verbose      bool          // Enable verbose logging
}

// Question represents a question to be submitted
type Question struct {
	Text         string `json:"text"`
	Kind         string `json:"kind"`
	WantRejected bool   `json:"want_rejected"`
}

// AskResponse represents the response from question submission
type AskResponse struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Text     string   `json:"answer"`
	Rejected bool     `json:"rejected"`
	Actions  []string `json:"actions"`
}

// Transcript pairs a generated question with the answer it received
type Transcript struct {
	Question Question    `json:"question"`
	Response AskResponse `json:"response"`
}

// LeaderLine represents one leaderboard row
type LeaderLine struct {
	Player     string  `json:"Player"`
	StrikeRate float64 `json:"StrikeRate"`
	Matches    int     `json:"Matches"`
}

// Stats holds test statistics
type Stats struct {
	QuestionsGenerated int
	QuestionsSubmitted int
	QuestionsAnswered  int
	QuestionsRejected  int
	QuestionsFailed    int
	UnexpectedOutcomes int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
