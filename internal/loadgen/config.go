// Package loadgen submits generated race results to a running leaderboard
// and checks that the standings come back consistent.
package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL string        // Base URL of the service
	Runs    int           // Number of results to submit
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every failed submit
}

// Result is one generated race result, in the shape POST /submit_result accepts.
type Result struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	TimeS   float64 `json:"time_s"`
	Outcome string  `json:"outcome"`
}

// Entry is one row of GET /api/leaderboard.
type Entry struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	TimeS     float64 `json:"time_s"`
	Outcome   string  `json:"outcome"`
	Timestamp string  `json:"timestamp"`
}

// SubmitResponse is the body returned by POST /submit_result.
type SubmitResponse struct {
	Status   string `json:"status"`
	Received Result `json:"received"`
}

// Stats holds load run statistics.
type Stats struct {
	RunsGenerated int
	RunsSubmitted int
	RunsAccepted  int
	RunsFailed    int
	RecordsBefore int
	RecordsAfter  int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
