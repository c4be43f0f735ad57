// Package model contains domain models passed between layers.
package model

import "time"

// TimestampLayout is the fixed UTC layout stored with every score.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// Submission is a normalized race result ready to be stored.
type Submission struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	TimeS   float64 `json:"time_s"`
	Outcome string  `json:"outcome"`
}

// Score is one persisted race result. Scores are never updated or deleted.
type Score struct {
	ID        int64   `json:"-"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	TimeS     float64 `json:"time_s"`
	Outcome   string  `json:"outcome"`
	Timestamp string  `json:"timestamp"`
}

// RankedScore is a Score with its 1-based position in a standings list.
type RankedScore struct {
	Rank int
	Score
}

// FormatTimestamp renders t in TimestampLayout after converting to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewScore stamps a submission with an id and creation time.
func NewScore(id int64, sub Submission, at time.Time) Score {
	return Score{
		ID:        id,
		Name:      sub.Name,
		Email:     sub.Email,
		TimeS:     sub.TimeS,
		Outcome:   sub.Outcome,
		Timestamp: FormatTimestamp(at),
	}
}

// Rank assigns 1-based ranks in the order scores are given.
func Rank(scores []Score) []RankedScore {
	out := make([]RankedScore, len(scores))
	for i, s := range scores {
		out[i] = RankedScore{Rank: i + 1, Score: s}
	}
	return out
}
