// Package submit sends finished session results to the remote scoring
// service.
package submit

import "time"

// Record is the payload posted once per finished session. It is built once
// and never mutated.
type Record struct {
	UserID            string            `json:"user_id"`
	TestType          string            `json:"test_type"`
	TestNumber        int               `json:"test_number"`
	CompletedAt       time.Time         `json:"completed_at"`
	TimeTakenSeconds  int               `json:"time_taken_seconds"`
	Status            string            `json:"status"`
	Score             *int              `json:"score,omitempty"`
	Answers           map[string]string `json:"answers,omitempty"`
	TotalQuestions    *int              `json:"total_questions,omitempty"`
	BandScore         *float64          `json:"band_score,omitempty"`
	AverageSelfRating *float64          `json:"average_self_rating,omitempty"`
	WordCount         *int              `json:"word_count,omitempty"`
}

// Ack is the server's acknowledgment of a stored record.
type Ack struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Int returns a pointer to v, for optional record fields.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for optional record fields.
func Float(v float64) *float64 { return &v }
