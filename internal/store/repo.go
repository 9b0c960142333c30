package store

import (
	"context"
	"time"
)

// QueryOpts configures journal queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Skill   string    // attempts only; empty matches all
	Purpose string    // LLM events only; empty matches all
}

// AttemptData captures one finished session. Fields that do not apply to
// the attempt's skill are zero.
type AttemptData struct {
	AttemptID      string
	UserID         string
	Skill          string
	TestNumber     int
	Status         string
	Correct        int
	Total          int
	Band           float64
	AverageRating  float64
	WordCount      int
	ElapsedSeconds int
	Submitted      bool
	SubmitError    string
	CompletedAt    time.Time
}

// AttemptRecord is a stored attempt.
type AttemptRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AttemptData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// JournalRepo is the local, append-only record of finished attempts and
// LLM calls. In-progress sessions are never written.
type JournalRepo interface {
	// AppendAttempt records a finished attempt.
	AppendAttempt(ctx context.Context, data AttemptData) error

	// RecentAttempts returns attempts, newest first.
	RecentAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
}

// ResultData is a submission received by the local results server.
type ResultData struct {
	ID          string
	UserID      string
	TestType    string
	TestNumber  int
	Status      string
	CompletedAt time.Time
	ReceivedAt  time.Time
	Payload     []byte // the record as received
}

// ResultRepo stores results received by the local results server.
type ResultRepo interface {
	// SaveResult stores a received result.
	SaveResult(ctx context.Context, data ResultData) error

	// ResultsForUser returns a user's results, newest first.
	ResultsForUser(ctx context.Context, userID string, limit int) ([]ResultData, error)
}
