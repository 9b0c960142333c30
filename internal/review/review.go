// Package review hands a writing answer to an external reviewer. The
// request is plain text and the reviewer's reply is shown as written;
// nothing in it is parsed or trusted as a grade.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abhisek/bandprep/internal/grading"
	"github.com/abhisek/bandprep/internal/llm"
)

// Purpose labels review calls in the LLM journal.
const Purpose = "essay-review"

// ErrEmptyEssay is returned when there is nothing to review.
var ErrEmptyEssay = errors.New("essay is empty")

const systemPrompt = `You are an experienced examiner for an academic English writing test. You give candid, specific feedback on a candidate's essay.`

// Request is a formatted review request.
type Request struct {
	Task   string
	Answer string
	Words  int
	Text   string
}

// BuildRequest formats task and answer for the reviewer.
func BuildRequest(task, answer string) Request {
	words := grading.CountWords(answer)

	var b strings.Builder
	b.WriteString("Task:\n")
	b.WriteString(strings.TrimSpace(task))
	b.WriteString("\n\nCandidate's answer")
	fmt.Fprintf(&b, " (%d words):\n", words)
	b.WriteString(strings.TrimSpace(answer))
	b.WriteString(`

Instructions:
Assess the answer against the four writing criteria: task response, coherence and cohesion, lexical resource, grammatical range and accuracy.
For each criterion give an estimated band and two or three concrete observations quoting the answer.
Finish with an overall estimated band and the three changes that would raise it most.
Use plain text only.`)

	return Request{Task: task, Answer: answer, Words: words, Text: b.String()}
}

// Config holds review generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the review defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 1500, Temperature: 0.3}
}

// Reviewer asks an LLM provider for an essay review.
type Reviewer struct {
	provider llm.Provider
	cfg      Config
	log      zerolog.Logger
}

// NewReviewer creates a Reviewer.
func NewReviewer(provider llm.Provider, cfg Config, log zerolog.Logger) *Reviewer {
	return &Reviewer{
		provider: provider,
		cfg:      cfg,
		log:      log.With().Str("component", "review").Logger(),
	}
}

// Review returns the reviewer's text verbatim.
func (r *Reviewer) Review(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Answer) == "" {
		return "", ErrEmptyEssay
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: req.Text}},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		var truncated *llm.ErrMaxTokensExceeded
		if errors.As(err, &truncated) && truncated.Partial != "" {
			r.log.Warn().Int("max_tokens", r.cfg.MaxTokens).Msg("review truncated")
			return truncated.Partial, nil
		}
		return "", fmt.Errorf("essay review: %w", err)
	}
	r.log.Debug().Int("words", req.Words).Str("model", resp.Model).Msg("review received")
	return resp.Text, nil
}
