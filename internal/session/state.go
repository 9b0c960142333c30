package session

import (
	"errors"
	"time"

	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/content"
)

var (
	// ErrTerminal is returned by navigation once the session has ended.
	ErrTerminal = errors.New("session is no longer in progress")

	// ErrCaptureRejected is returned by Capture once the session has ended.
	// Callers normally ignore it.
	ErrCaptureRejected = errors.New("capture rejected: session is no longer in progress")
)

// Status is the session's own outcome. It moves from InProgress to
// Submitted or Expired exactly once and never back.
type Status int

const (
	StatusInProgress Status = iota
	StatusSubmitted         // finished by the learner
	StatusExpired           // finished by the clock
)

func (s Status) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusExpired:
		return "expired"
	}
	return "in_progress"
}

// Terminal reports whether s is Submitted or Expired.
func (s Status) Terminal() bool { return s != StatusInProgress }

// Phase tracks the controller through grading and submission.
type Phase int

const (
	PhaseInProgress   Phase = iota // Answering
	PhaseGrading                   // Grading synchronously after finish or expiry
	PhaseSubmitting                // Submission in flight
	PhaseSubmitted                 // Server acknowledged the record
	PhaseSubmitFailed              // Submission failed; status is unchanged
	PhaseAbandoned                 // Learner left; nothing was graded or sent
)

func (p Phase) String() string {
	switch p {
	case PhaseGrading:
		return "grading"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	case PhaseSubmitFailed:
		return "submit_failed"
	case PhaseAbandoned:
		return "abandoned"
	}
	return "in_progress"
}

// View is a read-only snapshot of the controller for presentation.
type View struct {
	// AttemptID is the UUID of this attempt.
	AttemptID string

	// Test is the content being taken.
	Test *content.Test

	// Position is the current item's location in the structure.
	Position content.Position

	// Item is the current item.
	Item content.Item

	// Ordinal is the zero-based index of Item in the flattened order.
	Ordinal int

	// TotalItems is the number of navigable items.
	TotalItems int

	// Remaining is the whole seconds left on the clock.
	Remaining int

	// Answered counts items with at least one non-blank captured value.
	Answered int

	Status Status
	Phase  Phase

	// Result is set once grading ran.
	Result *Result

	// Warning is the user-facing submission warning, if any.
	Warning string

	// StartedAt is when the clock started.
	StartedAt time.Time
}

// Section returns the section containing the current item.
func (v View) Section() content.Section {
	return v.Test.Structure.Sections[v.Position.Section]
}

// Part returns the part containing the current item.
func (v View) Part() content.Part {
	return v.Section().Parts[v.Position.Part]
}

// AtFirst reports whether the current item is the first one.
func (v View) AtFirst() bool { return v.Ordinal == 0 }

// AtLast reports whether the current item is the last one.
func (v View) AtLast() bool { return v.Ordinal == v.TotalItems-1 }

// answeredItems counts distinct items holding a non-blank value.
func answeredItems(r answers.Reader) int {
	seen := make(map[string]bool)
	for id, v := range r.Entries() {
		if !v.Answered() {
			continue
		}
		itemID, _ := content.SplitAnswerID(id)
		seen[itemID] = true
	}
	return len(seen)
}
