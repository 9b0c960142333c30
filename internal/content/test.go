package content

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultMinWords is the writing task minimum when the test does not set one.
const DefaultMinWords = 250

var (
	// ErrUnknownItem is returned for answer ids not present in the structure.
	ErrUnknownItem = errors.New("unknown item")

	// ErrInvalidValue is returned for values an item cannot hold.
	ErrInvalidValue = errors.New("invalid value")
)

// Reference is the fixed grading data of a test.
type Reference struct {
	// AnswerKey maps item id to its acceptable literals (listening/reading).
	AnswerKey map[string][]string `json:"answer_key,omitempty"`

	// ModelAnswers maps speaking item id to reference answers the learner
	// can compare against.
	ModelAnswers map[string][]string `json:"model_answers,omitempty"`

	// Task is the writing prompt handed to the external reviewer.
	Task string `json:"task,omitempty"`

	// MinWords is the writing word-count minimum.
	MinWords int `json:"min_words,omitempty"`
}

// Test is one fixed content set for a skill.
type Test struct {
	Skill        Skill     `json:"skill"`
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	TotalSeconds int       `json:"total_seconds,omitempty"`
	Structure    Structure `json:"structure"`
	Reference    Reference `json:"reference"`
}

// Duration returns the session length in seconds, falling back to the
// skill default.
func (t *Test) Duration() int {
	if t.TotalSeconds > 0 {
		return t.TotalSeconds
	}
	return t.Skill.TotalSeconds()
}

// MinWords returns the writing minimum with the default applied.
func (t *Test) MinWords() int {
	if t.Reference.MinWords > 0 {
		return t.Reference.MinWords
	}
	return DefaultMinWords
}

// CheckAnswer validates that value may be captured under id.
func (t *Test) CheckAnswer(id, value string) error {
	item, field, ok := t.Structure.Resolve(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}

	switch {
	case item.Kind == KindChoice:
		v := strings.TrimSpace(value)
		for i := range item.Options {
			if strings.EqualFold(v, OptionLetter(i)) {
				return nil
			}
		}
		return fmt.Errorf("%w: %q is not an option of item %s", ErrInvalidValue, value, item.ID)

	case field.IsRating():
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 || n > 5 {
			return fmt.Errorf("%w: rating %q must be 1-5", ErrInvalidValue, value)
		}

	case field == FieldModel:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 || n > len(t.Reference.ModelAnswers[item.ID]) {
			return fmt.Errorf("%w: no model answer %q for item %s", ErrInvalidValue, value, item.ID)
		}
	}
	return nil
}

// OptionLetter returns the letter for the i-th option: A, B, C, ...
func OptionLetter(i int) string {
	return string(rune('A' + i))
}
