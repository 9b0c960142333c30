package grading

import (
	"strings"

	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/content"
)

// WordCount grades writing by counting whitespace-delimited tokens in the
// essay. Quality is left to the external reviewer.
type WordCount struct {
	MinWords int
}

func (WordCount) Name() string { return "word-count" }

func (w WordCount) Grade(in answers.Reader, ref content.Reference) Score {
	minWords := w.MinWords
	if minWords <= 0 {
		minWords = ref.MinWords
	}
	if minWords <= 0 {
		minWords = content.DefaultMinWords
	}

	score := Score{Skill: content.Writing, MinWords: minWords}
	for id, v := range in.Entries() {
		if _, field := content.SplitAnswerID(id); field != content.FieldNone {
			continue
		}
		score.WordCount += CountWords(string(v))
	}
	score.MeetsMinimum = score.WordCount >= minWords
	return score
}

// CountWords returns the number of whitespace-delimited tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
