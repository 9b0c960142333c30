package grading

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/content"
)

// LexicalOverlap compares each recorded transcript with the model answer
// the learner selected for it. It is a rough self-assessment aid, not a
// judgment: the percentage is the share of model tokens that also occur in
// the transcript, capped at 100 and rounded to one decimal. Items missing
// either a transcript or a model selection are omitted.
type LexicalOverlap struct{}

func (LexicalOverlap) Name() string { return "lexical-overlap" }

func (LexicalOverlap) Grade(in answers.Reader, ref content.Reference) Score {
	score := Score{Skill: content.Speaking}

	for id, transcript := range in.Entries() {
		itemID, field := content.SplitAnswerID(id)
		if field != content.FieldTranscript || !transcript.Answered() {
			continue
		}
		sel, ok := in.Get(content.AnswerID(itemID, content.FieldModel))
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(string(sel)))
		models := ref.ModelAnswers[itemID]
		if err != nil || idx < 1 || idx > len(models) {
			continue
		}

		o := Compare(string(transcript), models[idx-1])
		o.ItemID = itemID
		o.ModelIndex = idx
		score.Overlaps = append(score.Overlaps, o)
	}
	return score
}

// Compare computes the overlap of transcript against model.
func Compare(transcript, model string) Overlap {
	spoken := make(map[string]bool)
	for _, w := range Tokenize(transcript) {
		spoken[w] = true
	}

	modelWords := Tokenize(model)
	o := Overlap{ModelWords: len(modelWords)}
	if len(modelWords) == 0 {
		return o
	}
	for _, w := range modelWords {
		if spoken[w] {
			o.Matched++
		}
	}
	pct := float64(o.Matched) / float64(o.ModelWords) * 100
	if pct > 100 {
		pct = 100
	}
	o.Percent = round1(pct)
	return o
}

// Tokenize splits s on whitespace, lowercases, and strips leading and
// trailing punctuation. Tokens that were pure punctuation are dropped.
func Tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, unicode.IsPunct)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
