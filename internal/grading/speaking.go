package grading

import (
	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/content"
)

// SpeakingGrading combines self-ratings with the supplementary lexical
// overlap. No band is computed for speaking.
type SpeakingGrading struct{}

func (SpeakingGrading) Name() string { return "speaking" }

func (SpeakingGrading) Grade(in answers.Reader, ref content.Reference) Score {
	score := SelfRating{}.Grade(in, ref)
	score.Overlaps = LexicalOverlap{}.Grade(in, ref).Overlaps
	return score
}
