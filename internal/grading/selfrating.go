package grading

import (
	"strconv"
	"strings"

	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/content"
)

// SelfRating averages the learner's 1-5 star ratings across categories and
// sub-questions. With no ratings the average is 0.
type SelfRating struct{}

func (SelfRating) Name() string { return "self-rating" }

func (SelfRating) Grade(in answers.Reader, _ content.Reference) Score {
	score := Score{
		Skill:              content.Speaking,
		PerCategoryRatings: make(map[content.Field]float64),
	}

	var total int
	sums := make(map[content.Field]int)
	counts := make(map[content.Field]int)
	for id, v := range in.Entries() {
		_, field := content.SplitAnswerID(id)
		if !field.IsRating() {
			continue
		}
		n, ok := parseRating(v)
		if !ok {
			continue
		}
		total += n
		sums[field] += n
		counts[field]++
		score.RatingsCount++
	}

	if score.RatingsCount > 0 {
		score.AverageSelfRating = round1(float64(total) / float64(score.RatingsCount))
	}
	for f, c := range counts {
		score.PerCategoryRatings[f] = round1(float64(sums[f]) / float64(c))
	}
	return score
}

func parseRating(v answers.Value) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}
