// Package grading scores a session's captured answers. Each skill has one
// strategy, selected when the session is built.
package grading

import (
	"math"

	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/content"
)

// Strategy grades captured answers against a test's reference data.
// Grading is total: missing or malformed answers score as incorrect or are
// omitted, never as errors.
type Strategy interface {
	Grade(in answers.Reader, ref content.Reference) Score
	Name() string
}

// Score is the outcome of grading. Only the fields relevant to the skill
// are populated.
type Score struct {
	Skill content.Skill

	// Listening and reading.
	CorrectCount int
	TotalItems   int
	Items        []ItemResult

	// Speaking.
	AverageSelfRating  float64
	PerCategoryRatings map[content.Field]float64
	RatingsCount       int
	Overlaps           []Overlap

	// Writing.
	WordCount    int
	MinWords     int
	MeetsMinimum bool
}

// ItemResult is the per-item outcome of exact-match grading.
type ItemResult struct {
	ItemID   string
	Answer   answers.Value
	Correct  bool
	Accepted []string
}

// Overlap is the lexical overlap between one transcript and the model
// answer selected for it.
type Overlap struct {
	ItemID     string
	ModelIndex int // 1-based
	Matched    int
	ModelWords int
	Percent    float64
}

// ForSkill returns the strategy used for skill.
func ForSkill(skill content.Skill, minWords int) Strategy {
	switch skill {
	case content.Listening, content.Reading:
		return ExactMatch{Skill: skill}
	case content.Speaking:
		return SpeakingGrading{}
	case content.Writing:
		return WordCount{MinWords: minWords}
	}
	return ExactMatch{Skill: skill}
}

// round1 rounds to one decimal place.
func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
