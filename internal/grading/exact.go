package grading

import (
	"sort"
	"strings"

	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/content"
)

// ExactMatch grades listening and reading: each answer-key item is correct
// when the captured value, trimmed and lowercased, equals one of the
// item's acceptable literals under the same normalization.
type ExactMatch struct {
	Skill content.Skill
}

func (ExactMatch) Name() string { return "exact-match" }

func (e ExactMatch) Grade(in answers.Reader, ref content.Reference) Score {
	ids := make([]string, 0, len(ref.AnswerKey))
	for id := range ref.AnswerKey {
		ids = append(ids, id)
	}
	sortItemIDs(ids)

	score := Score{
		Skill:      e.Skill,
		TotalItems: len(ids),
		Items:      make([]ItemResult, 0, len(ids)),
	}
	for _, id := range ids {
		accepted := ref.AnswerKey[id]
		v, _ := in.Get(id)
		correct := Matches(v, accepted)
		if correct {
			score.CorrectCount++
		}
		score.Items = append(score.Items, ItemResult{
			ItemID:   id,
			Answer:   v,
			Correct:  correct,
			Accepted: accepted,
		})
	}
	return score
}

// Matches reports whether v is one of the accepted literals. Blank values
// never match.
func Matches(v answers.Value, accepted []string) bool {
	got := normalize(string(v))
	if got == "" {
		return false
	}
	for _, a := range accepted {
		if normalize(a) == got {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sortItemIDs orders numeric ids numerically ("2" before "10") and the
// rest lexically after them.
func sortItemIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		ni, iok := itemNumber(ids[i])
		nj, jok := itemNumber(ids[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok != jok:
			return iok
		}
		return ids[i] < ids[j]
	})
}

func itemNumber(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	n := 0
	for _, r := range id {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
