package grading

import (
	"strings"
	"testing"

	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/content"
)

func key() content.Reference {
	return content.Reference{AnswerKey: map[string][]string{
		"1": {"practical"},
		"2": {"B"},
		"3": {"river bank", "riverbank"},
	}}
}

func TestExactMatch_NormalizesCaseAndSpace(t *testing.T) {
	in := answers.Snapshot{"1": "Practical ", "2": "b", "3": "Riverbank"}
	score := ExactMatch{Skill: content.Listening}.Grade(in, key())

	if score.CorrectCount != 3 || score.TotalItems != 3 {
		t.Errorf("score = %d/%d, want 3/3", score.CorrectCount, score.TotalItems)
	}
}

func TestExactMatch_BlankAndMissingAreIncorrect(t *testing.T) {
	in := answers.Snapshot{"1": "   ", "9": "practical"}
	score := ExactMatch{Skill: content.Reading}.Grade(in, key())

	if score.CorrectCount != 0 {
		t.Errorf("CorrectCount = %d, want 0", score.CorrectCount)
	}
	if len(score.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(score.Items))
	}
	for _, it := range score.Items {
		if it.Correct {
			t.Errorf("item %s marked correct", it.ItemID)
		}
	}
}

func TestExactMatch_OrderInvariant(t *testing.T) {
	a := answers.NewStore()
	_ = a.Set("3", "riverbank")
	_ = a.Set("1", "practical")
	_ = a.Set("2", "c")

	b := answers.NewStore()
	_ = b.Set("2", "c")
	_ = b.Set("1", "practical")
	_ = b.Set("3", "riverbank")

	sa := ExactMatch{}.Grade(a, key())
	sb := ExactMatch{}.Grade(b, key())
	if sa.CorrectCount != sb.CorrectCount {
		t.Errorf("order changed score: %d vs %d", sa.CorrectCount, sb.CorrectCount)
	}
	for i := range sa.Items {
		if sa.Items[i].ItemID != sb.Items[i].ItemID {
			t.Errorf("item order differs at %d", i)
		}
	}
}

func TestExactMatch_Monotonic(t *testing.T) {
	s := answers.NewStore()
	_ = s.Set("1", "practical")
	before := ExactMatch{}.Grade(s, key()).CorrectCount

	_ = s.Set("2", "B")
	after := ExactMatch{}.Grade(s, key()).CorrectCount
	if after != before+1 {
		t.Errorf("correcting one item: %d -> %d, want +1", before, after)
	}
}

func TestSortItemIDs(t *testing.T) {
	ids := []string{"10", "2", "task2", "1", "1.1"}
	sortItemIDs(ids)
	want := "1,2,10,1.1,task2"
	if got := strings.Join(ids, ","); got != want {
		t.Errorf("sorted = %s, want %s", got, want)
	}
}

func TestSelfRating_Average(t *testing.T) {
	in := answers.Snapshot{
		"1.1/fluency":       "4",
		"1.1/vocabulary":    "5",
		"1.1/grammar":       "3",
		"1.1/pronunciation": "4",
		"1.1/transcript":    "not a rating",
	}
	score := SelfRating{}.Grade(in, content.Reference{})

	if score.AverageSelfRating != 4.0 {
		t.Errorf("AverageSelfRating = %v, want 4.0", score.AverageSelfRating)
	}
	if score.RatingsCount != 4 {
		t.Errorf("RatingsCount = %d, want 4", score.RatingsCount)
	}
	if got := score.PerCategoryRatings[content.FieldVocabulary]; got != 5 {
		t.Errorf("vocabulary = %v, want 5", got)
	}
}

func TestSelfRating_PerCategoryAcrossItems(t *testing.T) {
	in := answers.Snapshot{
		"1.1/fluency": "2",
		"1.2/fluency": "3",
		"1.3/fluency": "bogus",
	}
	score := SelfRating{}.Grade(in, content.Reference{})

	if got := score.PerCategoryRatings[content.FieldFluency]; got != 2.5 {
		t.Errorf("fluency = %v, want 2.5", got)
	}
	if score.RatingsCount != 2 {
		t.Errorf("RatingsCount = %d, want 2", score.RatingsCount)
	}
}

func TestSelfRating_NoRatings(t *testing.T) {
	score := SelfRating{}.Grade(answers.Snapshot{}, content.Reference{})
	if score.AverageSelfRating != 0 || score.RatingsCount != 0 {
		t.Errorf("empty ratings = %v/%d, want 0/0", score.AverageSelfRating, score.RatingsCount)
	}
}

func TestLexicalOverlap(t *testing.T) {
	ref := content.Reference{ModelAnswers: map[string][]string{
		"1.1": {"I live in a small town.", "My hometown is a coastal city"},
		"1.2": {"I study engineering"},
	}}

	tests := []struct {
		name    string
		in      answers.Snapshot
		wantLen int
		wantPct float64
	}{
		{
			name:    "partial overlap",
			in:      answers.Snapshot{"1.1/transcript": "I live in a big city", "1.1/model": "1"},
			wantLen: 1,
			wantPct: 66.7, // i, live, in, a of six model tokens
		},
		{
			name:    "full overlap capped at 100",
			in:      answers.Snapshot{"1.2/transcript": "I study engineering, I study engineering!", "1.2/model": "1"},
			wantLen: 1,
			wantPct: 100,
		},
		{
			name:    "no model selected",
			in:      answers.Snapshot{"1.1/transcript": "I live here"},
			wantLen: 0,
		},
		{
			name:    "no transcript",
			in:      answers.Snapshot{"1.1/model": "2"},
			wantLen: 0,
		},
		{
			name:    "model index out of range",
			in:      answers.Snapshot{"1.1/transcript": "hello", "1.1/model": "3"},
			wantLen: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score := LexicalOverlap{}.Grade(tc.in, ref)
			if len(score.Overlaps) != tc.wantLen {
				t.Fatalf("len(Overlaps) = %d, want %d", len(score.Overlaps), tc.wantLen)
			}
			if tc.wantLen > 0 && score.Overlaps[0].Percent != tc.wantPct {
				t.Errorf("Percent = %v, want %v", score.Overlaps[0].Percent, tc.wantPct)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := strings.Join(Tokenize("  Hello, World! -- it's  fine. "), "|")
	if want := "hello|world|it's|fine"; got != want {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestSpeakingGrading_Combines(t *testing.T) {
	ref := content.Reference{ModelAnswers: map[string][]string{"1.1": {"a b"}}}
	in := answers.Snapshot{
		"1.1/fluency":    "4",
		"1.1/transcript": "a",
		"1.1/model":      "1",
	}
	score := SpeakingGrading{}.Grade(in, ref)
	if score.AverageSelfRating != 4 {
		t.Errorf("AverageSelfRating = %v, want 4", score.AverageSelfRating)
	}
	if len(score.Overlaps) != 1 || score.Overlaps[0].Percent != 50 {
		t.Errorf("Overlaps = %+v, want one at 50%%", score.Overlaps)
	}
}

func TestWordCount_Threshold(t *testing.T) {
	tests := []struct {
		words    int
		wantMeet bool
	}{
		{249, false},
		{250, true},
		{0, false},
	}
	for _, tc := range tests {
		essay := strings.TrimSpace(strings.Repeat("word\n ", tc.words))
		score := WordCount{}.Grade(answers.Snapshot{"task2": answers.Value(essay)}, content.Reference{})
		if score.WordCount != tc.words {
			t.Errorf("WordCount = %d, want %d", score.WordCount, tc.words)
		}
		if score.MeetsMinimum != tc.wantMeet {
			t.Errorf("%d words: MeetsMinimum = %v, want %v", tc.words, score.MeetsMinimum, tc.wantMeet)
		}
		if score.MinWords != content.DefaultMinWords {
			t.Errorf("MinWords = %d, want %d", score.MinWords, content.DefaultMinWords)
		}
	}
}

func TestWordCount_ReferenceMinimum(t *testing.T) {
	score := WordCount{}.Grade(answers.Snapshot{"task1": "one two three"}, content.Reference{MinWords: 3})
	if !score.MeetsMinimum {
		t.Error("3 words should meet a minimum of 3")
	}
}

func TestForSkill(t *testing.T) {
	tests := map[content.Skill]string{
		content.Listening: "exact-match",
		content.Reading:   "exact-match",
		content.Speaking:  "speaking",
		content.Writing:   "word-count",
	}
	for skill, want := range tests {
		if got := ForSkill(skill, 0).Name(); got != want {
			t.Errorf("ForSkill(%s) = %s, want %s", skill, got, want)
		}
	}
}
