package session

import (
	"time"

	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/band"
	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/grading"
	"github.com/abhisek/bandprep/internal/store"
	"github.com/abhisek/bandprep/internal/submit"
)

// Result is what grading produced for a finished session.
type Result struct {
	Status Status
	Score  grading.Score

	// Band is set for listening and reading only.
	Band *band.Band

	// Answers is the snapshot that was graded.
	Answers answers.Snapshot

	// Record is the payload sent to the results service.
	Record submit.Record

	// Elapsed is the whole seconds the session ran.
	Elapsed int

	// Answered counts items with a non-blank value.
	Answered int

	CompletedAt time.Time
}

// BuildResult grades snap and assembles the submission record. It is pure:
// the same inputs always give the same Result.
func BuildResult(test *content.Test, strategy grading.Strategy, snap answers.Snapshot, status Status, userID string, elapsed int, completedAt time.Time) *Result {
	score := strategy.Grade(snap, test.Reference)
	res := &Result{
		Status:      status,
		Score:       score,
		Answers:     snap,
		Elapsed:     elapsed,
		Answered:    answeredItems(snap),
		CompletedAt: completedAt,
	}

	rec := submit.Record{
		UserID:           userID,
		TestType:         string(test.Skill),
		TestNumber:       test.Number,
		CompletedAt:      completedAt.UTC(),
		TimeTakenSeconds: elapsed,
		Status:           status.String(),
	}

	switch test.Skill {
	case content.Listening, content.Reading:
		b := band.FromCorrect(score.CorrectCount)
		res.Band = &b
		rec.Score = submit.Int(score.CorrectCount)
		rec.TotalQuestions = submit.Int(score.TotalItems)
		rec.BandScore = submit.Float(b.Float())

	case content.Speaking:
		rec.Answers = collect(snap, content.FieldTranscript)
		rec.AverageSelfRating = submit.Float(score.AverageSelfRating)

	case content.Writing:
		rec.Answers = collect(snap, content.FieldNone)
		rec.WordCount = submit.Int(score.WordCount)
	}

	res.Record = rec
	return res
}

// collect maps item id to the answered values of one field.
func collect(snap answers.Snapshot, field content.Field) map[string]string {
	out := make(map[string]string)
	for id, v := range snap.Entries() {
		itemID, f := content.SplitAnswerID(id)
		if f != field || !v.Answered() {
			continue
		}
		out[itemID] = string(v)
	}
	return out
}

// attempt converts r into a journal row.
func (r *Result) attempt(attemptID string, submitted bool, submitErr error) store.AttemptData {
	row := store.AttemptData{
		AttemptID:      attemptID,
		UserID:         r.Record.UserID,
		Skill:          r.Record.TestType,
		TestNumber:     r.Record.TestNumber,
		Status:         r.Status.String(),
		Correct:        r.Score.CorrectCount,
		Total:          r.Score.TotalItems,
		AverageRating:  r.Score.AverageSelfRating,
		WordCount:      r.Score.WordCount,
		ElapsedSeconds: r.Elapsed,
		Submitted:      submitted,
		CompletedAt:    r.CompletedAt,
	}
	if r.Band != nil {
		row.Band = r.Band.Float()
	}
	if submitErr != nil {
		row.SubmitError = submitErr.Error()
	}
	return row
}
