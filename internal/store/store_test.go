package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range Tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table.Name, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestAttempts_AppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.JournalRepo()
	ctx := context.Background()

	done := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	attempts := []AttemptData{
		{AttemptID: "a1", Skill: "listening", TestNumber: 1, Status: "submitted", Correct: 30, Total: 40, Band: 7.0, Submitted: true, CompletedAt: done},
		{AttemptID: "a2", Skill: "writing", TestNumber: 1, Status: "expired", WordCount: 212, SubmitError: "no auth token", CompletedAt: done.Add(time.Hour)},
		{AttemptID: "a3", Skill: "listening", TestNumber: 2, Status: "expired", Correct: 12, Total: 40, Band: 4.5, CompletedAt: done.Add(2 * time.Hour)},
	}
	for _, a := range attempts {
		if err := repo.AppendAttempt(ctx, a); err != nil {
			t.Fatalf("append %s: %v", a.AttemptID, err)
		}
	}

	all, err := repo.RecentAttempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].AttemptID != "a3" {
		t.Errorf("newest = %s, want a3", all[0].AttemptID)
	}
	if all[2].Band != 7.0 || !all[2].Submitted {
		t.Errorf("a1 = %+v", all[2].AttemptData)
	}
	if !all[1].CompletedAt.Equal(done.Add(time.Hour)) {
		t.Errorf("completed_at = %v, want %v", all[1].CompletedAt, done.Add(time.Hour))
	}

	listening, err := repo.RecentAttempts(ctx, QueryOpts{Skill: "listening", Limit: 1})
	if err != nil {
		t.Fatalf("recent listening: %v", err)
	}
	if len(listening) != 1 || listening[0].AttemptID != "a3" {
		t.Errorf("filtered = %+v, want [a3]", listening)
	}
}

func TestLLMEvents_QueryAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.JournalRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-model",
			Purpose:      "essay-review",
			InputTokens:  100 + i,
			OutputTokens: 50,
			LatencyMs:    int64(10 * i),
			Success:      i != 1,
			RequestBody:  fmt.Sprintf("request %d", i),
			ResponseBody: "looks fine",
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].InputTokens != 102 {
		t.Errorf("newest input tokens = %d, want 102", events[0].InputTokens)
	}

	got, err := repo.GetLLMEvent(ctx, events[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Success || got.RequestBody != "request 1" {
		t.Errorf("event = %+v", got)
	}

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Purpose: "other", Success: true}); err != nil {
		t.Fatalf("append other: %v", err)
	}
	reviews, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "essay-review"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(reviews) != 3 {
		t.Errorf("essay-review events = %d, want 3", len(reviews))
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("GetLLMEvent(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestResults_SaveAndListByUser(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	base := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	rows := []ResultData{
		{ID: "r1", UserID: "u1", TestType: "reading", TestNumber: 1, Status: "submitted", CompletedAt: base, ReceivedAt: base, Payload: []byte(`{"score":31}`)},
		{ID: "r2", UserID: "u2", TestType: "reading", TestNumber: 1, Status: "submitted", CompletedAt: base, ReceivedAt: base},
		{ID: "r3", UserID: "u1", TestType: "speaking", TestNumber: 1, Status: "expired", CompletedAt: base, ReceivedAt: base.Add(time.Minute)},
	}
	for _, r := range rows {
		if err := repo.SaveResult(ctx, r); err != nil {
			t.Fatalf("save %s: %v", r.ID, err)
		}
	}

	got, err := repo.ResultsForUser(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "r3" || got[1].ID != "r1" {
		t.Errorf("order = %s,%s; want r3,r1", got[0].ID, got[1].ID)
	}
	if string(got[1].Payload) != `{"score":31}` {
		t.Errorf("payload = %s", got[1].Payload)
	}

	if err := repo.SaveResult(ctx, rows[0]); err == nil {
		t.Error("duplicate id should fail")
	}
}

func TestDefaultDBPath_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BANDPREP_DB", dir+"/nested/x.db")

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if p != dir+"/nested/x.db" {
		t.Errorf("path = %s", p)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BANDPREP_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := dir + "/bandprep/bandprep.db"; p != want {
		t.Errorf("path = %s, want %s", p, want)
	}
}
