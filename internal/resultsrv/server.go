// Package resultsrv is a local stand-in for the remote results service.
// It accepts the records a session submits, checks them and keeps them in
// the journal database.
package resultsrv

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/bandprep/internal/identity"
	"github.com/abhisek/bandprep/internal/store"
)

// ResultsPath is the collection route, matching submit.DefaultEndpoint.
const ResultsPath = "/api/test-results"

const maxBodyBytes = 1 << 20

// resultRequest is the body of POST /api/test-results.
type resultRequest struct {
	UserID            string            `json:"user_id" validate:"required"`
	TestType          string            `json:"test_type" validate:"required,oneof=listening reading speaking writing"`
	TestNumber        int               `json:"test_number" validate:"required,min=1"`
	CompletedAt       time.Time         `json:"completed_at" validate:"required"`
	TimeTakenSeconds  int               `json:"time_taken_seconds" validate:"min=0"`
	Status            string            `json:"status" validate:"required,oneof=submitted expired"`
	Score             *int              `json:"score" validate:"omitempty,min=0"`
	Answers           map[string]string `json:"answers"`
	TotalQuestions    *int              `json:"total_questions" validate:"omitempty,min=1"`
	BandScore         *float64          `json:"band_score" validate:"omitempty,min=0,max=9"`
	AverageSelfRating *float64          `json:"average_self_rating" validate:"omitempty,min=0,max=5"`
	WordCount         *int              `json:"word_count" validate:"omitempty,min=0"`
}

// storedResult is one entry of GET /api/test-results.
type storedResult struct {
	ID          string          `json:"id"`
	TestType    string          `json:"test_type"`
	TestNumber  int             `json:"test_number"`
	Status      string          `json:"status"`
	CompletedAt time.Time       `json:"completed_at"`
	ReceivedAt  time.Time       `json:"received_at"`
	Record      json.RawMessage `json:"record"`
}

// Server serves the results API.
type Server struct {
	results  store.ResultRepo
	issuer   *identity.Issuer
	validate *recordValidator
	log      zerolog.Logger
	now      func() time.Time
}

// New creates a Server.
func New(results store.ResultRepo, issuer *identity.Issuer, log zerolog.Logger) *Server {
	return &Server{
		results:  results,
		issuer:   issuer,
		validate: newRecordValidator(),
		log:      log.With().Str("component", "resultsrv").Logger(),
		now:      time.Now,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route(ResultsPath, func(r chi.Router) {
		r.Use(requireBearer(s.issuer))
		r.Post("/", s.createResult)
		r.Get("/", s.listResults)
	})
	return r
}

func (s *Server) createResult(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var req resultRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if fields := s.validate.Check(&req); fields != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": fields,
		})
		return
	}

	sub := subjectFrom(r.Context())
	if req.UserID != sub {
		writeError(w, http.StatusForbidden, "user_id does not match token")
		return
	}

	data := store.ResultData{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		TestType:    req.TestType,
		TestNumber:  req.TestNumber,
		Status:      req.Status,
		CompletedAt: req.CompletedAt,
		ReceivedAt:  s.now(),
		Payload:     raw,
	}
	if err := s.results.SaveResult(r.Context(), data); err != nil {
		s.log.Error().Err(err).Str("user_id", sub).Msg("save result")
		writeError(w, http.StatusInternalServerError, "could not store result")
		return
	}

	s.log.Info().
		Str("id", data.ID).
		Str("user_id", sub).
		Str("test_type", data.TestType).
		Int("test_number", data.TestNumber).
		Str("status", data.Status).
		Msg("result stored")
	writeJSON(w, http.StatusCreated, map[string]string{"id": data.ID, "message": "result stored"})
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	rows, err := s.results.ResultsForUser(r.Context(), subjectFrom(r.Context()), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list results")
		writeError(w, http.StatusInternalServerError, "could not list results")
		return
	}

	out := make([]storedResult, 0, len(rows))
	for _, d := range rows {
		out = append(out, storedResult{
			ID:          d.ID,
			TestType:    d.TestType,
			TestNumber:  d.TestNumber,
			Status:      d.Status,
			CompletedAt: d.CompletedAt,
			ReceivedAt:  d.ReceivedAt,
			Record:      json.RawMessage(d.Payload),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
