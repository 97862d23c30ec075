package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/signbridge/signbridge-lms/internal/attempt"
	auth "github.com/signbridge/signbridge-lms/internal/auth/middleware"
)

// POST /attempts  { "quiz_id": "..." }
func StartAttemptHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			QuizID string `json:"quiz_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuizID == "" {
			http.Error(w, "quiz_id required", http.StatusBadRequest)
			return
		}
		s, err := mgr.Start(r.Context(), sub, req.QuizID)
		if err != nil {
			writeAttemptError(w, err)
			return
		}
		writeJSON(w, s.Snapshot())
	}
}

// GET /attempts/{sessionID}
func GetAttemptHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := mgr.Get(chi.URLParam(r, "sessionID"), auth.SubjectFromContext(r.Context()))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		writeJSON(w, s.Snapshot())
	}
}

// GET /attempts/{sessionID}/questions/{index}
func GetQuestionHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := mgr.Get(chi.URLParam(r, "sessionID"), auth.SubjectFromContext(r.Context()))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		idx := parseIntDefault(chi.URLParam(r, "index"), -1)
		qv, err := s.Question(idx)
		if err != nil {
			writeAttemptError(w, err)
			return
		}
		writeJSON(w, qv)
	}
}

// POST /attempts/{sessionID}/answers  { "question_id": "...", "value": ... }
func SaveAnswerHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := mgr.Get(chi.URLParam(r, "sessionID"), auth.SubjectFromContext(r.Context()))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		var req struct {
			QuestionID string      `json:"question_id"`
			Value      interface{} `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuestionID == "" {
			http.Error(w, "question_id required", http.StatusBadRequest)
			return
		}
		if err := s.Answer(req.QuestionID, req.Value); err != nil {
			writeAttemptError(w, err)
			return
		}
		writeJSON(w, s.Snapshot())
	}
}

// POST /attempts/{sessionID}/navigate  { "index": 3 }
func NavigateHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := mgr.Get(chi.URLParam(r, "sessionID"), auth.SubjectFromContext(r.Context()))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		var req struct {
			Index int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := s.Navigate(req.Index); err != nil {
			writeAttemptError(w, err)
			return
		}
		writeJSON(w, s.Snapshot())
	}
}

// POST /attempts/{sessionID}/video-ack  { "scope": "quiz"|"question:<id>", "mode": "watched"|"skipped" }
func AckVideoHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := mgr.Get(chi.URLParam(r, "sessionID"), auth.SubjectFromContext(r.Context()))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		var req struct {
			Scope string `json:"scope"`
			Mode  string `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		mode := attempt.AckMode(req.Mode)
		if mode != attempt.AckWatched && mode != attempt.AckSkipped {
			http.Error(w, "mode must be watched or skipped", http.StatusBadRequest)
			return
		}
		if req.Scope == "" {
			http.Error(w, "scope required", http.StatusBadRequest)
			return
		}
		if err := s.AcknowledgeVideo(req.Scope, mode); err != nil {
			writeAttemptError(w, err)
			return
		}
		writeJSON(w, s.Snapshot())
	}
}

// POST /attempts/{sessionID}/submit
func SubmitAttemptHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := mgr.Get(chi.URLParam(r, "sessionID"), auth.SubjectFromContext(r.Context()))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		// nil result with nil error means a submit is already in flight;
		// the snapshot reflects whatever state that one reaches.
		if _, err := s.Submit(r.Context()); err != nil {
			writeAttemptError(w, err)
			return
		}
		writeJSON(w, s.Snapshot())
	}
}
