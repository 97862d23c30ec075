package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/signbridge/signbridge-lms/internal/attempt"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// writeAttemptError maps engine sentinels onto HTTP statuses. Load
// failures are terminal; write failures are retryable and say so.
func writeAttemptError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attempt.ErrQuizNotFound):
		http.Error(w, "quiz not found", http.StatusNotFound)
	case errors.Is(err, attempt.ErrNoSuchQuestion):
		http.Error(w, "no such question", http.StatusNotFound)
	case errors.Is(err, attempt.ErrAttemptLimit):
		http.Error(w, "attempt limit reached", http.StatusConflict)
	case errors.Is(err, attempt.ErrQuestionLocked):
		http.Error(w, "watch or skip the question video first", http.StatusConflict)
	case errors.Is(err, attempt.ErrAttemptComplete):
		http.Error(w, "attempt already complete", http.StatusConflict)
	case errors.Is(err, attempt.ErrSessionClosed):
		http.Error(w, "attempt session closed", http.StatusGone)
	case errors.Is(err, attempt.ErrWriteFailed):
		// answers are preserved server-side; the client retries submit
		http.Error(w, "could not record attempt, retry submit", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
