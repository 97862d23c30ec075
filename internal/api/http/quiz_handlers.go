package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/signbridge/signbridge-lms/internal/attempt"
	auth "github.com/signbridge/signbridge-lms/internal/auth/middleware"
	"github.com/signbridge/signbridge-lms/internal/quiz"
)

// GET /quizzes/{quizID}
func GetQuizHandler(content attempt.ContentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qz, err := content.FetchQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeAttemptError(w, err)
			return
		}
		writeJSON(w, qz)
	}
}

// GET /quizzes/{quizID}/eligibility
//
// Dashboards call this before showing the start/retake button, so a learner
// out of attempts is stopped here and never reaches the submit path.
func EligibilityHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		allowed, used, max, err := mgr.Eligibility(r.Context(), sub, chi.URLParam(r, "quizID"))
		if err != nil {
			writeAttemptError(w, err)
			return
		}
		resp := struct {
			Allowed      bool `json:"allowed"`
			AttemptsUsed int  `json:"attempts_used"`
			MaxAttempts  *int `json:"max_attempts,omitempty"`
		}{allowed, used, max}
		writeJSON(w, resp)
	}
}

// GET /quizzes/{quizID}/attempts/latest
//
// Read-only review of the most recent recorded attempt. Reviews skip all
// video gating; questions render with correctness markers, honoring the
// quiz's show_answers flag for free-text types.
func ReviewHandler(mgr *attempt.Manager, content attempt.ContentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		quizID := chi.URLParam(r, "quizID")

		res, err := mgr.Review(r.Context(), sub, quizID)
		if err != nil {
			writeAttemptError(w, err)
			return
		}
		if res == nil {
			http.Error(w, "no attempt to review", http.StatusNotFound)
			return
		}

		qz, err := content.FetchQuiz(r.Context(), quizID)
		if err != nil {
			writeAttemptError(w, err)
			return
		}
		questions, err := content.FetchQuestions(r.Context(), quizID)
		if err != nil {
			writeAttemptError(w, err)
			return
		}

		rendered := make([]quiz.Rendered, 0, len(questions))
		for _, q := range questions {
			rendered = append(rendered, quiz.Render(q, res.Answers[q.ID], true, qz.ShowAnswers))
		}
		resp := struct {
			Result    *attempt.Result `json:"result"`
			Questions []quiz.Rendered `json:"questions"`
		}{res, rendered}
		writeJSON(w, resp)
	}
}
