package attempt

import (
	"context"
	"errors"

	"github.com/signbridge/signbridge-lms/internal/quiz"
)

var (
	// ErrQuizNotFound ends the attempt before it starts: terminal, no retry.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrWriteFailed is recoverable; the learner retries the submit action
	// and the in-memory answers survive.
	ErrWriteFailed = errors.New("attempt write failed")
	// ErrAttemptLimit rejects a retake past the quiz's max_attempts.
	ErrAttemptLimit = errors.New("attempt limit reached")
	// ErrSessionClosed guards against events reaching a torn-down session.
	ErrSessionClosed = errors.New("attempt session closed")
	// ErrQuestionLocked rejects answers to a question whose video gate has
	// not been acknowledged yet.
	ErrQuestionLocked = errors.New("question video gate locked")
	// ErrAttemptComplete rejects interaction after submission.
	ErrAttemptComplete = errors.New("attempt already complete")
	// ErrNoSuchQuestion rejects out-of-range navigation.
	ErrNoSuchQuestion = errors.New("no such question")
)

// Result is the single authoritative record of one completed attempt.
// Created exactly once per submission and never mutated; retakes create a
// new Result with the next attempt number.
type Result struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"user_id"`
	QuizID        string                 `json:"quiz_id"`
	AttemptNumber int                    `json:"attempt_number"`
	Score         int                    `json:"score"` // 0-100 percentage
	EarnedPoints  float64                `json:"earned_points"`
	TotalPoints   float64                `json:"total_points"`
	Passed        bool                   `json:"passed"`
	Answers       map[string]interface{} `json:"answers"`
	TimeSpentMin  *int                   `json:"time_spent_min,omitempty"`
	CompletedAt   int64                  `json:"completed_at"`
}

// ContentStore is the read-only source of quiz and question definitions.
type ContentStore interface {
	FetchQuiz(ctx context.Context, quizID string) (quiz.Quiz, error)
	FetchQuestions(ctx context.Context, quizID string) ([]quiz.Question, error)
	// FetchLessonVideo returns "" when the lesson has no video.
	FetchLessonVideo(ctx context.Context, lessonID string) (string, error)
}

// AttemptStore is the append-only sink for completed attempts.
type AttemptStore interface {
	CountAttempts(ctx context.Context, userID, quizID string) (int, error)
	RecordAttempt(ctx context.Context, r Result) error
	// LatestAttempt returns nil when the user has no attempt yet.
	LatestAttempt(ctx context.Context, userID, quizID string) (*Result, error)
}
