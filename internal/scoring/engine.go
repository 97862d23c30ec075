// Package scoring computes attempt scores. Deterministic and side-effect
// free: identical questions and answers always produce the identical
// summary, which keeps the post-submission review consistent with the
// recorded score.
package scoring

import (
	"math"

	"github.com/signbridge/signbridge-lms/internal/quiz"
)

// QuestionResult is the grading outcome for a single question.
type QuestionResult struct {
	QuestionID string  `json:"question_id"`
	Earned     float64 `json:"earned"`
	Max        float64 `json:"max"`
	Answered   bool    `json:"answered"`
	// Correct is set for choice types only; free text has no auto verdict.
	Correct *bool `json:"correct,omitempty"`
	// NeedsManual flags free-text answers awaiting teacher review.
	NeedsManual bool `json:"needs_manual,omitempty"`
}

// Summary is the aggregate outcome of one attempt.
type Summary struct {
	EarnedPoints float64          `json:"earned_points"`
	TotalPoints  float64          `json:"total_points"`
	Percent      int              `json:"percent"` // 0-100, rounded
	Passed       bool             `json:"passed"`
	Questions    []QuestionResult `json:"questions"`
}

// Strategy grades a single question.
type Strategy interface {
	Grade(q quiz.Question, answer interface{}) QuestionResult
}

// Engine routes each question to the strategy for its type, in the manner
// of a grader keyed by question-type tag.
type Engine struct {
	strategies map[quiz.QuestionType]Strategy
}

// NewEngine installs the built-in strategies.
func NewEngine() *Engine {
	exact := exactMatchStrategy{}
	attempted := attemptedStrategy{}
	return &Engine{strategies: map[quiz.QuestionType]Strategy{
		quiz.TypeSingleChoice: exact,
		quiz.TypeTrueFalse:    exact,
		quiz.TypeShortAnswer:  attempted,
		quiz.TypeCalculation:  attempted,
		quiz.TypeWordProblem:  attempted,
		quiz.TypeReasoning:    attempted,
	}}
}

// Score grades every question against the answer snapshot and folds the
// results into a summary. Unanswered questions contribute zero credit and
// no penalty. A zero total yields 0%, never a division by zero.
func (e *Engine) Score(questions []quiz.Question, answers map[string]interface{}, passingScore int) Summary {
	sum := Summary{Questions: make([]QuestionResult, 0, len(questions))}
	for _, q := range questions {
		sum.TotalPoints += q.Points

		answer, has := answers[q.ID]
		if !has || answer == nil {
			sum.Questions = append(sum.Questions, QuestionResult{QuestionID: q.ID, Max: q.Points})
			continue
		}

		s, ok := e.strategies[q.Type]
		if !ok {
			// unknown type: no auto credit, leave it for manual review
			sum.Questions = append(sum.Questions, QuestionResult{
				QuestionID: q.ID, Max: q.Points, Answered: true, NeedsManual: true,
			})
			continue
		}
		res := s.Grade(q, answer)
		sum.EarnedPoints += res.Earned
		sum.Questions = append(sum.Questions, res)
	}

	if sum.TotalPoints > 0 {
		sum.Percent = int(math.Round(100 * sum.EarnedPoints / sum.TotalPoints))
	}
	sum.Passed = sum.Percent >= passingScore
	return sum
}

// exactMatchStrategy awards full points iff the answer strictly equals the
// correct-answer value. Covers single_choice and true_false.
type exactMatchStrategy struct{}

func (exactMatchStrategy) Grade(q quiz.Question, answer interface{}) QuestionResult {
	res := QuestionResult{QuestionID: q.ID, Max: q.Points, Answered: true}
	correct := quiz.AnswersEqual(answer, q.CorrectAnswer)
	res.Correct = &correct
	if correct {
		res.Earned = q.Points
	}
	return res
}

// attemptedStrategy awards flat half credit for any non-empty free-text
// answer. This is a deliberate placeholder heuristic: real grading of
// free-text work is a manual step downstream, and the recorded score must
// match what that workflow expects. Do not refine it here.
type attemptedStrategy struct{}

func (attemptedStrategy) Grade(q quiz.Question, answer interface{}) QuestionResult {
	res := QuestionResult{QuestionID: q.ID, Max: q.Points, Answered: true, NeedsManual: true}
	if quiz.Attempted(answer) {
		res.Earned = 0.5 * q.Points
	}
	return res
}
