package quiz

import "encoding/json"

type QuestionType string

const (
	TypeSingleChoice QuestionType = "single_choice"
	TypeTrueFalse    QuestionType = "true_false"
	TypeShortAnswer  QuestionType = "short_answer"
	TypeCalculation  QuestionType = "calculation"
	TypeWordProblem  QuestionType = "word_problem"
	TypeReasoning    QuestionType = "reasoning"
)

// FreeText reports whether the type collects typed text rather than a
// selection. Free-text types are graded by the attempted heuristic and
// reviewed manually downstream.
func (t QuestionType) FreeText() bool {
	switch t {
	case TypeShortAnswer, TypeCalculation, TypeWordProblem, TypeReasoning:
		return true
	}
	return false
}

// HasOptions reports whether the type is answered by picking an option key.
func (t QuestionType) HasOptions() bool {
	return t == TypeSingleChoice || t == TypeTrueFalse
}

// Quiz is the immutable quiz definition as fetched for one attempt.
type Quiz struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description,omitempty"`
	Instructions       string  `json:"instructions,omitempty"`
	TimeLimitMin       *int    `json:"time_limit_min,omitempty"`
	PassingScore       int     `json:"passing_score"` // percentage threshold
	MaxAttempts        *int    `json:"max_attempts,omitempty"`
	RandomizeQuestions bool    `json:"randomize_questions"`
	ShowAnswers        bool    `json:"show_answers"`
	LessonID           *string `json:"lesson_id,omitempty"`
	VideoURL           *string `json:"video_url,omitempty"`
	VideoEnabled       bool    `json:"video_enabled"`
	CreatedAt          int64   `json:"created_at,omitempty"`
}

// Question is one immutable question definition.
//
// Options carries the raw JSON shape from the content store: either an array
// or a keyed object. Normalize it with NormalizeOptions before display; the
// ambiguity must not leak past the renderer.
//
// CorrectAnswer is type-dependent: option key (string) for single_choice,
// bool for true_false, expected text for the free-text types.
type Question struct {
	ID            string          `json:"id"`
	QuizID        string          `json:"quiz_id"`
	Prompt        string          `json:"prompt"`
	Type          QuestionType    `json:"type"`
	Options       json.RawMessage `json:"options,omitempty"`
	CorrectAnswer interface{}     `json:"correct_answer,omitempty"`
	Explanation   string          `json:"explanation,omitempty"`
	Points        float64         `json:"points"`
	Position      int             `json:"position"`
	VideoURL      *string         `json:"video_url,omitempty"`
}
