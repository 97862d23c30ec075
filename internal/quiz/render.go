package quiz

import "strings"

// NoOptionsFallback is shown when a choice question carries no usable
// options. The question still renders; it just is not answerable.
const NoOptionsFallback = "no options available"

// Review carries post-submission correctness markers for one question.
type Review struct {
	// CorrectAnswer is the option key (single_choice), bool (true_false) or
	// expected text (free text, only when the quiz shows answers).
	CorrectAnswer interface{} `json:"correct_answer,omitempty"`
	// Matched is set for choice types: the learner's selection equals the key.
	Matched bool `json:"matched"`
	// NeedsManualReview flags free-text answers on quizzes that hide answers.
	NeedsManualReview bool   `json:"needs_manual_review,omitempty"`
	Explanation       string `json:"explanation,omitempty"`
}

// Rendered is the displayable, answerable view of one question.
type Rendered struct {
	QuestionID string       `json:"question_id"`
	Prompt     string       `json:"prompt"`
	Type       QuestionType `json:"type"`
	Points     float64      `json:"points"`
	Options    []Option     `json:"options,omitempty"`
	// Fallback is NoOptionsFallback when a choice question has no options.
	Fallback string      `json:"fallback,omitempty"`
	VideoURL *string     `json:"video_url,omitempty"`
	Answer   interface{} `json:"answer,omitempty"`
	ReadOnly bool        `json:"read_only"`
	Review   *Review     `json:"review,omitempty"`
}

// Render maps a question definition plus the current answer to its view.
// Pure: no timer or gate state involved. In read-only mode it additionally
// attaches correctness markers, honoring showAnswers for free-text types.
func Render(q Question, answer interface{}, readOnly, showAnswers bool) Rendered {
	r := Rendered{
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Type:       q.Type,
		Points:     q.Points,
		VideoURL:   q.VideoURL,
		Answer:     answer,
		ReadOnly:   readOnly,
	}
	if q.Type.HasOptions() {
		r.Options = NormalizeOptions(q.Options)
		if len(r.Options) == 0 {
			r.Fallback = NoOptionsFallback
		}
	}
	if !readOnly {
		return r
	}

	rev := &Review{Explanation: q.Explanation}
	switch {
	case q.Type.HasOptions():
		rev.CorrectAnswer = q.CorrectAnswer
		rev.Matched = AnswersEqual(answer, q.CorrectAnswer)
	case q.Type.FreeText() && showAnswers:
		rev.CorrectAnswer = q.CorrectAnswer
	default:
		rev.NeedsManualReview = true
		rev.Explanation = ""
	}
	r.Review = rev
	return r
}

// AnswersEqual compares a learner answer against the correct-answer value
// with strict semantics: option keys and expected text compare as strings,
// true/false as booleans. No coercion between kinds.
func AnswersEqual(answer, correct interface{}) bool {
	switch c := correct.(type) {
	case string:
		a, ok := answer.(string)
		return ok && a == c
	case bool:
		a, ok := answer.(bool)
		return ok && a == c
	default:
		return false
	}
}

// Attempted reports whether a free-text answer counts as attempted:
// non-empty after trimming whitespace.
func Attempted(answer interface{}) bool {
	s, ok := answer.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != ""
}
