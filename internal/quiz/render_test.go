package quiz

import (
	"encoding/json"
	"testing"
)

func TestRender_ChoiceQuestion(t *testing.T) {
	q := Question{
		ID:      "q1",
		Prompt:  "Pick one",
		Type:    TypeSingleChoice,
		Options: json.RawMessage(`{"A":"first","B":"second"}`),
		Points:  10,
	}
	r := Render(q, "B", false, false)
	if len(r.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(r.Options))
	}
	if r.Fallback != "" {
		t.Fatalf("options present, no fallback expected")
	}
	if r.Answer != "B" || r.ReadOnly || r.Review != nil {
		t.Fatalf("unexpected render: %+v", r)
	}
}

func TestRender_MissingOptionsFallback(t *testing.T) {
	q := Question{ID: "q1", Type: TypeSingleChoice, Points: 5}
	r := Render(q, nil, false, false)
	if r.Fallback != NoOptionsFallback {
		t.Fatalf("expected fallback %q, got %q", NoOptionsFallback, r.Fallback)
	}
}

func TestRender_ReviewChoiceMarkers(t *testing.T) {
	q := Question{
		ID:            "q1",
		Type:          TypeSingleChoice,
		Options:       json.RawMessage(`["A","B"]`),
		CorrectAnswer: "B",
		Explanation:   "B is right",
		Points:        10,
	}
	r := Render(q, "B", true, false)
	if r.Review == nil {
		t.Fatalf("read-only render must carry review markers")
	}
	if r.Review.CorrectAnswer != "B" || !r.Review.Matched {
		t.Fatalf("expected matched correct answer, got %+v", r.Review)
	}
	if r.Review.Explanation != "B is right" {
		t.Fatalf("explanation missing: %+v", r.Review)
	}

	r = Render(q, "A", true, false)
	if r.Review.Matched {
		t.Fatalf("wrong selection must not match")
	}
}

func TestRender_ReviewFreeText(t *testing.T) {
	q := Question{
		ID:            "q1",
		Type:          TypeReasoning,
		CorrectAnswer: "photosynthesis",
		Explanation:   "see chapter 3",
		Points:        5,
	}

	// show_answers on: expected answer and explanation shown
	r := Render(q, "my essay", true, true)
	if r.Review.CorrectAnswer != "photosynthesis" {
		t.Fatalf("expected answer shown when show_answers is set: %+v", r.Review)
	}
	if r.Review.NeedsManualReview {
		t.Fatalf("shown answers should not flag manual review")
	}

	// show_answers off: neutral manual-review notice, nothing leaked
	r = Render(q, "my essay", true, false)
	if !r.Review.NeedsManualReview {
		t.Fatalf("hidden answers must flag manual review")
	}
	if r.Review.CorrectAnswer != nil || r.Review.Explanation != "" {
		t.Fatalf("hidden answers must not leak: %+v", r.Review)
	}
}

func TestAnswersEqual_Strict(t *testing.T) {
	if !AnswersEqual("B", "B") || AnswersEqual("b", "B") {
		t.Fatalf("string comparison must be exact")
	}
	if !AnswersEqual(true, true) || AnswersEqual(false, true) {
		t.Fatalf("bool comparison broken")
	}
	if AnswersEqual("true", true) || AnswersEqual(true, "true") {
		t.Fatalf("no coercion between kinds")
	}
	if AnswersEqual(nil, "A") || AnswersEqual("A", nil) {
		t.Fatalf("nil never matches")
	}
}
