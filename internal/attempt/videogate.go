package attempt

import "github.com/signbridge/signbridge-lms/internal/quiz"

// ScopeQuiz gates the whole-quiz introduction. Individual questions use
// QuestionScope.
const ScopeQuiz = "quiz"

// QuestionScope is the gate scope for one question.
func QuestionScope(questionID string) string { return "question:" + questionID }

// AckMode records how a scope was acknowledged.
type AckMode string

const (
	AckWatched AckMode = "watched"
	AckSkipped AckMode = "skipped"
)

// VideoGate tracks which instructional videos must be acknowledged before
// their scope becomes interactively answerable. Pure in-memory state over
// data the session already loaded; no external calls. Not safe for
// concurrent use on its own — the owning session serializes access.
type VideoGate struct {
	videos map[string]string
	acks   map[string]AckMode
}

// NewVideoGate resolves the video for every scope up front. Quiz scope:
// the quiz-level video (when enabled) wins over the lesson-level fallback.
// Question scopes: the question's own video only.
func NewVideoGate(qz quiz.Quiz, questions []quiz.Question, lessonVideo string) *VideoGate {
	g := &VideoGate{videos: map[string]string{}, acks: map[string]AckMode{}}
	if qz.VideoEnabled && qz.VideoURL != nil && *qz.VideoURL != "" {
		g.videos[ScopeQuiz] = *qz.VideoURL
	} else if lessonVideo != "" {
		g.videos[ScopeQuiz] = lessonVideo
	}
	for _, q := range questions {
		if q.VideoURL != nil && *q.VideoURL != "" {
			g.videos[QuestionScope(q.ID)] = *q.VideoURL
		}
	}
	return g
}

// Video returns the resolved video for a scope, if any.
func (g *VideoGate) Video(scope string) (string, bool) {
	v, ok := g.videos[scope]
	return v, ok
}

// Unlocked reports whether the scope may be interacted with: no video
// resolved, or already acknowledged. Acknowledgement persists for the
// lifetime of the attempt session, so a revisited question never re-gates.
func (g *VideoGate) Unlocked(scope string) bool {
	if _, ok := g.videos[scope]; !ok {
		return true
	}
	_, acked := g.acks[scope]
	return acked
}

// Acknowledge idempotently marks the scope unlocked. The first recorded
// mode sticks.
func (g *VideoGate) Acknowledge(scope string, mode AckMode) {
	if _, ok := g.acks[scope]; ok {
		return
	}
	g.acks[scope] = mode
}
