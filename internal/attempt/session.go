package attempt

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/signbridge/signbridge-lms/internal/quiz"
	"github.com/signbridge/signbridge-lms/internal/scoring"
)

// State is the attempt lifecycle position. Complete is terminal: a retake
// is a fresh session with the next attempt number, not a transition.
type State string

const (
	StateLoading          State = "loading"
	StateVideoGatePending State = "video_gate_pending"
	StateReady            State = "ready"
	StateInProgress       State = "in_progress"
	StateSubmitting       State = "submitting"
	StateComplete         State = "complete"
)

// Session drives one learner through one timed attempt: gate, navigation,
// answers, submission. All mutation goes through the session mutex; the
// alive flag keeps late timer ticks and stale callbacks from touching a
// torn-down session.
type Session struct {
	mu sync.Mutex

	ID     string
	UserID string

	state     State
	quiz      quiz.Quiz
	questions []quiz.Question // order fixed at load; never re-shuffled
	answers   map[string]interface{}
	gate      *VideoGate
	timer     *Timer
	index     int
	openGate  string // scope of the gate modal currently blocking, "" if none

	submitting bool
	result     *Result

	alive      bool
	lastActive time.Time
	cancelTick context.CancelFunc

	deps deps
}

type deps struct {
	content  ContentStore
	attempts AttemptStore
	engine   *scoring.Engine
	events   EventSink
	log      *zap.Logger
	now      func() time.Time
}

// EventSink receives one event per recorded attempt for downstream
// consumers (leaderboards, analytics). May be nil.
type EventSink interface {
	AttemptRecorded(ctx context.Context, r Result)
}

func newSession(userID string, qz quiz.Quiz, questions []quiz.Question, lessonVideo string, d deps) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		state:      StateLoading,
		quiz:       qz,
		answers:    map[string]interface{}{},
		alive:      true,
		deps:       d,
		lastActive: d.now(),
	}

	s.questions = make([]quiz.Question, len(questions))
	copy(s.questions, questions)
	if qz.RandomizeQuestions {
		rand.Shuffle(len(s.questions), func(i, j int) {
			s.questions[i], s.questions[j] = s.questions[j], s.questions[i]
		})
	}

	s.gate = NewVideoGate(qz, s.questions, lessonVideo)

	if qz.TimeLimitMin != nil && *qz.TimeLimitMin > 0 {
		s.timer = NewTimer(*qz.TimeLimitMin, s.expire)
	}

	if _, gated := s.gate.Video(ScopeQuiz); gated {
		s.state = StateVideoGatePending
		s.openGate = ScopeQuiz
		if s.timer != nil {
			s.timer.Suspend()
		}
	} else {
		s.state = StateReady
	}
	return s
}

// start spawns the wall-clock tick loop.
func (s *Session) start(ctx context.Context) {
	if s.timer == nil {
		return
	}
	tctx, cancel := context.WithCancel(ctx)
	s.cancelTick = cancel
	go s.timer.Run(tctx)
}

// GateView describes a pending video gate for one scope.
type GateView struct {
	Scope    string `json:"scope"`
	VideoURL string `json:"video_url"`
}

// View is the session snapshot served to the dashboard.
type View struct {
	SessionID     string                 `json:"session_id"`
	QuizID        string                 `json:"quiz_id"`
	Title         string                 `json:"title"`
	Instructions  string                 `json:"instructions,omitempty"`
	State         State                  `json:"state"`
	QuestionCount int                    `json:"question_count"`
	Index         int                    `json:"index"`
	Answers       map[string]interface{} `json:"answers"`
	Gate          *GateView              `json:"gate,omitempty"`
	RemainingSec  *int                   `json:"remaining_sec,omitempty"`
	TimerBlocked  bool                   `json:"timer_blocked,omitempty"`
	Result        *Result                `json:"result,omitempty"`
}

// Snapshot returns the current session view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		SessionID:     s.ID,
		QuizID:        s.quiz.ID,
		Title:         s.quiz.Title,
		Instructions:  s.quiz.Instructions,
		State:         s.state,
		QuestionCount: len(s.questions),
		Index:         s.index,
		Answers:       copyAnswers(s.answers),
		Result:        s.result,
	}
	if s.openGate != "" {
		if url, ok := s.gate.Video(s.openGate); ok && !s.gate.Unlocked(s.openGate) {
			v.Gate = &GateView{Scope: s.openGate, VideoURL: url}
		}
	}
	if s.timer != nil {
		rem := s.timer.Remaining()
		v.RemainingSec = &rem
		v.TimerBlocked = s.timer.Suspended()
	}
	return v
}

// QuestionView is one question as served to the learner: either the
// blocking gate for that question, or the rendered form.
type QuestionView struct {
	Index    int            `json:"index"`
	Gate     *GateView      `json:"gate,omitempty"`
	Question *quiz.Rendered `json:"question,omitempty"`
}

// Question renders the question at index. Per-question gates are evaluated
// lazily here: a locked question returns its gate and suspends the timer
// until the learner acknowledges or navigates away. Once acknowledged a
// question never re-gates.
func (s *Session) Question(index int) (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return QuestionView{}, ErrSessionClosed
	}
	if index < 0 || index >= len(s.questions) {
		return QuestionView{}, ErrNoSuchQuestion
	}
	q := s.questions[index]
	s.index = index
	s.touch()

	readOnly := s.state == StateComplete

	// the quiz-level gate covers every question until acknowledged
	if !readOnly && s.state == StateVideoGatePending {
		url, _ := s.gate.Video(ScopeQuiz)
		s.openGate = ScopeQuiz
		return QuestionView{Index: index, Gate: &GateView{Scope: ScopeQuiz, VideoURL: url}}, nil
	}

	scope := QuestionScope(q.ID)
	if !readOnly && !s.gate.Unlocked(scope) {
		url, _ := s.gate.Video(scope)
		s.openGate = scope
		if s.timer != nil {
			s.timer.Suspend()
		}
		return QuestionView{Index: index, Gate: &GateView{Scope: scope, VideoURL: url}}, nil
	}

	// fetching is navigation in this API: rendering an ungated question
	// closes any question-gate modal a previous fetch left open
	if !readOnly && s.openGate != "" && s.openGate != ScopeQuiz {
		s.openGate = ""
		if s.timer != nil {
			s.timer.Resume()
		}
	}

	view := q
	if !readOnly {
		// never leak the key to an in-flight attempt
		view.CorrectAnswer = nil
		view.Explanation = ""
	}
	r := quiz.Render(view, s.answers[q.ID], readOnly, s.quiz.ShowAnswers)
	return QuestionView{Index: index, Question: &r}, nil
}

// AcknowledgeVideo marks a gate scope watched or skipped. Acknowledging
// the quiz scope moves VideoGatePending to Ready and releases the timer.
func (s *Session) AcknowledgeVideo(scope string, mode AckMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return ErrSessionClosed
	}
	if s.state == StateComplete || s.state == StateSubmitting {
		return ErrAttemptComplete
	}
	s.gate.Acknowledge(scope, mode)
	s.touch()
	if s.openGate == scope {
		s.openGate = ""
		if s.timer != nil {
			s.timer.Resume()
		}
	}
	if scope == ScopeQuiz && s.state == StateVideoGatePending {
		s.state = StateReady
	}
	s.deps.log.Debug("video gate acknowledged",
		zap.String("session", s.ID), zap.String("scope", scope), zap.String("mode", string(mode)))
	return nil
}

// Answer records the learner's current answer for a question. The renderer
// emits the change; the session owns the write. Rejected once the attempt
// is complete and for questions still behind their gate.
func (s *Session) Answer(questionID string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return ErrSessionClosed
	}
	if s.state == StateComplete || s.state == StateSubmitting {
		return ErrAttemptComplete
	}
	q := s.findQuestion(questionID)
	if q == nil {
		return ErrNoSuchQuestion
	}
	if !s.gate.Unlocked(ScopeQuiz) || !s.gate.Unlocked(QuestionScope(questionID)) {
		return ErrQuestionLocked
	}
	s.answers[questionID] = value
	s.state = StateInProgress
	s.touch()
	return nil
}

// Navigate moves random-access to the question at index. Navigating away
// from a blocking gate closes its modal and lets the clock run again.
func (s *Session) Navigate(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return ErrSessionClosed
	}
	if s.state == StateComplete || s.state == StateSubmitting {
		return ErrAttemptComplete
	}
	if index < 0 || index >= len(s.questions) {
		return ErrNoSuchQuestion
	}
	if s.openGate != "" && s.openGate != ScopeQuiz {
		s.openGate = ""
		if s.timer != nil {
			s.timer.Resume()
		}
	}
	s.index = index
	if s.state == StateReady {
		s.state = StateInProgress
	}
	s.touch()
	return nil
}

// Submit grades the answer snapshot and writes the single authoritative
// attempt record. Idempotent: a completed session returns its existing
// result, and a submit already in flight makes the second call a no-op
// (nil result, nil error). On a write failure the session stays
// InProgress with answers intact so the learner can retry.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if !s.alive {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.state == StateComplete {
		r := s.result
		s.mu.Unlock()
		return r, nil
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, nil
	}
	s.submitting = true
	s.state = StateSubmitting
	questions := s.questions
	answers := copyAnswers(s.answers)
	qz := s.quiz
	s.mu.Unlock()

	sum := s.deps.engine.Score(questions, answers, qz.PassingScore)

	// Sequence number comes from an authoritative count immediately before
	// the insert. Two submissions racing across sessions can still collide;
	// last writer wins and review always shows the highest number.
	prior, err := s.deps.attempts.CountAttempts(ctx, s.UserID, qz.ID)
	if err != nil {
		return nil, s.failSubmit(err)
	}

	res := Result{
		ID:            uuid.NewString(),
		UserID:        s.UserID,
		QuizID:        qz.ID,
		AttemptNumber: prior + 1,
		Score:         sum.Percent,
		EarnedPoints:  sum.EarnedPoints,
		TotalPoints:   sum.TotalPoints,
		Passed:        sum.Passed,
		Answers:       answers,
		CompletedAt:   s.deps.now().Unix(),
	}
	if s.timer != nil {
		elapsed := s.timer.ElapsedMin()
		res.TimeSpentMin = &elapsed
	}

	if err := s.deps.attempts.RecordAttempt(ctx, res); err != nil {
		return nil, s.failSubmit(err)
	}

	s.mu.Lock()
	s.result = &res
	s.state = StateComplete
	s.submitting = false
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancelTick != nil {
		s.cancelTick()
	}
	s.mu.Unlock()

	if s.deps.events != nil {
		s.deps.events.AttemptRecorded(ctx, res)
	}
	s.deps.log.Info("attempt recorded",
		zap.String("session", s.ID),
		zap.String("quiz", res.QuizID),
		zap.String("user", res.UserID),
		zap.Int("attempt", res.AttemptNumber),
		zap.Int("score", res.Score),
		zap.Bool("passed", res.Passed))
	return &res, nil
}

// failSubmit rolls the session back to InProgress with answers preserved.
func (s *Session) failSubmit(err error) error {
	s.mu.Lock()
	s.submitting = false
	if s.alive && s.state == StateSubmitting {
		s.state = StateInProgress
	}
	s.mu.Unlock()
	s.deps.log.Warn("attempt write failed", zap.String("session", s.ID), zap.Error(err))
	return fmt.Errorf("%w: %v", ErrWriteFailed, err)
}

// expire is the timer's zero callback: auto-submit with whatever answers
// exist. The liveness check keeps a dangling tick from mutating a
// torn-down session.
func (s *Session) expire() {
	s.mu.Lock()
	if !s.alive || s.state == StateComplete || s.submitting {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := s.Submit(ctx); err != nil {
		s.deps.log.Error("auto-submit on expiry failed", zap.String("session", s.ID), zap.Error(err))
	}
}

// Close tears the session down. Further events are rejected and any
// pending tick is cancelled.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = false
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancelTick != nil {
		s.cancelTick()
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// QuestionOrder exposes the fixed question order (IDs) for this session.
func (s *Session) QuestionOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.questions))
	for i, q := range s.questions {
		ids[i] = q.ID
	}
	return ids
}

func (s *Session) findQuestion(id string) *quiz.Question {
	for i := range s.questions {
		if s.questions[i].ID == id {
			return &s.questions[i]
		}
	}
	return nil
}

func (s *Session) touch() { s.lastActive = s.deps.now() }

func copyAnswers(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
