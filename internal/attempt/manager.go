package attempt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/signbridge/signbridge-lms/internal/scoring"
)

// DefaultSessionTTL is how long an idle, unsubmitted session is kept
// before the sweeper drops it. Nothing partial is ever persisted, so a
// swept session simply disappears.
const DefaultSessionTTL = 4 * time.Hour

// Manager owns the live attempt sessions. Each session is independent:
// its own answers, gate state and timer, with no shared mutable state
// across attempts.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	content  ContentStore
	attempts AttemptStore
	engine   *scoring.Engine
	events   EventSink
	log      *zap.Logger
	now      func() time.Time
	ttl      time.Duration
}

// NewManager wires the engine's collaborators. events may be nil; now is
// injectable for tests; a non-positive ttl falls back to DefaultSessionTTL.
func NewManager(content ContentStore, attempts AttemptStore, engine *scoring.Engine, events EventSink, log *zap.Logger, now func() time.Time, ttl time.Duration) *Manager {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		sessions: map[string]*Session{},
		content:  content,
		attempts: attempts,
		engine:   engine,
		events:   events,
		log:      log,
		now:      now,
		ttl:      ttl,
	}
}

// Eligibility reports whether the user may start another attempt, with the
// counts the dashboard needs to disable the retake button up front.
func (m *Manager) Eligibility(ctx context.Context, userID, quizID string) (allowed bool, used int, max *int, err error) {
	qz, err := m.content.FetchQuiz(ctx, quizID)
	if err != nil {
		return false, 0, nil, err
	}
	used, err = m.attempts.CountAttempts(ctx, userID, quizID)
	if err != nil {
		return false, 0, nil, err
	}
	if qz.MaxAttempts != nil && used >= *qz.MaxAttempts {
		return false, used, qz.MaxAttempts, nil
	}
	return true, used, qz.MaxAttempts, nil
}

// Start loads the quiz and question definitions once, applies the retake
// limit, and builds a fresh session. A missing quiz is terminal for the
// attempt: the error surfaces immediately, no retry loop.
func (m *Manager) Start(ctx context.Context, userID, quizID string) (*Session, error) {
	qz, err := m.content.FetchQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	used, err := m.attempts.CountAttempts(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if qz.MaxAttempts != nil && used >= *qz.MaxAttempts {
		return nil, fmt.Errorf("%w: %d of %d used", ErrAttemptLimit, used, *qz.MaxAttempts)
	}
	questions, err := m.content.FetchQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	lessonVideo := ""
	// The lesson fallback only matters when no enabled quiz-level video
	// exists; skip the fetch otherwise.
	if qz.LessonID != nil && !(qz.VideoEnabled && qz.VideoURL != nil && *qz.VideoURL != "") {
		lessonVideo, err = m.content.FetchLessonVideo(ctx, *qz.LessonID)
		if err != nil {
			return nil, err
		}
	}

	s := newSession(userID, qz, questions, lessonVideo, deps{
		content:  m.content,
		attempts: m.attempts,
		engine:   m.engine,
		events:   m.events,
		log:      m.log,
		now:      m.now,
	})
	s.start(context.Background())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info("attempt started",
		zap.String("session", s.ID),
		zap.String("quiz", quizID),
		zap.String("user", userID),
		zap.String("state", string(s.State())))
	return s, nil
}

// Get returns a live session by ID, scoped to its owner.
func (m *Manager) Get(sessionID, userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, false
	}
	return s, true
}

// Review fetches the user's latest recorded attempt for read-only display.
// Returns nil when none exists.
func (m *Manager) Review(ctx context.Context, userID, quizID string) (*Result, error) {
	return m.attempts.LatestAttempt(ctx, userID, quizID)
}

// Sweep drops sessions idle past the TTL. Swept sessions are closed so a
// late tick can never fire against them.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastActive.Before(cutoff)
		s.mu.Unlock()
		if idle {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
		m.log.Info("idle attempt session swept", zap.String("session", s.ID))
	}
	return len(stale)
}

// RunSweeper sweeps periodically until the context is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, every time.Duration) {
	tk := time.NewTicker(every)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			m.Sweep()
		}
	}
}
