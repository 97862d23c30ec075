package attempt

import (
	"context"
	"sync"
	"time"
)

// Timer is the optional countdown for one attempt. It is tick-driven: Run
// feeds it one Tick per wall-clock second in production, and tests call
// Tick directly to simulate time. The countdown holds still while
// suspended (a blocking video-gate modal is open) — "blocked" and
// "counting" are distinct states.
type Timer struct {
	mu        sync.Mutex
	limitSec  int
	remaining int
	suspended bool
	stopped   bool
	expired   bool
	onExpire  func()
}

// NewTimer builds a countdown of limitMin minutes. onExpire fires exactly
// once when the countdown reaches zero; it is invoked without the timer
// lock held.
func NewTimer(limitMin int, onExpire func()) *Timer {
	sec := limitMin * 60
	return &Timer{limitSec: sec, remaining: sec, onExpire: onExpire}
}

// Tick consumes one second. No-op while suspended, after Stop, or after
// expiry.
func (t *Timer) Tick() {
	t.mu.Lock()
	if t.suspended || t.stopped || t.expired || t.remaining <= 0 {
		t.mu.Unlock()
		return
	}
	t.remaining--
	fire := t.remaining == 0
	if fire {
		t.expired = true
	}
	t.mu.Unlock()

	if fire && t.onExpire != nil {
		t.onExpire()
	}
}

// Suspend pauses the countdown while a gate modal blocks interaction.
func (t *Timer) Suspend() {
	t.mu.Lock()
	t.suspended = true
	t.mu.Unlock()
}

// Resume restarts the countdown after the gate is acknowledged.
func (t *Timer) Resume() {
	t.mu.Lock()
	t.suspended = false
	t.mu.Unlock()
}

// Stop tears the timer down with no further side effects. Safe to call
// more than once.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Remaining returns the seconds left on the clock.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Suspended reports whether the countdown is currently blocked by a gate.
func (t *Timer) Suspended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.suspended
}

// ElapsedMin reports limit minus remaining, floored to whole minutes.
func (t *Timer) ElapsedMin() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return (t.limitSec - t.remaining) / 60
}

// Run drives the timer from wall-clock seconds until the context is
// cancelled or the timer stops.
func (t *Timer) Run(ctx context.Context) {
	tk := time.NewTicker(time.Second)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			t.mu.Lock()
			done := t.stopped || t.expired
			t.mu.Unlock()
			if done {
				return
			}
			t.Tick()
		}
	}
}
