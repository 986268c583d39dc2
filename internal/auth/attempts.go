package auth

import (
	"sync"
	"time"
)

// attemptRecord tracks consecutive login failures for one identifier.
// Records are process-local soft state: they are lost on restart, which is
// acceptable for an anti-abuse control that is not the security boundary
// itself.
type attemptRecord struct {
	failures    int       // consecutive failures inside the window
	windowStart time.Time // first failure of the current window
	lockedUntil time.Time // zero unless a lockout is in force
}

// attemptTracker enforces the login lockout policy: maxAttempts consecutive
// failures within window lock the identifier out for lockout. A successful
// login clears the identifier's record entirely.
type attemptTracker struct {
	mu          sync.Mutex
	records     map[string]*attemptRecord
	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time
}

func newAttemptTracker(maxAttempts int, window, lockout time.Duration, now func() time.Time) *attemptTracker {
	return &attemptTracker{
		records:     make(map[string]*attemptRecord),
		maxAttempts: maxAttempts,
		window:      window,
		lockout:     lockout,
		now:         now,
	}
}

// Check reports whether the identifier is currently locked out and, if so,
// how long until the lockout lifts. It never mutates the failure count, so
// a caller can consult it before touching any store.
func (t *attemptTracker) Check(identifier string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[identifier]
	if !ok {
		return 0, false
	}
	now := t.now()
	if rec.lockedUntil.After(now) {
		return rec.lockedUntil.Sub(now), true
	}
	return 0, false
}

// Fail records one failed attempt. Failures older than the window restart
// the count; reaching the threshold sets the lockout timestamp.
func (t *attemptTracker) Fail(identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rec, ok := t.records[identifier]
	if !ok || now.Sub(rec.windowStart) > t.window {
		rec = &attemptRecord{windowStart: now}
		t.records[identifier] = rec
	}
	rec.failures++
	if rec.failures >= t.maxAttempts {
		// The lockout is anchored at the start of the failure window, so a
		// burst of failures does not extend its own penalty.
		rec.lockedUntil = rec.windowStart.Add(t.lockout)
	}
}

// Reset clears the identifier's record after a successful login.
func (t *attemptTracker) Reset(identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, identifier)
}
