package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(clk *fakeClock) *attemptTracker {
	return newAttemptTracker(5, 15*time.Minute, 15*time.Minute, clk.Now)
}

func TestAttemptTrackerLocksAtThreshold(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(clk)

	for i := 0; i < 4; i++ {
		tr.Fail("admin@example.com")
		_, locked := tr.Check("admin@example.com")
		assert.False(t, locked, "must not lock before the fifth failure")
	}

	tr.Fail("admin@example.com")
	_, locked := tr.Check("admin@example.com")
	assert.True(t, locked)
}

func TestAttemptTrackerLockoutAnchoredAtWindowStart(t *testing.T) {
	// Five failures at t=0s..4s: the lockout runs from the first failure,
	// so just after the fifth one about 15m minus 4s remain.
	clk := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(clk)

	for i := 0; i < 5; i++ {
		tr.Fail("admin@example.com")
		clk.Advance(time.Second)
	}
	clk.Advance(time.Second) // t = 6s

	remaining, locked := tr.Check("admin@example.com")
	assert.True(t, locked)
	assert.Equal(t, 15*time.Minute-6*time.Second, remaining)
}

func TestAttemptTrackerLockoutExpires(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(clk)

	for i := 0; i < 5; i++ {
		tr.Fail("admin@example.com")
	}
	_, locked := tr.Check("admin@example.com")
	assert.True(t, locked)

	clk.Advance(15*time.Minute + time.Second)
	_, locked = tr.Check("admin@example.com")
	assert.False(t, locked)
}

func TestAttemptTrackerStaleWindowRestartsCount(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(clk)

	for i := 0; i < 4; i++ {
		tr.Fail("admin@example.com")
	}
	// Failures outside the window do not accumulate with the stale ones.
	clk.Advance(16 * time.Minute)
	tr.Fail("admin@example.com")
	_, locked := tr.Check("admin@example.com")
	assert.False(t, locked)
}

func TestAttemptTrackerResetClearsRecord(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(clk)

	for i := 0; i < 4; i++ {
		tr.Fail("admin@example.com")
	}
	tr.Reset("admin@example.com")

	// After a reset the full threshold applies again.
	for i := 0; i < 4; i++ {
		tr.Fail("admin@example.com")
	}
	_, locked := tr.Check("admin@example.com")
	assert.False(t, locked)

	tr.Fail("admin@example.com")
	_, locked = tr.Check("admin@example.com")
	assert.True(t, locked)
}

func TestAttemptTrackerIdentifiersAreIndependent(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := newTestTracker(clk)

	for i := 0; i < 5; i++ {
		tr.Fail("locked@example.com")
	}
	_, locked := tr.Check("locked@example.com")
	assert.True(t, locked)

	_, locked = tr.Check("other@example.com")
	assert.False(t, locked)
}
