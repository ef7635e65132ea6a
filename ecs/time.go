package ecs

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Time is the frame clock resource, advanced once at the start of every
// update. The first update has a zero delta.
type Time struct {
	clock   clock.Clock
	start   time.Time
	last    time.Time
	delta   time.Duration
	elapsed time.Duration
}

func newTime(c clock.Clock) *Time {
	return &Time{clock: c}
}

func (t *Time) Delta() time.Duration   { return t.delta }
func (t *Time) Elapsed() time.Duration { return t.elapsed }

// DeltaSeconds returns the last frame's duration in seconds.
func (t *Time) DeltaSeconds() float32 { return float32(t.delta.Seconds()) }

func (t *Time) advance() {
	now := t.clock.Now()
	if t.last.IsZero() {
		t.start = now
	} else {
		t.delta = now.Sub(t.last)
	}
	t.last = now
	t.elapsed = now.Sub(t.start)
}
