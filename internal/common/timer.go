// Package common provides the stopwatch shared by batch and task timing.
package common

import (
	"fmt"
	"time"
)

// Timer measures wall-clock time from creation until Stop.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
	stopped  bool
}

// NewTimer creates a new running timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// NewNamedTimer creates a new running timer with the given name.
func NewNamedTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop freezes the timer and returns the elapsed duration. Calling Stop again
// returns the first measurement.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.duration = time.Since(t.start)
		t.stopped = true
	}
	return t.duration
}

// Elapsed returns the frozen duration after Stop, or the running time before it.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped {
		return t.duration
	}
	return time.Since(t.start)
}

// Name returns the timer name (empty string if unnamed).
func (t *Timer) Name() string {
	return t.name
}

// String returns a formatted string representation of the timer.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.Elapsed())
	}
	return t.Elapsed().String()
}
