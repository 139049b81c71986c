// Package traffic keeps a sliding window of request outcomes on the
// prediction route. It is the single source for the overloaded and degraded
// health states.
package traffic

import (
	"sync"
	"time"
)

// retention bounds how long outcomes are kept regardless of the windows queried.
const retention = 5 * time.Minute

// Outcome classifies a finished prediction request.
type Outcome int

const (
	Success Outcome = iota
	Error
	Denied // rate-limited (429)
)

var defaultTracker = NewTracker(time.Now)

// Record records an outcome on the process-wide tracker.
func Record(o Outcome) {
	defaultTracker.Record(o)
}

// RecordSuccess records a successful request outcome.
func RecordSuccess() {
	defaultTracker.Record(Success)
}

// RecordError records a failed request outcome (generator fault, panic).
func RecordError() {
	defaultTracker.Record(Error)
}

// RecordDenied records a rate-limit denial (429).
func RecordDenied() {
	defaultTracker.Record(Denied)
}

// RequestCount returns the number of outcomes (success + error + denied) within the window.
func RequestCount(window time.Duration) int {
	return defaultTracker.Snapshot(window).Total()
}

// DenialCount returns the number of denials within the window.
func DenialCount(window time.Duration) int {
	return defaultTracker.Snapshot(window).Denied
}

// ErrorRate returns (errorCount, totalCount) within the window. totalCount = successes + errors (denied excluded).
func ErrorRate(window time.Duration) (errors, total int) {
	s := defaultTracker.Snapshot(window)
	return s.Errors, s.Errors + s.Successes
}

// Snapshot returns the outcome counts within the window.
func Snapshot(window time.Duration) Counts {
	return defaultTracker.Snapshot(window)
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

// Counts holds outcome totals for one window.
type Counts struct {
	Successes int
	Errors    int
	Denied    int
}

// Total is the number of requests that reached the prediction route.
func (c Counts) Total() int {
	return c.Successes + c.Errors + c.Denied
}

type event struct {
	at      time.Time
	outcome Outcome
}

// Tracker maintains a time-ordered log of outcomes.
type Tracker struct {
	mu     sync.Mutex
	now    func() time.Time
	events []event
}

// NewTracker returns a Tracker reading time from now.
func NewTracker(now func() time.Time) *Tracker {
	return &Tracker{now: now}
}

// Record appends an outcome at the current time and prunes expired ones.
func (t *Tracker) Record(o Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.events = append(t.events, event{at: now, outcome: o})
	t.pruneLocked(now)
}

// Snapshot counts outcomes not older than window.
func (t *Tracker) Snapshot(window time.Duration) Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.pruneLocked(now)
	cutoff := now.Add(-window)
	var c Counts
	for _, e := range t.events {
		if e.at.Before(cutoff) {
			continue
		}
		switch e.outcome {
		case Success:
			c.Successes++
		case Error:
			c.Errors++
		case Denied:
			c.Denied++
		}
	}
	return c
}

// Reset clears all recorded outcomes.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

// pruneLocked drops events older than retention. Must be called with mutex held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-retention)
	i := 0
	for ; i < len(t.events) && t.events[i].at.Before(cutoff); i++ {
	}
	if i > 0 {
		t.events = append(t.events[:0], t.events[i:]...)
	}
}
