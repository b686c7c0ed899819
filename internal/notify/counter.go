// Package notify implements the new-ticket alert counter for analysts: a
// per-observer baseline diff over the total ticket count. It does not track
// which specific tickets are new; a decrease-then-increase inside one
// observation window under-reports.
package notify

import "sync"

// Delta returns the number of new tickets since the previous observation,
// floored at zero so a net decrease never reports negative news.
func Delta(previous, current int64) int64 {
	if current <= previous {
		return 0
	}
	return current - previous
}

// Tracker keeps one baseline per observer session. Baselines live in process
// memory for the lifetime of the session and are not shared across observers.
type Tracker struct {
	mu        sync.Mutex
	baselines map[string]int64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{baselines: make(map[string]int64)}
}

// Observe reports the delta for the observer against the current total and
// advances the baseline to current, so each increment is reported exactly
// once per observer. The first observation establishes the baseline and
// reports zero.
func (t *Tracker) Observe(observer string, current int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous, seen := t.baselines[observer]
	t.baselines[observer] = current
	if !seen {
		return 0
	}
	return Delta(previous, current)
}

// Forget drops an observer's baseline, e.g. on logout.
func (t *Tracker) Forget(observer string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.baselines, observer)
}
