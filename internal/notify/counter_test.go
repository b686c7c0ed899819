package notify

import "testing"

func TestDelta(t *testing.T) {
	tests := []struct {
		name     string
		previous int64
		current  int64
		want     int64
	}{
		{"no change", 10, 10, 0},
		{"increase", 10, 13, 3},
		{"decrease floors at zero", 13, 8, 0},
		{"from empty", 0, 5, 5},
		{"both zero", 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Delta(tc.previous, tc.current); got != tc.want {
				t.Errorf("Delta(%d, %d) = %d, want %d", tc.previous, tc.current, got, tc.want)
			}
		})
	}
}

func TestTrackerObserve(t *testing.T) {
	tracker := NewTracker()

	if got := tracker.Observe("s1", 10); got != 0 {
		t.Errorf("first observation = %d, want 0", got)
	}
	if got := tracker.Observe("s1", 13); got != 3 {
		t.Errorf("after +3 = %d, want 3", got)
	}
	// Baseline advanced, a repeat reports nothing.
	if got := tracker.Observe("s1", 13); got != 0 {
		t.Errorf("repeat observation = %d, want 0", got)
	}
	// Deletions: baseline follows the count down and no negative delta leaks.
	if got := tracker.Observe("s1", 8); got != 0 {
		t.Errorf("after decrease = %d, want 0", got)
	}
	if got := tracker.Observe("s1", 9); got != 1 {
		t.Errorf("after decrease then +1 = %d, want 1", got)
	}
}

func TestTrackerIsolatesObservers(t *testing.T) {
	tracker := NewTracker()

	tracker.Observe("s1", 10)
	if got := tracker.Observe("s2", 10); got != 0 {
		t.Errorf("new observer inherited a baseline, delta %d", got)
	}

	tracker.Observe("s1", 12)
	if got := tracker.Observe("s2", 14); got != 4 {
		t.Errorf("s2 delta = %d, want 4", got)
	}
}

func TestTrackerForget(t *testing.T) {
	tracker := NewTracker()

	tracker.Observe("s1", 10)
	tracker.Forget("s1")
	if got := tracker.Observe("s1", 12); got != 0 {
		t.Errorf("observation after Forget = %d, want fresh baseline 0", got)
	}
}
