package automod

import (
	"fmt"
	"testing"
	"time"
)

func TestSpamWindow(t *testing.T) {
	tracker := NewTracker(0, 0)
	base := time.Unix(1000, 0)

	for i := 0; i < 4; i++ {
		if tracker.ObserveSpam("g1", "u1", base.Add(time.Duration(i)*time.Second/2)) {
			t.Fatalf("message %d should not trigger", i+1)
		}
	}
	if !tracker.ObserveSpam("g1", "u1", base.Add(2*time.Second)) {
		t.Fatalf("5th message inside 5 seconds should trigger")
	}
}

func TestSpamWindowSpreadOut(t *testing.T) {
	tracker := NewTracker(0, 0)
	base := time.Unix(1000, 0)

	for i := 0; i < 5; i++ {
		if tracker.ObserveSpam("g1", "u1", base.Add(time.Duration(i)*2*time.Second)) {
			t.Fatalf("messages 2 seconds apart should never trigger")
		}
	}
}

func TestDuplicateWindow(t *testing.T) {
	tracker := NewTracker(0, 0)

	if tracker.ObserveDuplicate("g1", "u1", "Hello") {
		t.Fatalf("1st message should not trigger")
	}
	if tracker.ObserveDuplicate("g1", "u1", "HELLO") {
		t.Fatalf("2nd message should not trigger")
	}
	if !tracker.ObserveDuplicate("g1", "u1", "hello") {
		t.Fatalf("3rd identical lowercased message should trigger")
	}

	if tracker.ObserveDuplicate("g1", "u1", "different") {
		t.Fatalf("differing body should reset the run")
	}
	if tracker.ObserveDuplicate("g1", "u1", "hello") {
		t.Fatalf("run broken by a differing body should not trigger")
	}
}

func TestWindowCapacity(t *testing.T) {
	tracker := NewTracker(0, 0)
	now := time.Unix(1000, 0)
	for i := 0; i < 50; i++ {
		tracker.ObserveSpam("g1", "u1", now.Add(time.Duration(i)*time.Second))
		tracker.ObserveDuplicate("g1", "u1", fmt.Sprintf("msg %d", i))
	}

	w := tracker.window("g1", "u1")
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.stamps) > spamBurst {
		t.Fatalf("timestamp ring grew to %d, capacity is %d", len(w.stamps), spamBurst)
	}
	if len(w.bodies) > duplicateRun {
		t.Fatalf("body ring grew to %d, capacity is %d", len(w.bodies), duplicateRun)
	}
}

func TestTrackerBounded(t *testing.T) {
	tracker := NewTracker(2, time.Minute)
	now := time.Unix(1000, 0)

	tracker.ObserveSpam("g1", "u1", now)
	tracker.ObserveSpam("g1", "u2", now)
	tracker.ObserveSpam("g1", "u3", now)

	if got := tracker.TrackedUsers(); got != 2 {
		t.Fatalf("expected 2 tracked users after eviction, got %d", got)
	}
}

func TestUsersIsolated(t *testing.T) {
	tracker := NewTracker(0, 0)
	now := time.Unix(1000, 0)

	for i := 0; i < 4; i++ {
		tracker.ObserveSpam("g1", "u1", now.Add(time.Duration(i)*time.Second/2))
	}
	if tracker.ObserveSpam("g1", "u2", now.Add(2*time.Second)) {
		t.Fatalf("another user's burst must not leak into u2's window")
	}
	if tracker.ObserveSpam("g2", "u1", now.Add(2*time.Second)) {
		t.Fatalf("same user in another guild has an independent window")
	}
}
