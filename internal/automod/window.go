package automod

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// spamBurst messages inside spamSpan from one user is a spam match.
	spamBurst = 5
	spamSpan  = 5 * time.Second

	// duplicateRun identical bodies in a row is a duplicate match.
	duplicateRun = 3
)

// Tracker defaults; tunable through NewTracker for tests.
const (
	DefaultMaxTrackedUsers = 8192
	DefaultIdleTTL         = 15 * time.Minute
)

// userWindow is the per-(guild,user) state cell: a ring of recent
// message timestamps and a ring of recent lowercased bodies. All
// mutation happens under its own lock so concurrent messages from the
// same user serialize without blocking other users.
type userWindow struct {
	mu     sync.Mutex
	stamps []time.Time
	bodies []string
}

// Tracker owns every userWindow, reachable through a bounded LRU map.
// Windows materialize lazily on first message and fall out again after
// sitting idle, so memory stays bounded under user churn.
type Tracker struct {
	mu      sync.Mutex
	windows *expirable.LRU[string, *userWindow]
}

func NewTracker(maxUsers int, idleTTL time.Duration) *Tracker {
	if maxUsers <= 0 {
		maxUsers = DefaultMaxTrackedUsers
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Tracker{
		windows: expirable.NewLRU[string, *userWindow](maxUsers, nil, idleTTL),
	}
}

// ObserveSpam records now in the user's timestamp ring and reports
// whether the ring is full with its oldest entry under spamSpan ago.
// The triggering message is part of the evaluated window.
func (t *Tracker) ObserveSpam(guildID, userID string, now time.Time) bool {
	w := t.window(guildID, userID)
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stamps = append(w.stamps, now)
	if len(w.stamps) > spamBurst {
		w.stamps = w.stamps[len(w.stamps)-spamBurst:]
	}
	if len(w.stamps) < spamBurst {
		return false
	}
	return now.Sub(w.stamps[0]) < spamSpan
}

// ObserveDuplicate records the lowercased content in the user's body
// ring and reports whether the ring is full of identical entries.
func (t *Tracker) ObserveDuplicate(guildID, userID, content string) bool {
	content = strings.ToLower(content)

	w := t.window(guildID, userID)
	w.mu.Lock()
	defer w.mu.Unlock()

	w.bodies = append(w.bodies, content)
	if len(w.bodies) > duplicateRun {
		w.bodies = w.bodies[len(w.bodies)-duplicateRun:]
	}
	if len(w.bodies) < duplicateRun {
		return false
	}
	for _, body := range w.bodies {
		if body != w.bodies[0] {
			return false
		}
	}
	return true
}

// TrackedUsers reports how many windows are currently held.
func (t *Tracker) TrackedUsers() int {
	return t.windows.Len()
}

func (t *Tracker) window(guildID, userID string) *userWindow {
	key := guildID + ":" + userID
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.windows.Get(key); ok {
		return w
	}
	w := &userWindow{}
	t.windows.Add(key, w)
	return w
}
