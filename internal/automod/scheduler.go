package automod

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

func (t realTimer) Stop() bool { return t.t.Stop() }

const reversalTimeout = 30 * time.Second

// Scheduler fires deferred reversals of timed punishments. Arming is
// non-blocking; each reversal runs on its own timer, independent of the
// message that caused it. A reversal removes the role captured at arm
// time even if the guild's configuration changed in the interim, and
// failures are swallowed.
type Scheduler struct {
	mu      sync.Mutex
	clock   Clock
	backend Backend
	logger  *zap.Logger
	pending map[string]Timer
}

func NewScheduler(backend Backend, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		clock:   realClock{},
		backend: backend,
		logger:  logger,
		pending: make(map[string]Timer),
	}
}

func (s *Scheduler) WithClock(clock Clock) {
	s.clock = clock
}

// Arm schedules removal of roleID from userID after d. Returns false
// when a reversal for the same (guild, user, role) is already armed, so
// re-muting an already-muted user stays a no-op.
func (s *Scheduler) Arm(guildID, userID, roleID string, d time.Duration) bool {
	key := guildID + ":" + userID + ":" + roleID

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[key]; ok {
		return false
	}
	s.pending[key] = s.clock.AfterFunc(d, func() {
		s.fire(key, guildID, userID, roleID)
	})
	return true
}

// Armed reports whether a reversal is pending for the triple.
func (s *Scheduler) Armed(guildID, userID, roleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[guildID+":"+userID+":"+roleID]
	return ok
}

// Pending reports how many reversals are armed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Scheduler) fire(key, guildID, userID, roleID string) {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), reversalTimeout)
	defer cancel()

	if err := s.backend.RemoveRole(ctx, guildID, userID, roleID); err != nil {
		s.logger.Warn("mute reversal failed",
			zap.String("guild_id", guildID),
			zap.String("user_id", userID),
			zap.String("role_id", roleID),
			zap.Error(err))
		return
	}
	s.logger.Info("mute reversed",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("role_id", roleID))
}
