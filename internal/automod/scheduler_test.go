package automod

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeTimer struct {
	stop bool
	fn   func()
}

func (t *fakeTimer) Stop() bool {
	t.stop = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	delays []time.Duration
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{fn: fn}
	f.timers = append(f.timers, t)
	f.delays = append(f.delays, d)
	return t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	pending := append([]*fakeTimer{}, f.timers...)
	f.timers = nil
	f.delays = nil
	f.mu.Unlock()
	for _, timer := range pending {
		timer.fn()
	}
}

type fakeBackend struct {
	mu            sync.Mutex
	deleted       []string
	sent          []string
	rolesAdded    []string
	rolesRemoved  []string
	kicked        []string
	banned        []string
	deleteErr     error
	sendErr       error
	addRoleErr    error
	removeRoleErr error
	memberErr     error
}

func (f *fakeBackend) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID+":"+messageID)
	return f.deleteErr
}

func (f *fakeBackend) SendChannelMessage(ctx context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, channelID+":"+content)
	return f.sendErr
}

func (f *fakeBackend) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolesAdded = append(f.rolesAdded, guildID+":"+userID+":"+roleID)
	return f.addRoleErr
}

func (f *fakeBackend) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolesRemoved = append(f.rolesRemoved, guildID+":"+userID+":"+roleID)
	return f.removeRoleErr
}

func (f *fakeBackend) KickMember(ctx context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kicked = append(f.kicked, guildID+":"+userID)
	return f.memberErr
}

func (f *fakeBackend) BanMember(ctx context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banned = append(f.banned, guildID+":"+userID)
	return f.memberErr
}

func TestSchedulerArmOnce(t *testing.T) {
	backend := &fakeBackend{}
	scheduler := NewScheduler(backend, zap.NewNop())
	clock := &fakeClock{now: time.Unix(0, 0)}
	scheduler.WithClock(clock)

	if !scheduler.Arm("g1", "u1", "r1", 5*time.Minute) {
		t.Fatalf("first arm should succeed")
	}
	if scheduler.Arm("g1", "u1", "r1", 5*time.Minute) {
		t.Fatalf("second arm for the same triple should be refused")
	}
	if scheduler.Pending() != 1 {
		t.Fatalf("expected 1 pending reversal, got %d", scheduler.Pending())
	}
}

func TestSchedulerFires(t *testing.T) {
	backend := &fakeBackend{}
	scheduler := NewScheduler(backend, zap.NewNop())
	clock := &fakeClock{now: time.Unix(0, 0)}
	scheduler.WithClock(clock)

	scheduler.Arm("g1", "u1", "r1", 5*time.Minute)
	clock.Advance(5 * time.Minute)

	if len(backend.rolesRemoved) != 1 || backend.rolesRemoved[0] != "g1:u1:r1" {
		t.Fatalf("expected role removal for g1:u1:r1, got %v", backend.rolesRemoved)
	}
	if scheduler.Pending() != 0 {
		t.Fatalf("fired reversal should be discarded")
	}
	if !scheduler.Arm("g1", "u1", "r1", time.Minute) {
		t.Fatalf("re-arming after fire should succeed")
	}
}

func TestSchedulerSwallowsFailure(t *testing.T) {
	backend := &fakeBackend{removeRoleErr: fmt.Errorf("%w: role deleted", ErrNotFound)}
	scheduler := NewScheduler(backend, zap.NewNop())
	clock := &fakeClock{now: time.Unix(0, 0)}
	scheduler.WithClock(clock)

	scheduler.Arm("g1", "u1", "r1", time.Minute)
	clock.Advance(time.Minute)

	if scheduler.Pending() != 0 {
		t.Fatalf("failed reversal is still discarded")
	}
	if len(backend.rolesRemoved) != 1 {
		t.Fatalf("reversal should attempt removal with the captured role ID")
	}
}
