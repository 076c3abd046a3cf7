package automod

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeConfigs struct {
	cfg GuildConfig
}

func (f fakeConfigs) GuildAutomodConfig(ctx context.Context, guildID string) (GuildConfig, error) {
	cfg := f.cfg
	cfg.GuildID = guildID
	return cfg, nil
}

func newTestCoordinator(cfg GuildConfig) (*Coordinator, *Tracker) {
	tracker := NewTracker(0, 0)
	return NewCoordinator(fakeConfigs{cfg: cfg}, tracker, zap.NewNop()), tracker
}

func event(content string) MessageEvent {
	return MessageEvent{
		GuildID:   "g1",
		ChannelID: "c1",
		MessageID: "m1",
		AuthorID:  "u1",
		Content:   content,
		Timestamp: time.Unix(1000, 0),
	}
}

func TestCoordinatorDisabledGuild(t *testing.T) {
	coord, tracker := newTestCoordinator(GuildConfig{
		Enabled:    false,
		Detections: map[DetectionKind]bool{DetectionSpam: true},
	})

	_, det, err := coord.Process(context.Background(), event("hello"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if det != nil {
		t.Fatalf("disabled guild should produce no detection")
	}
	if tracker.TrackedUsers() != 0 {
		t.Fatalf("disabled guild must not touch the window tracker")
	}
}

func TestCoordinatorIgnoredChannel(t *testing.T) {
	coord, tracker := newTestCoordinator(GuildConfig{
		Enabled:         true,
		IgnoredChannels: map[string]struct{}{"c1": {}},
		Detections:      map[DetectionKind]bool{DetectionSpam: true},
	})

	_, det, _ := coord.Process(context.Background(), event("hello"))
	if det != nil || tracker.TrackedUsers() != 0 {
		t.Fatalf("ignored channel must not run detectors or mutate state")
	}
}

func TestCoordinatorIgnoresBots(t *testing.T) {
	coord, tracker := newTestCoordinator(GuildConfig{
		Enabled:    true,
		Detections: map[DetectionKind]bool{DetectionSpam: true},
	})

	ev := event("hello")
	ev.Bot = true
	_, det, _ := coord.Process(context.Background(), ev)
	if det != nil || tracker.TrackedUsers() != 0 {
		t.Fatalf("bot messages must be skipped entirely")
	}
}

func TestCoordinatorShortCircuit(t *testing.T) {
	coord, tracker := newTestCoordinator(GuildConfig{
		Enabled: true,
		Detections: map[DetectionKind]bool{
			DetectionMaxLines:   true,
			DetectionSpam:       true,
			DetectionDuplicates: true,
		},
		Thresholds: map[string]int{KeyMaxLines: 1},
	})

	_, det, err := coord.Process(context.Background(), event("a\nb"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if det == nil || det.Kind != DetectionMaxLines {
		t.Fatalf("expected max_lines match, got %+v", det)
	}
	if tracker.TrackedUsers() != 0 {
		t.Fatalf("stateful detectors after a match must not mutate state")
	}
}

func TestCoordinatorDisabledDetectorSkipped(t *testing.T) {
	coord, _ := newTestCoordinator(GuildConfig{
		Enabled:    true,
		Detections: map[DetectionKind]bool{DetectionMaxLines: false},
		Thresholds: map[string]int{KeyMaxLines: 1},
	})

	_, det, _ := coord.Process(context.Background(), event("a\nb\nc"))
	if det != nil {
		t.Fatalf("disabled detector must not match")
	}
}

func TestCoordinatorSpamBurst(t *testing.T) {
	coord, _ := newTestCoordinator(GuildConfig{
		Enabled:    true,
		Detections: map[DetectionKind]bool{DetectionSpam: true},
	})

	base := time.Unix(1000, 0)
	for i := 0; i < 5; i++ {
		ev := event("hi")
		ev.Timestamp = base.Add(time.Duration(i) * 500 * time.Millisecond)
		_, det, err := coord.Process(context.Background(), ev)
		if err != nil {
			t.Fatalf("process: %v", err)
		}
		if i < 4 && det != nil {
			t.Fatalf("message %d should not match", i+1)
		}
		if i == 4 {
			if det == nil || det.Kind != DetectionSpam {
				t.Fatalf("5th message within 5 seconds should match spam, got %+v", det)
			}
		}
	}
}

func TestCoordinatorDuplicates(t *testing.T) {
	coord, _ := newTestCoordinator(GuildConfig{
		Enabled:    true,
		Detections: map[DetectionKind]bool{DetectionDuplicates: true},
	})

	var last *DetectionResult
	for i := 0; i < 3; i++ {
		_, det, _ := coord.Process(context.Background(), event("Same Thing"))
		last = det
		if i < 2 && det != nil {
			t.Fatalf("message %d should not match", i+1)
		}
	}
	if last == nil || last.Kind != DetectionDuplicates {
		t.Fatalf("3rd identical message should match duplicates, got %+v", last)
	}
}
