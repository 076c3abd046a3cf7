package automod

import (
	"context"

	"go.uber.org/zap"

	"github.com/fourjr/rainbot/internal/metrics"
)

// Coordinator evaluates every enabled detector against one message in
// priority order, stopping at the first match. Ignored messages (automod
// off, ignored channel, bot author) never touch the window tracker.
type Coordinator struct {
	configs ConfigSource
	tracker *Tracker
	logger  *zap.Logger
}

func NewCoordinator(configs ConfigSource, tracker *Tracker, logger *zap.Logger) *Coordinator {
	return &Coordinator{configs: configs, tracker: tracker, logger: logger}
}

// Process runs the detection chain for ev. It returns the guild config
// snapshot it evaluated against and, when a detector matched, a single
// DetectionResult. A nil result means the message passed.
func (c *Coordinator) Process(ctx context.Context, ev MessageEvent) (GuildConfig, *DetectionResult, error) {
	if ev.Bot || ev.GuildID == "" || ev.AuthorID == "" {
		return GuildConfig{}, nil, nil
	}

	cfg, err := c.configs.GuildAutomodConfig(ctx, ev.GuildID)
	if err != nil {
		return GuildConfig{}, nil, err
	}
	if !cfg.Enabled {
		return cfg, nil, nil
	}
	if _, ignored := cfg.IgnoredChannels[ev.ChannelID]; ignored {
		return cfg, nil, nil
	}

	metrics.MessageProcessed()

	now := ev.Timestamp
	if now.IsZero() {
		now = realClock{}.Now()
	}

	for _, d := range Detectors {
		if !cfg.Detections[d.Kind] {
			continue
		}

		var matched bool
		var reason string
		switch {
		case d.Kind == DetectionSpam:
			matched = c.tracker.ObserveSpam(ev.GuildID, ev.AuthorID, now)
			reason = "message burst: 5 messages within 5 seconds"
		case d.Kind == DetectionDuplicates:
			matched = c.tracker.ObserveDuplicate(ev.GuildID, ev.AuthorID, ev.Content)
			reason = "3 identical messages in a row"
		default:
			matched, reason = d.check(ev, cfg)
		}
		if !matched {
			continue
		}

		metrics.DetectionMatched(string(d.Kind))
		c.logger.Debug("detection matched",
			zap.String("guild_id", ev.GuildID),
			zap.String("user_id", ev.AuthorID),
			zap.String("kind", string(d.Kind)),
			zap.String("reason", reason))
		return cfg, &DetectionResult{Kind: d.Kind, Matched: true, Reason: reason}, nil
	}
	return cfg, nil, nil
}
