package modlog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Entry describes one executed moderation action.
type Entry struct {
	GuildID   string
	UserID    string
	Detection string
	Action    string
	Reason    string
	CreatedAt time.Time
}

// Recorder persists entries.
type Recorder interface {
	AddModLogEntry(ctx context.Context, entry Entry) error
}

// Sender posts entries to a guild channel.
type Sender interface {
	SendChannelMessage(ctx context.Context, channelID, content string) error
}

// Logger emits moderation-log entries to the store, the configured
// guild channel and the process log. Every sink is best-effort: a
// failed write never fails the punishment that produced the entry.
type Logger struct {
	store  Recorder
	sender Sender
	logger *zap.Logger
}

func New(store Recorder, sender Sender, logger *zap.Logger) *Logger {
	return &Logger{store: store, sender: sender, logger: logger}
}

// Log records entry, posting to channelID when it is set.
func (l *Logger) Log(ctx context.Context, channelID string, entry Entry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if l.store != nil {
		if err := l.store.AddModLogEntry(ctx, entry); err != nil {
			l.logger.Warn("modlog store write failed", zap.Error(err))
		}
	}

	if channelID != "" && l.sender != nil {
		content := fmt.Sprintf("**Automod** <@%s>: %s (%s)", entry.UserID, entry.Action, entry.Reason)
		if err := l.sender.SendChannelMessage(ctx, channelID, content); err != nil {
			l.logger.Debug("modlog channel send failed",
				zap.String("channel_id", channelID), zap.Error(err))
		}
	}

	l.logger.Info("moderation action",
		zap.String("guild_id", entry.GuildID),
		zap.String("user_id", entry.UserID),
		zap.String("detection", entry.Detection),
		zap.String("action", entry.Action),
		zap.String("reason", entry.Reason))
}
