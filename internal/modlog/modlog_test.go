package modlog

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type recorderFunc func(ctx context.Context, entry Entry) error

func (f recorderFunc) AddModLogEntry(ctx context.Context, entry Entry) error { return f(ctx, entry) }

type senderFunc func(ctx context.Context, channelID, content string) error

func (f senderFunc) SendChannelMessage(ctx context.Context, channelID, content string) error {
	return f(ctx, channelID, content)
}

func TestLogBestEffort(t *testing.T) {
	var sentTo string
	logger := New(
		recorderFunc(func(ctx context.Context, entry Entry) error {
			return errors.New("store down")
		}),
		senderFunc(func(ctx context.Context, channelID, content string) error {
			sentTo = channelID
			return nil
		}),
		zap.NewNop(),
	)

	logger.Log(context.Background(), "log-channel", Entry{GuildID: "g1", UserID: "u1", Action: "delete"})
	if sentTo != "log-channel" {
		t.Fatalf("store failure must not prevent the channel notification")
	}
}

func TestLogNoChannel(t *testing.T) {
	sent := false
	logger := New(
		recorderFunc(func(ctx context.Context, entry Entry) error { return nil }),
		senderFunc(func(ctx context.Context, channelID, content string) error {
			sent = true
			return nil
		}),
		zap.NewNop(),
	)

	logger.Log(context.Background(), "", Entry{GuildID: "g1", UserID: "u1", Action: "warn"})
	if sent {
		t.Fatalf("no channel configured means no channel send")
	}
}
