package automod

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fourjr/rainbot/internal/metrics"
	"github.com/fourjr/rainbot/internal/modlog"
)

// WarningStore records warn punishments against a user.
type WarningStore interface {
	AddWarning(ctx context.Context, guildID, userID, reason string) error
}

// Punisher maps a detection to the guild's configured action and
// executes it against the backend. Backend failures never propagate:
// not-found targets count as already satisfied, forbidden actions are
// logged and abandoned.
type Punisher struct {
	backend   Backend
	scheduler *Scheduler
	warnings  WarningStore
	modlog    *modlog.Logger
	logger    *zap.Logger
}

func NewPunisher(backend Backend, scheduler *Scheduler, warnings WarningStore, modLogger *modlog.Logger, logger *zap.Logger) *Punisher {
	return &Punisher{
		backend:   backend,
		scheduler: scheduler,
		warnings:  warnings,
		modlog:    modLogger,
		logger:    logger,
	}
}

// Enforce executes the configured punishment for det. Safe to call from
// a per-message goroutine; nothing here blocks beyond one backend call.
func (p *Punisher) Enforce(ctx context.Context, ev MessageEvent, cfg GuildConfig, det DetectionResult) {
	action := cfg.PunishmentFor(det.Kind)
	if action == PunishNone {
		p.logger.Debug("punishment disabled",
			zap.String("guild_id", ev.GuildID),
			zap.String("kind", string(det.Kind)))
		return
	}

	var err error
	switch action {
	case PunishDelete:
		err = p.deleteMessage(ctx, ev)
	case PunishWarn:
		err = p.warn(ctx, ev, det)
	case PunishMute:
		err = p.mute(ctx, ev, cfg, det)
	case PunishKick:
		err = p.backend.KickMember(ctx, ev.GuildID, ev.AuthorID, det.Reason)
	case PunishBan:
		err = p.backend.BanMember(ctx, ev.GuildID, ev.AuthorID, det.Reason)
	}

	if err != nil {
		if IsNotFound(err) {
			err = nil
		} else {
			p.logger.Warn("punishment abandoned",
				zap.String("guild_id", ev.GuildID),
				zap.String("user_id", ev.AuthorID),
				zap.String("action", string(action)),
				zap.Error(err))
			return
		}
	}

	metrics.PunishmentApplied(string(action))
	p.modlog.Log(ctx, cfg.ModLogChannelID, modlog.Entry{
		GuildID:   ev.GuildID,
		UserID:    ev.AuthorID,
		Detection: string(det.Kind),
		Action:    string(action),
		Reason:    det.Reason,
	})
}

// deleteMessage removes the offending message. A message that is
// already gone counts as success.
func (p *Punisher) deleteMessage(ctx context.Context, ev MessageEvent) error {
	err := p.backend.DeleteMessage(ctx, ev.ChannelID, ev.MessageID)
	if IsNotFound(err) {
		return nil
	}
	return err
}

// warn records the warning and notifies the channel the message was
// sent in. The message itself is left alone.
func (p *Punisher) warn(ctx context.Context, ev MessageEvent, det DetectionResult) error {
	if p.warnings != nil {
		if err := p.warnings.AddWarning(ctx, ev.GuildID, ev.AuthorID, det.Reason); err != nil {
			p.logger.Warn("warning record failed",
				zap.String("guild_id", ev.GuildID),
				zap.String("user_id", ev.AuthorID),
				zap.Error(err))
		}
	}
	content := fmt.Sprintf("<@%s> has been warned: %s", ev.AuthorID, det.Reason)
	return p.backend.SendChannelMessage(ctx, ev.ChannelID, content)
}

// mute applies the guild's mute role and arms the deferred reversal.
// Muting an already-muted user is a no-op. Without a configured mute
// role there is nothing to apply.
func (p *Punisher) mute(ctx context.Context, ev MessageEvent, cfg GuildConfig, det DetectionResult) error {
	roleID := cfg.MuteRoleID
	if roleID == "" {
		p.logger.Debug("mute skipped, no mute role configured",
			zap.String("guild_id", ev.GuildID))
		return nil
	}
	if p.scheduler.Armed(ev.GuildID, ev.AuthorID, roleID) {
		return nil
	}

	if err := p.backend.AddRole(ctx, ev.GuildID, ev.AuthorID, roleID); err != nil && !IsNotFound(err) {
		return err
	}

	seconds := cfg.Threshold(KeyMuteSeconds)
	if seconds <= 0 {
		seconds = DefaultMuteSeconds
	}
	p.scheduler.Arm(ev.GuildID, ev.AuthorID, roleID, time.Duration(seconds)*time.Second)
	return nil
}
