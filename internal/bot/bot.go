package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/fourjr/rainbot/internal/automod"
	"github.com/fourjr/rainbot/internal/config"
	"github.com/fourjr/rainbot/internal/modlog"
	"github.com/fourjr/rainbot/internal/storage"
)

type Bot struct {
	cfg       config.Config
	logger    *zap.Logger
	store     *storage.Store
	session   *discordgo.Session
	tracker   *automod.Tracker
	scheduler *automod.Scheduler
	coord     *automod.Coordinator
	punisher  *automod.Punisher
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	backend := &discordBackend{session: session}
	tracker := automod.NewTracker(cfg.Tracker.MaxUsers, time.Duration(cfg.Tracker.IdleTTLMinutes)*time.Minute)
	scheduler := automod.NewScheduler(backend, logger)
	modLogger := modlog.New(store, backend, logger)

	b := &Bot{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		session:   session,
		tracker:   tracker,
		scheduler: scheduler,
		coord:     automod.NewCoordinator(store, tracker, logger),
		punisher:  automod.NewPunisher(backend, scheduler, store, modLogger, logger),
	}
	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}
	return b.registerCommands()
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username))
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.GuildID == "" {
		return
	}

	ev := automod.MessageEvent{
		GuildID:     msg.GuildID,
		ChannelID:   msg.ChannelID,
		MessageID:   msg.ID,
		AuthorID:    msg.Author.ID,
		Bot:         msg.Author.Bot,
		Content:     msg.Content,
		Mentions:    len(msg.Mentions),
		Attachments: len(msg.Attachments),
		Timestamp:   msg.Timestamp,
	}

	ctx := context.Background()
	cfg, det, err := b.coord.Process(ctx, ev)
	if err != nil {
		b.logger.Warn("detection skipped", zap.String("guild_id", ev.GuildID), zap.Error(err))
		return
	}
	if det == nil {
		return
	}

	// Enforcement is network-bound; keep it off the event path.
	go b.punisher.Enforce(context.Background(), ev, cfg, *det)
}

// discordBackend adapts the discordgo session to the automod backend
// surface, translating REST errors into the pipeline's sentinels.
type discordBackend struct {
	session *discordgo.Session
}

func (d *discordBackend) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return mapError(d.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)))
}

func (d *discordBackend) SendChannelMessage(ctx context.Context, channelID, content string) error {
	_, err := d.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	return mapError(err)
}

func (d *discordBackend) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return mapError(d.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (d *discordBackend) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return mapError(d.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (d *discordBackend) KickMember(ctx context.Context, guildID, userID, reason string) error {
	return mapError(d.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

func (d *discordBackend) BanMember(ctx context.Context, guildID, userID, reason string) error {
	return mapError(d.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx)))
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", automod.ErrNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", automod.ErrForbidden, err)
		}
	}
	return err
}
