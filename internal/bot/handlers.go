package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/fourjr/rainbot/internal/automod"
)

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx := context.Background()
	data := interaction.ApplicationCommandData()
	switch data.Name {
	case "automod":
		b.handleAutomod(ctx, session, interaction, data.Options)
	case "warnings":
		b.handleWarnings(ctx, session, interaction, data.Options)
	}
}

func (b *Bot) handleAutomod(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if interaction.GuildID == "" || len(options) == 0 {
		b.respond(session, interaction, "This command only works in a server.")
		return
	}

	cfg, err := b.store.GuildAutomodConfig(ctx, interaction.GuildID)
	if err != nil {
		b.logger.Warn("config load failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respond(session, interaction, "Failed to load automod configuration.")
		return
	}

	sub := options[0]
	switch sub.Name {
	case "status":
		b.respond(session, interaction, statusSummary(cfg))
		return
	case "enable":
		cfg.Enabled = true
	case "disable":
		cfg.Enabled = false
	case "detection":
		kind := automod.DetectionKind(sub.Options[0].StringValue())
		if !automod.ValidDetection(kind) {
			b.respond(session, interaction, "Unknown detection kind.")
			return
		}
		if cfg.Detections == nil {
			cfg.Detections = make(map[automod.DetectionKind]bool)
		}
		cfg.Detections[kind] = sub.Options[1].BoolValue()
	case "config":
		setting := sub.Options[0].StringValue()
		value := int(sub.Options[1].IntValue())
		if value < 0 {
			b.respond(session, interaction, "Threshold must not be negative.")
			return
		}
		if cfg.Thresholds == nil {
			cfg.Thresholds = make(map[string]int)
		}
		cfg.Thresholds[setting] = value
	case "punishment":
		kind := automod.DetectionKind(sub.Options[0].StringValue())
		action := automod.PunishmentKind(sub.Options[1].StringValue())
		if !automod.ValidDetection(kind) || !automod.ValidPunishment(action) {
			b.respond(session, interaction, "Unknown detection or punishment.")
			return
		}
		if cfg.Punishments == nil {
			cfg.Punishments = make(map[automod.DetectionKind]automod.PunishmentKind)
		}
		cfg.Punishments[kind] = action
	case "ignore":
		channel := sub.Options[0].ChannelValue(session)
		if channel == nil {
			b.respond(session, interaction, "Channel not found.")
			return
		}
		if cfg.IgnoredChannels == nil {
			cfg.IgnoredChannels = make(map[string]struct{})
		}
		if _, ok := cfg.IgnoredChannels[channel.ID]; ok {
			delete(cfg.IgnoredChannels, channel.ID)
		} else {
			cfg.IgnoredChannels[channel.ID] = struct{}{}
		}
	case "logchannel":
		channel := sub.Options[0].ChannelValue(session)
		if channel == nil {
			b.respond(session, interaction, "Channel not found.")
			return
		}
		cfg.ModLogChannelID = channel.ID
	case "muterole":
		role := sub.Options[0].RoleValue(session, interaction.GuildID)
		if role == nil {
			b.respond(session, interaction, "Role not found.")
			return
		}
		cfg.MuteRoleID = role.ID
	case "badword":
		action := sub.Options[0].StringValue()
		word := strings.ToLower(strings.TrimSpace(sub.Options[1].StringValue()))
		if word == "" {
			b.respond(session, interaction, "Word must not be empty.")
			return
		}
		if action == "add" {
			cfg.BadWords = appendUnique(cfg.BadWords, word)
		} else {
			cfg.BadWords = removeWord(cfg.BadWords, word)
		}
	default:
		b.respond(session, interaction, "Unknown subcommand.")
		return
	}

	if err := b.store.UpsertGuildAutomodConfig(ctx, cfg); err != nil {
		b.logger.Warn("config save failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respond(session, interaction, "Failed to save automod configuration.")
		return
	}
	b.respond(session, interaction, "Automod configuration updated.")
}

func (b *Bot) handleWarnings(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if interaction.GuildID == "" || len(options) == 0 {
		b.respond(session, interaction, "This command only works in a server.")
		return
	}

	user := options[0].UserValue(session)
	if user == nil {
		b.respond(session, interaction, "User not found.")
		return
	}

	warnings, err := b.store.ListWarnings(ctx, interaction.GuildID, user.ID, 10)
	if err != nil {
		b.logger.Warn("warnings load failed", zap.String("guild_id", interaction.GuildID), zap.Error(err))
		b.respond(session, interaction, "Failed to load warnings.")
		return
	}
	if len(warnings) == 0 {
		b.respond(session, interaction, "No warnings on record.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Warnings for <@%s>:\n", user.ID)
	for _, w := range warnings {
		fmt.Fprintf(&sb, "- %s: %s\n", w.CreatedAt.Format("2006-01-02 15:04"), w.Reason)
	}
	b.respond(session, interaction, sb.String())
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string) {
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Debug("interaction respond failed", zap.Error(err))
	}
}

func statusSummary(cfg automod.GuildConfig) string {
	var sb strings.Builder
	if cfg.Enabled {
		sb.WriteString("Automod is **enabled**.\n")
	} else {
		sb.WriteString("Automod is **disabled**.\n")
	}
	for _, kind := range automod.DetectionKinds {
		state := "off"
		if cfg.Detections[kind] {
			state = "on"
		}
		fmt.Fprintf(&sb, "- %s: %s (punishment: %s)\n", kind, state, cfg.PunishmentFor(kind))
	}
	if len(cfg.IgnoredChannels) > 0 {
		fmt.Fprintf(&sb, "Ignored channels: %d\n", len(cfg.IgnoredChannels))
	}
	return sb.String()
}

func appendUnique(words []string, word string) []string {
	for _, existing := range words {
		if existing == word {
			return words
		}
	}
	return append(words, word)
}

func removeWord(words []string, word string) []string {
	out := words[:0]
	for _, existing := range words {
		if existing != word {
			out = append(out, existing)
		}
	}
	return out
}
