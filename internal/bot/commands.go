package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/fourjr/rainbot/internal/automod"
)

func (b *Bot) registerCommands() error {
	detectionChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(automod.DetectionKinds))
	for _, kind := range automod.DetectionKinds {
		detectionChoices = append(detectionChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(kind),
			Value: string(kind),
		})
	}

	punishmentChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "none", Value: string(automod.PunishNone)},
		{Name: "delete", Value: string(automod.PunishDelete)},
		{Name: "warn", Value: string(automod.PunishWarn)},
		{Name: "mute", Value: string(automod.PunishMute)},
		{Name: "kick", Value: string(automod.PunishKick)},
		{Name: "ban", Value: string(automod.PunishBan)},
	}

	settingChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "max_lines", Value: automod.KeyMaxLines},
		{Name: "max_words", Value: automod.KeyMaxWords},
		{Name: "max_characters", Value: automod.KeyMaxCharacters},
		{Name: "caps_message_percent", Value: automod.KeyCapsMessagePercent},
		{Name: "caps_message_min_length", Value: automod.KeyCapsMessageMinLength},
		{Name: "repetitive_characters_threshold", Value: automod.KeyRepetitiveCharacters},
		{Name: "mute_seconds", Value: automod.KeyMuteSeconds},
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "automod",
			Description: "Configure automatic moderation",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show automod status for this server",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enable",
					Description: "Turn automod on",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable",
					Description: "Turn automod off",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "detection",
					Description: "Toggle a detection",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "kind",
							Description: "detection kind",
							Required:    true,
							Choices:     detectionChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "on or off",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "config",
					Description: "Set a numeric threshold",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "setting",
							Description: "threshold name",
							Required:    true,
							Choices:     settingChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "value",
							Description: "threshold value, 0 disables",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "punishment",
					Description: "Set the punishment for a detection",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "kind",
							Description: "detection kind",
							Required:    true,
							Choices:     detectionChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "action",
							Description: "punishment action",
							Required:    true,
							Choices:     punishmentChoices,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "ignore",
					Description: "Toggle a channel on the ignore list",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "channel to toggle",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "logchannel",
					Description: "Set the moderation log channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "log channel",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "muterole",
					Description: "Set the mute role",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "role applied by the mute punishment",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "badword",
					Description: "Add or remove a blocked word",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "action",
							Description: "add or remove",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "add", Value: "add"},
								{Name: "remove", Value: "remove"},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "word",
							Description: "the word",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "warnings",
			Description: "List a user's recent warnings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "user to look up",
					Required:    true,
				},
			},
		},
	}

	for _, command := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", command); err != nil {
			return err
		}
	}
	return nil
}
