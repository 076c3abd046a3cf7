package automod

import (
	"context"
	"time"
)

type DetectionKind string

const (
	DetectionMaxLines             DetectionKind = "max_lines"
	DetectionMaxWords             DetectionKind = "max_words"
	DetectionMaxCharacters        DetectionKind = "max_characters"
	DetectionCapsMessage          DetectionKind = "caps_message"
	DetectionRepetitiveCharacters DetectionKind = "repetitive_characters"
	DetectionEnglishOnly          DetectionKind = "english_only"
	DetectionInvites              DetectionKind = "invites"
	DetectionBadWords             DetectionKind = "badwords"
	DetectionMassMentions         DetectionKind = "mass_mentions"
	DetectionSpam                 DetectionKind = "spam"
	DetectionDuplicates           DetectionKind = "duplicates"
)

// DetectionKinds lists every kind in evaluation priority order: limit
// checks first, then content-shape checks, then behavioral checks.
var DetectionKinds = []DetectionKind{
	DetectionMaxLines,
	DetectionMaxWords,
	DetectionMaxCharacters,
	DetectionCapsMessage,
	DetectionRepetitiveCharacters,
	DetectionEnglishOnly,
	DetectionInvites,
	DetectionBadWords,
	DetectionMassMentions,
	DetectionSpam,
	DetectionDuplicates,
}

type PunishmentKind string

const (
	PunishNone   PunishmentKind = "none"
	PunishDelete PunishmentKind = "delete"
	PunishWarn   PunishmentKind = "warn"
	PunishMute   PunishmentKind = "mute"
	PunishKick   PunishmentKind = "kick"
	PunishBan    PunishmentKind = "ban"
)

// ValidPunishment reports whether kind names a known punishment.
func ValidPunishment(kind PunishmentKind) bool {
	switch kind {
	case PunishNone, PunishDelete, PunishWarn, PunishMute, PunishKick, PunishBan:
		return true
	}
	return false
}

// ValidDetection reports whether kind names a known detection.
func ValidDetection(kind DetectionKind) bool {
	for _, k := range DetectionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Threshold keys recognized in GuildConfig.Thresholds.
const (
	KeyMaxLines             = "max_lines"
	KeyMaxWords             = "max_words"
	KeyMaxCharacters        = "max_characters"
	KeyCapsMessagePercent   = "caps_message_percent"
	KeyCapsMessageMinLength = "caps_message_min_length"
	KeyRepetitiveCharacters = "repetitive_characters_threshold"
	KeyMuteSeconds          = "mute_seconds"
)

// DefaultMuteSeconds is applied when no mute_seconds threshold is set.
const DefaultMuteSeconds = 300

// MessageEvent is an immutable view of one inbound message. It is
// consumed during processing and never retained.
type MessageEvent struct {
	GuildID     string
	ChannelID   string
	MessageID   string
	AuthorID    string
	Bot         bool
	Content     string
	Mentions    int
	Attachments int
	Timestamp   time.Time
}

// GuildConfig is a per-guild automod snapshot. The core reads one
// snapshot per message and never mutates it; writes happen out-of-band
// through the configuration store.
type GuildConfig struct {
	GuildID         string
	Enabled         bool
	ModLogChannelID string
	MuteRoleID      string
	IgnoredChannels map[string]struct{}
	Detections      map[DetectionKind]bool
	Thresholds      map[string]int
	Punishments     map[DetectionKind]PunishmentKind
	BadWords        []string
	InviteAllowlist []string
}

// Threshold returns the configured value for key, or zero when unset.
// A zero threshold leaves the corresponding detector inert.
func (c GuildConfig) Threshold(key string) int {
	return c.Thresholds[key]
}

// PunishmentFor resolves the configured punishment for a detection
// kind, defaulting to delete when unspecified.
func (c GuildConfig) PunishmentFor(kind DetectionKind) PunishmentKind {
	if p, ok := c.Punishments[kind]; ok && ValidPunishment(p) {
		return p
	}
	return PunishDelete
}

// DetectionResult is the outcome of evaluating one detector.
type DetectionResult struct {
	Kind    DetectionKind
	Matched bool
	Reason  string
}

// ConfigSource supplies per-guild automod snapshots. A missing guild
// yields a disabled default, not an error.
type ConfigSource interface {
	GuildAutomodConfig(ctx context.Context, guildID string) (GuildConfig, error)
}

// Backend exposes the message and member mutation primitives the
// orchestrator needs. Every call may fail with not-found or forbidden
// errors; callers tolerate both.
type Backend interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendChannelMessage(ctx context.Context, channelID, content string) error
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	KickMember(ctx context.Context, guildID, userID, reason string) error
	BanMember(ctx context.Context, guildID, userID, reason string) error
}
