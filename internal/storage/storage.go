package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/fourjr/rainbot/internal/automod"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Store) Migrate() error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}

	var files []string
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := migrations.ReadFile(path.Join("migrations", file))
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			if isIgnorableMigrationError(err) {
				continue
			}
			return fmt.Errorf("migration %s failed: %w", file, err)
		}
	}
	return nil
}

// GuildAutomodConfig loads the automod snapshot for a guild. A guild
// without a row gets a disabled default, never an error.
func (s *Store) GuildAutomodConfig(ctx context.Context, guildID string) (automod.GuildConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT enabled, mod_log_channel, mute_role, ignored_channels,
		detections, thresholds, punishments, bad_words, invite_allowlist
		FROM guild_automod WHERE guild_id = ?`, guildID)

	cfg := automod.GuildConfig{GuildID: guildID}
	var enabled int
	var ignoredJSON, detectionsJSON, thresholdsJSON, punishmentsJSON, badWordsJSON, allowlistJSON string
	err := row.Scan(&enabled, &cfg.ModLogChannelID, &cfg.MuteRoleID,
		&ignoredJSON, &detectionsJSON, &thresholdsJSON, &punishmentsJSON, &badWordsJSON, &allowlistJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cfg, nil
		}
		return automod.GuildConfig{}, err
	}
	cfg.Enabled = enabled == 1

	var ignored []string
	if err := json.Unmarshal([]byte(ignoredJSON), &ignored); err != nil {
		return automod.GuildConfig{}, fmt.Errorf("decode ignored_channels: %w", err)
	}
	cfg.IgnoredChannels = make(map[string]struct{}, len(ignored))
	for _, id := range ignored {
		cfg.IgnoredChannels[id] = struct{}{}
	}
	if err := json.Unmarshal([]byte(detectionsJSON), &cfg.Detections); err != nil {
		return automod.GuildConfig{}, fmt.Errorf("decode detections: %w", err)
	}
	if err := json.Unmarshal([]byte(thresholdsJSON), &cfg.Thresholds); err != nil {
		return automod.GuildConfig{}, fmt.Errorf("decode thresholds: %w", err)
	}
	if err := json.Unmarshal([]byte(punishmentsJSON), &cfg.Punishments); err != nil {
		return automod.GuildConfig{}, fmt.Errorf("decode punishments: %w", err)
	}
	if err := json.Unmarshal([]byte(badWordsJSON), &cfg.BadWords); err != nil {
		return automod.GuildConfig{}, fmt.Errorf("decode bad_words: %w", err)
	}
	if err := json.Unmarshal([]byte(allowlistJSON), &cfg.InviteAllowlist); err != nil {
		return automod.GuildConfig{}, fmt.Errorf("decode invite_allowlist: %w", err)
	}
	return cfg, nil
}

// UpsertGuildAutomodConfig writes the full snapshot for a guild.
func (s *Store) UpsertGuildAutomodConfig(ctx context.Context, cfg automod.GuildConfig) error {
	ignored := make([]string, 0, len(cfg.IgnoredChannels))
	for id := range cfg.IgnoredChannels {
		ignored = append(ignored, id)
	}
	sort.Strings(ignored)

	ignoredJSON, err := json.Marshal(ignored)
	if err != nil {
		return err
	}
	detections := cfg.Detections
	if detections == nil {
		detections = map[automod.DetectionKind]bool{}
	}
	detectionsJSON, err := json.Marshal(detections)
	if err != nil {
		return err
	}
	thresholds := cfg.Thresholds
	if thresholds == nil {
		thresholds = map[string]int{}
	}
	thresholdsJSON, err := json.Marshal(thresholds)
	if err != nil {
		return err
	}
	punishments := cfg.Punishments
	if punishments == nil {
		punishments = map[automod.DetectionKind]automod.PunishmentKind{}
	}
	punishmentsJSON, err := json.Marshal(punishments)
	if err != nil {
		return err
	}
	badWordsJSON, err := json.Marshal(orEmptyList(cfg.BadWords))
	if err != nil {
		return err
	}
	allowlistJSON, err := json.Marshal(orEmptyList(cfg.InviteAllowlist))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO guild_automod (
			guild_id, enabled, mod_log_channel, mute_role, ignored_channels,
			detections, thresholds, punishments, bad_words, invite_allowlist
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			enabled = excluded.enabled,
			mod_log_channel = excluded.mod_log_channel,
			mute_role = excluded.mute_role,
			ignored_channels = excluded.ignored_channels,
			detections = excluded.detections,
			thresholds = excluded.thresholds,
			punishments = excluded.punishments,
			bad_words = excluded.bad_words,
			invite_allowlist = excluded.invite_allowlist
	`,
		cfg.GuildID,
		boolToInt(cfg.Enabled),
		cfg.ModLogChannelID,
		cfg.MuteRoleID,
		string(ignoredJSON),
		string(detectionsJSON),
		string(thresholdsJSON),
		string(punishmentsJSON),
		string(badWordsJSON),
		string(allowlistJSON),
	)
	return err
}

func orEmptyList(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isIgnorableMigrationError(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "duplicate column name") || strings.Contains(message, "already exists")
}
