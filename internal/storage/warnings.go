package storage

import (
	"context"
	"time"

	"github.com/fourjr/rainbot/internal/modlog"
)

type Warning struct {
	ID        int64
	GuildID   string
	UserID    string
	Reason    string
	CreatedAt time.Time
}

// AddWarning records one warn punishment against a user.
func (s *Store) AddWarning(ctx context.Context, guildID, userID, reason string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO warnings (guild_id, user_id, reason, created_at)
		VALUES (?, ?, ?, ?)
	`, guildID, userID, reason, time.Now().Unix())
	return err
}

// ListWarnings returns a user's warnings, newest first.
func (s *Store) ListWarnings(ctx context.Context, guildID, userID string, limit int) ([]Warning, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, user_id, reason, created_at
		FROM warnings
		WHERE guild_id = ? AND user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, guildID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []Warning
	for rows.Next() {
		var w Warning
		var created int64
		if err := rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.Reason, &created); err != nil {
			return nil, err
		}
		w.CreatedAt = time.Unix(created, 0)
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// AddModLogEntry persists one moderation-log entry.
func (s *Store) AddModLogEntry(ctx context.Context, entry modlog.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mod_log (guild_id, user_id, detection, action, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.GuildID, entry.UserID, entry.Detection, entry.Action, entry.Reason, entry.CreatedAt.Unix())
	return err
}
