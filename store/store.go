// Package store persists the guild channel configuration and the last log
// posted per guild. Report data itself is never persisted; it is
// request-scoped by design.
package store

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type Store struct {
	db *sql.DB
}

func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.WithStack(err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Setup creates the schema. Idempotent; runs at startup.
func (s *Store) Setup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS guild_channels (
			guild_id    BIGINT PRIMARY KEY,
			channel_id  BIGINT NOT NULL,
			last_log_id TEXT
		)`)
	return errors.WithStack(err)
}

type Channel struct {
	GuildID   int64
	ChannelID int64
	LastLogID string
}

func (s *Store) Channels(ctx context.Context) ([]Channel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT guild_id, channel_id, COALESCE(last_log_id, '') FROM guild_channels`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var ch Channel
		err = rows.Scan(&ch.GuildID, &ch.ChannelID, &ch.LastLogID)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		channels = append(channels, ch)
	}
	return channels, errors.WithStack(rows.Err())
}

func (s *Store) SetChannel(ctx context.Context, guildID int64, channelID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guild_channels (guild_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id)
		DO UPDATE SET channel_id = EXCLUDED.channel_id`,
		guildID, channelID)
	return errors.WithStack(err)
}

func (s *Store) SetLastLog(ctx context.Context, guildID int64, reportCode string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE guild_channels SET last_log_id = $1 WHERE guild_id = $2`,
		reportCode, guildID)
	return errors.WithStack(err)
}
