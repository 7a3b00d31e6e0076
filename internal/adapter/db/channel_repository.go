package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/ports"
)

const getChannelSettingsQuery = `
SELECT *
FROM channel_settings
WHERE channel_id = ?;
`

const listChannelSettingsQuery = `
SELECT *
FROM channel_settings
ORDER BY created_at, channel_id;
`

const upsertChannelSettingsQuery = `
INSERT INTO channel_settings (
  channel_id, remind_notice_thread_id, remind_notice_message_id, created_at, updated_at
) VALUES (
  :channel_id, :remind_notice_thread_id, :remind_notice_message_id, :created_at, :updated_at
)
ON DUPLICATE KEY UPDATE
  remind_notice_thread_id = VALUES(remind_notice_thread_id),
  remind_notice_message_id = VALUES(remind_notice_message_id),
  updated_at = VALUES(updated_at);
`

type ChannelRepository struct {
	db *sqlx.DB
}

var _ ports.ChannelStore = (*ChannelRepository)(nil)

func NewChannelRepository(db *sqlx.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

type channelSettingsRow struct {
	ChannelID             string         `db:"channel_id"`
	RemindNoticeThreadID  sql.NullString `db:"remind_notice_thread_id"`
	RemindNoticeMessageID sql.NullString `db:"remind_notice_message_id"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

func (r *ChannelRepository) GetChannelSettings(ctx context.Context, channelID string) (domain.ChannelSettings, error) {
	var row channelSettingsRow
	if err := r.db.GetContext(ctx, &row, getChannelSettingsQuery, channelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ChannelSettings{}, domain.ErrChannelNotFound
		}
		return domain.ChannelSettings{}, err
	}
	return mapChannelSettingsRow(row), nil
}

func (r *ChannelRepository) ListChannelSettings(ctx context.Context) ([]domain.ChannelSettings, error) {
	var rows []channelSettingsRow
	if err := r.db.SelectContext(ctx, &rows, listChannelSettingsQuery); err != nil {
		return nil, err
	}

	settings := make([]domain.ChannelSettings, 0, len(rows))
	for _, row := range rows {
		settings = append(settings, mapChannelSettingsRow(row))
	}
	return settings, nil
}

func (r *ChannelRepository) UpsertChannelSettings(ctx context.Context, settings domain.ChannelSettings) error {
	row := channelSettingsRow{
		ChannelID: settings.ChannelID,
		CreatedAt: settings.CreatedAt.UTC(),
		UpdatedAt: settings.UpdatedAt.UTC(),
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}
	if settings.NoticeBinding.ThreadID != nil {
		row.RemindNoticeThreadID = sql.NullString{String: *settings.NoticeBinding.ThreadID, Valid: true}
	}
	if settings.NoticeBinding.ParentMessageID != nil {
		row.RemindNoticeMessageID = sql.NullString{String: *settings.NoticeBinding.ParentMessageID, Valid: true}
	}

	_, err := r.db.NamedExecContext(ctx, upsertChannelSettingsQuery, row)
	return err
}

func mapChannelSettingsRow(row channelSettingsRow) domain.ChannelSettings {
	settings := domain.ChannelSettings{
		ChannelID: row.ChannelID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.RemindNoticeThreadID.Valid {
		value := row.RemindNoticeThreadID.String
		settings.NoticeBinding.ThreadID = &value
	}
	if row.RemindNoticeMessageID.Valid {
		value := row.RemindNoticeMessageID.String
		settings.NoticeBinding.ParentMessageID = &value
	}
	return settings
}
