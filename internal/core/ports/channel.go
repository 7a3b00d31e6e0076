package ports

import (
	"context"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
)

type ChannelStore interface {
	GetChannelSettings(ctx context.Context, channelID string) (domain.ChannelSettings, error)
	UpsertChannelSettings(ctx context.Context, settings domain.ChannelSettings) error
	ListChannelSettings(ctx context.Context) ([]domain.ChannelSettings, error)
}
