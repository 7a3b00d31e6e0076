package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/ports"
)

// noticeSender posts into a channel's notice thread, creating the thread
// through the notifier when the persisted binding no longer resolves, and
// writes the resolved binding back to the channel store.
type noticeSender struct {
	channels ports.ChannelStore
	notifier ports.Notifier
}

func (n *noticeSender) send(ctx context.Context, channelID, text string) error {
	settings, err := n.channels.GetChannelSettings(ctx, channelID)
	if err != nil {
		// A channel without a settings row still gets its notice; the
		// binding is created from scratch.
		settings = domain.ChannelSettings{ChannelID: channelID}
	}

	resolved, err := n.notifier.SendReminderToThread(ctx, channelID, settings.NoticeBinding, text)
	if err != nil {
		return err
	}

	if !resolved.Equal(settings.NoticeBinding) {
		settings.NoticeBinding = resolved
		if err := n.channels.UpsertChannelSettings(ctx, settings); err != nil {
			zap.L().Warn("failed to persist notice binding",
				zap.String("channel_id", channelID), zap.Error(err))
		}
	}
	return nil
}
