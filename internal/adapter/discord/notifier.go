package discord

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/ports"
	"github.com/yone-k/yone-discord-bot-sub002/pkg/translator"
)

// Notifier implements the chat boundary on top of the Discord REST client:
// one rendered card message per task, one notice thread per channel.
type Notifier struct {
	client *Client
	lang   string
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(client *Client, lang string) *Notifier {
	return &Notifier{client: client, lang: lang}
}

func (n *Notifier) SendReminderToThread(ctx context.Context, channelID string, binding domain.NoticeBinding, text string) (domain.NoticeBinding, error) {
	resolved, err := n.ensureThread(ctx, channelID, binding)
	if err != nil {
		return binding, err
	}

	_, err = n.client.CreateMessage(ctx, *resolved.ThreadID, text)
	if IsNotFound(err) {
		// The thread (or its parent) went away since the binding was
		// persisted. Rebuild from scratch once and retry.
		zap.L().Info("notice thread is stale, recreating",
			zap.String("channel_id", channelID))
		resolved, err = n.ensureThread(ctx, channelID, domain.NoticeBinding{})
		if err != nil {
			return binding, err
		}
		_, err = n.client.CreateMessage(ctx, *resolved.ThreadID, text)
	}
	if err != nil {
		return binding, err
	}
	return resolved, nil
}

func (n *Notifier) ensureThread(ctx context.Context, channelID string, binding domain.NoticeBinding) (domain.NoticeBinding, error) {
	if binding.ThreadID != nil {
		return binding, nil
	}

	if binding.ParentMessageID == nil {
		parent, err := n.client.CreateMessage(ctx, channelID, translator.Localize(n.lang, "noticeParentMessage", nil))
		if err != nil {
			return binding, err
		}
		binding.ParentMessageID = &parent.ID
	}

	thread, err := n.client.StartThread(ctx, channelID, *binding.ParentMessageID, translator.Localize(n.lang, "noticeThreadName", nil))
	if IsNotFound(err) {
		// The persisted parent message no longer resolves; post a fresh one.
		parent, createErr := n.client.CreateMessage(ctx, channelID, translator.Localize(n.lang, "noticeParentMessage", nil))
		if createErr != nil {
			return binding, createErr
		}
		binding.ParentMessageID = &parent.ID
		thread, err = n.client.StartThread(ctx, channelID, *binding.ParentMessageID, translator.Localize(n.lang, "noticeThreadName", nil))
	}
	if err != nil {
		return binding, err
	}
	binding.ThreadID = &thread.ID
	return binding, nil
}

func (n *Notifier) CreateTaskMessage(ctx context.Context, channelID string, task domain.ReminderTask, now time.Time) (string, error) {
	msg, err := n.client.CreateMessage(ctx, channelID, renderTaskCard(task, now))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (n *Notifier) UpdateTaskMessage(ctx context.Context, channelID, messageID string, task domain.ReminderTask, now time.Time) error {
	return n.client.EditMessage(ctx, channelID, messageID, renderTaskCard(task, now))
}
