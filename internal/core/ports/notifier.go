package ports

import (
	"context"
	"time"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
)

// Notifier is the chat-platform boundary: the rendered task card per task
// and the shared per-channel notice thread.
type Notifier interface {
	// SendReminderToThread posts text into the channel's notice thread,
	// creating the thread and its parent message when the binding does not
	// resolve. The returned binding is what the caller should persist.
	SendReminderToThread(ctx context.Context, channelID string, binding domain.NoticeBinding, text string) (domain.NoticeBinding, error)
	CreateTaskMessage(ctx context.Context, channelID string, task domain.ReminderTask, now time.Time) (string, error)
	UpdateTaskMessage(ctx context.Context, channelID, messageID string, task domain.ReminderTask, now time.Time) error
}
