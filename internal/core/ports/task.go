package ports

import (
	"context"
	"time"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
)

type TaskRepository interface {
	ListTasks(ctx context.Context, channelID string) ([]domain.ReminderTask, error)
	FindTaskByMessageID(ctx context.Context, channelID, messageID string) (*domain.ReminderTask, error)
	AppendTask(ctx context.Context, task domain.ReminderTask) error
	UpdateTask(ctx context.Context, task domain.ReminderTask) error
	DeleteTask(ctx context.Context, channelID, taskID string) error
}

type TaskService interface {
	CreateTask(ctx context.Context, channelID string, input domain.CreateTaskInput) (domain.ReminderTask, error)
	ListTasks(ctx context.Context, channelID string) ([]domain.ReminderTask, error)
	UpdateTask(ctx context.Context, channelID, taskID string, input domain.UpdateTaskInput) (domain.ReminderTask, error)
	DeleteTask(ctx context.Context, channelID, taskID string) error
	Complete(ctx context.Context, channelID, messageID string, now time.Time) (domain.CompleteResult, error)
}
