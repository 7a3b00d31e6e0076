package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/ports"
	"github.com/yone-k/yone-discord-bot-sub002/pkg/translator"
)

const dueDateLayout = "2006-01-02 15:04"

type TaskService struct {
	tasks    ports.TaskRepository
	channels ports.ChannelStore
	notifier ports.Notifier
	notices  noticeSender
	clock    clock.Clock
	lang     string
}

func NewTaskService(tasks ports.TaskRepository, channels ports.ChannelStore, notifier ports.Notifier, clk clock.Clock, lang string) *TaskService {
	return &TaskService{
		tasks:    tasks,
		channels: channels,
		notifier: notifier,
		notices:  noticeSender{channels: channels, notifier: notifier},
		clock:    clk,
		lang:     lang,
	}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) CreateTask(ctx context.Context, channelID string, input domain.CreateTaskInput) (domain.ReminderTask, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.ReminderTask{}, fmt.Errorf("%w: title is required", domain.ErrInvalidFormat)
	}
	if input.IntervalDays < 1 {
		return domain.ReminderTask{}, fmt.Errorf("%w: interval must be at least one day", domain.ErrOutOfRange)
	}
	timeOfDay, err := domain.NormalizeTimeOfDay(input.TimeOfDay)
	if err != nil {
		return domain.ReminderTask{}, err
	}
	if input.RemindBeforeMinutes < 0 || input.RemindBeforeMinutes > domain.MaxRemindBeforeMinutes {
		return domain.ReminderTask{}, fmt.Errorf("%w: remind-before minutes", domain.ErrOutOfRange)
	}

	now := s.clock.Now()
	task := domain.ReminderTask{
		ID:                  uuid.NewString(),
		ChannelID:           channelID,
		Title:               title,
		Description:         input.Description,
		IntervalDays:        input.IntervalDays,
		TimeOfDay:           timeOfDay,
		RemindBeforeMinutes: input.RemindBeforeMinutes,
		InventoryItems:      input.InventoryItems,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	task.StartAt = domain.CalculateStartAt(now, timeOfDay)
	task.NextDueAt = domain.CalculateNextDueAt(task, now)

	if err := s.tasks.AppendTask(ctx, task); err != nil {
		return domain.ReminderTask{}, fmt.Errorf("append task: %w", err)
	}

	// Register the channel so the scheduler sweep picks it up.
	if _, err := s.channels.GetChannelSettings(ctx, channelID); err != nil {
		settings := domain.ChannelSettings{ChannelID: channelID, CreatedAt: now, UpdatedAt: now}
		if err := s.channels.UpsertChannelSettings(ctx, settings); err != nil {
			zap.L().Warn("failed to register channel settings", zap.String("channel_id", channelID), zap.Error(err))
		}
	}

	// First render of the task card. The task exists without it; the next
	// update retries.
	messageID, err := s.notifier.CreateTaskMessage(ctx, channelID, task, now)
	if err != nil {
		zap.L().Warn("failed to render task message", zap.String("task_id", task.ID), zap.Error(err))
		return task, nil
	}
	task.MessageID = &messageID
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		zap.L().Warn("failed to persist rendered message id", zap.String("task_id", task.ID), zap.Error(err))
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, channelID string) ([]domain.ReminderTask, error) {
	return s.tasks.ListTasks(ctx, channelID)
}

func (s *TaskService) UpdateTask(ctx context.Context, channelID, taskID string, input domain.UpdateTaskInput) (domain.ReminderTask, error) {
	task, err := s.findTask(ctx, channelID, taskID)
	if err != nil {
		return domain.ReminderTask{}, err
	}

	now := s.clock.Now()
	scheduleChanged := false

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return domain.ReminderTask{}, fmt.Errorf("%w: title is required", domain.ErrInvalidFormat)
		}
		task.Title = title
	}
	if input.DescriptionSet {
		task.Description = input.Description
	}
	if input.IntervalDays != nil {
		if *input.IntervalDays < 1 {
			return domain.ReminderTask{}, fmt.Errorf("%w: interval must be at least one day", domain.ErrOutOfRange)
		}
		task.IntervalDays = *input.IntervalDays
		scheduleChanged = true
	}
	if input.TimeOfDay != nil {
		timeOfDay, err := domain.NormalizeTimeOfDay(*input.TimeOfDay)
		if err != nil {
			return domain.ReminderTask{}, err
		}
		task.TimeOfDay = timeOfDay
		scheduleChanged = true
	}
	if input.RemindBeforeMinutes != nil {
		if *input.RemindBeforeMinutes < 0 || *input.RemindBeforeMinutes > domain.MaxRemindBeforeMinutes {
			return domain.ReminderTask{}, fmt.Errorf("%w: remind-before minutes", domain.ErrOutOfRange)
		}
		task.RemindBeforeMinutes = *input.RemindBeforeMinutes
	}
	if input.InventoryItemsSet {
		task.InventoryItems = input.InventoryItems
	}
	if input.IsPaused != nil {
		task.IsPaused = *input.IsPaused
	}
	if input.OverdueNotifyLimitSet {
		if input.OverdueNotifyLimit != nil && *input.OverdueNotifyLimit < 0 {
			return domain.ReminderTask{}, fmt.Errorf("%w: overdue notify limit", domain.ErrOutOfRange)
		}
		task.OverdueNotifyLimit = input.OverdueNotifyLimit
	}

	switch {
	case input.NextDueAt != nil:
		// Manual due-date override wins over recomputation.
		task.NextDueAt = *input.NextDueAt
		resetNotificationState(&task)
	case scheduleChanged:
		task.NextDueAt = domain.CalculateNextDueAt(task, now)
		resetNotificationState(&task)
	}

	task.UpdatedAt = now
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return domain.ReminderTask{}, fmt.Errorf("update task: %w", err)
	}

	s.refreshTaskMessage(ctx, task, now)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, channelID, taskID string) error {
	return s.tasks.DeleteTask(ctx, channelID, taskID)
}

// Complete handles the user completion action: shortage gate, consumption,
// schedule recomputation, persistence, card refresh, depletion notice.
func (s *TaskService) Complete(ctx context.Context, channelID, messageID string, now time.Time) (domain.CompleteResult, error) {
	task, err := s.tasks.FindTaskByMessageID(ctx, channelID, messageID)
	if err != nil {
		return domain.CompleteResult{}, err
	}
	if task == nil {
		return domain.CompleteResult{}, domain.ErrTaskNotFound
	}

	if task.IsPaused {
		return domain.CompleteResult{
			Message: translator.Localize(s.lang, "taskPaused", map[string]any{"Title": task.Title}),
		}, nil
	}

	var depleted []domain.InventoryItem
	if len(task.InventoryItems) > 0 {
		if short := domain.InsufficientInventoryItems(task.InventoryItems); len(short) > 0 {
			notice := translator.Localize(s.lang, "inventoryShortage", map[string]any{
				"Title": task.Title,
				"Items": domain.FormatShortageList(short),
			})
			if err := s.notices.send(ctx, channelID, notice); err != nil {
				zap.L().Warn("failed to send shortage notice", zap.String("task_id", task.ID), zap.Error(err))
			}
			return domain.CompleteResult{
				Message: translator.Localize(s.lang, "completeBlockedShortage", map[string]any{
					"Items": domain.FormatItemNames(short),
				}),
			}, nil
		}
		task.InventoryItems = domain.ConsumeInventory(task.InventoryItems)
		depleted = domain.DepletedItems(task.InventoryItems)
	}

	task.LastDoneAt = &now
	task.NextDueAt = domain.CalculateNextDueAt(*task, now)
	resetNotificationState(task)
	task.UpdatedAt = now

	if err := s.tasks.UpdateTask(ctx, *task); err != nil {
		return domain.CompleteResult{}, fmt.Errorf("persist completion: %w", err)
	}

	s.refreshTaskMessage(ctx, *task, now)

	if len(depleted) > 0 {
		notice := translator.Localize(s.lang, "inventoryDepleted", map[string]any{
			"Title": task.Title,
			"Items": domain.FormatItemNames(depleted),
		})
		if err := s.notices.send(ctx, channelID, notice); err != nil {
			zap.L().Warn("failed to send depletion notice", zap.String("task_id", task.ID), zap.Error(err))
		}
	}

	return domain.CompleteResult{
		Completed:     true,
		DepletedItems: depleted,
		Task:          task,
		Message: translator.Localize(s.lang, "taskCompleted", map[string]any{
			"Title":   task.Title,
			"NextDue": task.NextDueAt.In(domain.HomeZone).Format(dueDateLayout),
		}),
	}, nil
}

func (s *TaskService) findTask(ctx context.Context, channelID, taskID string) (domain.ReminderTask, error) {
	tasks, err := s.tasks.ListTasks(ctx, channelID)
	if err != nil {
		return domain.ReminderTask{}, fmt.Errorf("list tasks: %w", err)
	}
	for _, task := range tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return domain.ReminderTask{}, domain.ErrTaskNotFound
}

func (s *TaskService) refreshTaskMessage(ctx context.Context, task domain.ReminderTask, now time.Time) {
	if task.MessageID == nil {
		return
	}
	if err := s.notifier.UpdateTaskMessage(ctx, task.ChannelID, *task.MessageID, task, now); err != nil {
		zap.L().Warn("failed to refresh task message", zap.String("task_id", task.ID), zap.Error(err))
	}
}

// resetNotificationState clears the de-duplication bookkeeping whenever
// NextDueAt moves to a new value.
func resetNotificationState(task *domain.ReminderTask) {
	task.LastRemindDueAt = nil
	task.OverdueNotifyCount = 0
	task.LastOverdueNotifiedAt = nil
}
