package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/ports"
	"github.com/yone-k/yone-discord-bot-sub002/pkg/translator"
)

// DefaultSweepInterval is the scheduler tick cadence.
const DefaultSweepInterval = 60 * time.Second

// Scheduler runs the periodic reminder sweep across all channels. A single
// atomic guard serializes sweeps; an overlapping tick is dropped, not queued.
type Scheduler struct {
	tasks    ports.TaskRepository
	channels ports.ChannelStore
	notifier ports.Notifier
	notices  noticeSender
	clock    clock.Clock
	interval time.Duration
	lang     string
	logger   *zap.Logger

	running atomic.Bool
}

func NewScheduler(tasks ports.TaskRepository, channels ports.ChannelStore, notifier ports.Notifier, clk clock.Clock, interval time.Duration, lang string, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Scheduler{
		tasks:    tasks,
		channels: channels,
		notifier: notifier,
		notices:  noticeSender{channels: channels, notifier: notifier},
		clock:    clk,
		interval: interval,
		lang:     lang,
		logger:   logger,
	}
}

// Start blocks on the tick loop until ctx is canceled. Call it in its own
// goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	t := s.clock.Ticker(s.interval)
	defer t.Stop()

	s.logger.Info("reminder scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case <-t.C:
			s.RunOnce(ctx, s.clock.Now())
		}
	}
}

// RunOnce performs one sweep with an explicit reference instant. It returns
// immediately when a sweep is already in flight.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.running.Store(false)

	channels, err := s.channels.ListChannelSettings(ctx)
	if err != nil {
		s.logger.Error("sweep: failed to list channels", zap.Error(err))
		return
	}

	for _, channel := range channels {
		tasks, err := s.tasks.ListTasks(ctx, channel.ChannelID)
		if err != nil {
			s.logger.Warn("sweep: failed to list tasks",
				zap.String("channel_id", channel.ChannelID), zap.Error(err))
			continue
		}
		for _, task := range tasks {
			if task.IsPaused {
				continue
			}
			s.processTask(ctx, task, now)
		}
	}
}

// processTask handles one task within a sweep. Failures are logged and the
// sweep moves on; a panicking task must not take the sweep down with it.
func (s *Scheduler) processTask(ctx context.Context, task domain.ReminderTask, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("sweep: task processing panicked",
				zap.String("channel_id", task.ChannelID),
				zap.String("task_id", task.ID),
				zap.Any("panic", r))
		}
	}()

	switch {
	case domain.ShouldSendPreReminder(task, now):
		s.sendPreReminder(ctx, task, now)
	case domain.ShouldSendOverdue(task, now):
		s.sendOverdue(ctx, task, now)
	default:
		// Keep the rendered countdown fresh on the hour even when nothing
		// fires.
		if now.In(domain.HomeZone).Minute() == 0 && task.MessageID != nil {
			if err := s.notifier.UpdateTaskMessage(ctx, task.ChannelID, *task.MessageID, task, now); err != nil {
				s.logger.Warn("sweep: failed to refresh task message",
					zap.String("task_id", task.ID), zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) sendPreReminder(ctx context.Context, task domain.ReminderTask, now time.Time) {
	if short := domain.InsufficientInventoryItems(task.InventoryItems); len(short) > 0 {
		notice := translator.Localize(s.lang, "inventoryShortage", map[string]any{
			"Title": task.Title,
			"Items": domain.FormatShortageList(short),
		})
		if err := s.notices.send(ctx, task.ChannelID, notice); err != nil {
			s.logger.Warn("sweep: failed to send shortage notice",
				zap.String("task_id", task.ID), zap.Error(err))
		}
	}

	text := translator.Localize(s.lang, "remindPreDue", map[string]any{
		"Title":     task.Title,
		"Remaining": domain.FormatRemainingDuration(task.RemindBeforeMinutes),
	})
	if err := s.notices.send(ctx, task.ChannelID, text); err != nil {
		s.logger.Warn("sweep: failed to send pre-reminder",
			zap.String("task_id", task.ID), zap.Error(err))
		return
	}

	due := task.NextDueAt
	task.LastRemindDueAt = &due
	task.UpdatedAt = now
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		s.logger.Warn("sweep: failed to persist pre-reminder state",
			zap.String("task_id", task.ID), zap.Error(err))
		return
	}
	s.refreshMessage(ctx, task, now)
}

func (s *Scheduler) sendOverdue(ctx context.Context, task domain.ReminderTask, now time.Time) {
	task.OverdueNotifyCount++
	text := translator.Localize(s.lang, "remindOverdue", map[string]any{
		"Title": task.Title,
		"Count": task.OverdueNotifyCount,
	})
	if err := s.notices.send(ctx, task.ChannelID, text); err != nil {
		s.logger.Warn("sweep: failed to send overdue notice",
			zap.String("task_id", task.ID), zap.Error(err))
		return
	}

	task.LastOverdueNotifiedAt = &now
	task.UpdatedAt = now
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		s.logger.Warn("sweep: failed to persist overdue state",
			zap.String("task_id", task.ID), zap.Error(err))
		return
	}
	s.refreshMessage(ctx, task, now)
}

func (s *Scheduler) refreshMessage(ctx context.Context, task domain.ReminderTask, now time.Time) {
	if task.MessageID == nil {
		return
	}
	if err := s.notifier.UpdateTaskMessage(ctx, task.ChannelID, *task.MessageID, task, now); err != nil {
		s.logger.Warn("sweep: failed to refresh task message",
			zap.String("task_id", task.ID), zap.Error(err))
	}
}
