package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
)

type taskRepositoryMock struct {
	mock.Mock
}

func (m *taskRepositoryMock) ListTasks(ctx context.Context, channelID string) ([]domain.ReminderTask, error) {
	args := m.Called(ctx, channelID)

	var tasks []domain.ReminderTask
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.ReminderTask)
	}
	return tasks, args.Error(1)
}

func (m *taskRepositoryMock) FindTaskByMessageID(ctx context.Context, channelID, messageID string) (*domain.ReminderTask, error) {
	args := m.Called(ctx, channelID, messageID)

	var task *domain.ReminderTask
	if value := args.Get(0); value != nil {
		task = value.(*domain.ReminderTask)
	}
	return task, args.Error(1)
}

func (m *taskRepositoryMock) AppendTask(ctx context.Context, task domain.ReminderTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *taskRepositoryMock) UpdateTask(ctx context.Context, task domain.ReminderTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *taskRepositoryMock) DeleteTask(ctx context.Context, channelID, taskID string) error {
	args := m.Called(ctx, channelID, taskID)
	return args.Error(0)
}

type channelStoreMock struct {
	mock.Mock
}

func (m *channelStoreMock) GetChannelSettings(ctx context.Context, channelID string) (domain.ChannelSettings, error) {
	args := m.Called(ctx, channelID)

	var settings domain.ChannelSettings
	if value := args.Get(0); value != nil {
		settings = value.(domain.ChannelSettings)
	}
	return settings, args.Error(1)
}

func (m *channelStoreMock) UpsertChannelSettings(ctx context.Context, settings domain.ChannelSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *channelStoreMock) ListChannelSettings(ctx context.Context) ([]domain.ChannelSettings, error) {
	args := m.Called(ctx)

	var settings []domain.ChannelSettings
	if value := args.Get(0); value != nil {
		settings = value.([]domain.ChannelSettings)
	}
	return settings, args.Error(1)
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) SendReminderToThread(ctx context.Context, channelID string, binding domain.NoticeBinding, text string) (domain.NoticeBinding, error) {
	args := m.Called(ctx, channelID, binding, text)

	var resolved domain.NoticeBinding
	if value := args.Get(0); value != nil {
		resolved = value.(domain.NoticeBinding)
	}
	return resolved, args.Error(1)
}

func (m *notifierMock) CreateTaskMessage(ctx context.Context, channelID string, task domain.ReminderTask, now time.Time) (string, error) {
	args := m.Called(ctx, channelID, task, now)
	return args.String(0), args.Error(1)
}

func (m *notifierMock) UpdateTaskMessage(ctx context.Context, channelID, messageID string, task domain.ReminderTask, now time.Time) error {
	args := m.Called(ctx, channelID, messageID, task, now)
	return args.Error(0)
}
