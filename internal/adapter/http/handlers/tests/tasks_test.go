package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/dto"
	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/handlers"
	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/middleware"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
	"github.com/yone-k/yone-discord-bot-sub002/pkg/apierrors"
	"github.com/yone-k/yone-discord-bot-sub002/pkg/translator"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) CreateTask(ctx context.Context, channelID string, input domain.CreateTaskInput) (domain.ReminderTask, error) {
	args := m.Called(ctx, channelID, input)

	var task domain.ReminderTask
	if value := args.Get(0); value != nil {
		task = value.(domain.ReminderTask)
	}
	return task, args.Error(1)
}

func (m *taskServiceMock) ListTasks(ctx context.Context, channelID string) ([]domain.ReminderTask, error) {
	args := m.Called(ctx, channelID)

	var tasks []domain.ReminderTask
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.ReminderTask)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, channelID, taskID string, input domain.UpdateTaskInput) (domain.ReminderTask, error) {
	args := m.Called(ctx, channelID, taskID, input)

	var task domain.ReminderTask
	if value := args.Get(0); value != nil {
		task = value.(domain.ReminderTask)
	}
	return task, args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, channelID, taskID string) error {
	args := m.Called(ctx, channelID, taskID)
	return args.Error(0)
}

func (m *taskServiceMock) Complete(ctx context.Context, channelID, messageID string, now time.Time) (domain.CompleteResult, error) {
	args := m.Called(ctx, channelID, messageID, now)

	var result domain.CompleteResult
	if value := args.Get(0); value != nil {
		result = value.(domain.CompleteResult)
	}
	return result, args.Error(1)
}

func newTaskRouter(handler *handlers.TaskHandler) *gin.Engine {
	router := gin.New()
	api := router.Group("/api", middleware.LanguageMiddleware())
	api.GET("/channels/:channelId/tasks", handler.ListTasks)
	api.POST("/channels/:channelId/tasks", handler.CreateTask)
	api.PATCH("/channels/:channelId/tasks/:taskId", handler.UpdateTask)
	api.DELETE("/channels/:channelId/tasks/:taskId", handler.DeleteTask)
	api.POST("/channels/:channelId/tasks/complete", handler.CompleteTask)
	return router
}

func TestTaskHandler_ListTasks_Success(t *testing.T) {
	messageID := "msg-1"
	lastDone := time.Date(2026, 1, 5, 9, 10, 0, 0, domain.HomeZone)

	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, "ch1").Return(
		[]domain.ReminderTask{
			{
				ID:                  "task-1",
				ChannelID:           "ch1",
				MessageID:           &messageID,
				Title:               "フィルター交換",
				IntervalDays:        7,
				TimeOfDay:           "09:00",
				RemindBeforeMinutes: 60,
				StartAt:             time.Date(2025, 12, 29, 9, 0, 0, 0, domain.HomeZone),
				NextDueAt:           time.Date(2026, 1, 12, 9, 0, 0, 0, domain.HomeZone),
				LastDoneAt:          &lastDone,
				InventoryItems: []domain.InventoryItem{
					{Name: "フィルター", Stock: decimal.RequireFromString("2.5"), Consume: decimal.RequireFromString("0.5")},
				},
				CreatedAt: time.Date(2025, 12, 29, 8, 0, 0, 0, domain.HomeZone),
				UpdatedAt: time.Date(2026, 1, 5, 9, 10, 0, 0, domain.HomeZone),
			},
		},
		nil,
	).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	req := httptest.NewRequest(http.MethodGet, "/api/channels/ch1/tasks", nil)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)

	require.Equal(t, "task-1", got[0].ID)
	require.Equal(t, "ch1", got[0].ChannelID)
	require.Equal(t, "msg-1", *got[0].MessageID)
	require.Equal(t, "フィルター交換", got[0].Title)
	require.Equal(t, 7, got[0].IntervalDays)
	require.Equal(t, "09:00", got[0].TimeOfDay)
	require.Equal(t, 60, got[0].RemindBeforeMinutes)
	require.Equal(t, "2026-01-12T09:00:00+09:00", got[0].NextDueAt)
	require.Equal(t, "2026-01-05T09:10:00+09:00", *got[0].LastDoneAt)
	require.Len(t, got[0].InventoryItems, 1)
	require.Equal(t, "フィルター", got[0].InventoryItems[0].Name)
	require.Equal(t, "2.5", got[0].InventoryItems[0].Stock)
	require.Equal(t, "0.5", got[0].InventoryItems[0].Consume)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything, "ch1").Return(nil, errors.New("db is down")).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	req := httptest.NewRequest(http.MethodGet, "/api/channels/ch1/tasks", nil)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, http.StatusInternalServerError, got.ErrDetails.Code)
	require.Equal(t, "Could not list tasks.", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_InvalidChannelID(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	req := httptest.NewRequest(http.MethodGet, "/api/channels/%20/tasks", nil)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Invalid channel ID.", got.ErrDetails.Message)
	serviceMock.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything)
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, "ch1", mock.MatchedBy(func(input domain.CreateTaskInput) bool {
		return input.Title == "フィルター交換" &&
			input.IntervalDays == 7 &&
			input.TimeOfDay == "9:00" &&
			input.RemindBeforeMinutes == 90 &&
			len(input.InventoryItems) == 1 &&
			input.InventoryItems[0].Name == "フィルター"
	})).Return(
		domain.ReminderTask{
			ID:                  "task-9",
			ChannelID:           "ch1",
			Title:               "フィルター交換",
			IntervalDays:        7,
			TimeOfDay:           "09:00",
			RemindBeforeMinutes: 90,
			StartAt:             time.Date(2026, 1, 3, 9, 0, 0, 0, domain.HomeZone),
			NextDueAt:           time.Date(2026, 1, 10, 9, 0, 0, 0, domain.HomeZone),
		},
		nil,
	).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	body := `{
		"title": "フィルター交換",
		"interval_days": 7,
		"time_of_day": "9:00",
		"remind_before": "1:30",
		"inventory": "フィルター,消費0.5,在庫2.5"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/channels/ch1/tasks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "task-9", got.ID)
	require.Equal(t, "2026-01-10T09:00:00+09:00", got.NextDueAt)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_InvalidPayload(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	for name, body := range map[string]string{
		"missing title":           `{"interval_days": 7, "time_of_day": "09:00"}`,
		"blank title":             `{"title": "  ", "interval_days": 7, "time_of_day": "09:00"}`,
		"bad remind_before":       `{"title": "掃除", "interval_days": 7, "time_of_day": "09:00", "remind_before": "90"}`,
		"remind_before too large": `{"title": "掃除", "interval_days": 7, "time_of_day": "09:00", "remind_before": "7:00:01"}`,
		"bad inventory":           `{"title": "掃除", "interval_days": 7, "time_of_day": "09:00", "inventory": "フィルター"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/channels/ch1/tasks", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept-Language", translator.LanguageEn)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, name)

		var got apierrors.JsonErr
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), name)
		require.Equal(t, "Invalid task payload.", got.ErrDetails.Message, name)
	}
	serviceMock.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_UpdateTask_NullInventoryClears(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, "ch1", "task-1", mock.MatchedBy(func(input domain.UpdateTaskInput) bool {
		return input.InventoryItemsSet &&
			input.InventoryItems == nil &&
			input.IsPaused != nil && *input.IsPaused
	})).Return(
		domain.ReminderTask{ID: "task-1", ChannelID: "ch1", Title: "掃除", IsPaused: true},
		nil,
	).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	body := `{"inventory": null, "is_paused": true}`
	req := httptest.NewRequest(http.MethodPatch, "/api/channels/ch1/tasks/task-1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.IsPaused)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTask_EmptyBody(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	req := httptest.NewRequest(http.MethodPatch, "/api/channels/ch1/tasks/task-1", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	serviceMock.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_UpdateTask_NotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTask", mock.Anything, "ch1", "missing", mock.Anything).
		Return(nil, domain.ErrTaskNotFound).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	body := `{"is_paused": true}`
	req := httptest.NewRequest(http.MethodPatch, "/api/channels/ch1/tasks/missing", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Task not found.", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_DeleteTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("DeleteTask", mock.Anything, "ch1", "task-1").Return(nil).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	req := httptest.NewRequest(http.MethodDelete, "/api/channels/ch1/tasks/task-1", nil)
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CompleteTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Complete", mock.Anything, "ch1", "msg-1", mock.Anything).Return(
		domain.CompleteResult{Completed: true, Message: "done"},
		nil,
	).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	body := `{"message_id": "msg-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/channels/ch1/tasks/complete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.CompleteTaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Completed)
	require.Equal(t, "done", got.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CompleteTask_NotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Complete", mock.Anything, "ch1", "missing", mock.Anything).
		Return(nil, domain.ErrTaskNotFound).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	body := `{"message_id": "missing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/channels/ch1/tasks/complete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Task not found.", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}
