package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/dto"
	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/mapper"
	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/middleware"
	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/validation"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/ports"
	"github.com/yone-k/yone-discord-bot-sub002/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	channelID, ok := channelIDParam(c, lang)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), channelID)
	if err != nil {
		zap.L().Error("failed to list tasks", zap.String("channel_id", channelID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListTask, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	channelID, ok := channelIDParam(c, lang)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildCreateTaskInput(req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), channelID, input)
	if err != nil {
		h.writeTaskError(c, lang, err, apierrors.MsgFailCreateTask, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	channelID, ok := channelIDParam(c, lang)
	if !ok {
		return
	}
	taskID := strings.TrimSpace(c.Param("taskId"))
	if taskID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	// Partial updates need to distinguish "absent" from "null", so the raw
	// field set is decoded alongside the typed request.
	var raw map[string]json.RawMessage
	var req dto.UpdateTaskRequest
	if err := json.Unmarshal(body, &raw); err != nil || json.Unmarshal(body, &req) != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), channelID, taskID, input)
	if err != nil {
		h.writeTaskError(c, lang, err, apierrors.MsgFailUpdateTask, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	channelID, ok := channelIDParam(c, lang)
	if !ok {
		return
	}
	taskID := strings.TrimSpace(c.Param("taskId"))
	if taskID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), channelID, taskID); err != nil {
		h.writeTaskError(c, lang, err, apierrors.MsgFailDeleteTask, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

// CompleteTask is the user completion action, keyed by the rendered task
// message like the chat-side button interaction is.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	channelID, ok := channelIDParam(c, lang)
	if !ok {
		return
	}

	var req dto.CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	result, err := h.taskService.Complete(c.Request.Context(), channelID, req.MessageID, time.Now())
	if err != nil {
		h.writeTaskError(c, lang, err, apierrors.MsgFailCompleteTask, "failed to complete task")
		return
	}

	c.JSON(http.StatusOK, dto.CompleteTaskResponse{
		Completed: result.Completed,
		Message:   result.Message,
	})
}

func (h *TaskHandler) writeTaskError(c *gin.Context, lang string, err error, failKey, logMsg string) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(
			http.StatusNotFound,
			apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang),
		)
	case errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrDuplicateItemName):
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
	default:
		zap.L().Error(logMsg, zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, failKey, lang),
		)
	}
}

func channelIDParam(c *gin.Context, lang string) (string, bool) {
	channelID := strings.TrimSpace(c.Param("channelId"))
	if channelID == "" {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidChannelID, lang),
		)
		return "", false
	}
	return channelID, true
}
