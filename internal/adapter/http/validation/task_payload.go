package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/dto"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	input := domain.CreateTaskInput{
		Title:        title,
		Description:  req.Description,
		IntervalDays: req.IntervalDays,
		TimeOfDay:    req.TimeOfDay,
	}

	if req.RemindBefore != nil {
		minutes, err := domain.ParseRemindBefore(*req.RemindBefore)
		if err != nil {
			return domain.CreateTaskInput{}, err
		}
		input.RemindBeforeMinutes = minutes
	}

	if req.Inventory != nil {
		items, err := domain.ParseInventoryInput(*req.Inventory)
		if err != nil {
			return domain.CreateTaskInput{}, err
		}
		input.InventoryItems = items
	}

	return input, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var input domain.UpdateTaskInput

	if hasJSONField(raw, "title") {
		if req.Title == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Title = &value
	}

	if hasJSONField(raw, "description") {
		if !isJSONNull(raw["description"]) && req.Description == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Description = req.Description
		input.DescriptionSet = true
	}

	if hasJSONField(raw, "interval_days") {
		if req.IntervalDays == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.IntervalDays = req.IntervalDays
	}

	if hasJSONField(raw, "time_of_day") {
		if req.TimeOfDay == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.TimeOfDay = req.TimeOfDay
	}

	if hasJSONField(raw, "remind_before") {
		if req.RemindBefore == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		minutes, err := domain.ParseRemindBefore(*req.RemindBefore)
		if err != nil {
			return domain.UpdateTaskInput{}, err
		}
		input.RemindBeforeMinutes = &minutes
	}

	if hasJSONField(raw, "next_due_at") {
		if req.NextDueAt == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		parsed, err := time.Parse(time.RFC3339, *req.NextDueAt)
		if err != nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.NextDueAt = &parsed
	}

	if hasJSONField(raw, "inventory") {
		// null clears the inventory; a string replaces it.
		if !isJSONNull(raw["inventory"]) {
			if req.Inventory == nil {
				return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
			}
			items, err := domain.ParseInventoryInput(*req.Inventory)
			if err != nil {
				return domain.UpdateTaskInput{}, err
			}
			input.InventoryItems = items
		}
		input.InventoryItemsSet = true
	}

	if hasJSONField(raw, "is_paused") {
		if req.IsPaused == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.IsPaused = req.IsPaused
	}

	if hasJSONField(raw, "overdue_notify_limit") {
		// null restores the default cap.
		if !isJSONNull(raw["overdue_notify_limit"]) && req.OverdueNotifyLimit == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.OverdueNotifyLimit = req.OverdueNotifyLimit
		input.OverdueNotifyLimitSet = true
	}

	return input, nil
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "title") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "interval_days") ||
		hasJSONField(raw, "time_of_day") ||
		hasJSONField(raw, "remind_before") ||
		hasJSONField(raw, "next_due_at") ||
		hasJSONField(raw, "inventory") ||
		hasJSONField(raw, "is_paused") ||
		hasJSONField(raw, "overdue_notify_limit")
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
