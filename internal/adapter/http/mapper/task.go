package mapper

import (
	"time"

	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/dto"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
)

func ToTaskItems(tasks []domain.ReminderTask) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.ReminderTask) dto.TaskItem {
	item := dto.TaskItem{
		ID:                  task.ID,
		ChannelID:           task.ChannelID,
		MessageID:           task.MessageID,
		Title:               task.Title,
		IntervalDays:        task.IntervalDays,
		TimeOfDay:           task.TimeOfDay,
		RemindBeforeMinutes: task.RemindBeforeMinutes,
		StartAt:             formatInstant(task.StartAt),
		NextDueAt:           formatInstant(task.NextDueAt),
		OverdueNotifyCount:  task.OverdueNotifyCount,
		OverdueNotifyLimit:  task.OverdueNotifyLimit,
		IsPaused:            task.IsPaused,
		CreatedAt:           formatInstant(task.CreatedAt),
		UpdatedAt:           formatInstant(task.UpdatedAt),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}
	if task.LastDoneAt != nil {
		value := formatInstant(*task.LastDoneAt)
		item.LastDoneAt = &value
	}
	if task.LastOverdueNotifiedAt != nil {
		value := formatInstant(*task.LastOverdueNotifiedAt)
		item.LastOverdueNotifiedAt = &value
	}

	if len(task.InventoryItems) > 0 {
		item.InventoryItems = make([]dto.InventoryItem, 0, len(task.InventoryItems))
		for _, inv := range task.InventoryItems {
			item.InventoryItems = append(item.InventoryItems, dto.InventoryItem{
				Name:    inv.Name,
				Stock:   domain.FormatAmount(inv.Stock),
				Consume: domain.FormatAmount(inv.Consume),
			})
		}
	}

	return item
}

// Instants are presented in the bot's home zone.
func formatInstant(t time.Time) string {
	return t.In(domain.HomeZone).Format(time.RFC3339)
}
