package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
)

const cardDueLayout = "2006-01-02 15:04"

// renderTaskCard builds the task card message: title, schedule with a live
// countdown, and the inventory lines.
func renderTaskCard(task domain.ReminderTask, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📋 **%s**", task.Title)
	if task.IsPaused {
		b.WriteString("（⏸ 停止中）")
	}
	b.WriteString("\n")

	if task.Description != nil && *task.Description != "" {
		b.WriteString(*task.Description)
		b.WriteString("\n")
	}

	due := task.NextDueAt.In(domain.HomeZone)
	fmt.Fprintf(&b, "次回期限: %s", due.Format(cardDueLayout))
	if remaining := int(task.NextDueAt.Sub(now).Minutes()); remaining >= 0 {
		fmt.Fprintf(&b, "（残り%s）", domain.FormatRemainingDuration(remaining))
	} else {
		b.WriteString("（⚠️ 期限切れ）")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "周期: %d日 / 時刻: %s\n", task.IntervalDays, task.TimeOfDay)

	if len(task.InventoryItems) > 0 {
		b.WriteString("在庫:\n")
		for _, item := range task.InventoryItems {
			fmt.Fprintf(&b, "・%s 在庫%s（消費%s）\n",
				item.Name, domain.FormatAmount(item.Stock), domain.FormatAmount(item.Consume))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
