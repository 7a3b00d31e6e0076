package discord

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
)

func TestRenderTaskCard_UpcomingWithInventory(t *testing.T) {
	description := "浄水器のフィルター"
	task := domain.ReminderTask{
		Title:        "フィルター交換",
		Description:  &description,
		IntervalDays: 7,
		TimeOfDay:    "09:00",
		NextDueAt:    time.Date(2026, 1, 5, 9, 0, 0, 0, domain.HomeZone),
		InventoryItems: []domain.InventoryItem{
			{Name: "フィルター", Stock: decimal.RequireFromString("2.5"), Consume: decimal.RequireFromString("0.5")},
		},
	}
	now := time.Date(2026, 1, 4, 7, 30, 0, 0, domain.HomeZone)

	got := renderTaskCard(task, now)

	want := "📋 **フィルター交換**\n" +
		"浄水器のフィルター\n" +
		"次回期限: 2026-01-05 09:00（残り1日1時間30分）\n" +
		"周期: 7日 / 時刻: 09:00\n" +
		"在庫:\n" +
		"・フィルター 在庫2.5（消費0.5）"
	require.Equal(t, want, got)
}

func TestRenderTaskCard_OverduePausedTask(t *testing.T) {
	task := domain.ReminderTask{
		Title:        "掃除",
		IntervalDays: 3,
		TimeOfDay:    "08:00",
		NextDueAt:    time.Date(2026, 1, 5, 8, 0, 0, 0, domain.HomeZone),
		IsPaused:     true,
	}
	now := time.Date(2026, 1, 6, 12, 0, 0, 0, domain.HomeZone)

	got := renderTaskCard(task, now)

	want := "📋 **掃除**（⏸ 停止中）\n" +
		"次回期限: 2026-01-05 08:00（⚠️ 期限切れ）\n" +
		"周期: 3日 / 時刻: 08:00"
	require.Equal(t, want, got)
}

func TestRenderTaskCard_DueRightNow(t *testing.T) {
	task := domain.ReminderTask{
		Title:        "ゴミ出し",
		IntervalDays: 7,
		TimeOfDay:    "07:30",
		NextDueAt:    time.Date(2026, 1, 5, 7, 30, 0, 0, domain.HomeZone),
	}

	got := renderTaskCard(task, task.NextDueAt)
	require.Contains(t, got, "（残り0分）")
}
