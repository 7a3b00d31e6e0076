package domain

import "time"

// ShouldSendPreReminder reports whether the advance notice is due at now.
// The window is [NextDueAt - RemindBeforeMinutes, NextDueAt]; a pre-reminder
// fires at most once per NextDueAt value, tracked through LastRemindDueAt.
func ShouldSendPreReminder(task ReminderTask, now time.Time) bool {
	if task.IsPaused {
		return false
	}
	windowStart := task.NextDueAt.Add(-time.Duration(task.RemindBeforeMinutes) * time.Minute)
	if now.Before(windowStart) || now.After(task.NextDueAt) {
		return false
	}
	if task.LastRemindDueAt != nil && task.LastRemindDueAt.Equal(task.NextDueAt) {
		return false
	}
	return true
}

// ShouldSendOverdue reports whether an overdue notice is due at now. The
// window opens strictly after NextDueAt, is capped per due cycle by
// EffectiveOverdueLimit, and fires at most once per home-zone calendar day.
func ShouldSendOverdue(task ReminderTask, now time.Time) bool {
	if task.IsPaused {
		return false
	}
	if !now.After(task.NextDueAt) {
		return false
	}
	if task.OverdueNotifyCount >= task.EffectiveOverdueLimit() {
		return false
	}
	if task.LastOverdueNotifiedAt != nil && SameHomeDay(*task.LastOverdueNotifiedAt, now) {
		return false
	}
	return true
}
