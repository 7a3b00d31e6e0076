package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultOverdueNotifyLimit caps overdue notices per due cycle when a task
// does not carry its own limit.
const DefaultOverdueNotifyLimit = 5

// InventoryItem is one consumable tracked by a task. Stock and Consume are
// kept at one decimal place; every mutation re-rounds.
type InventoryItem struct {
	Name    string
	Stock   decimal.Decimal
	Consume decimal.Decimal
}

type ReminderTask struct {
	ID        string
	ChannelID string
	// MessageID is the rendered task card in the channel; nil until the
	// first successful render.
	MessageID *string

	Title               string
	Description         *string
	IntervalDays        int
	TimeOfDay           string // "HH:MM", home zone
	RemindBeforeMinutes int

	StartAt    time.Time
	NextDueAt  time.Time
	LastDoneAt *time.Time

	// LastRemindDueAt holds the NextDueAt value a pre-reminder was already
	// sent for. It is only ever set to a prior NextDueAt.
	LastRemindDueAt       *time.Time
	OverdueNotifyCount    int
	OverdueNotifyLimit    *int
	LastOverdueNotifiedAt *time.Time

	InventoryItems []InventoryItem

	IsPaused bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t ReminderTask) EffectiveOverdueLimit() int {
	if t.OverdueNotifyLimit != nil {
		return *t.OverdueNotifyLimit
	}
	return DefaultOverdueNotifyLimit
}

// NoticeBinding points at the per-channel notice thread: the thread itself
// and the parent message the thread was started from.
type NoticeBinding struct {
	ThreadID        *string
	ParentMessageID *string
}

func (b NoticeBinding) Equal(other NoticeBinding) bool {
	return equalStringPtr(b.ThreadID, other.ThreadID) &&
		equalStringPtr(b.ParentMessageID, other.ParentMessageID)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type ChannelSettings struct {
	ChannelID     string
	NoticeBinding NoticeBinding
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateTaskInput struct {
	Title               string
	Description         *string
	IntervalDays        int
	TimeOfDay           string
	RemindBeforeMinutes int
	InventoryItems      []InventoryItem
}

type UpdateTaskInput struct {
	Title                 *string
	Description           *string
	DescriptionSet        bool
	IntervalDays          *int
	TimeOfDay             *string
	RemindBeforeMinutes   *int
	NextDueAt             *time.Time
	InventoryItems        []InventoryItem
	InventoryItemsSet     bool
	IsPaused              *bool
	OverdueNotifyLimit    *int
	OverdueNotifyLimitSet bool
}

// CompleteResult is what a user-triggered completion reports back. Expected
// rejections (shortage, paused) come back with Completed=false rather than
// as errors.
type CompleteResult struct {
	Completed     bool
	Message       string
	DepletedItems []InventoryItem
	Task          *ReminderTask
}
