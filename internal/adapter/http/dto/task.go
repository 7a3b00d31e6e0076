package dto

type InventoryItem struct {
	Name    string `json:"name"`
	Stock   string `json:"stock"`
	Consume string `json:"consume"`
}

type TaskItem struct {
	ID                    string          `json:"id"`
	ChannelID             string          `json:"channel_id"`
	MessageID             *string         `json:"message_id,omitempty"`
	Title                 string          `json:"title"`
	Description           *string         `json:"description,omitempty"`
	IntervalDays          int             `json:"interval_days"`
	TimeOfDay             string          `json:"time_of_day"`
	RemindBeforeMinutes   int             `json:"remind_before_minutes"`
	StartAt               string          `json:"start_at"`
	NextDueAt             string          `json:"next_due_at"`
	LastDoneAt            *string         `json:"last_done_at,omitempty"`
	OverdueNotifyCount    int             `json:"overdue_notify_count"`
	OverdueNotifyLimit    *int            `json:"overdue_notify_limit,omitempty"`
	LastOverdueNotifiedAt *string         `json:"last_overdue_notified_at,omitempty"`
	InventoryItems        []InventoryItem `json:"inventory_items,omitempty"`
	IsPaused              bool            `json:"is_paused"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title        string  `json:"title" binding:"required,max=255"`
	Description  *string `json:"description" binding:"omitempty,max=65535"`
	IntervalDays int     `json:"interval_days" binding:"required,gte=1"`
	TimeOfDay    string  `json:"time_of_day" binding:"required"`
	// RemindBefore uses the "HH:MM" / "D:HH:MM" input grammar.
	RemindBefore *string `json:"remind_before" binding:"omitempty"`
	// Inventory is the raw line-item text ("name,消費x,在庫y" per line).
	Inventory *string `json:"inventory" binding:"omitempty"`
}

type UpdateTaskRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	IntervalDays       *int    `json:"interval_days"`
	TimeOfDay          *string `json:"time_of_day"`
	RemindBefore       *string `json:"remind_before"`
	NextDueAt          *string `json:"next_due_at"`
	Inventory          *string `json:"inventory"`
	IsPaused           *bool   `json:"is_paused"`
	OverdueNotifyLimit *int    `json:"overdue_notify_limit"`
}

type CompleteTaskRequest struct {
	MessageID string `json:"message_id" binding:"required"`
}

type CompleteTaskResponse struct {
	Completed bool   `json:"completed"`
	Message   string `json:"message"`
}
