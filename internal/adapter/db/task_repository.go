package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/yone-k/yone-discord-bot-sub002/internal/core/domain"
	"github.com/yone-k/yone-discord-bot-sub002/internal/core/ports"
)

const listTasksQuery = `
SELECT *
FROM reminder_tasks
WHERE channel_id = ?
ORDER BY created_at, id;
`

const findTaskByMessageIDQuery = `
SELECT *
FROM reminder_tasks
WHERE channel_id = ? AND message_id = ?
LIMIT 1;
`

const insertTaskQuery = `
INSERT INTO reminder_tasks (
  id, channel_id, message_id, title, description,
  interval_days, time_of_day, remind_before_minutes,
  start_at, next_due_at, last_done_at,
  last_remind_due_at, overdue_notify_count, overdue_notify_limit, last_overdue_notified_at,
  inventory_items, is_paused, created_at, updated_at
) VALUES (
  :id, :channel_id, :message_id, :title, :description,
  :interval_days, :time_of_day, :remind_before_minutes,
  :start_at, :next_due_at, :last_done_at,
  :last_remind_due_at, :overdue_notify_count, :overdue_notify_limit, :last_overdue_notified_at,
  :inventory_items, :is_paused, :created_at, :updated_at
);
`

const updateTaskQuery = `
UPDATE reminder_tasks SET
  message_id = :message_id,
  title = :title,
  description = :description,
  interval_days = :interval_days,
  time_of_day = :time_of_day,
  remind_before_minutes = :remind_before_minutes,
  start_at = :start_at,
  next_due_at = :next_due_at,
  last_done_at = :last_done_at,
  last_remind_due_at = :last_remind_due_at,
  overdue_notify_count = :overdue_notify_count,
  overdue_notify_limit = :overdue_notify_limit,
  last_overdue_notified_at = :last_overdue_notified_at,
  inventory_items = :inventory_items,
  is_paused = :is_paused,
  updated_at = :updated_at
WHERE channel_id = :channel_id AND id = :id;
`

const deleteTaskQuery = `
DELETE FROM reminder_tasks
WHERE channel_id = ? AND id = ?;
`

type TaskRepository struct {
	db *sqlx.DB
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type taskRow struct {
	ID                    string         `db:"id"`
	ChannelID             string         `db:"channel_id"`
	MessageID             sql.NullString `db:"message_id"`
	Title                 string         `db:"title"`
	Description           sql.NullString `db:"description"`
	IntervalDays          int            `db:"interval_days"`
	TimeOfDay             string         `db:"time_of_day"`
	RemindBeforeMinutes   int            `db:"remind_before_minutes"`
	StartAt               time.Time      `db:"start_at"`
	NextDueAt             time.Time      `db:"next_due_at"`
	LastDoneAt            sql.NullTime   `db:"last_done_at"`
	LastRemindDueAt       sql.NullTime   `db:"last_remind_due_at"`
	OverdueNotifyCount    int            `db:"overdue_notify_count"`
	OverdueNotifyLimit    sql.NullInt64  `db:"overdue_notify_limit"`
	LastOverdueNotifiedAt sql.NullTime   `db:"last_overdue_notified_at"`
	InventoryItems        []byte         `db:"inventory_items"`
	IsPaused              bool           `db:"is_paused"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

// inventoryItemRecord keeps amounts as strings in the JSON column so the
// one-decimal values round-trip without float drift.
type inventoryItemRecord struct {
	Name    string `json:"name"`
	Stock   string `json:"stock"`
	Consume string `json:"consume"`
}

func (r *TaskRepository) ListTasks(ctx context.Context, channelID string) ([]domain.ReminderTask, error) {
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, listTasksQuery, channelID); err != nil {
		return nil, err
	}

	tasks := make([]domain.ReminderTask, 0, len(rows))
	for _, row := range rows {
		task, err := mapTaskRowToDomainTask(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *TaskRepository) FindTaskByMessageID(ctx context.Context, channelID, messageID string) (*domain.ReminderTask, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, findTaskByMessageIDQuery, channelID, messageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task, err := mapTaskRowToDomainTask(row)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) AppendTask(ctx context.Context, task domain.ReminderTask) error {
	row, err := mapDomainTaskToRow(task)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExecContext(ctx, insertTaskQuery, row)
	return err
}

func (r *TaskRepository) UpdateTask(ctx context.Context, task domain.ReminderTask) error {
	row, err := mapDomainTaskToRow(task)
	if err != nil {
		return err
	}
	res, err := r.db.NamedExecContext(ctx, updateTaskQuery, row)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, channelID, taskID string) error {
	res, err := r.db.ExecContext(ctx, deleteTaskQuery, channelID, taskID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func mapTaskRowToDomainTask(row taskRow) (domain.ReminderTask, error) {
	task := domain.ReminderTask{
		ID:                  row.ID,
		ChannelID:           row.ChannelID,
		Title:               row.Title,
		IntervalDays:        row.IntervalDays,
		TimeOfDay:           row.TimeOfDay,
		RemindBeforeMinutes: row.RemindBeforeMinutes,
		StartAt:             row.StartAt,
		NextDueAt:           row.NextDueAt,
		OverdueNotifyCount:  row.OverdueNotifyCount,
		IsPaused:            row.IsPaused,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}

	if row.MessageID.Valid {
		value := row.MessageID.String
		task.MessageID = &value
	}
	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}
	if row.LastDoneAt.Valid {
		value := row.LastDoneAt.Time
		task.LastDoneAt = &value
	}
	if row.LastRemindDueAt.Valid {
		value := row.LastRemindDueAt.Time
		task.LastRemindDueAt = &value
	}
	if row.OverdueNotifyLimit.Valid {
		value := int(row.OverdueNotifyLimit.Int64)
		task.OverdueNotifyLimit = &value
	}
	if row.LastOverdueNotifiedAt.Valid {
		value := row.LastOverdueNotifiedAt.Time
		task.LastOverdueNotifiedAt = &value
	}

	items, err := unmarshalInventoryItems(row.InventoryItems)
	if err != nil {
		return domain.ReminderTask{}, fmt.Errorf("task %s: %w", row.ID, err)
	}
	task.InventoryItems = items

	return task, nil
}

func mapDomainTaskToRow(task domain.ReminderTask) (taskRow, error) {
	inventory, err := marshalInventoryItems(task.InventoryItems)
	if err != nil {
		return taskRow{}, fmt.Errorf("task %s: %w", task.ID, err)
	}

	row := taskRow{
		ID:                  task.ID,
		ChannelID:           task.ChannelID,
		Title:               task.Title,
		IntervalDays:        task.IntervalDays,
		TimeOfDay:           task.TimeOfDay,
		RemindBeforeMinutes: task.RemindBeforeMinutes,
		StartAt:             task.StartAt.UTC(),
		NextDueAt:           task.NextDueAt.UTC(),
		OverdueNotifyCount:  task.OverdueNotifyCount,
		InventoryItems:      inventory,
		IsPaused:            task.IsPaused,
		CreatedAt:           task.CreatedAt.UTC(),
		UpdatedAt:           task.UpdatedAt.UTC(),
	}

	if task.MessageID != nil {
		row.MessageID = sql.NullString{String: *task.MessageID, Valid: true}
	}
	if task.Description != nil {
		row.Description = sql.NullString{String: *task.Description, Valid: true}
	}
	if task.LastDoneAt != nil {
		row.LastDoneAt = sql.NullTime{Time: task.LastDoneAt.UTC(), Valid: true}
	}
	if task.LastRemindDueAt != nil {
		row.LastRemindDueAt = sql.NullTime{Time: task.LastRemindDueAt.UTC(), Valid: true}
	}
	if task.OverdueNotifyLimit != nil {
		row.OverdueNotifyLimit = sql.NullInt64{Int64: int64(*task.OverdueNotifyLimit), Valid: true}
	}
	if task.LastOverdueNotifiedAt != nil {
		row.LastOverdueNotifiedAt = sql.NullTime{Time: task.LastOverdueNotifiedAt.UTC(), Valid: true}
	}

	return row, nil
}

func marshalInventoryItems(items []domain.InventoryItem) ([]byte, error) {
	records := make([]inventoryItemRecord, len(items))
	for i, item := range items {
		records[i] = inventoryItemRecord{
			Name:    item.Name,
			Stock:   item.Stock.String(),
			Consume: item.Consume.String(),
		}
	}
	return json.Marshal(records)
}

func unmarshalInventoryItems(data []byte) ([]domain.InventoryItem, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []inventoryItemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	items := make([]domain.InventoryItem, len(records))
	for i, record := range records {
		stock, err := decimal.NewFromString(record.Stock)
		if err != nil {
			return nil, fmt.Errorf("decode inventory stock %q: %w", record.Stock, err)
		}
		consume, err := decimal.NewFromString(record.Consume)
		if err != nil {
			return nil, fmt.Errorf("decode inventory consume %q: %w", record.Consume, err)
		}
		items[i] = domain.InventoryItem{Name: record.Name, Stock: stock, Consume: consume}
	}
	return items, nil
}
