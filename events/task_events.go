package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a task is created, with or without explicit assignees.
type TaskCreatedEvent struct {
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	CreatorID   string    `json:"creator_id"`
	CreatorName string    `json:"creator_name"`
	AssigneeIDs []string  `json:"assignee_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskToggledEvent is emitted when a task's completion flag changes.
type TaskToggledEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	CreatorID string    `json:"creator_id"`
	ActorID   string    `json:"actor_id"`
	Completed bool      `json:"completed"`
	ToggledAt time.Time `json:"toggled_at"`
}

// TaskToggledV1 is the typed event definition for completion changes.
// Subject: events.task.v1.task-toggled
var TaskToggledV1 = helper.EventDefinition[TaskToggledEvent](
	"task", "TaskToggled", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	ActorID     string    `json:"actor_id"`
	AssigneeIDs []string  `json:"assignee_ids"`
	CreatorID   string    `json:"creator_id"`
	DeletedAt   time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)
