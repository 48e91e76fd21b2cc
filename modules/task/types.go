package task

import (
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/domain/user"
)

// CreateTaskInput creates a task for CreatorID.
type CreateTaskInput struct {
	CreatorID   string     `json:"creator_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssigneeIDs []string   `json:"assignee_ids,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty"`
}

// TaskPatch holds the task fields to change. Nil fields are left alone.
type TaskPatch struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Completed     *bool      `json:"completed,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ClearDeadline bool       `json:"clear_deadline,omitempty"`
}

// UpdateTaskRequest patches one task on behalf of UserID.
type UpdateTaskRequest struct {
	UserID string    `json:"user_id"`
	TaskID string    `json:"task_id"`
	Patch  TaskPatch `json:"patch"`
}

// TaskRef identifies a task as seen by UserID.
type TaskRef struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// ListTasksRequest lists the tasks visible to UserID.
type ListTasksRequest struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	View   domain.View `json:"view,omitempty"`
}

// TaskResponse is a task with creator and assignees expanded.
type TaskResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Completed   bool           `json:"completed"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	Creator     user.Summary   `json:"creator"`
	Assignees   []user.Summary `json:"assignees"`
	ProjectID   *string        `json:"project_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ListTasksResponse lists tasks newest first.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// DeleteTaskResponse reports a deletion.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// StatsRequest asks for the task counts of UserID.
type StatsRequest struct {
	UserID string `json:"user_id"`
}

// StatsResponse holds task counts over the tasks visible to a user.
type StatsResponse struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

func toTaskResponse(t *domain.Task) TaskResponse {
	assignees := make([]user.Summary, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		assignees = append(assignees, a.ToSummary())
	}
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Deadline:    t.Deadline,
		Creator:     t.Creator.ToSummary(),
		Assignees:   assignees,
		ProjectID:   t.ProjectID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
