package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskboard/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the task operations available to driving adapters such as the HTTP API.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskInput) (*TaskResponse, error)
	AssignTask(ctx context.Context, req *CreateTaskInput) (*TaskResponse, error)
	GetTask(ctx context.Context, userID, taskID string) (*TaskResponse, error)
	ListTasks(ctx context.Context, userID, email string, view domain.View) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	ToggleTask(ctx context.Context, userID, taskID string) (*TaskResponse, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	Stats(ctx context.Context, userID string) (*StatsResponse, error)
}

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

// CreateTask creates a task, self-assigned when no assignees are given.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskInput) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(ctx, a.container, "create-task", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AssignTask creates a task for an explicit set of assignees.
func (a *taskAdapter) AssignTask(ctx context.Context, req *CreateTaskInput) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(ctx, a.container, "assign-task", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTask retrieves a task visible to the user.
func (a *taskAdapter) GetTask(ctx context.Context, userID, taskID string) (*TaskResponse, error) {
	req := TaskRef{UserID: userID, TaskID: taskID}
	var resp TaskResponse
	if err := call(ctx, a.container, "get-task", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTasks lists the tasks visible to the user, optionally narrowed by view.
func (a *taskAdapter) ListTasks(ctx context.Context, userID, email string, view domain.View) (*ListTasksResponse, error) {
	req := ListTasksRequest{UserID: userID, Email: email, View: view}
	var resp ListTasksResponse
	if err := call(ctx, a.container, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask patches a task.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(ctx, a.container, "update-task", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleTask flips a task's completion.
func (a *taskAdapter) ToggleTask(ctx context.Context, userID, taskID string) (*TaskResponse, error) {
	req := TaskRef{UserID: userID, TaskID: taskID}
	var resp TaskResponse
	if err := call(ctx, a.container, "toggle-task", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTask deletes a task.
func (a *taskAdapter) DeleteTask(ctx context.Context, userID, taskID string) error {
	req := TaskRef{UserID: userID, TaskID: taskID}
	var resp DeleteTaskResponse
	if err := call(ctx, a.container, "delete-task", &req, &resp); err != nil {
		return err
	}
	if !resp.Deleted {
		return fmt.Errorf("task not deleted: %s", taskID)
	}
	return nil
}

// Stats returns task counts for the user.
func (a *taskAdapter) Stats(ctx context.Context, userID string) (*StatsResponse, error) {
	req := StatsRequest{UserID: userID}
	var resp StatsResponse
	if err := call(ctx, a.container, "task-stats", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
