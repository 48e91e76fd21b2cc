package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/taskboard/events"
	"github.com/example/taskboard/modules/database"
	"github.com/example/taskboard/modules/project"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskModule provides task services (core domain).
type TaskModule struct {
	database    *database.PluginModule
	projectPort project.ProjectPort
	eventBus    mono.EventBus
	service     *Service
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.DependentModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.UsePluginModule = (*TaskModule)(nil)

func NewModule() *TaskModule {
	return &TaskModule{}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) Dependencies() []string {
	return []string{"project"}
}

func (m *TaskModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "project" {
		m.projectPort = project.NewProjectAdapter(container)
	}
}

func (m *TaskModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "database" {
		return
	}
	if db, ok := plugin.(*database.PluginModule); ok {
		m.database = db
	}
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskToggledV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "assign-task", json.Unmarshal, json.Marshal, m.assignTask,
	); err != nil {
		return fmt.Errorf("failed to register assign-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "toggle-task", json.Unmarshal, json.Marshal, m.toggleTask,
	); err != nil {
		return fmt.Errorf("failed to register toggle-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "task-stats", json.Unmarshal, json.Marshal, m.taskStats,
	); err != nil {
		return fmt.Errorf("failed to register task-stats service: %w", err)
	}

	log.Printf("[task] Registered services: create-task, assign-task, get-task, list-tasks, update-task, toggle-task, delete-task, task-stats")
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	if m.database == nil || m.database.DB() == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}
	if m.projectPort == nil {
		return fmt.Errorf("projectPort dependency not set")
	}
	if m.eventBus == nil {
		log.Println("[task] Warning: eventBus not set, events will not be published")
	}
	m.service = NewService(NewRepository(m.database.DB()), m.projectPort, m.eventBus)
	log.Println("[task] Module started (depends on: project)")
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	log.Println("[task] Module stopped")
	return nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskInput, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, req)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

func (m *TaskModule) assignTask(ctx context.Context, req CreateTaskInput, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.CreateAssigned(ctx, req)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

func (m *TaskModule) getTask(ctx context.Context, req TaskRef, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(ctx, req.UserID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.UserID, req.Email, req.View)
	if err != nil {
		return ListTasksResponse{}, err
	}
	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	return resp, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Update(ctx, req.UserID, req.TaskID, req.Patch)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

func (m *TaskModule) toggleTask(ctx context.Context, req TaskRef, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Toggle(ctx, req.UserID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req TaskRef, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.UserID, req.TaskID); err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

func (m *TaskModule) taskStats(ctx context.Context, req StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	return m.service.Stats(ctx, req.UserID)
}
