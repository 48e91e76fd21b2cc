package api

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/example/taskboard/domain/apperr"
	domaintask "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/domain/user"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/notification"
	"github.com/example/taskboard/modules/project"
	"github.com/example/taskboard/modules/task"
	monoerrors "github.com/go-monolith/mono/pkg/errors"
)

var errNotImplemented = errors.New("not implemented")

// remote reproduces what an adapter returns when a request-reply handler fails with err.
func remote(service string, err error) error {
	return fmt.Errorf("%s service call failed: failed to call service '%s': %w",
		service, service, monoerrors.WrapRemoteError(service, "test", err.Error(), "wrap"))
}

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	registerFunc      func(ctx context.Context, req auth.RegisterRequest) (*auth.UserResponse, error)
	loginFunc         func(ctx context.Context, email, password string) (*auth.LoginResponse, error)
	validateTokenFunc func(ctx context.Context, token string) (*user.Claims, error)
	listUsersFunc     func(ctx context.Context, excludeUserID string) ([]user.Summary, error)
}

func (m *mockAuthPort) Register(ctx context.Context, req auth.RegisterRequest) (*auth.UserResponse, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Login(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Refresh(_ context.Context, _ string) (*user.TokenPair, error) {
	return nil, errNotImplemented
}

func (m *mockAuthPort) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, token)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) GetUser(_ context.Context, userID string) (*auth.UserResponse, error) {
	return &auth.UserResponse{ID: userID}, nil
}

func (m *mockAuthPort) ListUsers(ctx context.Context, excludeUserID string) ([]user.Summary, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx, excludeUserID)
	}
	return nil, errNotImplemented
}

// mockTaskPort implements task.TaskPort and records created tasks.
type mockTaskPort struct {
	mu      sync.Mutex
	created []task.CreateTaskInput

	createErr  error
	listFunc   func(ctx context.Context, userID, email string, view domaintask.View) (*task.ListTasksResponse, error)
	getErr     error
	toggleFunc func(ctx context.Context, userID, taskID string) (*task.TaskResponse, error)
	updated    *task.UpdateTaskRequest
	stats      task.StatsResponse
}

func (m *mockTaskPort) CreateTask(_ context.Context, req *task.CreateTaskInput) (*task.TaskResponse, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	m.created = append(m.created, *req)
	m.mu.Unlock()
	return &task.TaskResponse{ID: "task-" + req.Title, Title: req.Title, Creator: user.Summary{ID: req.CreatorID}}, nil
}

func (m *mockTaskPort) AssignTask(ctx context.Context, req *task.CreateTaskInput) (*task.TaskResponse, error) {
	return m.CreateTask(ctx, req)
}

func (m *mockTaskPort) GetTask(_ context.Context, _, taskID string) (*task.TaskResponse, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &task.TaskResponse{ID: taskID}, nil
}

func (m *mockTaskPort) ListTasks(ctx context.Context, userID, email string, view domaintask.View) (*task.ListTasksResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, email, view)
	}
	return &task.ListTasksResponse{}, nil
}

func (m *mockTaskPort) UpdateTask(_ context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error) {
	m.updated = req
	return &task.TaskResponse{ID: req.TaskID}, nil
}

func (m *mockTaskPort) ToggleTask(ctx context.Context, userID, taskID string) (*task.TaskResponse, error) {
	if m.toggleFunc != nil {
		return m.toggleFunc(ctx, userID, taskID)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) DeleteTask(_ context.Context, _, _ string) error {
	return nil
}

func (m *mockTaskPort) Stats(_ context.Context, _ string) (*task.StatsResponse, error) {
	stats := m.stats
	return &stats, nil
}

// mockProjectPort implements project.ProjectPort for testing
type mockProjectPort struct {
	count int64
}

func (m *mockProjectPort) CreateProject(_ context.Context, req *project.CreateProjectRequest) (*project.ProjectResponse, error) {
	return &project.ProjectResponse{ID: "p1", Name: req.Name, OwnerID: req.OwnerID}, nil
}

func (m *mockProjectPort) GetProject(_ context.Context, _, _ string) (*project.ProjectResponse, error) {
	return nil, remote("get-project", apperr.NotFound("project"))
}

func (m *mockProjectPort) ListProjects(_ context.Context, _ string) ([]project.ProjectResponse, error) {
	return nil, nil
}

func (m *mockProjectPort) UpdateProject(_ context.Context, _ *project.UpdateProjectRequest) (*project.ProjectResponse, error) {
	return nil, errNotImplemented
}

func (m *mockProjectPort) DeleteProject(_ context.Context, _, _ string) error {
	return nil
}

func (m *mockProjectPort) CountProjects(_ context.Context, _ string) (int64, error) {
	return m.count, nil
}

// suggestFunc adapts a function to suggest.SuggestPort.
type suggestFunc func(ctx context.Context, keyword string) ([]string, error)

func (f suggestFunc) Suggest(ctx context.Context, keyword string) ([]string, error) {
	return f(ctx, keyword)
}

// mockNotificationPort implements notification.NotificationPort for testing
type mockNotificationPort struct {
	items map[string][]notification.Notification
}

func (m *mockNotificationPort) List(_ context.Context, userID string) ([]notification.Notification, error) {
	return m.items[userID], nil
}
