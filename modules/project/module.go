package project

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/taskboard/modules/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ProjectModule provides owner-scoped project services.
type ProjectModule struct {
	database *database.PluginModule
	service  *Service
}

var _ mono.Module = (*ProjectModule)(nil)
var _ mono.ServiceProviderModule = (*ProjectModule)(nil)
var _ mono.UsePluginModule = (*ProjectModule)(nil)

func NewModule() *ProjectModule {
	return &ProjectModule{}
}

func (m *ProjectModule) Name() string {
	return "project"
}

func (m *ProjectModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "database" {
		return
	}
	if db, ok := plugin.(*database.PluginModule); ok {
		m.database = db
	}
}

func (m *ProjectModule) Start(_ context.Context) error {
	if m.database == nil || m.database.DB() == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}
	m.service = NewService(NewRepository(m.database.DB()))
	log.Println("[project] Module started")
	return nil
}

func (m *ProjectModule) Stop(_ context.Context) error {
	log.Println("[project] Module stopped")
	return nil
}

func (m *ProjectModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-project", json.Unmarshal, json.Marshal, m.createProject,
	); err != nil {
		return fmt.Errorf("failed to register create-project service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-project", json.Unmarshal, json.Marshal, m.getProject,
	); err != nil {
		return fmt.Errorf("failed to register get-project service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-projects", json.Unmarshal, json.Marshal, m.listProjects,
	); err != nil {
		return fmt.Errorf("failed to register list-projects service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-project", json.Unmarshal, json.Marshal, m.updateProject,
	); err != nil {
		return fmt.Errorf("failed to register update-project service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-project", json.Unmarshal, json.Marshal, m.deleteProject,
	); err != nil {
		return fmt.Errorf("failed to register delete-project service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "count-projects", json.Unmarshal, json.Marshal, m.countProjects,
	); err != nil {
		return fmt.Errorf("failed to register count-projects service: %w", err)
	}

	log.Printf("[project] Registered services: create-project, get-project, list-projects, update-project, delete-project, count-projects")
	return nil
}

func (m *ProjectModule) createProject(ctx context.Context, req CreateProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.service.Create(ctx, req)
	if err != nil {
		return ProjectResponse{}, err
	}
	log.Printf("[project] Created project %s for owner %s", p.ID, p.OwnerID)
	return toProjectResponse(p), nil
}

func (m *ProjectModule) getProject(ctx context.Context, req ProjectRef, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.service.Get(ctx, req.OwnerID, req.ProjectID)
	if err != nil {
		return ProjectResponse{}, err
	}
	return toProjectResponse(p), nil
}

func (m *ProjectModule) listProjects(ctx context.Context, req OwnerRequest, _ *mono.Msg) (ListProjectsResponse, error) {
	projects, err := m.service.List(ctx, req.OwnerID)
	if err != nil {
		return ListProjectsResponse{}, err
	}
	resp := ListProjectsResponse{Projects: make([]ProjectResponse, 0, len(projects))}
	for i := range projects {
		resp.Projects = append(resp.Projects, toProjectResponse(&projects[i]))
	}
	return resp, nil
}

func (m *ProjectModule) updateProject(ctx context.Context, req UpdateProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	p, err := m.service.Update(ctx, req)
	if err != nil {
		return ProjectResponse{}, err
	}
	return toProjectResponse(p), nil
}

func (m *ProjectModule) deleteProject(ctx context.Context, req ProjectRef, _ *mono.Msg) (DeleteProjectResponse, error) {
	if err := m.service.Delete(ctx, req.OwnerID, req.ProjectID); err != nil {
		return DeleteProjectResponse{Deleted: false}, err
	}
	log.Printf("[project] Deleted project %s", req.ProjectID)
	return DeleteProjectResponse{Deleted: true}, nil
}

func (m *ProjectModule) countProjects(ctx context.Context, req OwnerRequest, _ *mono.Msg) (CountResponse, error) {
	n, err := m.service.Count(ctx, req.OwnerID)
	if err != nil {
		return CountResponse{}, err
	}
	return CountResponse{Count: n}, nil
}
