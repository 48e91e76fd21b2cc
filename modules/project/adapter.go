package project

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ProjectPort is the contract other modules use to reach project services.
type ProjectPort interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*ProjectResponse, error)
	GetProject(ctx context.Context, ownerID, projectID string) (*ProjectResponse, error)
	ListProjects(ctx context.Context, ownerID string) ([]ProjectResponse, error)
	UpdateProject(ctx context.Context, req *UpdateProjectRequest) (*ProjectResponse, error)
	DeleteProject(ctx context.Context, ownerID, projectID string) error
	CountProjects(ctx context.Context, ownerID string) (int64, error)
}

type projectAdapter struct {
	container mono.ServiceContainer
}

// NewProjectAdapter creates a new adapter for project services.
func NewProjectAdapter(container mono.ServiceContainer) ProjectPort {
	if container == nil {
		panic("project adapter requires non-nil ServiceContainer")
	}
	return &projectAdapter{container: container}
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

func (a *projectAdapter) CreateProject(ctx context.Context, req *CreateProjectRequest) (*ProjectResponse, error) {
	var resp ProjectResponse
	if err := call(ctx, a.container, "create-project", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *projectAdapter) GetProject(ctx context.Context, ownerID, projectID string) (*ProjectResponse, error) {
	req := ProjectRef{OwnerID: ownerID, ProjectID: projectID}
	var resp ProjectResponse
	if err := call(ctx, a.container, "get-project", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *projectAdapter) ListProjects(ctx context.Context, ownerID string) ([]ProjectResponse, error) {
	req := OwnerRequest{OwnerID: ownerID}
	var resp ListProjectsResponse
	if err := call(ctx, a.container, "list-projects", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (a *projectAdapter) UpdateProject(ctx context.Context, req *UpdateProjectRequest) (*ProjectResponse, error) {
	var resp ProjectResponse
	if err := call(ctx, a.container, "update-project", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *projectAdapter) DeleteProject(ctx context.Context, ownerID, projectID string) error {
	req := ProjectRef{OwnerID: ownerID, ProjectID: projectID}
	var resp DeleteProjectResponse
	if err := call(ctx, a.container, "delete-project", &req, &resp); err != nil {
		return err
	}
	if !resp.Deleted {
		return fmt.Errorf("project not deleted: %s", projectID)
	}
	return nil
}

func (a *projectAdapter) CountProjects(ctx context.Context, ownerID string) (int64, error) {
	req := OwnerRequest{OwnerID: ownerID}
	var resp CountResponse
	if err := call(ctx, a.container, "count-projects", &req, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
