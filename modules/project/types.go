package project

import (
	"time"

	domain "github.com/example/taskboard/domain/project"
)

// CreateProjectRequest creates a project owned by OwnerID.
type CreateProjectRequest struct {
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

// UpdateProjectRequest changes the fields that are set.
type UpdateProjectRequest struct {
	OwnerID     string  `json:"owner_id"`
	ProjectID   string  `json:"project_id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ProjectRef identifies one of the owner's projects.
type ProjectRef struct {
	OwnerID   string `json:"owner_id"`
	ProjectID string `json:"project_id"`
}

// OwnerRequest scopes a call to one owner.
type OwnerRequest struct {
	OwnerID string `json:"owner_id"`
}

// ProjectResponse is the wire form of a project.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListProjectsResponse lists the owner's projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// DeleteProjectResponse reports a deletion.
type DeleteProjectResponse struct {
	Deleted bool `json:"deleted"`
}

// CountResponse carries a count.
type CountResponse struct {
	Count int64 `json:"count"`
}

func toProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
