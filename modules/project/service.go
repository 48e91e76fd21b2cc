package project

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/taskboard/domain/apperr"
	domain "github.com/example/taskboard/domain/project"
	"github.com/google/uuid"
)

// Service implements owner-scoped project management.
type Service struct {
	repo *Repository
}

// NewService creates a new Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new project. Status defaults to active.
func (s *Service) Create(ctx context.Context, req CreateProjectRequest) (*domain.Project, error) {
	if req.OwnerID == "" {
		return nil, apperr.ErrUnauthorized
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	description := strings.TrimSpace(req.Description)
	if err := checkLengths(name, description); err != nil {
		return nil, err
	}
	status := domain.StatusActive
	if req.Status != "" {
		status = domain.Status(req.Status)
		if !status.Valid() {
			return nil, apperr.Validation("unknown status")
		}
	}

	now := time.Now()
	p := &domain.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Status:      status,
		OwnerID:     req.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// Get returns the project if the owner owns it.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.Project, error) {
	return s.repo.FindOwned(ctx, ownerID, id)
}

// List returns the owner's projects, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Project, error) {
	return s.repo.ListOwned(ctx, ownerID)
}

// Update applies the fields that are set.
func (s *Service) Update(ctx context.Context, req UpdateProjectRequest) (*domain.Project, error) {
	p, err := s.repo.FindOwned(ctx, req.OwnerID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		p.Name = name
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if err := checkLengths(p.Name, p.Description); err != nil {
		return nil, err
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		if !status.Valid() {
			return nil, apperr.Validation("unknown status")
		}
		p.Status = status
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// Delete removes one of the owner's projects. Linked tasks are kept without a project.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.DeleteOwned(ctx, ownerID, id)
}

// Count returns how many projects the owner has.
func (s *Service) Count(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.CountOwned(ctx, ownerID)
}

func checkLengths(name, description string) error {
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return apperr.Validation("name must be at most %d characters", domain.MaxNameLength)
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return apperr.Validation("description must be at most %d characters", domain.MaxDescriptionLength)
	}
	return nil
}
