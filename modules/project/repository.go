package project

import (
	"context"
	"errors"

	"github.com/example/taskboard/domain/apperr"
	domain "github.com/example/taskboard/domain/project"
	"github.com/example/taskboard/domain/task"
	"gorm.io/gorm"
)

// Repository persists projects. Every query is scoped to the owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a project.
func (r *Repository) Create(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindOwned returns the project if ownerID owns it.
func (r *Repository) FindOwned(ctx context.Context, ownerID, id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project")
		}
		return nil, err
	}
	return &p, nil
}

// ListOwned returns the owner's projects, newest first.
func (r *Repository) ListOwned(ctx context.Context, ownerID string) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// Update saves all fields of an existing project.
func (r *Repository) Update(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DeleteOwned removes the project and unlinks its tasks.
func (r *Repository) DeleteOwned(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("project")
		}
		return tx.Model(&task.Task{}).
			Where("project_id = ?", id).
			Update("project_id", nil).Error
	})
}

// CountOwned returns how many projects ownerID has.
func (r *Repository) CountOwned(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}
