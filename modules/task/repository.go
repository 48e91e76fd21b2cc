package task

import (
	"context"
	"errors"
	"time"

	"github.com/example/taskboard/domain/apperr"
	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/domain/user"
	"gorm.io/gorm"
)

// Repository persists tasks and their assignee links.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// visibleTo restricts a query to tasks the user created or is assigned to.
func (r *Repository) visibleTo(userID string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		assigned := r.db.Table("task_assignees").Select("task_id").Where("user_id = ?", userID)
		return q.Where("tasks.creator_id = ? OR tasks.id IN (?)", userID, assigned)
	}
}

func withPeople(q *gorm.DB) *gorm.DB {
	return q.Preload("Creator").Preload("Assignees", func(db *gorm.DB) *gorm.DB {
		return db.Order("name ASC")
	})
}

// FindUsers loads the users with the given ids. Unknown ids are skipped.
func (r *Repository) FindUsers(ctx context.Context, ids []string) ([]user.User, error) {
	var users []user.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Create inserts the task and links its assignees. The users themselves are not written.
func (r *Repository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Omit("Creator", "Assignees.*").Create(t).Error
}

// FindVisible returns the task with people expanded if the user may see it.
func (r *Repository) FindVisible(ctx context.Context, userID, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).
		Scopes(withPeople, r.visibleTo(userID)).
		Where("tasks.id = ?", id).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task")
		}
		return nil, err
	}
	return &t, nil
}

// ListVisible returns every task the user may see, newest first.
func (r *Repository) ListVisible(ctx context.Context, userID string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Scopes(withPeople, r.visibleTo(userID)).
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// Update writes the given columns of a visible task.
func (r *Repository) Update(ctx context.Context, userID, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Scopes(r.visibleTo(userID)).
		Where("tasks.id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("task")
	}
	return nil
}

// Toggle flips the completed flag in a single statement.
func (r *Repository) Toggle(ctx context.Context, userID, id string) error {
	return r.Update(ctx, userID, id, map[string]any{
		"completed": gorm.Expr("NOT completed"),
	})
}

// Delete removes a task together with its assignee links.
func (r *Repository) Delete(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(t).Association("Assignees").Clear(); err != nil {
			return err
		}
		result := tx.Delete(&domain.Task{}, "id = ?", t.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("task")
		}
		return nil
	})
}

// Counts returns how many visible tasks the user has, and how many of them are completed.
func (r *Repository) Counts(ctx context.Context, userID string) (total, completed int64, err error) {
	if err = r.db.WithContext(ctx).Model(&domain.Task{}).
		Scopes(r.visibleTo(userID)).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.WithContext(ctx).Model(&domain.Task{}).
		Scopes(r.visibleTo(userID)).
		Where("tasks.completed = ?", true).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}
