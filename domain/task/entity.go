package task

import (
	"time"

	"github.com/example/taskboard/domain/user"
)

// Column limits for user-supplied text, in characters.
const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 5000
)

// Task is a unit of work created by one user and assigned to one or more users.
type Task struct {
	ID          string      `gorm:"primaryKey;size:36"`
	Title       string      `gorm:"size:500;not null"`
	Description string      `gorm:"size:5000"`
	Completed   bool        `gorm:"not null;default:false"`
	Deadline    *time.Time
	CreatorID   string      `gorm:"size:36;not null;index"`
	Creator     user.User   `gorm:"foreignKey:CreatorID"`
	Assignees   []user.User `gorm:"many2many:task_assignees;"`
	ProjectID   *string     `gorm:"size:36;index"`
	CreatedAt   time.Time   `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName returns the table name for Task model.
func (Task) TableName() string {
	return "tasks"
}
