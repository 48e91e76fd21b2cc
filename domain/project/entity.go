package project

import (
	"time"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

// Column limits for user-supplied text, in characters.
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
)

// Project is a named grouping of tasks owned by a single user.
type Project struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:200;not null"`
	Description string `gorm:"size:2000"`
	Status      Status `gorm:"size:20;not null;default:active"`
	OwnerID     string `gorm:"size:36;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for Project model.
func (Project) TableName() string {
	return "projects"
}
