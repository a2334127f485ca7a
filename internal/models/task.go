package models

import "github.com/monocle-dev/taskboard/internal/types"

type Task struct {
	BaseModel

	Title       string         `gorm:"uniqueIndex;not null" json:"title"`
	Description string         `json:"description"`
	Status      types.Status   `gorm:"not null;index" json:"status"`
	Priority    types.Priority `gorm:"not null" json:"priority"`
	AssignedTo  *uint          `gorm:"index" json:"assignedTo"`
	UpdatedBy   *uint          `json:"updatedBy"`
	Version     int            `gorm:"not null" json:"version"`

	// Relationships (no FK constraint, references are weak)
	Assignee *User `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}
