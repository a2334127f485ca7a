package models

import (
	"time"

	"github.com/monocle-dev/taskboard/internal/types"
	"gorm.io/datatypes"
)

// ActionLog is append-only. Rows are never updated and survive deletion of
// the task or user they point at.
type ActionLog struct {
	ID        uint             `gorm:"primaryKey"`
	Action    types.ActionKind `gorm:"not null;index"`
	UserID    *uint            `gorm:"index"`
	TaskID    *uint            `gorm:"index"`
	Details   string
	Changes   datatypes.JSON
	CreatedAt time.Time `gorm:"not null;index"`

	// Relationships
	User *User `gorm:"foreignKey:UserID"`
	Task *Task `gorm:"foreignKey:TaskID"`
}
