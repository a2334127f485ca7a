package models

import "time"

// BaseModel is gorm.Model without soft deletes: deleted rows are purged so a
// title frees up for reuse as soon as its task is gone.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
