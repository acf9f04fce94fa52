package models

import "time"

// BaseModel replaces gorm.Model: rows are hard-deleted so cascades are real.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
