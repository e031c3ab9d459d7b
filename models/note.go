package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is a dashboard to-do item, manually ordered.
type Note struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Content     string `gorm:"not null"`
	IsCompleted bool   `gorm:"default:false"`
	Position    int    `gorm:"default:0"`

	CreatedAt time.Time
}
