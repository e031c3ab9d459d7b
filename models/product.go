package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the base catalog entry ("Cola", "Mineral Water"). Purchasable
// batches live in ProductDetail.
type Product struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product_name,priority:1"`

	Name        string `gorm:"not null;uniqueIndex:idx_user_product_name,priority:2"`
	Description string

	Details []ProductDetail `gorm:"foreignKey:ProductBaseID;constraint:OnDelete:RESTRICT"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
