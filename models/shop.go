package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a registered customer with a running credit ledger.
type Shop struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_shop_name,priority:1"`

	Name            string `gorm:"not null;uniqueIndex:idx_user_shop_name,priority:2"`
	LocationAddress string
	ContactPerson   string
	ContactPhone    string
	Email           string
	Notes           string
	IsActive        bool `gorm:"default:true"`

	FinancialTransactions []ShopFinancialTransaction `gorm:"foreignKey:ShopID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
