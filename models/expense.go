package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a single expense record; daily summaries aggregate these.
type Expense struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Title       string          `gorm:"not null"` // e.g. "Office Rent", "Fuel for ABC-123"
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpenseDate time.Time       `gorm:"index;default:CURRENT_TIMESTAMP"`
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}
