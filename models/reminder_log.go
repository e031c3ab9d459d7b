package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditReminderLog records every outstanding-balance reminder sent to a
// shop, so a shop is not messaged twice in one day.
type CreditReminderLog struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	ShopID uuid.UUID `gorm:"type:uuid;index;not null"`

	Balance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Channel string          `gorm:"not null"` // "sms" or "whatsapp"
	Status  string          `gorm:"not null"` // "sent" or "failed"
	Error   string

	SentAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
