package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySummary is a cached rollup of one user's day: sales figures net of
// returns, expenses and receipts by payment type. It is derived data,
// regenerated whole (upsert) from sales, expenses and ledger entries, never
// partially updated.
type DailySummary struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_summary_date,priority:1"`

	SummaryDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_summary_date,priority:2"`

	TotalRevenue  decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	TotalProfit   decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	TotalExpenses decimal.Decimal `gorm:"type:decimal(12,2);default:0"`

	CashReceived   decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	OnlineReceived decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	CreditExtended decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	CashReceipts   decimal.Decimal `gorm:"type:decimal(12,2);default:0"` // ledger receipts from shops

	SalesCount int `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
