package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	LedgerTypeCreditSale       = "CREDIT_SALE"
	LedgerTypeCashReceipt      = "CASH_RECEIPT"
	LedgerTypeOnline           = "ONLINE"
	LedgerTypeOpeningBalance   = "OPENING_BALANCE"
	LedgerTypeManualAdjustment = "MANUAL_ADJUSTMENT"
)

// ShopFinancialTransaction is one ledger entry for a credit account. The
// account identity is either a registered shop or a free-text customer name,
// never both.
//
// Balance is denormalized: it is computed once at insert time from the most
// recent prior entry for the same identity and stored. Editing or backfilling
// historical entries does NOT refresh later balances; that requires an
// explicit RecalcBalances pass. Entries with SourceSaleID set belong to a
// sale and only change through that sale's settlement or reversal.
type ShopFinancialTransaction struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	ShopID               *uuid.UUID `gorm:"type:uuid;index"`
	CustomerNameSnapshot string     `gorm:"index"`

	SourceSaleID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	TransactionType string          `gorm:"not null"`
	DebitAmount     decimal.Decimal `gorm:"type:decimal(12,2);default:0"` // increases what the customer owes
	CreditAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0"` // decreases it
	Balance         decimal.Decimal `gorm:"type:decimal(12,2);default:0"`

	Notes           string
	TransactionDate time.Time `gorm:"index;default:CURRENT_TIMESTAMP"`

	Shop       *Shop             `gorm:"foreignKey:ShopID"`
	SourceSale *SalesTransaction `gorm:"foreignKey:SourceSaleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFromSale reports whether this entry was generated by a sale and is
// therefore not independently editable.
func (t *ShopFinancialTransaction) IsFromSale() bool {
	return t.SourceSaleID != nil
}

// identityScope narrows a query to the entry's ledger identity.
func (t *ShopFinancialTransaction) identityScope(db *gorm.DB) *gorm.DB {
	q := db.Where("user_id = ?", t.UserID)
	if t.ShopID != nil {
		return q.Where("shop_id = ?", *t.ShopID)
	}
	return q.Where("shop_id IS NULL AND customer_name_snapshot = ?", t.CustomerNameSnapshot)
}

// BeforeCreate assigns the running balance from the latest prior entry for
// the same identity (ordered by date, pk as tie-break).
func (t *ShopFinancialTransaction) BeforeCreate(tx *gorm.DB) error {
	var prev ShopFinancialTransaction
	err := t.identityScope(tx.Model(&ShopFinancialTransaction{})).
		Order("transaction_date DESC, id DESC").
		Limit(1).
		Find(&prev).Error
	if err != nil {
		return err
	}
	base := decimal.Zero
	if prev.ID != uuid.Nil {
		base = prev.Balance
	}
	t.Balance = base.Add(t.DebitAmount).Sub(t.CreditAmount)
	return nil
}

// ReplayBalances rewrites the Balance field across a chronologically ordered
// slice of entries for one identity, starting from zero. Shared by the
// explicit recalc pass and its tests.
func ReplayBalances(entries []ShopFinancialTransaction) {
	balance := decimal.Zero
	for i := range entries {
		balance = balance.Add(entries[i].DebitAmount).Sub(entries[i].CreditAmount)
		entries[i].Balance = balance
	}
}
