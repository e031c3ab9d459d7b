package services

import (
	"distropro-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns the maintenance side of the credit ledgers. Ordinary
// inserts compute their own stored balance; this service exists for the
// explicit replay that historical edits and backfills require.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// RecalcShopBalances replays a shop's entries oldest-first and rewrites every
// stored balance. Returns the final balance.
func (s *LedgerService) RecalcShopBalances(userID, shopID uuid.UUID) (decimal.Decimal, error) {
	return s.recalc("user_id = ? AND shop_id = ?", userID, shopID)
}

// RecalcCustomerBalances is the same replay for a free-text customer account.
func (s *LedgerService) RecalcCustomerBalances(userID uuid.UUID, customerName string) (decimal.Decimal, error) {
	return s.recalc("user_id = ? AND shop_id IS NULL AND customer_name_snapshot = ?", userID, customerName)
}

// recalc runs the whole replay in one transaction, locking the account's
// entries, so a failure partway through never leaves a mix of old and new
// stored balances behind.
func (s *LedgerService) recalc(query string, args ...interface{}) (decimal.Decimal, error) {
	final := decimal.Zero
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var entries []models.ShopFinancialTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(query, args...).
			Order("transaction_date ASC, id ASC").
			Find(&entries).Error; err != nil {
			return err
		}

		models.ReplayBalances(entries)

		for i := range entries {
			if err := tx.Model(&models.ShopFinancialTransaction{}).
				Where("id = ?", entries[i].ID).
				Update("balance", entries[i].Balance).Error; err != nil {
				return err
			}
			final = entries[i].Balance
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return final, nil
}

// CurrentShopBalance reads the latest stored balance for a shop.
func (s *LedgerService) CurrentShopBalance(userID, shopID uuid.UUID) (decimal.Decimal, error) {
	var entry models.ShopFinancialTransaction
	err := s.db.Where("user_id = ? AND shop_id = ?", userID, shopID).
		Order("transaction_date DESC, id DESC").
		Limit(1).
		Find(&entry).Error
	if err != nil {
		return decimal.Zero, err
	}
	if entry.ID == uuid.Nil {
		return decimal.Zero, nil
	}
	return entry.Balance, nil
}
