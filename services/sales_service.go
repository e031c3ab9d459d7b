package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"distropro-backend/models"
	"distropro-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SalesService owns the sale lifecycle: finalizing a draft into a
// transaction, settling deliveries, batch-processing a vehicle's pending
// transactions and reversing completed sales.
type SalesService struct {
	db *gorm.DB
}

func NewSalesService(db *gorm.DB) *SalesService {
	return &SalesService{db: db}
}

// FinalizeInput carries everything needed to turn the open draft into a
// SalesTransaction.
type FinalizeInput struct {
	CustomerShopID      *uuid.UUID
	CustomerNameManual  string
	PaymentType         string
	AmountPaidCash      decimal.Decimal
	AmountPaidOnline    decimal.Decimal
	AmountOnCredit      decimal.Decimal
	TotalDiscountAmount decimal.Decimal
	NeedsVehicle        bool
	AssignedVehicleID   *uuid.UUID
	Notes               string
}

// ItemSettlement is one line's outcome at delivery reconciliation.
type ItemSettlement struct {
	ItemID                  uuid.UUID
	ReturnedQuantityDecimal decimal.Decimal
	IncreasedDemandDecimal  decimal.Decimal
}

// SettlementInput reconciles a pending delivery: per-item returns and
// increased demand, plus the corrected discount and payment split.
type SettlementInput struct {
	Items               []ItemSettlement
	TotalDiscountAmount decimal.Decimal
	PaymentType         string
	AmountPaidCash      decimal.Decimal
	AmountPaidOnline    decimal.Decimal
	AmountOnCredit      decimal.Decimal
}

// FinalizeDraft converts the user's open draft into a persisted
// SalesTransaction in one atomic unit: every batch is locked and
// decremented, items are snapshotted, totals computed, the payment law
// validated and any credit portion posted to the ledger. Any line failure
// aborts the whole sale.
func (s *SalesService) FinalizeDraft(userID uuid.UUID, input FinalizeInput) (*models.SalesTransaction, error) {
	var created *models.SalesTransaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var draft models.DraftSale
		if err := tx.Preload("Items").Where("user_id = ?", userID).First(&draft).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationf("no draft sale in progress")
			}
			return err
		}
		if len(draft.Items) == 0 {
			return validationf("draft sale has no items")
		}

		st := models.SalesTransaction{
			UserID:              userID,
			TransactionNumber:   "TXN-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
			CustomerShopID:      input.CustomerShopID,
			CustomerNameManual:  input.CustomerNameManual,
			PaymentType:         input.PaymentType,
			NeedsVehicle:        input.NeedsVehicle,
			TotalDiscountAmount: input.TotalDiscountAmount,
			Notes:               input.Notes,
			TransactionDate:     time.Now(),
		}
		if input.NeedsVehicle {
			st.AssignedVehicleID = input.AssignedVehicleID
			st.Status = models.SaleStatusPendingDelivery
		} else {
			st.Status = models.SaleStatusCompleted
		}

		for _, line := range draft.Items {
			var pd models.ProductDetail
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Preload("ProductBase").
				Where("user_id = ?", userID).
				First(&pd, "id = ?", line.ProductDetailID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return validationf("product batch no longer exists")
				}
				return err
			}

			if err := models.ValidateQuantity(line.QuantityDecimal, pd.ItemsPerMasterUnit); err != nil {
				return validationf("%s: %s", pd.ProductBase.Name, err.Error())
			}
			if !pd.DecreaseStock(line.QuantityDecimal) {
				return validationf("not enough stock of %s: available %s (%d items)",
					pd.ProductBase.Name, pd.Stock, pd.TotalItemsInStock())
			}
			if err := tx.Model(&models.ProductDetail{}).Where("id = ?", pd.ID).
				Update("stock", pd.Stock).Error; err != nil {
				return err
			}

			st.Items = append(st.Items, models.SalesTransactionItem{
				ProductDetailID:          pd.ID,
				ProductNameAtSale:        pd.ProductBase.Name,
				PackingTypeAtSale:        pd.PackingType,
				SellingPricePerItem:      line.SellingPricePerItem,
				CostPricePerItemAtSale:   pd.PricePerItem,
				ItemsPerMasterUnitAtSale: pd.ItemsPerMasterUnit,
				ExpiryDateAtSale:         pd.ExpiryDate,
				QuantitySoldDecimal:      line.QuantityDecimal,
			})
		}

		st.Recalculate()

		if st.PaymentType == models.PaymentTypeSplit {
			st.AmountPaidCash = input.AmountPaidCash
			st.AmountPaidOnline = input.AmountPaidOnline
			st.AmountOnCredit = input.AmountOnCredit
		} else {
			st.ApplySinglePayment()
		}
		if err := st.ValidatePayment(); err != nil {
			return validationf("%s", err.Error())
		}

		if err := tx.Create(&st).Error; err != nil {
			return err
		}

		if st.AmountOnCredit.IsPositive() {
			if err := s.createSaleDebit(tx, &st); err != nil {
				return err
			}
		}

		if err := tx.Where("draft_sale_id = ?", draft.ID).Delete(&models.DraftSaleItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&draft).Error; err != nil {
			return err
		}

		created = &st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *SalesService) createSaleDebit(tx *gorm.DB, st *models.SalesTransaction) error {
	entry := models.ShopFinancialTransaction{
		UserID:          st.UserID,
		ShopID:          st.CustomerShopID,
		SourceSaleID:    &st.ID,
		TransactionType: models.LedgerTypeCreditSale,
		DebitAmount:     st.AmountOnCredit,
		Notes:           fmt.Sprintf("Credit portion of sale %s", st.TransactionNumber),
		TransactionDate: st.TransactionDate,
	}
	if st.CustomerShopID == nil {
		entry.CustomerNameSnapshot = st.CustomerNameManual
	}
	return tx.Create(&entry).Error
}

// SettleDelivery reconciles a PENDING_DELIVERY transaction: records per-item
// returns and increased demand, applies the stock deltas, recomputes totals,
// re-validates the payment split against the new grand total and brings the
// linked ledger entry in line, all in one transaction. A payment mismatch
// rolls back everything.
func (s *SalesService) SettleDelivery(userID, transactionID uuid.UUID, input SettlementInput) (*models.SalesTransaction, error) {
	var settled *models.SalesTransaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var st models.SalesTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&st, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationf("transaction not found")
			}
			return err
		}
		if st.Status != models.SaleStatusPendingDelivery {
			return validationf("transaction %s is not pending delivery (status %s)", st.TransactionNumber, st.Status)
		}
		if err := tx.Where("transaction_id = ?", st.ID).Find(&st.Items).Error; err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*models.SalesTransactionItem, len(st.Items))
		for i := range st.Items {
			byID[st.Items[i].ID] = &st.Items[i]
		}

		for _, adj := range input.Items {
			item, ok := byID[adj.ItemID]
			if !ok {
				return validationf("item does not belong to this transaction")
			}
			ipu := item.ItemsPerMasterUnitAtSale
			if err := models.ValidateQuantityOrZero(adj.ReturnedQuantityDecimal, ipu); err != nil {
				return validationf("%s: invalid returned quantity: %s", item.ProductNameAtSale, err.Error())
			}
			if err := models.ValidateQuantityOrZero(adj.IncreasedDemandDecimal, ipu); err != nil {
				return validationf("%s: invalid increased demand: %s", item.ProductNameAtSale, err.Error())
			}
			if err := item.ValidateReturn(adj.ReturnedQuantityDecimal); err != nil {
				return validationf("%s: %s", item.ProductNameAtSale, err.Error())
			}

			deltaReturned := models.ItemsFromDecimal(adj.ReturnedQuantityDecimal, ipu) - item.ReturnedItems()
			deltaIncreased := models.ItemsFromDecimal(adj.IncreasedDemandDecimal, ipu) - item.IncreasedDemandItems()

			if deltaReturned != 0 || deltaIncreased != 0 {
				var pd models.ProductDetail
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&pd, "id = ?", item.ProductDetailID).Error; err != nil {
					return err
				}
				newTotal := pd.TotalItemsInStock() + deltaReturned - deltaIncreased
				if newTotal < 0 {
					return validationf("not enough stock of %s for the increased demand", item.ProductNameAtSale)
				}
				pd.Stock = models.DecimalFromItems(newTotal, pd.ItemsPerMasterUnit)
				if err := tx.Model(&models.ProductDetail{}).Where("id = ?", pd.ID).
					Update("stock", pd.Stock).Error; err != nil {
					return err
				}
			}

			item.ReturnedQuantityDecimal = adj.ReturnedQuantityDecimal
			item.IncreasedDemandDecimal = adj.IncreasedDemandDecimal
			if err := tx.Model(&models.SalesTransactionItem{}).Where("id = ?", item.ID).
				Updates(map[string]interface{}{
					"returned_quantity_decimal": item.ReturnedQuantityDecimal,
					"increased_demand_decimal":  item.IncreasedDemandDecimal,
				}).Error; err != nil {
				return err
			}
		}

		st.TotalDiscountAmount = input.TotalDiscountAmount
		st.Recalculate()

		st.PaymentType = input.PaymentType
		if st.PaymentType == models.PaymentTypeSplit {
			st.AmountPaidCash = input.AmountPaidCash
			st.AmountPaidOnline = input.AmountPaidOnline
			st.AmountOnCredit = input.AmountOnCredit
		} else {
			st.ApplySinglePayment()
		}
		if err := st.ValidatePayment(); err != nil {
			return validationf("%s", err.Error())
		}

		st.Status = st.DeriveSettlementStatus()
		st.IsReadyForProcessing = false

		if err := s.syncSaleDebit(tx, &st); err != nil {
			return err
		}

		if err := tx.Model(&models.SalesTransaction{}).Where("id = ?", st.ID).
			Updates(map[string]interface{}{
				"total_discount_amount":   st.TotalDiscountAmount,
				"payment_type":            st.PaymentType,
				"amount_paid_cash":        st.AmountPaidCash,
				"amount_paid_online":      st.AmountPaidOnline,
				"amount_on_credit":        st.AmountOnCredit,
				"grand_total_revenue":     st.GrandTotalRevenue,
				"grand_total_cost":        st.GrandTotalCost,
				"status":                  st.Status,
				"is_ready_for_processing": st.IsReadyForProcessing,
			}).Error; err != nil {
			return err
		}

		settled = &st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// syncSaleDebit brings the sale-linked ledger entry in line with the settled
// credit portion: updated, created when newly needed, or deleted when the
// payment no longer includes credit. Updating the amount does not ripple
// through later stored balances; that is the explicit recalc's job.
func (s *SalesService) syncSaleDebit(tx *gorm.DB, st *models.SalesTransaction) error {
	var entry models.ShopFinancialTransaction
	err := tx.Where("source_sale_id = ?", st.ID).First(&entry).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if st.AmountOnCredit.IsPositive() {
			return s.createSaleDebit(tx, st)
		}
		return nil
	case err != nil:
		return err
	}

	if st.AmountOnCredit.IsPositive() {
		return tx.Model(&models.ShopFinancialTransaction{}).Where("id = ?", entry.ID).
			Update("debit_amount", st.AmountOnCredit).Error
	}
	return tx.Delete(&entry).Error
}

// MarkReadyForProcessing flags a pending transaction so the operator can
// batch-settle a whole vehicle later.
func (s *SalesService) MarkReadyForProcessing(userID, transactionID uuid.UUID, ready bool) error {
	res := s.db.Model(&models.SalesTransaction{}).
		Where("id = ? AND user_id = ? AND status = ?", transactionID, userID, models.SaleStatusPendingDelivery).
		Update("is_ready_for_processing", ready)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return validationf("transaction not found or not pending delivery")
	}
	return nil
}

// ProcessVehiclePending settles every PENDING_DELIVERY transaction assigned
// to one vehicle, defaulting undecided items to no return and no increase.
// Each transaction settles in its own database transaction: one failure does
// not roll back the ones already committed.
func (s *SalesService) ProcessVehiclePending(userID, vehicleID uuid.UUID) (int, []error) {
	var pending []models.SalesTransaction
	if err := s.db.Where("user_id = ? AND assigned_vehicle_id = ? AND status = ?",
		userID, vehicleID, models.SaleStatusPendingDelivery).
		Preload("Items").
		Find(&pending).Error; err != nil {
		return 0, []error{err}
	}

	processed := 0
	var failures []error
	for i := range pending {
		st := &pending[i]
		input := SettlementInput{
			TotalDiscountAmount: st.TotalDiscountAmount,
			PaymentType:         st.PaymentType,
			AmountPaidCash:      st.AmountPaidCash,
			AmountPaidOnline:    st.AmountPaidOnline,
			AmountOnCredit:      st.AmountOnCredit,
		}
		for j := range st.Items {
			input.Items = append(input.Items, ItemSettlement{
				ItemID:                  st.Items[j].ID,
				ReturnedQuantityDecimal: st.Items[j].ReturnedQuantityDecimal,
				IncreasedDemandDecimal:  st.Items[j].IncreasedDemandDecimal,
			})
		}
		if _, err := s.SettleDelivery(userID, st.ID, input); err != nil {
			log.Printf("Vehicle batch: failed to settle %s: %v", st.TransactionNumber, err)
			failures = append(failures, fmt.Errorf("%s: %w", st.TransactionNumber, err))
			continue
		}
		processed++
	}
	return processed, failures
}

// CancelPendingDelivery voids a PENDING_DELIVERY transaction before anything
// changed hands: all dispatched stock goes back, the credit debit (if any) is
// removed, and the header stays on record as CANCELLED.
func (s *SalesService) CancelPendingDelivery(userID, transactionID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var st models.SalesTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&st, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationf("transaction not found")
			}
			return err
		}
		if st.Status != models.SaleStatusPendingDelivery {
			return validationf("transaction %s is not pending delivery (status %s)", st.TransactionNumber, st.Status)
		}
		if err := tx.Where("transaction_id = ?", st.ID).Find(&st.Items).Error; err != nil {
			return err
		}

		for i := range st.Items {
			item := &st.Items[i]
			var pd models.ProductDetail
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&pd, "id = ?", item.ProductDetailID).Error; err != nil {
				return err
			}
			pd.Stock = models.DecimalFromItems(pd.TotalItemsInStock()+item.DispatchedItems(), pd.ItemsPerMasterUnit)
			if err := tx.Model(&models.ProductDetail{}).Where("id = ?", pd.ID).
				Update("stock", pd.Stock).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("source_sale_id = ?", st.ID).
			Delete(&models.ShopFinancialTransaction{}).Error; err != nil {
			return err
		}

		return tx.Model(&models.SalesTransaction{}).Where("id = ?", st.ID).
			Updates(map[string]interface{}{
				"status":                  models.SaleStatusCancelled,
				"is_ready_for_processing": false,
			}).Error
	})
}

// ReverseTransaction deletes a settled transaction after replaying its
// inverse effects: every line's net-sold quantity goes back into stock and
// the linked ledger entry is removed. Cancelled transactions skip the
// restock, since cancellation already returned their stock. A transaction
// still pending delivery must be cancelled through the delivery flow instead.
func (s *SalesService) ReverseTransaction(userID, transactionID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var st models.SalesTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&st, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationf("transaction not found")
			}
			return err
		}
		if st.Status == models.SaleStatusPendingDelivery {
			return validationf("transaction %s is pending delivery; cancel it through the delivery flow instead of reversing", st.TransactionNumber)
		}
		if err := tx.Where("transaction_id = ?", st.ID).Find(&st.Items).Error; err != nil {
			return err
		}

		if st.RestocksOnReversal() {
			for i := range st.Items {
				item := &st.Items[i]
				var pd models.ProductDetail
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&pd, "id = ?", item.ProductDetailID).Error; err != nil {
					return err
				}
				pd.Stock = models.DecimalFromItems(pd.TotalItemsInStock()+item.NetItems(), pd.ItemsPerMasterUnit)
				if err := tx.Model(&models.ProductDetail{}).Where("id = ?", pd.ID).
					Update("stock", pd.Stock).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Where("source_sale_id = ?", st.ID).
			Delete(&models.ShopFinancialTransaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ?", st.ID).
			Delete(&models.SalesTransactionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&st).Error
	})
}
