package controllers

import (
	"errors"
	"net/http"
	"time"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/services"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerEntryInput struct {
	ShopID          *uuid.UUID      `json:"shopId"`
	CustomerName    string          `json:"customerName"`
	TransactionType string          `json:"transactionType" binding:"required,oneof=CASH_RECEIPT ONLINE OPENING_BALANCE MANUAL_ADJUSTMENT"`
	DebitAmount     decimal.Decimal `json:"debitAmount"`
	CreditAmount    decimal.Decimal `json:"creditAmount"`
	Notes           string          `json:"notes"`
	TransactionDate *time.Time      `json:"transactionDate"`
}

type UpdateLedgerEntryInput struct {
	DebitAmount     *decimal.Decimal `json:"debitAmount"`
	CreditAmount    *decimal.Decimal `json:"creditAmount"`
	Notes           *string          `json:"notes"`
	TransactionDate *time.Time       `json:"transactionDate"`
}

// GetShopLedger returns a shop's entries newest first plus the current
// stored balance.
func GetShopLedger(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	shopID, ok := parseIDParam(c, "shopId")
	if !ok {
		return
	}

	var shop models.Shop
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, shopID).First(&shop).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Shop not found")
		return
	}

	var entries []models.ShopFinancialTransaction
	if err := config.DB.Where("user_id = ? AND shop_id = ?", userUUID, shopID).
		Order("transaction_date DESC, id DESC").
		Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch ledger")
		return
	}

	balance, err := services.NewLedgerService(config.DB).CurrentShopBalance(userUUID, shopID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shop":           shop,
		"currentBalance": balance,
		"entries":        entries,
	})
}

// GetCustomerLedger is the free-text-customer counterpart of GetShopLedger.
func GetCustomerLedger(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	customerName := c.Query("name")
	if customerName == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Customer name is required")
		return
	}

	var entries []models.ShopFinancialTransaction
	if err := config.DB.Where("user_id = ? AND shop_id IS NULL AND customer_name_snapshot = ?", userUUID, customerName).
		Order("transaction_date DESC, id DESC").
		Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch ledger")
		return
	}

	balance := decimal.Zero
	if len(entries) > 0 {
		balance = entries[0].Balance
	}

	c.JSON(http.StatusOK, gin.H{
		"customerName":   customerName,
		"currentBalance": balance,
		"entries":        entries,
	})
}

// GetCreditAccounts lists every account carrying ledger history: registered
// shops first, then free-text customers, each with its latest balance.
func GetCreditAccounts(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var shops []models.Shop
	if err := config.DB.Where("user_id = ?", userUUID).Order("name ASC").Find(&shops).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch shops")
		return
	}

	ledger := services.NewLedgerService(config.DB)
	shopAccounts := make([]gin.H, 0, len(shops))
	for i := range shops {
		balance, err := ledger.CurrentShopBalance(userUUID, shops[i].ID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read balances")
			return
		}
		shopAccounts = append(shopAccounts, gin.H{
			"shopId":         shops[i].ID,
			"name":           shops[i].Name,
			"currentBalance": balance,
		})
	}

	// Distinct free-text customer names with their latest stored balance.
	type customerRow struct {
		CustomerNameSnapshot string
		Balance              decimal.Decimal
	}
	var customers []customerRow
	err := config.DB.Raw(`
		SELECT DISTINCT ON (customer_name_snapshot)
		       customer_name_snapshot, balance
		FROM shop_financial_transactions
		WHERE user_id = ? AND shop_id IS NULL AND customer_name_snapshot <> ''
		ORDER BY customer_name_snapshot, transaction_date DESC, id DESC`, userUUID).
		Scan(&customers).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch customer accounts")
		return
	}

	customerAccounts := make([]gin.H, 0, len(customers))
	for _, row := range customers {
		customerAccounts = append(customerAccounts, gin.H{
			"name":           row.CustomerNameSnapshot,
			"currentBalance": row.Balance,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"shops":     shopAccounts,
		"customers": customerAccounts,
	})
}

// CreateLedgerEntry records a manual ledger movement: a cash/online receipt,
// an opening balance or a manual adjustment. Sale debits are created by the
// sales flow only.
func CreateLedgerEntry(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input LedgerEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if (input.ShopID == nil) == (input.CustomerName == "") {
		utils.RespondWithError(c, http.StatusBadRequest, "Provide either a shop or a customer name, not both")
		return
	}
	if input.ShopID != nil {
		var shop models.Shop
		if err := config.DB.Where("user_id = ? AND id = ?", userUUID, *input.ShopID).First(&shop).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Shop not found")
			return
		}
	}
	if input.DebitAmount.IsNegative() || input.CreditAmount.IsNegative() {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "Amounts cannot be negative")
		return
	}
	if input.DebitAmount.IsZero() && input.CreditAmount.IsZero() {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "Entry must move the balance")
		return
	}

	entry := models.ShopFinancialTransaction{
		UserID:               userUUID,
		ShopID:               input.ShopID,
		CustomerNameSnapshot: input.CustomerName,
		TransactionType:      input.TransactionType,
		DebitAmount:          input.DebitAmount,
		CreditAmount:         input.CreditAmount,
		Notes:                input.Notes,
		TransactionDate:      time.Now(),
	}
	if input.TransactionDate != nil {
		entry.TransactionDate = *input.TransactionDate
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create ledger entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateLedgerEntry edits a manual entry. Entries generated by sales are
// locked; they change through delivery settlement or reversal. Stored
// balances of later entries are NOT refreshed automatically; call the
// recalc endpoint after backdated edits.
func UpdateLedgerEntry(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var entry models.ShopFinancialTransaction
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, entryID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Ledger entry not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if entry.IsFromSale() {
		utils.RespondWithError(c, http.StatusConflict, "This entry belongs to a sale; adjust it through the sale")
		return
	}

	var input UpdateLedgerEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if input.DebitAmount != nil {
		if input.DebitAmount.IsNegative() {
			utils.RespondWithError(c, http.StatusUnprocessableEntity, "Amounts cannot be negative")
			return
		}
		updates["debit_amount"] = *input.DebitAmount
	}
	if input.CreditAmount != nil {
		if input.CreditAmount.IsNegative() {
			utils.RespondWithError(c, http.StatusUnprocessableEntity, "Amounts cannot be negative")
			return
		}
		updates["credit_amount"] = *input.CreditAmount
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.TransactionDate != nil {
		updates["transaction_date"] = *input.TransactionDate
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, entry)
		return
	}

	if err := config.DB.Model(&entry).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update ledger entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteLedgerEntry removes a manual entry. Sale-generated entries are
// protected here too.
func DeleteLedgerEntry(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var entry models.ShopFinancialTransaction
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, entryID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Ledger entry not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if entry.IsFromSale() {
		utils.RespondWithError(c, http.StatusConflict, "This entry belongs to a sale; reverse the sale instead")
		return
	}

	if err := config.DB.Delete(&entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete ledger entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ledger entry deleted"})
}

// RecalcShopBalances replays a shop's ledger oldest-first and rewrites all
// stored balances. Used after editing or backfilling historical entries.
func RecalcShopBalances(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	shopID, ok := parseIDParam(c, "shopId")
	if !ok {
		return
	}

	balance, err := services.NewLedgerService(config.DB).RecalcShopBalances(userUUID, shopID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recalculate balances")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Balances recalculated", "currentBalance": balance})
}

func RecalcCustomerBalances(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	customerName := c.Query("name")
	if customerName == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Customer name is required")
		return
	}

	balance, err := services.NewLedgerService(config.DB).RecalcCustomerBalances(userUUID, customerName)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recalculate balances")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Balances recalculated", "currentBalance": balance})
}

// AjaxGetLedgerEntry gives the edit dialog the raw entry fields plus whether
// the entry is sale-locked.
func AjaxGetLedgerEntry(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondAJAXError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var entry models.ShopFinancialTransaction
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, entryID).First(&entry).Error; err != nil {
		utils.RespondAJAXError(c, http.StatusNotFound, "Ledger entry not found")
		return
	}

	utils.RespondAJAXData(c, gin.H{
		"pk":               entry.ID,
		"transaction_type": entry.TransactionType,
		"debit_amount":     entry.DebitAmount.StringFixed(2),
		"credit_amount":    entry.CreditAmount.StringFixed(2),
		"balance":          entry.Balance.StringFixed(2),
		"notes":            entry.Notes,
		"transaction_date": entry.TransactionDate.Format("2006-01-02"),
		"locked_by_sale":   entry.IsFromSale(),
	})
}
