package controllers

import (
	"net/http"
	"time"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/services"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetDashboardOverview aggregates the landing-page counters: today's trading
// numbers, outstanding receivables and the work queues.
func GetDashboardOverview(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var pendingDeliveries int64
	config.DB.Model(&models.SalesTransaction{}).
		Where("user_id = ? AND status = ?", userUUID, models.SaleStatusPendingDelivery).
		Count(&pendingDeliveries)

	var pendingClaims int64
	config.DB.Model(&models.Claim{}).
		Where("user_id = ? AND status IN ?", userUUID,
			[]string{models.ClaimStatusPending, models.ClaimStatusAwaitingProcessing}).
		Count(&pendingClaims)

	var incompleteNotes int64
	config.DB.Model(&models.Note{}).
		Where("user_id = ? AND is_completed = ?", userUUID, false).
		Count(&incompleteNotes)

	receivables, err := totalReceivables(userUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute receivables")
		return
	}

	today, err := services.NewSummaryService(config.DB).Regenerate(userUUID, time.Now())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute today's summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pendingDeliveries": pendingDeliveries,
		"pendingClaims":     pendingClaims,
		"incompleteNotes":   incompleteNotes,
		"totalReceivables":  receivables,
		"today": gin.H{
			"totalRevenue":   today.TotalRevenue,
			"totalProfit":    today.TotalProfit,
			"totalExpenses":  today.TotalExpenses,
			"cashReceived":   today.CashReceived,
			"onlineReceived": today.OnlineReceived,
			"creditExtended": today.CreditExtended,
			"salesCount":     today.SalesCount,
		},
	})
}

// totalReceivables sums the latest stored balance of every credit account,
// registered shops and free-text customers alike.
func totalReceivables(userUUID uuid.UUID) (decimal.Decimal, error) {
	type balanceRow struct {
		Balance decimal.Decimal
	}

	var shopRows []balanceRow
	err := config.DB.Raw(`
		SELECT DISTINCT ON (shop_id) balance
		FROM shop_financial_transactions
		WHERE user_id = ? AND shop_id IS NOT NULL
		ORDER BY shop_id, transaction_date DESC, id DESC`, userUUID).
		Scan(&shopRows).Error
	if err != nil {
		return decimal.Zero, err
	}

	var customerRows []balanceRow
	err = config.DB.Raw(`
		SELECT DISTINCT ON (customer_name_snapshot) balance
		FROM shop_financial_transactions
		WHERE user_id = ? AND shop_id IS NULL AND customer_name_snapshot <> ''
		ORDER BY customer_name_snapshot, transaction_date DESC, id DESC`, userUUID).
		Scan(&customerRows).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, row := range shopRows {
		total = total.Add(row.Balance)
	}
	for _, row := range customerRows {
		total = total.Add(row.Balance)
	}
	return total, nil
}
