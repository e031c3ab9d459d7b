package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/services"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSalesTransactions lists the user's transactions newest first. Supports
// ?status=, ?shopId= and a ?from=YYYY-MM-DD&to=YYYY-MM-DD range.
func GetSalesTransactions(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items").Preload("CustomerShop").Preload("AssignedVehicle").
		Where("user_id = ?", userUUID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if shopID := c.Query("shopId"); shopID != "" {
		query = query.Where("customer_shop_id = ?", shopID)
	}
	if from := c.Query("from"); from != "" {
		if day, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("transaction_date >= ?", utils.BeginningOfDay(day))
		}
	}
	if to := c.Query("to"); to != "" {
		if day, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("transaction_date < ?", utils.BeginningOfDay(day).AddDate(0, 0, 1))
		}
	}

	var transactions []models.SalesTransaction
	if err := query.Order("transaction_date DESC").Find(&transactions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func GetSalesTransaction(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var transaction models.SalesTransaction
	err := config.DB.Preload("Items.ProductDetail.ProductBase").
		Preload("CustomerShop").Preload("AssignedVehicle").
		Where("user_id = ? AND id = ?", userUUID, saleID).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// ReverseSalesTransaction undoes a sale: restocks the net sold items, removes
// the linked ledger debit and deletes the transaction.
func ReverseSalesTransaction(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewSalesService(config.DB)
	if err := svc.ReverseTransaction(userUUID, saleID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction reversed and stock restored"})
}

// ExportSalesCSV streams a flat CSV of transactions with one row per sold
// line. Selection is either ?ids=a,b,c or a ?from/?to date range.
func ExportSalesCSV(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items").Preload("CustomerShop").
		Where("user_id = ?", userUUID)

	if ids := c.QueryArray("ids"); len(ids) > 0 {
		parsed := make([]uuid.UUID, 0, len(ids))
		for _, raw := range ids {
			id, err := uuid.Parse(raw)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID: "+raw)
				return
			}
			parsed = append(parsed, id)
		}
		query = query.Where("id IN ?", parsed)
	} else {
		from, errFrom := time.Parse("2006-01-02", c.Query("from"))
		to, errTo := time.Parse("2006-01-02", c.Query("to"))
		if errFrom != nil || errTo != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Provide ids or a from/to date range (YYYY-MM-DD)")
			return
		}
		query = query.Where("transaction_date >= ? AND transaction_date < ?",
			utils.BeginningOfDay(from), utils.BeginningOfDay(to).AddDate(0, 0, 1))
	}

	var transactions []models.SalesTransaction
	if err := query.Order("transaction_date ASC").Find(&transactions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	filename := fmt.Sprintf("sales_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{
		"Transaction Number", "Date", "Time", "Customer", "Payment Type", "Status",
		"Total Revenue", "Total Profit", "Notes",
		"Product Name", "Price Per Item", "Quantity Sold", "Returned Quantity",
		"Discount", "Packaging Unit",
	})

	for i := range transactions {
		t := &transactions[i]
		base := []string{
			t.TransactionNumber,
			t.TransactionDate.Format("2006-01-02"),
			t.TransactionDate.Format("15:04:05"),
			t.CustomerLabel(),
			t.PaymentType,
			t.Status,
			t.GrandTotalRevenue.StringFixed(2),
			t.GrandTotalProfit().StringFixed(2),
			t.Notes,
		}
		if len(t.Items) == 0 {
			w.Write(append(base, "", "", "", "", "", ""))
			continue
		}
		for j := range t.Items {
			item := &t.Items[j]
			discount := ""
			if j == 0 {
				discount = t.TotalDiscountAmount.StringFixed(2)
			}
			w.Write(append(base,
				item.ProductNameAtSale,
				item.SellingPricePerItem.StringFixed(2),
				item.QuantitySoldDecimal.StringFixed(2),
				item.ReturnedQuantityDecimal.StringFixed(2),
				discount,
				item.PackingTypeAtSale,
			))
		}
	}
}
