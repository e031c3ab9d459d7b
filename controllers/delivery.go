package controllers

import (
	"net/http"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/services"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettleItemInput struct {
	ItemID                  uuid.UUID       `json:"itemId" binding:"required"`
	ReturnedQuantityDecimal decimal.Decimal `json:"returnedQuantityDecimal"`
	IncreasedDemandDecimal  decimal.Decimal `json:"increasedDemandDecimal"`
}

type SettleDeliveryInput struct {
	Items               []SettleItemInput `json:"items" binding:"required"`
	TotalDiscountAmount decimal.Decimal   `json:"totalDiscountAmount"`
	PaymentType         string            `json:"paymentType" binding:"required,oneof=CASH ONLINE CREDIT SPLIT"`
	AmountPaidCash      decimal.Decimal   `json:"amountPaidCash"`
	AmountPaidOnline    decimal.Decimal   `json:"amountPaidOnline"`
	AmountOnCredit      decimal.Decimal   `json:"amountOnCredit"`
}

type MarkReadyInput struct {
	Ready *bool `json:"ready" binding:"required"`
}

// GetPendingDeliveries lists PENDING_DELIVERY transactions, optionally
// filtered by ?vehicleId= for per-driver worklists.
func GetPendingDeliveries(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items").Preload("CustomerShop").Preload("AssignedVehicle").
		Where("user_id = ? AND status = ?", userUUID, models.SaleStatusPendingDelivery)
	if vehicleID := c.Query("vehicleId"); vehicleID != "" {
		query = query.Where("assigned_vehicle_id = ?", vehicleID)
	}

	var pending []models.SalesTransaction
	if err := query.Order("transaction_date ASC").Find(&pending).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch pending deliveries")
		return
	}

	c.JSON(http.StatusOK, pending)
}

// SettleDelivery reconciles one pending delivery with the quantities that
// actually changed hands and the corrected payment.
func SettleDelivery(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input SettleDeliveryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svcInput := services.SettlementInput{
		TotalDiscountAmount: input.TotalDiscountAmount,
		PaymentType:         input.PaymentType,
		AmountPaidCash:      input.AmountPaidCash,
		AmountPaidOnline:    input.AmountPaidOnline,
		AmountOnCredit:      input.AmountOnCredit,
	}
	for _, item := range input.Items {
		svcInput.Items = append(svcInput.Items, services.ItemSettlement{
			ItemID:                  item.ItemID,
			ReturnedQuantityDecimal: item.ReturnedQuantityDecimal,
			IncreasedDemandDecimal:  item.IncreasedDemandDecimal,
		})
	}

	svc := services.NewSalesService(config.DB)
	settled, err := svc.SettleDelivery(userUUID, saleID, svcInput)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settled)
}

// CancelPendingDelivery voids a pending delivery: stock is restored and the
// transaction stays on record as CANCELLED.
func CancelPendingDelivery(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewSalesService(config.DB)
	if err := svc.CancelPendingDelivery(userUUID, saleID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Delivery cancelled and stock restored"})
}

// MarkReadyForProcessing flags a pending delivery so the bulk vehicle run
// picks it up.
func MarkReadyForProcessing(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input MarkReadyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewSalesService(config.DB)
	if err := svc.MarkReadyForProcessing(userUUID, saleID, *input.Ready); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction updated", "ready": *input.Ready})
}

// ProcessVehiclePending settles every ready transaction assigned to a vehicle
// using the stored item values. Each transaction commits independently, so
// one bad sale never blocks the rest of the run.
func ProcessVehiclePending(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	vehicleID, ok := parseIDParam(c, "vehicleId")
	if !ok {
		return
	}

	svc := services.NewSalesService(config.DB)
	processed, failures := svc.ProcessVehiclePending(userUUID, vehicleID)

	failureMessages := make([]string, 0, len(failures))
	for _, err := range failures {
		failureMessages = append(failureMessages, err.Error())
	}

	c.JSON(http.StatusOK, gin.H{
		"processed": processed,
		"failed":    len(failureMessages),
		"failures":  failureMessages,
	})
}
