package controllers

import (
	"errors"
	"net/http"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/services"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AddCartItemInput adds one batch line to the user's open draft sale
type AddCartItemInput struct {
	ProductDetailID     uuid.UUID       `json:"productDetailId" binding:"required"`
	QuantityDecimal     decimal.Decimal `json:"quantityDecimal" binding:"required"`
	SellingPricePerItem decimal.Decimal `json:"sellingPricePerItem" binding:"required"`
}

// FinalizeCartInput mirrors services.FinalizeInput
type FinalizeCartInput struct {
	CustomerShopID      *uuid.UUID      `json:"customerShopId"`
	CustomerNameManual  string          `json:"customerNameManual"`
	PaymentType         string          `json:"paymentType" binding:"required,oneof=CASH ONLINE CREDIT SPLIT"`
	AmountPaidCash      decimal.Decimal `json:"amountPaidCash"`
	AmountPaidOnline    decimal.Decimal `json:"amountPaidOnline"`
	AmountOnCredit      decimal.Decimal `json:"amountOnCredit"`
	TotalDiscountAmount decimal.Decimal `json:"totalDiscountAmount"`
	NeedsVehicle        bool            `json:"needsVehicle"`
	AssignedVehicleID   *uuid.UUID      `json:"assignedVehicleId"`
	Notes               string          `json:"notes"`
}

// GetCart returns the user's open draft sale, creating an empty one on first
// touch.
func GetCart(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	draft, err := openDraft(userUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load draft sale")
		return
	}

	c.JSON(http.StatusOK, draft)
}

func openDraft(userUUID uuid.UUID) (*models.DraftSale, error) {
	var draft models.DraftSale
	err := config.DB.Preload("Items.ProductDetail.ProductBase").
		Where("user_id = ?", userUUID).
		First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		draft = models.DraftSale{UserID: userUUID}
		if err := config.DB.Create(&draft).Error; err != nil {
			return nil, err
		}
		return &draft, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// AddCartItem validates the batch and quantity and appends a line to the
// draft. A batch already in the draft is rejected; remove and re-add to
// change its quantity.
func AddCartItem(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input AddCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var batch models.ProductDetail
	if err := config.DB.Preload("ProductBase").
		Where("user_id = ? AND id = ?", userUUID, input.ProductDetailID).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Product batch not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := models.ValidateQuantity(input.QuantityDecimal, batch.ItemsPerMasterUnit); err != nil {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	requested := models.ItemsFromDecimal(input.QuantityDecimal, batch.ItemsPerMasterUnit)
	if batch.TotalItemsInStock() < requested {
		utils.RespondWithError(c, http.StatusUnprocessableEntity,
			"Not enough stock: available "+batch.Stock.String())
		return
	}
	if !input.SellingPricePerItem.IsPositive() {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "Selling price must be greater than zero")
		return
	}

	draft, err := openDraft(userUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load draft sale")
		return
	}

	for i := range draft.Items {
		if draft.Items[i].ProductDetailID == batch.ID {
			utils.RespondWithError(c, http.StatusConflict,
				"Batch already in the draft; remove it first to change the quantity")
			return
		}
	}

	line := models.DraftSaleItem{
		DraftSaleID:         draft.ID,
		ProductDetailID:     batch.ID,
		QuantityDecimal:     input.QuantityDecimal,
		SellingPricePerItem: input.SellingPricePerItem,
	}
	if err := config.DB.Create(&line).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add item to draft")
		return
	}

	c.JSON(http.StatusCreated, line)
}

func RemoveCartItem(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	res := config.DB.Where("id = ? AND draft_sale_id IN (?)", itemID,
		config.DB.Model(&models.DraftSale{}).Select("id").Where("user_id = ?", userUUID)).
		Delete(&models.DraftSaleItem{})
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to remove item")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Draft item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from draft"})
}

// FinalizeCart turns the draft into a SalesTransaction. All stock decrements,
// snapshots, totals, the payment split check and the ledger debit happen in
// one atomic unit inside the sales service.
func FinalizeCart(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input FinalizeCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Registered shop XOR free-text customer
	if input.CustomerShopID != nil && input.CustomerNameManual != "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Provide either a registered shop or a customer name, not both")
		return
	}
	if input.CustomerShopID != nil {
		var shop models.Shop
		if err := config.DB.Where("user_id = ? AND id = ?", userUUID, *input.CustomerShopID).
			First(&shop).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer shop not found")
			return
		}
	}
	if input.NeedsVehicle && input.AssignedVehicleID != nil {
		var vehicle models.Vehicle
		if err := config.DB.Where("user_id = ? AND id = ?", userUUID, *input.AssignedVehicleID).
			First(&vehicle).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Vehicle not found")
			return
		}
	}

	svc := services.NewSalesService(config.DB)
	transaction, err := svc.FinalizeDraft(userUUID, services.FinalizeInput{
		CustomerShopID:      input.CustomerShopID,
		CustomerNameManual:  input.CustomerNameManual,
		PaymentType:         input.PaymentType,
		AmountPaidCash:      input.AmountPaidCash,
		AmountPaidOnline:    input.AmountPaidOnline,
		AmountOnCredit:      input.AmountOnCredit,
		TotalDiscountAmount: input.TotalDiscountAmount,
		NeedsVehicle:        input.NeedsVehicle,
		AssignedVehicleID:   input.AssignedVehicleID,
		Notes:               input.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}
