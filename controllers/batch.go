package controllers

import (
	"errors"
	"net/http"
	"time"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateBatchInput defines the expected JSON structure for a product batch
type CreateBatchInput struct {
	ProductBaseID      uuid.UUID       `json:"productBaseId" binding:"required"`
	PackingType        string          `json:"packingType" binding:"required"`
	QuantityInPacking  decimal.Decimal `json:"quantityInPacking"`
	UnitOfMeasure      string          `json:"unitOfMeasure" binding:"required"`
	ItemsPerMasterUnit int             `json:"itemsPerMasterUnit" binding:"required,min=1"`
	PricePerItem       decimal.Decimal `json:"pricePerItem" binding:"required"`
	Stock              decimal.Decimal `json:"stock"`
	ExpiryDate         time.Time       `json:"expiryDate" binding:"required"`
}

type UpdateBatchInput struct {
	PackingType        *string          `json:"packingType"`
	QuantityInPacking  *decimal.Decimal `json:"quantityInPacking"`
	UnitOfMeasure      *string          `json:"unitOfMeasure"`
	ItemsPerMasterUnit *int             `json:"itemsPerMasterUnit"`
	PricePerItem       *decimal.Decimal `json:"pricePerItem"`
	Stock              *decimal.Decimal `json:"stock"`
	ExpiryDate         *time.Time       `json:"expiryDate"`
}

func CreateBatch(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateBatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ItemsPerMasterUnit < 1 || input.ItemsPerMasterUnit > models.MaxItemsPerMasterUnit {
		utils.RespondWithError(c, http.StatusBadRequest, "Items per master unit must be between 1 and 100")
		return
	}
	if input.Stock.IsPositive() {
		if err := models.ValidateQuantity(input.Stock, input.ItemsPerMasterUnit); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid stock quantity: "+err.Error())
			return
		}
	}

	// The base product must belong to the same user
	var product models.Product
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, input.ProductBaseID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Base product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	batch := models.ProductDetail{
		ProductBaseID:      product.ID,
		UserID:             userUUID,
		PackingType:        input.PackingType,
		QuantityInPacking:  input.QuantityInPacking,
		UnitOfMeasure:      input.UnitOfMeasure,
		ItemsPerMasterUnit: input.ItemsPerMasterUnit,
		PricePerItem:       input.PricePerItem,
		Stock:              input.Stock,
		ExpiryDate:         input.ExpiryDate,
	}
	if err := config.DB.Create(&batch).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create batch")
		return
	}

	c.JSON(http.StatusCreated, batch)
}

func GetBatches(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("ProductBase").
		Where("product_details.user_id = ?", userUUID).
		Order("product_details.created_at DESC")

	// Optional search across base product name and packing type
	if q := c.Query("q"); q != "" {
		query = query.Joins("JOIN products ON products.id = product_details.product_base_id").
			Where("products.name ILIKE ? OR product_details.packing_type ILIKE ?", "%"+q+"%", "%"+q+"%")
	}

	var batches []models.ProductDetail
	if err := query.Find(&batches).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve batches")
		return
	}

	c.JSON(http.StatusOK, batches)
}

func UpdateBatch(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	batchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var batch models.ProductDetail
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, batchID).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Batch not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateBatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.PackingType != nil {
		batch.PackingType = *input.PackingType
	}
	if input.QuantityInPacking != nil {
		batch.QuantityInPacking = *input.QuantityInPacking
	}
	if input.UnitOfMeasure != nil {
		batch.UnitOfMeasure = *input.UnitOfMeasure
	}
	if input.ItemsPerMasterUnit != nil {
		if !batch.Repack(*input.ItemsPerMasterUnit) {
			utils.RespondWithError(c, http.StatusBadRequest, "Items per master unit must be between 1 and 100")
			return
		}
	}
	if input.PricePerItem != nil {
		batch.PricePerItem = *input.PricePerItem
	}
	if input.Stock != nil {
		if input.Stock.IsPositive() {
			if err := models.ValidateQuantity(*input.Stock, batch.ItemsPerMasterUnit); err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid stock quantity: "+err.Error())
				return
			}
		}
		batch.Stock = *input.Stock
	}
	if input.ExpiryDate != nil {
		batch.ExpiryDate = *input.ExpiryDate
	}

	if err := config.DB.Save(&batch).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update batch")
		return
	}

	c.JSON(http.StatusOK, batch)
}

// DeleteBatch removes a batch unless sale items or claim items still
// reference it.
func DeleteBatch(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	batchID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var batch models.ProductDetail
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, batchID).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Batch not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var saleRefs, claimRefs int64
	config.DB.Model(&models.SalesTransactionItem{}).Where("product_detail_id = ?", batch.ID).Count(&saleRefs)
	config.DB.Model(&models.ClaimItem{}).Where("product_detail_id = ?", batch.ID).Count(&claimRefs)
	if saleRefs > 0 || claimRefs > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Batch is referenced by existing sales or claims",
			"saleItemCount":  saleRefs,
			"claimItemCount": claimRefs,
		})
		return
	}

	if err := config.DB.Delete(&batch).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete batch")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Batch deleted successfully"})
}

// DeleteSelectedBatches handles the bulk path: unreferenced batches are
// removed, referenced ones are reported back as conflicts.
func DeleteSelectedBatches(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	deleted := 0
	var conflicts []uuid.UUID
	for _, id := range input.IDs {
		var saleRefs, claimRefs int64
		config.DB.Model(&models.SalesTransactionItem{}).Where("product_detail_id = ?", id).Count(&saleRefs)
		config.DB.Model(&models.ClaimItem{}).Where("product_detail_id = ?", id).Count(&claimRefs)
		if saleRefs > 0 || claimRefs > 0 {
			conflicts = append(conflicts, id)
			continue
		}
		res := config.DB.Where("user_id = ? AND id = ?", userUUID, id).Delete(&models.ProductDetail{})
		if res.Error == nil && res.RowsAffected > 0 {
			deleted++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":   deleted,
		"conflicts": conflicts,
	})
}

// AjaxGetBatchDetails returns the snapshot the sale form needs when a batch
// is picked: current stock in both encodings, cost and a suggested price.
func AjaxGetBatchDetails(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondAJAXError(c, http.StatusBadRequest, "Invalid batch ID format")
		return
	}

	var batch models.ProductDetail
	if err := config.DB.Preload("ProductBase").
		Where("user_id = ? AND id = ?", userUUID, batchID).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondAJAXError(c, http.StatusNotFound, "Product batch not found or not authorized.")
		} else {
			utils.RespondAJAXError(c, http.StatusInternalServerError, "An error occurred: "+err.Error())
		}
		return
	}

	suggested := batch.PricePerItem.Mul(decimal.NewFromFloat(1.20)).Round(2)
	utils.RespondAJAXData(c, gin.H{
		"pk":                               batch.ID,
		"product_name_display":             batch.ProductBase.Name,
		"expiry_date_display":              batch.ExpiryDate.Format("2006-01-02"),
		"current_stock_master_units":       batch.Stock,
		"total_individual_items":           batch.TotalItemsInStock(),
		"items_per_master_unit":            batch.ItemsPerMasterUnit,
		"cost_price_per_item":              batch.PricePerItem,
		"suggested_selling_price_per_item": suggested,
	})
}
