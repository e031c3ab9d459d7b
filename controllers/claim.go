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

type ClaimItemInput struct {
	ProductDetailID uuid.UUID       `json:"productDetailId" binding:"required"`
	ItemType        string          `json:"itemType" binding:"required,oneof=CLAIMED EXCHANGED"`
	QuantityDecimal decimal.Decimal `json:"quantityDecimal" binding:"required"`
}

type CreateClaimInput struct {
	ClaimedFromShopID  *uuid.UUID       `json:"claimedFromShopId"`
	RetrievalVehicleID *uuid.UUID       `json:"retrievalVehicleId"`
	Reason             string           `json:"reason" binding:"required"`
	Items              []ClaimItemInput `json:"items" binding:"required,min=1"`
}

// CreateClaim records a claim in PENDING state. No stock moves until the
// bulk processing run.
func CreateClaim(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ClaimedFromShopID != nil {
		var shop models.Shop
		if err := config.DB.Where("user_id = ? AND id = ?", userUUID, *input.ClaimedFromShopID).
			First(&shop).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Shop not found")
			return
		}
	}
	if input.RetrievalVehicleID != nil {
		var vehicle models.Vehicle
		if err := config.DB.Where("user_id = ? AND id = ?", userUUID, *input.RetrievalVehicleID).
			First(&vehicle).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Vehicle not found")
			return
		}
	}

	claim := models.Claim{
		UserID:             userUUID,
		ClaimedFromShopID:  input.ClaimedFromShopID,
		RetrievalVehicleID: input.RetrievalVehicleID,
		Reason:             input.Reason,
		Status:             models.ClaimStatusPending,
	}

	for _, line := range input.Items {
		var batch models.ProductDetail
		if err := config.DB.Where("user_id = ? AND id = ?", userUUID, line.ProductDetailID).
			First(&batch).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Product batch not found")
			return
		}
		if err := models.ValidateQuantity(line.QuantityDecimal, batch.ItemsPerMasterUnit); err != nil {
			utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		claim.Items = append(claim.Items, models.ClaimItem{
			ProductDetailID:  batch.ID,
			ItemType:         line.ItemType,
			QuantityDecimal:  line.QuantityDecimal,
			CostPriceAtClaim: batch.PricePerItem,
		})
	}

	if err := config.DB.Create(&claim).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create claim")
		return
	}

	c.JSON(http.StatusCreated, claim)
}

// GetClaims lists claims newest first, optionally filtered by ?status=.
func GetClaims(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items.ProductDetail.ProductBase").
		Preload("ClaimedFromShop").Preload("RetrievalVehicle").
		Where("user_id = ?", userUUID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var claims []models.Claim
	if err := query.Order("claim_date DESC").Find(&claims).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch claims")
		return
	}

	c.JSON(http.StatusOK, claims)
}

func GetClaim(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	claimID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var claim models.Claim
	err := config.DB.Preload("Items.ProductDetail.ProductBase").
		Preload("ClaimedFromShop").Preload("RetrievalVehicle").
		Where("user_id = ? AND id = ?", userUUID, claimID).
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Claim not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// SubmitClaim moves a PENDING claim to AWAITING_PROCESSING so the next bulk
// run applies its stock adjustments.
func SubmitClaim(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	claimID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := config.DB.Model(&models.Claim{}).
		Where("id = ? AND user_id = ? AND status = ?", claimID, userUUID, models.ClaimStatusPending).
		Update("status", models.ClaimStatusAwaitingProcessing)
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to submit claim")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusConflict, "Claim not found or not in PENDING state")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Claim submitted for processing"})
}

// ProcessPendingClaims applies every AWAITING_PROCESSING claim. Failures are
// reported per claim; successful claims stay committed.
func ProcessPendingClaims(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	svc := services.NewClaimService(config.DB)
	processed, failures := svc.ProcessPending(userUUID)

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

// DeleteClaim removes a claim, replaying the inverse stock adjustments first
// when the claim already completed.
func DeleteClaim(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	claimID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewClaimService(config.DB)
	if err := svc.Delete(userUUID, claimID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Claim deleted"})
}

// AjaxGetClaimDetails feeds the claim review dialog: line items with the
// snapshot cost and the total value of exchanged goods.
func AjaxGetClaimDetails(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondAJAXError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var claim models.Claim
	if err := config.DB.Preload("Items.ProductDetail.ProductBase").
		Where("user_id = ? AND id = ?", userUUID, claimID).
		First(&claim).Error; err != nil {
		utils.RespondAJAXError(c, http.StatusNotFound, "Claim not found")
		return
	}

	items := make([]gin.H, 0, len(claim.Items))
	for i := range claim.Items {
		it := &claim.Items[i]
		name := ""
		ipu := models.MaxItemsPerMasterUnit
		if it.ProductDetail != nil {
			ipu = it.ProductDetail.ItemsPerMasterUnit
			if it.ProductDetail.ProductBase != nil {
				name = it.ProductDetail.ProductBase.Name
			}
		}
		items = append(items, gin.H{
			"pk":                  it.ID,
			"product_name":        name,
			"item_type":           it.ItemType,
			"quantity":            it.QuantityDecimal.StringFixed(2),
			"cost_price_at_claim": it.CostPriceAtClaim.StringFixed(2),
			"line_cost":           it.TotalCost(ipu).StringFixed(2),
		})
	}

	utils.RespondAJAXData(c, gin.H{
		"pk":                   claim.ID,
		"reason":               claim.Reason,
		"status":               claim.Status,
		"claim_date":           claim.ClaimDate.Format("2006-01-02"),
		"value_of_items_given": claim.ValueOfItemsGiven().StringFixed(2),
		"items":                items,
	})
}
