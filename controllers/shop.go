package controllers

import (
	"errors"
	"net/http"
	"strings"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/services"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShopInput struct {
	Name            string `json:"name" binding:"required"`
	LocationAddress string `json:"locationAddress"`
	ContactPerson   string `json:"contactPerson"`
	ContactPhone    string `json:"contactPhone"`
	Email           string `json:"email"`
	Notes           string `json:"notes"`
}

type UpdateShopInput struct {
	Name            *string `json:"name"`
	LocationAddress *string `json:"locationAddress"`
	ContactPerson   *string `json:"contactPerson"`
	ContactPhone    *string `json:"contactPhone"`
	Email           *string `json:"email"`
	Notes           *string `json:"notes"`
	IsActive        *bool   `json:"isActive"`
}

func CreateShop(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input ShopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.ContactPhone != "" && !utils.ValidatePhone(input.ContactPhone) {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "Invalid phone number")
		return
	}

	shop := models.Shop{
		UserID:          userUUID,
		Name:            strings.TrimSpace(input.Name),
		LocationAddress: input.LocationAddress,
		ContactPerson:   input.ContactPerson,
		ContactPhone:    input.ContactPhone,
		Email:           input.Email,
		Notes:           input.Notes,
		IsActive:        true,
	}
	if err := config.DB.Create(&shop).Error; err != nil {
		if strings.Contains(err.Error(), "idx_user_shop_name") {
			utils.RespondWithError(c, http.StatusConflict, "A shop with this name already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create shop")
		return
	}

	c.JSON(http.StatusCreated, shop)
}

func GetShops(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userUUID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("name ILIKE ?", "%"+q+"%")
	}

	var shops []models.Shop
	if err := query.Order("name ASC").Find(&shops).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch shops")
		return
	}

	c.JSON(http.StatusOK, shops)
}

func UpdateShop(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	shopID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var shop models.Shop
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, shopID).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Shop not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateShopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		shop.Name = strings.TrimSpace(*input.Name)
	}
	if input.LocationAddress != nil {
		shop.LocationAddress = *input.LocationAddress
	}
	if input.ContactPerson != nil {
		shop.ContactPerson = *input.ContactPerson
	}
	if input.ContactPhone != nil {
		if *input.ContactPhone != "" && !utils.ValidatePhone(*input.ContactPhone) {
			utils.RespondWithError(c, http.StatusUnprocessableEntity, "Invalid phone number")
			return
		}
		shop.ContactPhone = *input.ContactPhone
	}
	if input.Email != nil {
		shop.Email = *input.Email
	}
	if input.Notes != nil {
		shop.Notes = *input.Notes
	}
	if input.IsActive != nil {
		shop.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&shop).Error; err != nil {
		if strings.Contains(err.Error(), "idx_user_shop_name") {
			utils.RespondWithError(c, http.StatusConflict, "A shop with this name already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update shop")
		return
	}

	c.JSON(http.StatusOK, shop)
}

// DeleteShop refuses to remove a shop that still carries ledger history or
// sales; deactivate it instead.
func DeleteShop(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	shopID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var shop models.Shop
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, shopID).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Shop not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var ledgerCount, salesCount int64
	config.DB.Model(&models.ShopFinancialTransaction{}).Where("shop_id = ?", shop.ID).Count(&ledgerCount)
	config.DB.Model(&models.SalesTransaction{}).Where("customer_shop_id = ?", shop.ID).Count(&salesCount)
	if ledgerCount > 0 || salesCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":       "Shop has history and cannot be deleted; mark it inactive instead",
			"ledgerCount": ledgerCount,
			"salesCount":  salesCount,
		})
		return
	}

	if err := config.DB.Delete(&shop).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete shop")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shop deleted"})
}

// AjaxGetShopDetails feeds the sale and ledger dialogs: contact info plus the
// current credit balance.
func AjaxGetShopDetails(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondAJAXError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var shop models.Shop
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, shopID).First(&shop).Error; err != nil {
		utils.RespondAJAXError(c, http.StatusNotFound, "Shop not found")
		return
	}

	balance, err := services.NewLedgerService(config.DB).CurrentShopBalance(userUUID, shop.ID)
	if err != nil {
		utils.RespondAJAXError(c, http.StatusInternalServerError, "Failed to read balance")
		return
	}

	utils.RespondAJAXData(c, gin.H{
		"pk":               shop.ID,
		"name":             shop.Name,
		"location_address": shop.LocationAddress,
		"contact_person":   shop.ContactPerson,
		"contact_phone":    shop.ContactPhone,
		"current_balance":  balance.StringFixed(2),
		"is_active":        shop.IsActive,
	})
}
