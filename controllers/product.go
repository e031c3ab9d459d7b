package controllers

import (
	"errors"
	"net/http"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateProductInput defines the expected JSON structure for a base product
type CreateProductInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func CreateProduct(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	product := models.Product{
		UserID:      userUUID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusConflict, "Could not save product: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, product)
}

func GetProducts(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := config.DB.Where("user_id = ?", userUUID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, products)
}

func UpdateProduct(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a base product. Deletion is blocked while batches of
// it still exist; the response lists the conflicting batches so the operator
// can decide what to do with them.
func DeleteProduct(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var conflicting []models.ProductDetail
	if err := config.DB.Where("product_base_id = ?", product.ID).
		Find(&conflicting).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if len(conflicting) > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Product still has batches; delete or reassign them first",
			"conflicts": conflicting,
		})
		return
	}

	if err := config.DB.Delete(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
