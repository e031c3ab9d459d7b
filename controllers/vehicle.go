package controllers

import (
	"errors"
	"net/http"
	"strings"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VehicleInput struct {
	VehicleNumber string          `json:"vehicleNumber" binding:"required"`
	VehicleType   string          `json:"vehicleType" binding:"omitempty,oneof=TRUCK VAN CAR MOTORCYCLE OTHER"`
	DriverName    string          `json:"driverName"`
	DriverPhone   string          `json:"driverPhone"`
	CapacityKg    decimal.Decimal `json:"capacityKg"`
	Notes         string          `json:"notes"`
}

type UpdateVehicleInput struct {
	VehicleNumber *string          `json:"vehicleNumber"`
	VehicleType   *string          `json:"vehicleType" binding:"omitempty,oneof=TRUCK VAN CAR MOTORCYCLE OTHER"`
	DriverName    *string          `json:"driverName"`
	DriverPhone   *string          `json:"driverPhone"`
	CapacityKg    *decimal.Decimal `json:"capacityKg"`
	Notes         *string          `json:"notes"`
	IsActive      *bool            `json:"isActive"`
}

func CreateVehicle(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	vehicle := models.Vehicle{
		UserID:        userUUID,
		VehicleNumber: strings.ToUpper(strings.TrimSpace(input.VehicleNumber)),
		VehicleType:   input.VehicleType,
		DriverName:    input.DriverName,
		DriverPhone:   input.DriverPhone,
		CapacityKg:    input.CapacityKg,
		Notes:         input.Notes,
		IsActive:      true,
	}
	if vehicle.VehicleType == "" {
		vehicle.VehicleType = models.VehicleTypeTruck
	}

	if err := config.DB.Create(&vehicle).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			utils.RespondWithError(c, http.StatusConflict, "A vehicle with this number already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

func GetVehicles(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userUUID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var vehicles []models.Vehicle
	if err := query.Order("vehicle_number ASC").Find(&vehicles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch vehicles")
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

func UpdateVehicle(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	vehicleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, vehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.VehicleNumber != nil {
		vehicle.VehicleNumber = strings.ToUpper(strings.TrimSpace(*input.VehicleNumber))
	}
	if input.VehicleType != nil {
		vehicle.VehicleType = *input.VehicleType
	}
	if input.DriverName != nil {
		vehicle.DriverName = *input.DriverName
	}
	if input.DriverPhone != nil {
		vehicle.DriverPhone = *input.DriverPhone
	}
	if input.CapacityKg != nil {
		vehicle.CapacityKg = *input.CapacityKg
	}
	if input.Notes != nil {
		vehicle.Notes = *input.Notes
	}
	if input.IsActive != nil {
		vehicle.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vehicle")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle refuses while deliveries are still pending against the
// vehicle.
func DeleteVehicle(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	vehicleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, vehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var pendingCount int64
	config.DB.Model(&models.SalesTransaction{}).
		Where("assigned_vehicle_id = ? AND status = ?", vehicle.ID, models.SaleStatusPendingDelivery).
		Count(&pendingCount)
	if pendingCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":        "Vehicle still has pending deliveries",
			"pendingCount": pendingCount,
		})
		return
	}

	if err := config.DB.Delete(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}

// AjaxGetVehicleDetails feeds the dispatch dialog: driver info plus the count
// of deliveries currently pending on the vehicle.
func AjaxGetVehicleDetails(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondAJAXError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, vehicleID).First(&vehicle).Error; err != nil {
		utils.RespondAJAXError(c, http.StatusNotFound, "Vehicle not found")
		return
	}

	var pendingCount int64
	config.DB.Model(&models.SalesTransaction{}).
		Where("assigned_vehicle_id = ? AND status = ?", vehicle.ID, models.SaleStatusPendingDelivery).
		Count(&pendingCount)

	utils.RespondAJAXData(c, gin.H{
		"pk":               vehicle.ID,
		"vehicle_number":   vehicle.VehicleNumber,
		"vehicle_type":     vehicle.VehicleType,
		"driver_name":      vehicle.DriverName,
		"driver_phone":     vehicle.DriverPhone,
		"capacity_kg":      vehicle.CapacityKg.StringFixed(2),
		"pending_delivery": pendingCount,
		"is_active":        vehicle.IsActive,
	})
}
