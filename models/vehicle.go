package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	VehicleTypeTruck      = "TRUCK"
	VehicleTypeVan        = "VAN"
	VehicleTypeCar        = "CAR"
	VehicleTypeMotorcycle = "MOTORCYCLE"
	VehicleTypeOther      = "OTHER"
)

// Vehicle is a delivery vehicle; pending-delivery transactions and claim
// retrievals are grouped under it.
type Vehicle struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	VehicleNumber string `gorm:"not null;uniqueIndex"` // e.g. ABC-123
	VehicleType   string `gorm:"default:'TRUCK'"`
	DriverName    string
	DriverPhone   string
	CapacityKg    decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	Notes         string
	IsActive      bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
