package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ClaimStatusPending            = "PENDING"
	ClaimStatusAwaitingProcessing = "AWAITING_PROCESSING"
	ClaimStatusCompleted          = "COMPLETED"
)

const (
	ClaimItemClaimed   = "CLAIMED"   // item returned by the customer, stock in
	ClaimItemExchanged = "EXCHANGED" // item given in exchange, stock out
)

// Claim is the header of a stock-adjustment workflow for damaged or expired
// goods. While PENDING or AWAITING_PROCESSING its items have not touched
// stock; processing applies them and flips the claim to COMPLETED.
type Claim struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	ClaimedFromShopID  *uuid.UUID `gorm:"type:uuid;index"`
	RetrievalVehicleID *uuid.UUID `gorm:"type:uuid;index"`

	Reason    string    `gorm:"not null"` // e.g. Expired, Damaged
	Status    string    `gorm:"not null;default:'PENDING'"`
	ClaimDate time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	Items            []ClaimItem `gorm:"foreignKey:ClaimID"`
	ClaimedFromShop  *Shop       `gorm:"foreignKey:ClaimedFromShopID"`
	RetrievalVehicle *Vehicle    `gorm:"foreignKey:RetrievalVehicleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClaimItem is one line of a claim, tagged with the direction its stock
// adjustment will take when the claim is processed.
type ClaimItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ClaimID         uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductDetailID uuid.UUID `gorm:"type:uuid;index;not null"`

	ItemType         string          `gorm:"not null"`
	QuantityDecimal  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostPriceAtClaim decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	ProductDetail *ProductDetail `gorm:"foreignKey:ProductDetailID"`

	CreatedAt time.Time
}

// TotalCost is the cost of this line at the snapshotted price.
func (ci *ClaimItem) TotalCost(itemsPerUnit int) decimal.Decimal {
	items := ItemsFromDecimal(ci.QuantityDecimal, itemsPerUnit)
	return ci.CostPriceAtClaim.Mul(decimal.NewFromInt(int64(items)))
}

// ValueOfItemsGiven sums the cost of everything handed out in exchange.
// Items must be loaded with their ProductDetail.
func (c *Claim) ValueOfItemsGiven() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		it := &c.Items[i]
		if it.ItemType != ClaimItemExchanged || it.ProductDetail == nil {
			continue
		}
		total = total.Add(it.TotalCost(it.ProductDetail.ItemsPerMasterUnit))
	}
	return total
}
