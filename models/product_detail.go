package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDetail is a purchasable batch of a base product: one packing
// variant with its own cost, expiry and stock level.
//
// Stock is stored in the X.YY master-unit encoding and is only ever mutated
// through DecreaseStock/IncreaseStock, which round-trip through the integer
// item count. Direct decimal add/subtract drifts whenever items_per_master_unit
// differs from 100.
type ProductDetail struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ProductBaseID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`

	PackingType       string          `gorm:"not null;default:'Carton'"` // e.g. Bottle, Box, Carton, PET Jar
	QuantityInPacking decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitOfMeasure     string          `gorm:"not null;default:'liter'"` // e.g. kg, liter, pieces

	ItemsPerMasterUnit int             `gorm:"not null"`
	PricePerItem       decimal.Decimal `gorm:"type:decimal(10,2);not null"` // our cost per individual item
	Stock              decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ExpiryDate         time.Time       `gorm:"not null"`

	ProductBase *Product `gorm:"foreignKey:ProductBaseID"`

	SaleItems  []SalesTransactionItem `gorm:"foreignKey:ProductDetailID;constraint:OnDelete:RESTRICT"`
	ClaimItems []ClaimItem            `gorm:"foreignKey:ProductDetailID;constraint:OnDelete:RESTRICT"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalItemsInStock returns the stock level as a plain individual item count.
func (pd *ProductDetail) TotalItemsInStock() int {
	return ItemsFromDecimal(pd.Stock, pd.ItemsPerMasterUnit)
}

// MasterUnitPrice is the cost of one full packing unit.
func (pd *ProductDetail) MasterUnitPrice() decimal.Decimal {
	return pd.PricePerItem.Mul(decimal.NewFromInt(int64(pd.ItemsPerMasterUnit)))
}

// StockValue is the cost value of everything on hand.
func (pd *ProductDetail) StockValue() decimal.Decimal {
	return pd.PricePerItem.Mul(decimal.NewFromInt(int64(pd.TotalItemsInStock())))
}

// DecreaseStock removes quantity (X.YY encoded) from stock. Returns false and
// leaves stock untouched when there is not enough on hand; ordinary
// insufficiency is a validation outcome, not an error. The caller is
// responsible for persisting the row and for holding its row lock when the
// decrease is part of a larger operation.
func (pd *ProductDetail) DecreaseStock(quantity decimal.Decimal) bool {
	if pd.ItemsPerMasterUnit <= 0 || quantity.IsNegative() {
		return false
	}
	requested := ItemsFromDecimal(quantity, pd.ItemsPerMasterUnit)
	current := pd.TotalItemsInStock()
	if current < requested {
		return false
	}
	pd.Stock = DecimalFromItems(current-requested, pd.ItemsPerMasterUnit)
	return true
}

// IncreaseStock adds quantity (X.YY encoded) back to stock. A zero quantity
// is a no-op success.
func (pd *ProductDetail) IncreaseStock(quantity decimal.Decimal) bool {
	if pd.ItemsPerMasterUnit <= 0 || quantity.IsNegative() {
		return false
	}
	added := ItemsFromDecimal(quantity, pd.ItemsPerMasterUnit)
	pd.Stock = DecimalFromItems(pd.TotalItemsInStock()+added, pd.ItemsPerMasterUnit)
	return true
}

// Repack changes the items-per-master-unit packing size and re-encodes the
// stored stock so the same number of individual items stays on hand. Without
// the re-encode a packing change would silently reinterpret the X.YY stock
// figure. Returns false when the new size is out of range.
func (pd *ProductDetail) Repack(itemsPerUnit int) bool {
	if itemsPerUnit < 1 || itemsPerUnit > MaxItemsPerMasterUnit {
		return false
	}
	total := pd.TotalItemsInStock()
	pd.ItemsPerMasterUnit = itemsPerUnit
	pd.Stock = DecimalFromItems(total, itemsPerUnit)
	return true
}
