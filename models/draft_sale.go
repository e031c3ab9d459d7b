package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftSale is the in-progress multi-item sale. It used to be the natural fit
// for volatile session state, but persisting it means a half-built sale
// survives restarts and can be inspected and resumed. One open draft per user.
type DraftSale struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Items []DraftSaleItem `gorm:"foreignKey:DraftSaleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DraftSaleItem is one cart line. A batch can appear at most once per draft;
// changing its quantity means remove and re-add.
type DraftSaleItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	DraftSaleID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_draft_batch,priority:1"`
	ProductDetailID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_draft_batch,priority:2"`

	QuantityDecimal     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellingPricePerItem decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	ProductDetail *ProductDetail `gorm:"foreignKey:ProductDetailID"`

	CreatedAt time.Time
}
