package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentTypeCash   = "CASH"
	PaymentTypeOnline = "ONLINE"
	PaymentTypeCredit = "CREDIT"
	PaymentTypeSplit  = "SPLIT"
)

const (
	SaleStatusPendingItems      = "PENDING_ITEMS"
	SaleStatusPendingDelivery   = "PENDING_DELIVERY"
	SaleStatusCompleted         = "COMPLETED"
	SaleStatusPartiallyReturned = "PARTIALLY_RETURNED"
	SaleStatusFullyReturned     = "FULLY_RETURNED"
	SaleStatusCancelled         = "CANCELLED"
)

// SalesTransaction is the header of a multi-item sale: customer, payment
// split, optional delivery vehicle and the persisted grand totals.
//
// GrandTotalRevenue and GrandTotalCost are derived caches; Recalculate is the
// only thing that writes them, and callers invoke it deliberately after all
// line mutations rather than on every item save.
type SalesTransaction struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	TransactionNumber string `gorm:"uniqueIndex;not null"`

	// Registered shop XOR free-text customer name.
	CustomerShopID     *uuid.UUID `gorm:"type:uuid;index"`
	CustomerNameManual string

	PaymentType      string          `gorm:"not null"`
	AmountPaidCash   decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	AmountPaidOnline decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	AmountOnCredit   decimal.Decimal `gorm:"type:decimal(12,2);default:0"`

	NeedsVehicle      bool
	AssignedVehicleID *uuid.UUID `gorm:"type:uuid;index"`

	TotalDiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0"`

	Status               string `gorm:"not null;default:'PENDING_ITEMS'"`
	IsReadyForProcessing bool   `gorm:"default:false"`

	GrandTotalRevenue decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	GrandTotalCost    decimal.Decimal `gorm:"type:decimal(12,2);default:0"`

	Notes           string
	TransactionDate time.Time `gorm:"index;default:CURRENT_TIMESTAMP"`

	Items           []SalesTransactionItem `gorm:"foreignKey:TransactionID"`
	CustomerShop    *Shop                  `gorm:"foreignKey:CustomerShopID"`
	AssignedVehicle *Vehicle               `gorm:"foreignKey:AssignedVehicleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SalesTransactionItem is one line of a sale against a specific batch. Price,
// cost, packing size and expiry are snapshotted at sale time so later catalog
// edits never rewrite history.
type SalesTransactionItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	TransactionID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductDetailID uuid.UUID `gorm:"type:uuid;index;not null"`

	ProductNameAtSale        string          `gorm:"not null"`
	PackingTypeAtSale        string          `gorm:"not null"`
	SellingPricePerItem      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostPricePerItemAtSale   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ItemsPerMasterUnitAtSale int             `gorm:"not null"`
	ExpiryDateAtSale         time.Time       `gorm:"not null"`

	// All three are X.YY encoded.
	QuantitySoldDecimal     decimal.Decimal `gorm:"type:decimal(10,2);not null"` // dispatched
	ReturnedQuantityDecimal decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	IncreasedDemandDecimal  decimal.Decimal `gorm:"type:decimal(10,2);default:0"`

	ProductDetail *ProductDetail `gorm:"foreignKey:ProductDetailID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DispatchedItems is the individual item count physically sent out.
func (it *SalesTransactionItem) DispatchedItems() int {
	return ItemsFromDecimal(it.QuantitySoldDecimal, it.ItemsPerMasterUnitAtSale)
}

// ReturnedItems is the individual item count brought back at settlement.
func (it *SalesTransactionItem) ReturnedItems() int {
	return ItemsFromDecimal(it.ReturnedQuantityDecimal, it.ItemsPerMasterUnitAtSale)
}

// IncreasedDemandItems is extra quantity sold beyond the original dispatch.
func (it *SalesTransactionItem) IncreasedDemandItems() int {
	return ItemsFromDecimal(it.IncreasedDemandDecimal, it.ItemsPerMasterUnitAtSale)
}

// NetItems = dispatched + increased demand - returned: what the customer
// actually kept and is billed for.
func (it *SalesTransactionItem) NetItems() int {
	net := it.DispatchedItems() + it.IncreasedDemandItems() - it.ReturnedItems()
	if net < 0 {
		return 0
	}
	return net
}

// LineRevenue is the gross subtotal for the net quantity kept.
func (it *SalesTransactionItem) LineRevenue() decimal.Decimal {
	return it.SellingPricePerItem.Mul(decimal.NewFromInt(int64(it.NetItems())))
}

// LineCost is our cost for the net quantity kept.
func (it *SalesTransactionItem) LineCost() decimal.Decimal {
	return it.CostPricePerItemAtSale.Mul(decimal.NewFromInt(int64(it.NetItems())))
}

// LineProfit is revenue minus cost for this line.
func (it *SalesTransactionItem) LineProfit() decimal.Decimal {
	return it.LineRevenue().Sub(it.LineCost())
}

// ValidateReturn rejects a return larger than what was dispatched.
func (it *SalesTransactionItem) ValidateReturn(returned decimal.Decimal) error {
	if returned.IsNegative() {
		return fmt.Errorf("returned quantity cannot be negative")
	}
	returnedItems := ItemsFromDecimal(returned, it.ItemsPerMasterUnitAtSale)
	if returnedItems > it.DispatchedItems() {
		return fmt.Errorf("returned quantity (%d items) exceeds dispatched quantity (%d items)",
			returnedItems, it.DispatchedItems())
	}
	return nil
}

// Recalculate rewrites the persisted grand totals from the current line
// items: revenue = sum of net line revenue minus the flat discount, cost =
// sum of net line cost. Call it once after all line mutations, then save.
func (st *SalesTransaction) Recalculate() {
	revenue := decimal.Zero
	cost := decimal.Zero
	for i := range st.Items {
		revenue = revenue.Add(st.Items[i].LineRevenue())
		cost = cost.Add(st.Items[i].LineCost())
	}
	st.GrandTotalRevenue = revenue.Sub(st.TotalDiscountAmount)
	if st.GrandTotalRevenue.IsNegative() {
		st.GrandTotalRevenue = decimal.Zero
	}
	st.GrandTotalCost = cost
}

// GrandTotalProfit is revenue minus cost over the whole transaction.
func (st *SalesTransaction) GrandTotalProfit() decimal.Decimal {
	return st.GrandTotalRevenue.Sub(st.GrandTotalCost)
}

// CustomerLabel returns the registered shop name or the free-text customer.
func (st *SalesTransaction) CustomerLabel() string {
	if st.CustomerShop != nil {
		return st.CustomerShop.Name
	}
	if st.CustomerNameManual != "" {
		return st.CustomerNameManual
	}
	return "Walk-in"
}

// ValidatePayment enforces the payment law against the current grand total:
// for SPLIT the three amounts must sum to it exactly; for a single payment
// type that one amount must equal it and the other two must be zero.
func (st *SalesTransaction) ValidatePayment() error {
	sum := st.AmountPaidCash.Add(st.AmountPaidOnline).Add(st.AmountOnCredit)
	switch st.PaymentType {
	case PaymentTypeSplit:
		if !sum.Equal(st.GrandTotalRevenue) {
			return fmt.Errorf("split payment amounts (cash %s + online %s + credit %s = %s) must equal the grand total %s",
				st.AmountPaidCash, st.AmountPaidOnline, st.AmountOnCredit, sum, st.GrandTotalRevenue)
		}
	case PaymentTypeCash:
		if !st.AmountPaidCash.Equal(st.GrandTotalRevenue) || !st.AmountPaidOnline.IsZero() || !st.AmountOnCredit.IsZero() {
			return fmt.Errorf("cash payment must equal the grand total %s with no online or credit portion", st.GrandTotalRevenue)
		}
	case PaymentTypeOnline:
		if !st.AmountPaidOnline.Equal(st.GrandTotalRevenue) || !st.AmountPaidCash.IsZero() || !st.AmountOnCredit.IsZero() {
			return fmt.Errorf("online payment must equal the grand total %s with no cash or credit portion", st.GrandTotalRevenue)
		}
	case PaymentTypeCredit:
		if !st.AmountOnCredit.Equal(st.GrandTotalRevenue) || !st.AmountPaidCash.IsZero() || !st.AmountPaidOnline.IsZero() {
			return fmt.Errorf("credit payment must equal the grand total %s with no cash or online portion", st.GrandTotalRevenue)
		}
	default:
		return fmt.Errorf("unknown payment type %q", st.PaymentType)
	}
	return nil
}

// ApplySinglePayment fills the three amount fields for a non-split payment
// type so that exactly one of them carries the grand total.
func (st *SalesTransaction) ApplySinglePayment() {
	st.AmountPaidCash = decimal.Zero
	st.AmountPaidOnline = decimal.Zero
	st.AmountOnCredit = decimal.Zero
	switch st.PaymentType {
	case PaymentTypeCash:
		st.AmountPaidCash = st.GrandTotalRevenue
	case PaymentTypeOnline:
		st.AmountPaidOnline = st.GrandTotalRevenue
	case PaymentTypeCredit:
		st.AmountOnCredit = st.GrandTotalRevenue
	}
}

// RestocksOnReversal reports whether reversing this transaction should put
// its net-sold quantities back into stock. Cancelled transactions already had
// their dispatched stock restored when the delivery was cancelled, so
// reversing one only removes the records.
func (st *SalesTransaction) RestocksOnReversal() bool {
	return st.Status != SaleStatusCancelled
}

// DeriveSettlementStatus computes the post-settlement status: COMPLETED when
// nothing came back, FULLY_RETURNED when every line returned at least its
// full dispatch, PARTIALLY_RETURNED otherwise.
func (st *SalesTransaction) DeriveSettlementStatus() string {
	anyReturned := false
	allFullyReturned := len(st.Items) > 0
	for i := range st.Items {
		it := &st.Items[i]
		if it.ReturnedItems() > 0 {
			anyReturned = true
		}
		if it.ReturnedItems() < it.DispatchedItems() {
			allFullyReturned = false
		}
	}
	switch {
	case !anyReturned:
		return SaleStatusCompleted
	case allFullyReturned:
		return SaleStatusFullyReturned
	default:
		return SaleStatusPartiallyReturned
	}
}
