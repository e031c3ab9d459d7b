package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func saleItem(sold, returned, increased string, price, cost string, ipu int) SalesTransactionItem {
	return SalesTransactionItem{
		SellingPricePerItem:      d(price),
		CostPricePerItemAtSale:   d(cost),
		ItemsPerMasterUnitAtSale: ipu,
		QuantitySoldDecimal:      d(sold),
		ReturnedQuantityDecimal:  d(returned),
		IncreasedDemandDecimal:   d(increased),
	}
}

func TestNetItems(t *testing.T) {
	// dispatched 17, returned 5, extra 12 -> billed for 24
	it := saleItem("1.05", "0.05", "1.00", "10.00", "6.00", 12)
	assert.Equal(t, 17, it.DispatchedItems())
	assert.Equal(t, 5, it.ReturnedItems())
	assert.Equal(t, 12, it.IncreasedDemandItems())
	assert.Equal(t, 24, it.NetItems())

	// full return of everything dispatched
	full := saleItem("1.05", "1.05", "0.00", "10.00", "6.00", 12)
	assert.Equal(t, 0, full.NetItems())
}

func TestLineTotals(t *testing.T) {
	it := saleItem("1.00", "0.00", "0.00", "10.00", "6.00", 12)
	assert.Equal(t, "120.00", it.LineRevenue().StringFixed(2))
	assert.Equal(t, "72.00", it.LineCost().StringFixed(2))
	assert.Equal(t, "48.00", it.LineProfit().StringFixed(2))
}

func TestValidateReturn(t *testing.T) {
	it := saleItem("1.05", "0.00", "0.00", "10.00", "6.00", 12)

	assert.NoError(t, it.ValidateReturn(d("0.05")))
	assert.NoError(t, it.ValidateReturn(d("1.05")))
	assert.Error(t, it.ValidateReturn(d("1.06")), "more than dispatched")
	assert.Error(t, it.ValidateReturn(d("-0.01")), "negative")
}

func TestRecalculate(t *testing.T) {
	st := &SalesTransaction{
		TotalDiscountAmount: d("20.00"),
		Items: []SalesTransactionItem{
			saleItem("1.00", "0.00", "0.00", "10.00", "6.00", 12), // 120 / 72
			saleItem("0.05", "0.02", "0.00", "8.00", "5.00", 12),  // net 3: 24 / 15
		},
	}
	st.Recalculate()

	assert.Equal(t, "124.00", st.GrandTotalRevenue.StringFixed(2))
	assert.Equal(t, "87.00", st.GrandTotalCost.StringFixed(2))
	assert.Equal(t, "37.00", st.GrandTotalProfit().StringFixed(2))
}

func TestRecalculateDiscountClampsToZero(t *testing.T) {
	st := &SalesTransaction{
		TotalDiscountAmount: d("500.00"),
		Items: []SalesTransactionItem{
			saleItem("0.05", "0.00", "0.00", "10.00", "6.00", 12),
		},
	}
	st.Recalculate()

	assert.True(t, st.GrandTotalRevenue.IsZero())
	assert.Equal(t, "30.00", st.GrandTotalCost.StringFixed(2))
}

func TestValidatePayment(t *testing.T) {
	base := func(paymentType string) *SalesTransaction {
		return &SalesTransaction{
			PaymentType:       paymentType,
			GrandTotalRevenue: d("100.00"),
		}
	}

	t.Run("single type must carry the full total", func(t *testing.T) {
		st := base(PaymentTypeCash)
		st.AmountPaidCash = d("100.00")
		assert.NoError(t, st.ValidatePayment())

		st.AmountPaidCash = d("99.00")
		assert.Error(t, st.ValidatePayment())

		st.AmountPaidCash = d("100.00")
		st.AmountOnCredit = d("1.00")
		assert.Error(t, st.ValidatePayment())
	})

	t.Run("split must sum exactly", func(t *testing.T) {
		st := base(PaymentTypeSplit)
		st.AmountPaidCash = d("40.00")
		st.AmountPaidOnline = d("35.00")
		st.AmountOnCredit = d("25.00")
		assert.NoError(t, st.ValidatePayment())

		st.AmountOnCredit = d("25.01")
		assert.Error(t, st.ValidatePayment())
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		st := base("BARTER")
		assert.Error(t, st.ValidatePayment())
	})
}

func TestApplySinglePayment(t *testing.T) {
	st := &SalesTransaction{
		PaymentType:       PaymentTypeCredit,
		GrandTotalRevenue: d("250.00"),
		AmountPaidCash:    d("99.00"), // stale value must be cleared
	}
	st.ApplySinglePayment()

	assert.True(t, st.AmountPaidCash.IsZero())
	assert.True(t, st.AmountPaidOnline.IsZero())
	assert.Equal(t, "250.00", st.AmountOnCredit.StringFixed(2))
	require.NoError(t, st.ValidatePayment())
}

func TestDeriveSettlementStatus(t *testing.T) {
	t.Run("nothing returned", func(t *testing.T) {
		st := &SalesTransaction{Items: []SalesTransactionItem{
			saleItem("1.00", "0.00", "0.00", "10.00", "6.00", 12),
		}}
		assert.Equal(t, SaleStatusCompleted, st.DeriveSettlementStatus())
	})

	t.Run("partial return", func(t *testing.T) {
		st := &SalesTransaction{Items: []SalesTransactionItem{
			saleItem("1.00", "0.05", "0.00", "10.00", "6.00", 12),
			saleItem("0.06", "0.00", "0.00", "8.00", "5.00", 12),
		}}
		assert.Equal(t, SaleStatusPartiallyReturned, st.DeriveSettlementStatus())
	})

	t.Run("everything returned", func(t *testing.T) {
		st := &SalesTransaction{Items: []SalesTransactionItem{
			saleItem("1.00", "1.00", "0.00", "10.00", "6.00", 12),
			saleItem("0.06", "0.06", "0.00", "8.00", "5.00", 12),
		}}
		assert.Equal(t, SaleStatusFullyReturned, st.DeriveSettlementStatus())
	})
}

func TestCustomerLabel(t *testing.T) {
	assert.Equal(t, "Walk-in", (&SalesTransaction{}).CustomerLabel())
	assert.Equal(t, "Ali", (&SalesTransaction{CustomerNameManual: "Ali"}).CustomerLabel())
	assert.Equal(t, "City Mart", (&SalesTransaction{
		CustomerShop: &Shop{Name: "City Mart"},
	}).CustomerLabel())
}

// Reversing a transaction whose delivery was already cancelled must not put
// stock back a second time; the cancellation restored the dispatched
// quantity.
func TestRestocksOnReversal(t *testing.T) {
	st := &SalesTransaction{Status: SaleStatusCancelled, TransactionDate: time.Now()}
	assert.False(t, st.RestocksOnReversal())

	for _, status := range []string{SaleStatusCompleted, SaleStatusPartiallyReturned, SaleStatusFullyReturned} {
		st.Status = status
		assert.True(t, st.RestocksOnReversal(), status)
	}
}

func TestCancelThenReverseConservesStock(t *testing.T) {
	// 3 cartons of 20 = 60 items; dispatching 0.17 leaves 43.
	pd := &ProductDetail{ItemsPerMasterUnit: 20, Stock: d("3.00")}
	require.True(t, pd.DecreaseStock(d("0.17")))
	require.Equal(t, 43, pd.TotalItemsInStock())

	// Cancelling the pending delivery puts the dispatched quantity back.
	require.True(t, pd.IncreaseStock(d("0.17")))
	require.Equal(t, 60, pd.TotalItemsInStock())

	st := &SalesTransaction{
		Status:          SaleStatusCancelled,
		TransactionDate: time.Now(),
		Items:           []SalesTransactionItem{saleItem("0.17", "0.00", "0.00", "10.00", "6.00", 20)},
	}
	if st.RestocksOnReversal() {
		for i := range st.Items {
			pd.Stock = DecimalFromItems(pd.TotalItemsInStock()+st.Items[i].NetItems(), pd.ItemsPerMasterUnit)
		}
	}
	assert.Equal(t, 60, pd.TotalItemsInStock())
	assert.Equal(t, "3.00", pd.Stock.StringFixed(2))
}
