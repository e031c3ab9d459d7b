package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newBatch(stock string, itemsPerUnit int) *ProductDetail {
	return &ProductDetail{
		ItemsPerMasterUnit: itemsPerUnit,
		PricePerItem:       decimal.RequireFromString("2.50"),
		Stock:              decimal.RequireFromString(stock),
	}
}

func TestDecreaseStock(t *testing.T) {
	t.Run("borrows loose items across master units", func(t *testing.T) {
		// 2 cartons of 12 = 24 items; selling 1.05 (17 items) leaves 7 = 0.07
		pd := newBatch("2.00", 12)
		assert.True(t, pd.DecreaseStock(decimal.RequireFromString("1.05")))
		assert.Equal(t, "0.07", pd.Stock.StringFixed(2))
		assert.Equal(t, 7, pd.TotalItemsInStock())
	})

	t.Run("exact depletion", func(t *testing.T) {
		pd := newBatch("1.05", 12)
		assert.True(t, pd.DecreaseStock(decimal.RequireFromString("1.05")))
		assert.Equal(t, "0.00", pd.Stock.StringFixed(2))
	})

	t.Run("insufficiency leaves stock untouched", func(t *testing.T) {
		pd := newBatch("0.07", 12)
		assert.False(t, pd.DecreaseStock(decimal.RequireFromString("0.08")))
		assert.Equal(t, "0.07", pd.Stock.StringFixed(2))
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		pd := newBatch("2.00", 12)
		assert.False(t, pd.DecreaseStock(decimal.RequireFromString("-0.01")))
		assert.Equal(t, "2.00", pd.Stock.StringFixed(2))
	})
}

func TestIncreaseStock(t *testing.T) {
	t.Run("loose items roll into master units", func(t *testing.T) {
		// 0.07 + 0.05 = 12 items = exactly one carton of 12
		pd := newBatch("0.07", 12)
		assert.True(t, pd.IncreaseStock(decimal.RequireFromString("0.05")))
		assert.Equal(t, "1.00", pd.Stock.StringFixed(2))
	})

	t.Run("zero is a no-op success", func(t *testing.T) {
		pd := newBatch("1.05", 12)
		assert.True(t, pd.IncreaseStock(decimal.Zero))
		assert.Equal(t, "1.05", pd.Stock.StringFixed(2))
	})
}

// A sale followed by a full return must restore the exact starting stock.
func TestStockConservation(t *testing.T) {
	for _, ipu := range []int{1, 7, 12, 24, 100} {
		pd := newBatch("5.00", ipu)
		before := pd.TotalItemsInStock()

		sold := DecimalFromItems(before/2, ipu)
		if sold.IsZero() {
			continue
		}
		assert.True(t, pd.DecreaseStock(sold))
		assert.True(t, pd.IncreaseStock(sold))
		assert.Equal(t, before, pd.TotalItemsInStock(), "items per unit %d", ipu)
		assert.Equal(t, "5.00", pd.Stock.StringFixed(2), "items per unit %d", ipu)
	}
}

func TestStockValue(t *testing.T) {
	pd := newBatch("1.05", 12) // 17 items at 2.50
	assert.Equal(t, "42.50", pd.StockValue().StringFixed(2))
	assert.Equal(t, "30.00", pd.MasterUnitPrice().StringFixed(2))
}

func TestRepack(t *testing.T) {
	t.Run("re-encodes stock under the new packing size", func(t *testing.T) {
		// 3 cartons of 12 plus 5 loose = 41 items; in 24s that is 1.17.
		pd := newBatch("3.05", 12)
		assert.True(t, pd.Repack(24))
		assert.Equal(t, 24, pd.ItemsPerMasterUnit)
		assert.Equal(t, "1.17", pd.Stock.StringFixed(2))
		assert.Equal(t, 41, pd.TotalItemsInStock())
	})

	t.Run("smaller packing size", func(t *testing.T) {
		pd := newBatch("3.05", 12) // 41 items
		assert.True(t, pd.Repack(5))
		assert.Equal(t, "8.01", pd.Stock.StringFixed(2))
		assert.Equal(t, 41, pd.TotalItemsInStock())
	})

	t.Run("rejects out-of-range packing sizes", func(t *testing.T) {
		pd := newBatch("3.05", 12)
		assert.False(t, pd.Repack(0))
		assert.False(t, pd.Repack(101))
		assert.Equal(t, 12, pd.ItemsPerMasterUnit)
		assert.Equal(t, "3.05", pd.Stock.StringFixed(2))
	})
}
