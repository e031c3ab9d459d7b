package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsFromDecimal(t *testing.T) {
	tests := []struct {
		name         string
		quantity     string
		itemsPerUnit int
		want         int
	}{
		{"whole units only", "3.00", 12, 36},
		{"loose items only", "0.05", 12, 5},
		{"mixed", "1.05", 12, 17},
		{"single item packing", "7.00", 1, 7},
		{"large packing", "2.50", 100, 250},
		{"zero", "0.00", 12, 0},
		{"two digit loose", "1.11", 24, 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := decimal.RequireFromString(tt.quantity)
			assert.Equal(t, tt.want, ItemsFromDecimal(q, tt.itemsPerUnit))
		})
	}
}

func TestDecimalFromItems(t *testing.T) {
	assert.Equal(t, "1.05", DecimalFromItems(17, 12).StringFixed(2))
	assert.Equal(t, "0.00", DecimalFromItems(0, 12).StringFixed(2))
	assert.Equal(t, "2.50", DecimalFromItems(250, 100).StringFixed(2))
	assert.Equal(t, "7.00", DecimalFromItems(7, 1).StringFixed(2))

	// 24 loose items with a packing of 24 roll into one master unit
	assert.Equal(t, "1.00", DecimalFromItems(24, 24).StringFixed(2))

	assert.True(t, DecimalFromItems(-1, 12).IsZero())
	assert.True(t, DecimalFromItems(10, 0).IsZero())
}

// The codec must be an exact inverse pair for every representable item count
// and packing size, or stock drifts on every sale/return cycle.
func TestQuantityCodecRoundTrip(t *testing.T) {
	for itemsPerUnit := 1; itemsPerUnit <= MaxItemsPerMasterUnit; itemsPerUnit++ {
		for totalItems := 0; totalItems <= 3*itemsPerUnit+5; totalItems++ {
			encoded := DecimalFromItems(totalItems, itemsPerUnit)
			got := ItemsFromDecimal(encoded, itemsPerUnit)
			require.Equal(t, totalItems, got,
				"round trip failed for %d items at %d per unit (encoded %s)",
				totalItems, itemsPerUnit, encoded)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	valid := func(s string, ipu int) error {
		return ValidateQuantity(decimal.RequireFromString(s), ipu)
	}

	assert.NoError(t, valid("1.05", 12))
	assert.NoError(t, valid("0.01", 2))
	assert.NoError(t, valid("10.00", 1))
	assert.NoError(t, valid("1.99", 100))

	assert.Error(t, valid("0.00", 12), "zero quantity")
	assert.Error(t, valid("-1.00", 12), "negative quantity")
	assert.Error(t, valid("1.005", 12), "three decimal places")
	assert.Error(t, valid("1.12", 12), "loose equals packing size")
	assert.Error(t, valid("1.50", 12), "loose exceeds packing size")
	assert.Error(t, valid("1.01", 1), "no loose items allowed for size 1")

	assert.Error(t, valid("1.00", 0), "packing size zero")
	assert.Error(t, valid("1.00", 101), "packing size beyond encoding limit")
}

func TestValidateQuantityOrZero(t *testing.T) {
	valid := func(s string, ipu int) error {
		return ValidateQuantityOrZero(decimal.RequireFromString(s), ipu)
	}

	assert.NoError(t, valid("0.00", 12), "zero is a valid settlement adjustment")
	assert.NoError(t, valid("0.05", 12))
	assert.NoError(t, valid("2.11", 12))

	assert.Error(t, valid("0.50", 12), "loose count beyond packing size")
	assert.Error(t, valid("1.005", 12), "three decimal places")
	assert.Error(t, valid("-0.01", 12), "negative adjustment")
}
