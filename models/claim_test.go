package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClaimItemTotalCost(t *testing.T) {
	it := &ClaimItem{
		QuantityDecimal:  decimal.RequireFromString("1.05"), // 17 items at 12/unit
		CostPriceAtClaim: decimal.RequireFromString("3.00"),
	}
	assert.Equal(t, "51.00", it.TotalCost(12).StringFixed(2))
}

func TestValueOfItemsGiven(t *testing.T) {
	batch := &ProductDetail{ItemsPerMasterUnit: 12}
	claim := &Claim{Items: []ClaimItem{
		{
			ItemType:         ClaimItemClaimed, // returned goods don't count
			QuantityDecimal:  decimal.RequireFromString("1.00"),
			CostPriceAtClaim: decimal.RequireFromString("5.00"),
			ProductDetail:    batch,
		},
		{
			ItemType:         ClaimItemExchanged, // 5 items at 4.00
			QuantityDecimal:  decimal.RequireFromString("0.05"),
			CostPriceAtClaim: decimal.RequireFromString("4.00"),
			ProductDetail:    batch,
		},
	}}

	assert.Equal(t, "20.00", claim.ValueOfItemsGiven().StringFixed(2))
}
