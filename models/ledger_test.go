package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func entry(debit, credit string) ShopFinancialTransaction {
	return ShopFinancialTransaction{
		DebitAmount:  decimal.RequireFromString(debit),
		CreditAmount: decimal.RequireFromString(credit),
	}
}

func TestReplayBalances(t *testing.T) {
	entries := []ShopFinancialTransaction{
		entry("500.00", "0.00"), // credit sale
		entry("0.00", "200.00"), // cash receipt
		entry("300.00", "0.00"), // another credit sale
		entry("0.00", "600.00"), // overpayment
	}
	ReplayBalances(entries)

	assert.Equal(t, "500.00", entries[0].Balance.StringFixed(2))
	assert.Equal(t, "300.00", entries[1].Balance.StringFixed(2))
	assert.Equal(t, "600.00", entries[2].Balance.StringFixed(2))
	assert.Equal(t, "0.00", entries[3].Balance.StringFixed(2))
}

func TestReplayBalancesEmpty(t *testing.T) {
	assert.NotPanics(t, func() { ReplayBalances(nil) })
}

func TestReplayBalancesOverwritesStale(t *testing.T) {
	entries := []ShopFinancialTransaction{
		entry("100.00", "0.00"),
		entry("50.00", "0.00"),
	}
	// simulate a backdated edit that left later balances stale
	entries[0].Balance = decimal.RequireFromString("999.99")
	entries[1].Balance = decimal.RequireFromString("999.99")

	ReplayBalances(entries)

	assert.Equal(t, "100.00", entries[0].Balance.StringFixed(2))
	assert.Equal(t, "150.00", entries[1].Balance.StringFixed(2))
}

func TestIsFromSale(t *testing.T) {
	saleID := uuid.New()
	assert.True(t, (&ShopFinancialTransaction{SourceSaleID: &saleID}).IsFromSale())
	assert.False(t, (&ShopFinancialTransaction{}).IsFromSale())
}
