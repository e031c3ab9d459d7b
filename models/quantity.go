package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Stock and sale quantities travel as "MasterUnits.IndividualItems" decimals:
// the integer part counts whole packing units, the two fractional digits count
// loose items (e.g. 1.05 = 1 carton + 5 bottles). The decimal form is an
// input/output encoding only; all arithmetic happens on integer item counts.

// MaxItemsPerMasterUnit is the largest packing size the two-digit loose-item
// encoding can represent.
const MaxItemsPerMasterUnit = 100

var hundred = decimal.NewFromInt(100)

// ItemsFromDecimal converts an X.YY quantity into a total individual item count.
func ItemsFromDecimal(quantity decimal.Decimal, itemsPerUnit int) int {
	if itemsPerUnit <= 0 {
		return 0
	}
	whole := quantity.IntPart()
	loose := quantity.Sub(decimal.NewFromInt(whole)).Mul(hundred).Round(0).IntPart()
	return int(whole)*itemsPerUnit + int(loose)
}

// DecimalFromItems is the exact inverse of ItemsFromDecimal.
func DecimalFromItems(totalItems int, itemsPerUnit int) decimal.Decimal {
	if itemsPerUnit <= 0 || totalItems < 0 {
		return decimal.Zero
	}
	whole := totalItems / itemsPerUnit
	loose := totalItems % itemsPerUnit
	// whole*100+loose at exponent -2 gives e.g. (1, 5) -> 1.05 exactly
	return decimal.New(int64(whole)*100+int64(loose), -2)
}

// ValidateQuantity checks that a submitted X.YY quantity is positive, carries
// at most two fractional digits, and that its loose-item part fits inside one
// master unit.
func ValidateQuantity(quantity decimal.Decimal, itemsPerUnit int) error {
	if itemsPerUnit <= 0 || itemsPerUnit > MaxItemsPerMasterUnit {
		return fmt.Errorf("items per master unit must be between 1 and %d", MaxItemsPerMasterUnit)
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("quantity must be greater than zero")
	}
	if quantity.Exponent() < -2 {
		return fmt.Errorf("quantity %s has more than two decimal places", quantity.String())
	}
	whole := quantity.IntPart()
	loose := quantity.Sub(decimal.NewFromInt(whole)).Mul(hundred).Round(0).IntPart()
	if int(loose) >= itemsPerUnit {
		return fmt.Errorf("loose item count %d must be less than items per master unit (%d)", loose, itemsPerUnit)
	}
	return nil
}

// ValidateQuantityOrZero accepts a zero quantity and otherwise applies the
// same encoding checks as ValidateQuantity. Settlement adjustments and stock
// corrections may legitimately be zero.
func ValidateQuantityOrZero(quantity decimal.Decimal, itemsPerUnit int) error {
	if quantity.IsZero() {
		return nil
	}
	return ValidateQuantity(quantity, itemsPerUnit)
}
