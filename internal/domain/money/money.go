// Package money holds the amount rules shared by transactions and debts.
package money

import (
	"github.com/shopspring/decimal"

	"ledger/internal/shared/apperr"
)

// Amounts are stored as numeric(15,2).
const (
	Scale         = 2
	integerDigits = 13
)

// Max is the exclusive upper bound of a storable amount.
var Max = decimal.New(1, integerDigits)

// Check records a message on verr when amount cannot be stored.
func Check(verr *apperr.ValidationError, field string, amount decimal.Decimal) {
	switch {
	case amount.IsNegative():
		verr.Add(field, "must be at least 0")
	case amount.GreaterThanOrEqual(Max):
		verr.Add(field, "must be less than 10000000000000")
	case !amount.Equal(amount.Truncate(Scale)):
		verr.Add(field, "must have at most 2 decimal places")
	}
}

// Normalize fixes the scale so responses always carry two decimals.
func Normalize(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Scale)
}
