package models

import (
	"github.com/shopspring/decimal"
)

// RoundAmount rounds to AmountPlaces using round-half-to-even.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(AmountPlaces)
}

// FormatAmount renders an amount with exactly AmountPlaces decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixedBank(AmountPlaces)
}

// TypeForAmount infers the transaction type from the amount sign. Zero is a
// credit.
func TypeForAmount(d decimal.Decimal) TransactionType {
	if d.IsNegative() {
		return TransactionTypeDebit
	}
	return TransactionTypeCredit
}
