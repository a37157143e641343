package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places a naira amount carries (kobo).
const MoneyPlaces = 2

// CanonicalMoney returns amount rounded to kobo in the single representation
// every stored money field uses, so equal amounts are also equal field by
// field after a decode.
func CanonicalMoney(amount decimal.Decimal) decimal.Decimal {
	return decimal.NewFromBigInt(amount.Round(MoneyPlaces).Shift(MoneyPlaces).BigInt(), -MoneyPlaces)
}

// WithCanonicalMoney returns a copy of p whose money fields are canonical.
func (p UserProfile) WithCanonicalMoney() UserProfile {
	out := p.Clone()
	out.Balance = CanonicalMoney(p.Balance)
	out.Savings = CanonicalMoney(p.Savings)
	for i := range out.Transactions {
		out.Transactions[i].Amount = CanonicalMoney(out.Transactions[i].Amount)
	}
	for i := range out.Loans {
		out.Loans[i].Amount = CanonicalMoney(out.Loans[i].Amount)
	}
	return out
}

func hasSubKobo(amount decimal.Decimal) bool {
	return !amount.Equal(amount.Round(MoneyPlaces))
}

// checkPositiveMoney validates a caller-supplied amount that must be > 0.
func checkPositiveMoney(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalidArgument(field, "must be greater than zero")
	}
	if hasSubKobo(amount) {
		return invalidArgument(field, "must have at most two decimal places")
	}
	return nil
}

// checkNonNegativeMoney validates a caller-supplied amount that may be zero.
func checkNonNegativeMoney(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return invalidArgument(field, "must not be negative")
	}
	if hasSubKobo(amount) {
		return invalidArgument(field, "must have at most two decimal places")
	}
	return nil
}

func validateStoredMoney(field string, amount decimal.Decimal) error {
	if hasSubKobo(amount) {
		return fmt.Errorf("%s %s has more than two decimal places", field, amount)
	}
	return nil
}
