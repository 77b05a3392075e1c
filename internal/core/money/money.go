// Package money provides the fixed-precision monetary value used across all
// invoice computation. Amounts are decimal, never binary floating point, and
// every value carries its ISO 4217 currency code: arithmetic between values
// of different currencies is rejected.
//
// Rounding policy: amounts are rounded half away from zero to the minor unit
// (2 decimal places), and only at the point a value becomes a reported line
// amount or total. Intermediate quantities (quantity × unit price, discount
// application) stay unrounded.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places of the minor unit.
// Reported amounts are rounded half away from zero to this precision.
const MinorUnitPlaces = 2

// Value is an immutable monetary amount tagged with its currency.
// The zero Value is not usable; construct values with New or Zero.
type Value struct {
	amount   decimal.Decimal
	currency string
}

// New creates a monetary value. The currency must be a 3-letter uppercase
// ISO 4217 code.
func New(amount decimal.Decimal, currency string) (Value, error) {
	if !ValidCurrency(currency) {
		return Value{}, fmt.Errorf("invalid currency code %q", currency)
	}
	return Value{amount: amount, currency: currency}, nil
}

// MustNew is New for amounts known valid at compile time, such as test
// fixtures. It panics on invalid input.
func MustNew(amount string, currency string) Value {
	v, err := New(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(err)
	}
	return v
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Value {
	return Value{amount: decimal.Zero, currency: currency}
}

// ValidCurrency reports whether code has the ISO 4217 shape: exactly three
// uppercase ASCII letters.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// Amount returns the decimal amount.
func (v Value) Amount() decimal.Decimal { return v.amount }

// Currency returns the ISO 4217 currency code.
func (v Value) Currency() string { return v.currency }

// Add returns v + other. Both values must share a currency.
func (v Value) Add(other Value) (Value, error) {
	if v.currency != other.currency {
		return Value{}, fmt.Errorf("currency mismatch: %s vs %s", v.currency, other.currency)
	}
	return Value{amount: v.amount.Add(other.amount), currency: v.currency}, nil
}

// Sub returns v - other. Both values must share a currency.
func (v Value) Sub(other Value) (Value, error) {
	if v.currency != other.currency {
		return Value{}, fmt.Errorf("currency mismatch: %s vs %s", v.currency, other.currency)
	}
	return Value{amount: v.amount.Sub(other.amount), currency: v.currency}, nil
}

// Mul returns v scaled by factor. The result is unrounded.
func (v Value) Mul(factor decimal.Decimal) Value {
	return Value{amount: v.amount.Mul(factor), currency: v.currency}
}

// Round returns v rounded to the minor unit, half away from zero.
func (v Value) Round() Value {
	return Value{amount: v.amount.Round(MinorUnitPlaces), currency: v.currency}
}

// IsNegative reports whether the amount is below zero.
func (v Value) IsNegative() bool { return v.amount.IsNegative() }

// IsZero reports whether the amount is exactly zero.
func (v Value) IsZero() bool { return v.amount.IsZero() }

// Equal reports whether both amount and currency match. Amounts are compared
// by value, so 1.5 and 1.50 are equal.
func (v Value) Equal(other Value) bool {
	return v.currency == other.currency && v.amount.Equal(other.amount)
}

// StringFixed renders the amount with exactly MinorUnitPlaces decimals,
// the form required in CII amount elements.
func (v Value) StringFixed() string {
	return v.amount.StringFixed(MinorUnitPlaces)
}

// String renders the amount followed by its currency code.
func (v Value) String() string {
	return v.amount.String() + " " + v.currency
}
