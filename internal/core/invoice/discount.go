package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mbellec/facturx/internal/core/money"
)

// DiscountKind tags the two discount variants a line can carry.
type DiscountKind string

const (
	// DiscountPercentage is a ratio of the pre-discount net, in [0,100].
	DiscountPercentage DiscountKind = "percentage"
	// DiscountFixedAmount is an absolute amount in the invoice currency.
	DiscountFixedAmount DiscountKind = "fixed"
)

// Discount reduces a single line's net amount before VAT computation.
type Discount struct {
	Kind  DiscountKind
	Value decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Validate checks the discount configuration independently of any line.
func (d Discount) Validate() error {
	switch d.Kind {
	case DiscountPercentage:
		if d.Value.IsNegative() || d.Value.GreaterThan(hundred) {
			return fmt.Errorf("percentage discount must be between 0 and 100, got %s", d.Value)
		}
	case DiscountFixedAmount:
		if d.Value.IsNegative() {
			return fmt.Errorf("fixed discount must not be negative, got %s", d.Value)
		}
	default:
		return fmt.Errorf("unknown discount kind %q", d.Kind)
	}
	return nil
}

// Apply returns the net amount after the discount. The input and result are
// unrounded. A fixed discount exceeding the pre-discount net is an error,
// never silently floored to zero.
func (d Discount) Apply(net money.Value) (money.Value, error) {
	if err := d.Validate(); err != nil {
		return money.Value{}, err
	}

	switch d.Kind {
	case DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(d.Value.Div(hundred))
		return net.Mul(factor), nil
	default:
		amount, err := money.New(d.Value, net.Currency())
		if err != nil {
			return money.Value{}, err
		}
		result, err := net.Sub(amount)
		if err != nil {
			return money.Value{}, err
		}
		if result.IsNegative() {
			return money.Value{}, fmt.Errorf("fixed discount %s exceeds line net amount %s", d.Value, net.Amount())
		}
		return result, nil
	}
}
