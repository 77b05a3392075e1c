package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mbellec/facturx/internal/core/money"
)

// InvoiceLine is a single billed position. Lines are immutable once part of
// an invoice; the net and VAT amounts are computed at construction and
// already rounded to the minor unit.
type InvoiceLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   money.Value
	Rate        VATRate
	Discount    *Discount

	net money.Value
	vat money.Value
}

// NewLine validates the line inputs and computes the derived amounts.
//
// The pre-discount net (quantity × unit price) and the discount application
// stay unrounded; rounding happens once, on the reported net and VAT
// amounts. VAT = discounted net × rate, rounded half away from zero.
func NewLine(description string, quantity decimal.Decimal, unitPrice money.Value, rate VATRate, discount *Discount) (InvoiceLine, error) {
	if strings.TrimSpace(description) == "" {
		return InvoiceLine{}, fmt.Errorf("line description must not be empty")
	}
	if !quantity.IsPositive() {
		return InvoiceLine{}, fmt.Errorf("line quantity must be greater than 0, got %s", quantity)
	}
	if !unitPrice.Amount().IsPositive() {
		return InvoiceLine{}, fmt.Errorf("line unit price must be greater than 0, got %s", unitPrice.Amount())
	}
	// Canonicalize so breakdown grouping treats "20", "20.0" and "20.00"
	// as one rate.
	rate, err := ParseVATRate(string(rate))
	if err != nil {
		return InvoiceLine{}, err
	}

	net := unitPrice.Mul(quantity)
	if discount != nil {
		discounted, err := discount.Apply(net)
		if err != nil {
			return InvoiceLine{}, err
		}
		net = discounted
	}

	vat := net.Mul(rate.Ratio()).Round()

	return InvoiceLine{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Rate:        rate,
		Discount:    discount,
		net:         net.Round(),
		vat:         vat,
	}, nil
}

// NetAmount is the line net after discount, rounded to the minor unit.
func (l InvoiceLine) NetAmount() money.Value { return l.net }

// VATAmount is the VAT due on the line, rounded to the minor unit.
func (l InvoiceLine) VATAmount() money.Value { return l.vat }
