// Package invoice implements the Factur-X invoice domain: line amount and
// VAT computation, the per-rate VAT breakdown, invoice totals, and the
// validated immutable invoice model the CII serializer consumes.
//
// All computation is pure and synchronous. An invoice owns its lines and
// computed aggregates exclusively; the emitter identity is shared read-only
// configuration injected at construction.
package invoice

import (
	"fmt"
	"time"

	"github.com/mbellec/facturx/internal/core/money"
)

// DefaultCurrency is the currency applied when the form leaves it blank.
const DefaultCurrency = "EUR"

// DefaultCountryCode is the buyer country applied when the form leaves it blank.
const DefaultCountryCode = "FR"

// Params carries the validated inputs of an invoice. Lines must already be
// constructed with NewLine.
type Params struct {
	Number                 string
	TypeCode               TypeCode
	IssueDate              time.Time
	DueDate                *time.Time
	CurrencyCode           string
	BuyerReference         string
	PurchaseOrderReference string
	PaymentTerms           string
	Emitter                Emitter
	Buyer                  Buyer
	Lines                  []InvoiceLine
}

// FacturXInvoice is the immutable invoice model. Once constructed it is
// internally consistent: the breakdown and totals always reflect the line
// set, and no mutation path exists that would break that.
type FacturXInvoice struct {
	Number                 string
	TypeCode               TypeCode
	IssueDate              time.Time
	DueDate                *time.Time
	CurrencyCode           string
	BuyerReference         string
	PurchaseOrderReference string
	PaymentTerms           string
	Emitter                Emitter
	Buyer                  Buyer

	lines     []InvoiceLine
	breakdown []BreakdownEntry
	totals    Totals
}

// New validates the parameters and builds the invoice with its computed
// breakdown and totals. Field violations are aggregated: the returned
// *ValidationError lists every invalid field, not just the first one.
// An invalid emitter is a configuration fault, not user input, and is
// reported as a plain error.
func New(p Params) (*FacturXInvoice, error) {
	if err := p.Emitter.Validate(); err != nil {
		return nil, fmt.Errorf("emitter configuration: %w", err)
	}

	verr := &ValidationError{}

	if p.Number == "" {
		verr.add("invoice_number", "invoice number is required (BT-1)")
	}
	if p.IssueDate.IsZero() {
		verr.add("issue_date", "issue date is required (BT-2)")
	}
	if !p.TypeCode.Valid() {
		verr.add("type_code", "document type code must be 380, 381, 384 or 389 (BT-3)")
	}
	currencyOK := money.ValidCurrency(p.CurrencyCode)
	if !currencyOK {
		verr.add("currency_code", "currency code must be a 3-letter ISO 4217 code (BT-5)")
	}

	if p.Buyer.Name == "" {
		verr.add("recipient_name", "recipient name is required (BT-44)")
	}
	if !ValidSIRET(p.Buyer.SIRET) {
		verr.add("recipient_siret", "recipient SIRET must be exactly 14 digits")
	}
	if !ValidCountryCode(p.Buyer.CountryCode) {
		verr.add("recipient_country_code", "recipient country code must be a 2-letter ISO 3166-1 code (BT-55)")
	}
	if p.Buyer.VATNumber != "" && !ValidVATNumber(p.Buyer.VATNumber) {
		verr.add("recipient_vat_number", "recipient VAT number is not a valid intra-community identifier")
	}

	if len(p.Lines) == 0 {
		verr.add("lines", "an invoice requires at least one line")
	}
	if currencyOK {
		for i, line := range p.Lines {
			if cur := line.UnitPrice.Currency(); cur != p.CurrencyCode {
				verr.addLine(i, "unit_price", fmt.Sprintf("line currency %s differs from invoice currency %s", cur, p.CurrencyCode))
			}
		}
	}

	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	lines := make([]InvoiceLine, len(p.Lines))
	copy(lines, p.Lines)

	breakdown, err := computeBreakdown(lines, p.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("compute VAT breakdown: %w", err)
	}
	totals, err := computeTotals(breakdown, p.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("compute totals: %w", err)
	}

	return &FacturXInvoice{
		Number:                 p.Number,
		TypeCode:               p.TypeCode,
		IssueDate:              p.IssueDate,
		DueDate:                p.DueDate,
		CurrencyCode:           p.CurrencyCode,
		BuyerReference:         p.BuyerReference,
		PurchaseOrderReference: p.PurchaseOrderReference,
		PaymentTerms:           p.PaymentTerms,
		Emitter:                p.Emitter,
		Buyer:                  p.Buyer,
		lines:                  lines,
		breakdown:              breakdown,
		totals:                 totals,
	}, nil
}

// Lines returns a copy of the ordered line sequence.
func (inv *FacturXInvoice) Lines() []InvoiceLine {
	out := make([]InvoiceLine, len(inv.lines))
	copy(out, inv.lines)
	return out
}

// Breakdown returns a copy of the VAT breakdown, sorted by descending rate
// and ready for tabular display.
func (inv *FacturXInvoice) Breakdown() []BreakdownEntry {
	out := make([]BreakdownEntry, len(inv.breakdown))
	copy(out, inv.breakdown)
	return out
}

// Totals returns the computed net, VAT and gross totals.
func (inv *FacturXInvoice) Totals() Totals { return inv.totals }
