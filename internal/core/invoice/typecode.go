package invoice

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// TypeCode is the UNTDID 1001 document type code of an invoice (BT-3).
// Only the subset meaningful for French Factur-X invoicing is accepted.
type TypeCode int

const (
	// TypeCodeInvoice is a commercial invoice ("Facture").
	TypeCodeInvoice TypeCode = 380
	// TypeCodeCreditNote is a credit note ("Avoir").
	TypeCodeCreditNote TypeCode = 381
	// TypeCodeCorrectedInvoice is a corrective invoice ("Facture rectificative").
	TypeCodeCorrectedInvoice TypeCode = 384
	// TypeCodePrepaymentInvoice is a prepayment invoice ("Facture d'acompte").
	TypeCodePrepaymentInvoice TypeCode = 389
)

// TypeCodeFromCode maps a numeric code to a TypeCode.
func TypeCodeFromCode(code int) (TypeCode, error) {
	switch TypeCode(code) {
	case TypeCodeInvoice, TypeCodeCreditNote, TypeCodeCorrectedInvoice, TypeCodePrepaymentInvoice:
		return TypeCode(code), nil
	default:
		return 0, fmt.Errorf("invalid document type code: %d", code)
	}
}

// Label returns the French display label of the document type.
func (c TypeCode) Label() string {
	switch c {
	case TypeCodeInvoice:
		return "Facture"
	case TypeCodeCreditNote:
		return "Avoir"
	case TypeCodeCorrectedInvoice:
		return "Facture rectificative"
	case TypeCodePrepaymentInvoice:
		return "Facture d'acompte"
	default:
		return ""
	}
}

// Valid reports whether the type code belongs to the accepted set.
func (c TypeCode) Valid() bool {
	_, err := TypeCodeFromCode(int(c))
	return err == nil
}

// VATRate is one of the enumerated French VAT rates, stored as its
// canonical percentage string.
type VATRate string

const (
	// VATRateZero applies to exempt supplies.
	VATRateZero VATRate = "0"
	// VATRateReduced is the 5.5% reduced rate.
	VATRateReduced VATRate = "5.5"
	// VATRateIntermediate is the 10% intermediate rate.
	VATRateIntermediate VATRate = "10"
	// VATRateStandard is the 20% standard rate.
	VATRateStandard VATRate = "20"
)

// vatRates maps every accepted spelling of a rate to its canonical form.
// "20", "20.0" and "20.00" all denote the standard rate.
var vatRates = map[string]VATRate{}

func init() {
	for _, r := range []VATRate{VATRateZero, VATRateReduced, VATRateIntermediate, VATRateStandard} {
		d := decimal.RequireFromString(string(r))
		vatRates[d.String()] = r
	}
}

// ParseVATRate resolves a percentage string to an enumerated rate. Any rate
// outside the fixed French set is rejected.
func ParseVATRate(s string) (VATRate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", fmt.Errorf("invalid VAT rate %q", s)
	}
	rate, ok := vatRates[d.String()]
	if !ok {
		return "", fmt.Errorf("unsupported VAT rate %q: accepted rates are 0, 5.5, 10 and 20", s)
	}
	return rate, nil
}

// Valid reports whether the rate belongs to the enumerated set.
func (r VATRate) Valid() bool {
	_, err := ParseVATRate(string(r))
	return err == nil
}

// Percent returns the rate as a decimal percentage, e.g. 5.5.
func (r VATRate) Percent() decimal.Decimal {
	return decimal.RequireFromString(string(r))
}

// Ratio returns the rate as a multiplier, e.g. 0.055.
func (r VATRate) Ratio() decimal.Decimal {
	return r.Percent().Div(decimal.NewFromInt(100))
}

// sortRatesDescending orders rates from highest to lowest percentage, the
// presentation order of the VAT breakdown.
func sortRatesDescending(rates []VATRate) {
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].Percent().GreaterThan(rates[j].Percent())
	})
}
