package invoice

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mbellec/facturx/internal/core/money"
)

// LineForm is the raw string form of a single line, as submitted by the
// form-handling layer: decoded but not yet validated.
type LineForm struct {
	Description   string `json:"description"`
	Quantity      string `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	VATRate       string `json:"vat_rate"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
}

// InvoiceForm is the union of the two form steps: header and buyer fields
// plus the repeated line group. All values are strings; Build parses,
// applies defaults and validates them into the invoice model.
type InvoiceForm struct {
	InvoiceNumber          string     `json:"invoice_number"`
	IssueDate              string     `json:"issue_date"`
	TypeCode               string     `json:"type_code"`
	CurrencyCode           string     `json:"currency_code"`
	DueDate                string     `json:"due_date"`
	PaymentTerms           string     `json:"payment_terms"`
	BuyerReference         string     `json:"buyer_reference"`
	PurchaseOrderReference string     `json:"purchase_order_reference"`
	RecipientName          string     `json:"recipient_name"`
	RecipientSIRET         string     `json:"recipient_siret"`
	RecipientVATNumber     string     `json:"recipient_vat_number"`
	RecipientAddress       string     `json:"recipient_address"`
	RecipientCountryCode   string     `json:"recipient_country_code"`
	Lines                  []LineForm `json:"lines"`
}

// Build parses the form into Params, applying defaults, and delegates the
// field validation to New. Parse failures and New's field violations are
// merged into a single *ValidationError listing every violated field.
//
// Defaults: type code 380, currency EUR, buyer country FR, line VAT rate 20%.
func (f InvoiceForm) Build(emitter Emitter) (*FacturXInvoice, error) {
	verr := &ValidationError{}

	p := Params{
		Number:                 strings.TrimSpace(f.InvoiceNumber),
		BuyerReference:         strings.TrimSpace(f.BuyerReference),
		PurchaseOrderReference: strings.TrimSpace(f.PurchaseOrderReference),
		PaymentTerms:           strings.TrimSpace(f.PaymentTerms),
		Emitter:                emitter,
		Buyer: Buyer{
			Name:        strings.TrimSpace(f.RecipientName),
			SIRET:       strings.TrimSpace(f.RecipientSIRET),
			VATNumber:   strings.ToUpper(strings.TrimSpace(f.RecipientVATNumber)),
			Address:     strings.TrimSpace(f.RecipientAddress),
			CountryCode: strings.ToUpper(strings.TrimSpace(f.RecipientCountryCode)),
		},
	}

	if issue := strings.TrimSpace(f.IssueDate); issue != "" {
		t, err := parseDate(issue)
		if err != nil {
			verr.add("issue_date", "invalid issue date, expected YYYY-MM-DD")
		} else {
			p.IssueDate = t
		}
	}

	if due := strings.TrimSpace(f.DueDate); due != "" {
		t, err := parseDate(due)
		if err != nil {
			verr.add("due_date", "invalid due date, expected YYYY-MM-DD")
		} else {
			p.DueDate = &t
		}
	}

	switch tc := strings.TrimSpace(f.TypeCode); tc {
	case "":
		p.TypeCode = TypeCodeInvoice
	default:
		code, err := strconv.Atoi(tc)
		if err != nil {
			verr.add("type_code", "document type code must be numeric")
		} else if parsed, err := TypeCodeFromCode(code); err != nil {
			verr.add("type_code", "document type code must be 380 (Facture), 381 (Avoir), 384 (Rectificative) or 389 (Acompte)")
		} else {
			p.TypeCode = parsed
		}
	}

	p.CurrencyCode = strings.ToUpper(strings.TrimSpace(f.CurrencyCode))
	if p.CurrencyCode == "" {
		p.CurrencyCode = DefaultCurrency
	}
	if p.Buyer.CountryCode == "" {
		p.Buyer.CountryCode = DefaultCountryCode
	}

	// Line parsing needs a usable currency even when the submitted one is
	// invalid; New reports the currency_code violation.
	currency := p.CurrencyCode
	if !money.ValidCurrency(currency) {
		currency = DefaultCurrency
	}
	for i, lf := range f.Lines {
		line, ok := f.buildLine(i, lf, currency, verr)
		if ok {
			p.Lines = append(p.Lines, line)
		}
	}

	inv, err := New(p)
	if err != nil {
		var nverr *ValidationError
		if !errors.As(err, &nverr) {
			return nil, err
		}
		mergeFieldErrors(verr, nverr, len(f.Lines) > 0)
		return nil, verr
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}
	return inv, nil
}

// mergeFieldErrors appends the model violations to the parse errors,
// skipping fields a parse error already reported. The aggregate "lines"
// violation is dropped when lines were submitted but all failed parsing,
// since the per-line errors already explain the rejection.
func mergeFieldErrors(verr, nverr *ValidationError, linesSubmitted bool) {
	seen := make(map[string]bool, len(verr.Errors))
	for _, fe := range verr.Errors {
		seen[fe.Field] = true
	}
	for _, fe := range nverr.Errors {
		if seen[fe.Field] {
			continue
		}
		if fe.Field == "lines" && linesSubmitted {
			continue
		}
		verr.Errors = append(verr.Errors, fe)
	}
}

// buildLine parses and validates one line. It reports violations on verr
// and returns ok=false when the line could not be constructed.
func (f InvoiceForm) buildLine(index int, lf LineForm, currency string, verr *ValidationError) (InvoiceLine, bool) {
	ok := true

	description := strings.TrimSpace(lf.Description)
	if description == "" {
		verr.addLine(index, "description", "description is required")
		ok = false
	}

	var quantity decimal.Decimal
	if q, err := decimal.NewFromString(strings.TrimSpace(lf.Quantity)); err != nil {
		verr.addLine(index, "quantity", "quantity must be a number")
		ok = false
	} else if !q.IsPositive() {
		verr.addLine(index, "quantity", "quantity must be greater than 0")
		ok = false
	} else {
		quantity = q
	}

	var unitPrice money.Value
	if up, err := decimal.NewFromString(strings.TrimSpace(lf.UnitPrice)); err != nil {
		verr.addLine(index, "unit_price", "unit price must be a number")
		ok = false
	} else if !up.IsPositive() {
		verr.addLine(index, "unit_price", "unit price must be greater than 0")
		ok = false
	} else if unitPrice, err = money.New(up, currency); err != nil {
		verr.addLine(index, "unit_price", err.Error())
		ok = false
	}

	rate := VATRateStandard
	if raw := strings.TrimSpace(lf.VATRate); raw != "" {
		parsed, err := ParseVATRate(raw)
		if err != nil {
			verr.addLine(index, "vat_rate", "VAT rate must be one of 0, 5.5, 10 or 20")
			ok = false
		} else {
			rate = parsed
		}
	}

	var discount *Discount
	switch kind := strings.TrimSpace(lf.DiscountType); kind {
	case "", "none":
	case string(DiscountPercentage), string(DiscountFixedAmount):
		value, err := decimal.NewFromString(strings.TrimSpace(lf.DiscountValue))
		if err != nil {
			verr.addLine(index, "discount_value", "discount value must be a number")
			ok = false
			break
		}
		d := Discount{Kind: DiscountKind(kind), Value: value}
		if err := d.Validate(); err != nil {
			verr.addLine(index, "discount_value", err.Error())
			ok = false
			break
		}
		discount = &d
	default:
		verr.addLine(index, "discount_type", "discount type must be \"percentage\" or \"fixed\"")
		ok = false
	}

	if !ok {
		return InvoiceLine{}, false
	}

	line, err := NewLine(description, quantity, unitPrice, rate, discount)
	if err != nil {
		// Field-level checks passed, so the only remaining failure is the
		// discount exceeding the line net.
		verr.addLine(index, "discount_value", err.Error())
		return InvoiceLine{}, false
	}
	return line, true
}
