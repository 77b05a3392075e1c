package invoice

import (
	"errors"
	"testing"
	"time"

	"github.com/mbellec/facturx/internal/core/money"
)

func testEmitter() Emitter {
	return Emitter{
		SIREN:     "732829320",
		SIRET:     "73282932000074",
		Name:      "Atelier Numérique SARL",
		Address:   "12 rue de la République, 69002 Lyon",
		BIC:       "AGRIFRPP",
		VATNumber: "FR32732829320",
	}
}

func testBuyer() Buyer {
	return Buyer{
		Name:        "Client SAS",
		SIRET:       "55210055400013",
		CountryCode: "FR",
	}
}

func mustLine(t *testing.T, desc, quantity, price string, rate VATRate, discount *Discount) InvoiceLine {
	t.Helper()
	line, err := NewLine(desc, dec(quantity), money.MustNew(price, "EUR"), rate, discount)
	if err != nil {
		t.Fatalf("NewLine(%s): %v", desc, err)
	}
	return line
}

func baseParams(t *testing.T, lines ...InvoiceLine) Params {
	t.Helper()
	return Params{
		Number:       "FA-2026-001",
		TypeCode:     TypeCodeInvoice,
		IssueDate:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "EUR",
		Emitter:      testEmitter(),
		Buyer:        testBuyer(),
		Lines:        lines,
	}
}

func TestNew_SingleLineTotals(t *testing.T) {
	inv, err := New(baseParams(t, mustLine(t, "Conseil", "2", "100.00", VATRateStandard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	totals := inv.Totals()
	if got := totals.Net.StringFixed(); got != "200.00" {
		t.Errorf("net total = %s, want 200.00", got)
	}
	if got := totals.VAT.StringFixed(); got != "40.00" {
		t.Errorf("vat total = %s, want 40.00", got)
	}
	if got := totals.Gross.StringFixed(); got != "240.00" {
		t.Errorf("gross total = %s, want 240.00", got)
	}

	breakdown := inv.Breakdown()
	if len(breakdown) != 1 {
		t.Fatalf("breakdown entries = %d, want 1", len(breakdown))
	}
	if breakdown[0].Rate != VATRateStandard {
		t.Errorf("breakdown rate = %s, want 20", breakdown[0].Rate)
	}
	if got := breakdown[0].TaxableAmount.StringFixed(); got != "200.00" {
		t.Errorf("breakdown taxable = %s, want 200.00", got)
	}
	if got := breakdown[0].TaxAmount.StringFixed(); got != "40.00" {
		t.Errorf("breakdown tax = %s, want 40.00", got)
	}
}

func TestNew_MixedRatesReconcile(t *testing.T) {
	inv, err := New(baseParams(t,
		mustLine(t, "Prestation standard", "1", "100.00", VATRateStandard, nil),
		mustLine(t, "Denrées", "1", "80.00", VATRateReduced, nil),
		mustLine(t, "Restauration", "2", "30.00", VATRateIntermediate, nil),
		mustLine(t, "Prestation standard bis", "1", "40.00", VATRateStandard, nil),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	breakdown := inv.Breakdown()
	if len(breakdown) != 3 {
		t.Fatalf("breakdown entries = %d, want 3", len(breakdown))
	}

	// Sorted by descending rate: 20, 10, 5.5.
	wantOrder := []VATRate{VATRateStandard, VATRateIntermediate, VATRateReduced}
	for i, want := range wantOrder {
		if breakdown[i].Rate != want {
			t.Errorf("breakdown[%d].Rate = %s, want %s", i, breakdown[i].Rate, want)
		}
	}

	// Lines sharing the 20% rate are summed into one entry.
	if got := breakdown[0].TaxableAmount.StringFixed(); got != "140.00" {
		t.Errorf("standard rate taxable = %s, want 140.00", got)
	}
	if got := breakdown[0].TaxAmount.StringFixed(); got != "28.00" {
		t.Errorf("standard rate tax = %s, want 28.00", got)
	}

	// Breakdown sums must equal the reported totals exactly.
	totals := inv.Totals()
	net := money.Zero("EUR")
	vat := money.Zero("EUR")
	for _, entry := range breakdown {
		net, _ = net.Add(entry.TaxableAmount)
		vat, _ = vat.Add(entry.TaxAmount)
	}
	if !net.Equal(totals.Net) {
		t.Errorf("sum of breakdown nets %s != net total %s", net, totals.Net)
	}
	if !vat.Equal(totals.VAT) {
		t.Errorf("sum of breakdown VATs %s != VAT total %s", vat, totals.VAT)
	}

	// Summing lines directly must agree as well.
	lineNet := money.Zero("EUR")
	lineVAT := money.Zero("EUR")
	for _, line := range inv.Lines() {
		lineNet, _ = lineNet.Add(line.NetAmount())
		lineVAT, _ = lineVAT.Add(line.VATAmount())
	}
	if !lineNet.Equal(totals.Net) {
		t.Errorf("sum of line nets %s != net total %s", lineNet, totals.Net)
	}
	if !lineVAT.Equal(totals.VAT) {
		t.Errorf("sum of line VATs %s != VAT total %s", lineVAT, totals.VAT)
	}

	gross, _ := totals.Net.Add(totals.VAT)
	if !gross.Equal(totals.Gross) {
		t.Errorf("net + VAT = %s, gross total = %s", gross, totals.Gross)
	}
}

func TestNew_TwoRatesEndToEnd(t *testing.T) {
	inv, err := New(baseParams(t,
		mustLine(t, "Standard", "1", "100.00", VATRateStandard, nil),
		mustLine(t, "Réduit", "1", "100.00", VATRateReduced, nil),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	totals := inv.Totals()
	if got := totals.Net.StringFixed(); got != "200.00" {
		t.Errorf("net = %s, want 200.00", got)
	}
	if got := totals.VAT.StringFixed(); got != "25.50" {
		t.Errorf("vat = %s, want 25.50", got)
	}
	if got := totals.Gross.StringFixed(); got != "225.50" {
		t.Errorf("gross = %s, want 225.50", got)
	}
}

func TestNew_RateSpellingsShareOneBreakdownEntry(t *testing.T) {
	inv, err := New(baseParams(t,
		mustLine(t, "Conseil", "1", "100.00", VATRateStandard, nil),
		mustLine(t, "Formation", "1", "100.00", VATRate("20.00"), nil),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	breakdown := inv.Breakdown()
	if len(breakdown) != 1 {
		t.Fatalf("breakdown entries = %d, want 1: %v", len(breakdown), breakdown)
	}
	entry := breakdown[0]
	if entry.Rate != VATRateStandard {
		t.Errorf("rate = %q, want %q", entry.Rate, VATRateStandard)
	}
	if got := entry.TaxableAmount.StringFixed(); got != "200.00" {
		t.Errorf("taxable = %s, want 200.00", got)
	}
	if got := entry.TaxAmount.StringFixed(); got != "40.00" {
		t.Errorf("tax = %s, want 40.00", got)
	}
}

func TestNew_AggregatesAllViolations(t *testing.T) {
	p := baseParams(t, mustLine(t, "Conseil", "1", "10.00", VATRateStandard, nil))
	p.Number = ""
	p.Buyer.SIRET = "123"
	p.Buyer.Name = ""

	_, err := New(p)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	wantFields := []string{"invoice_number", "recipient_siret", "recipient_name"}
	for _, field := range wantFields {
		if !hasFieldError(verr, field) {
			t.Errorf("expected a violation for %q, got %v", field, verr.Errors)
		}
	}
	if len(verr.Errors) != len(wantFields) {
		t.Errorf("violations = %d, want %d: %v", len(verr.Errors), len(wantFields), verr.Errors)
	}
}

func TestNew_RequiresLines(t *testing.T) {
	_, err := New(baseParams(t))
	if err == nil {
		t.Fatal("expected validation error for empty line set")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !hasFieldError(verr, "lines") {
		t.Errorf("expected a violation for lines, got %v", verr.Errors)
	}
}

func TestNew_RejectsCurrencyMismatch(t *testing.T) {
	line, err := NewLine("Export", dec("1"), money.MustNew("10.00", "USD"), VATRateZero, nil)
	if err != nil {
		t.Fatalf("NewLine: %v", err)
	}

	_, err = New(baseParams(t, line))
	if err == nil {
		t.Fatal("expected validation error for line currency mismatch")
	}
}

func TestNew_InvalidEmitterIsNotAFieldError(t *testing.T) {
	p := baseParams(t, mustLine(t, "Conseil", "1", "10.00", VATRateStandard, nil))
	p.Emitter.SIRET = "not-a-siret"

	_, err := New(p)
	if err == nil {
		t.Fatal("expected error for invalid emitter")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Error("emitter configuration fault should not be a ValidationError")
	}
}

func hasFieldError(verr *ValidationError, field string) bool {
	for _, fe := range verr.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidSIRET(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"73282932000074", true},
		{"7328293200007", false},
		{"732829320000741", false},
		{"7328293200007A", false},
		{"73282932 00074", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidSIRET(tt.in); got != tt.want {
			t.Errorf("ValidSIRET(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTypeCodeFromCode(t *testing.T) {
	for _, code := range []int{380, 381, 384, 389} {
		tc, err := TypeCodeFromCode(code)
		if err != nil {
			t.Errorf("TypeCodeFromCode(%d): %v", code, err)
		}
		if tc.Label() == "" {
			t.Errorf("TypeCode(%d) has no label", code)
		}
	}
	if _, err := TypeCodeFromCode(383); err == nil {
		t.Error("expected error for code 383")
	}
}

func TestParseVATRate(t *testing.T) {
	accepted := map[string]VATRate{
		"0":     VATRateZero,
		"0.00":  VATRateZero,
		"5.5":   VATRateReduced,
		"5.50":  VATRateReduced,
		"10":    VATRateIntermediate,
		"20":    VATRateStandard,
		"20.00": VATRateStandard,
	}
	for in, want := range accepted {
		got, err := ParseVATRate(in)
		if err != nil {
			t.Errorf("ParseVATRate(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseVATRate(%q) = %s, want %s", in, got, want)
		}
	}

	for _, in := range []string{"19", "2.1", "abc", "", "-20"} {
		if _, err := ParseVATRate(in); err == nil {
			t.Errorf("ParseVATRate(%q): expected error", in)
		}
	}
}
