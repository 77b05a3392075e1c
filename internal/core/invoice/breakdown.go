package invoice

import (
	"fmt"

	"github.com/mbellec/facturx/internal/core/money"
)

// BreakdownEntry sums the net and VAT amounts of every line taxed at one
// rate. One entry exists per distinct rate present on the invoice.
type BreakdownEntry struct {
	Rate          VATRate
	TaxableAmount money.Value
	TaxAmount     money.Value
}

// Totals are the three reported invoice totals. Gross = Net + VAT to the
// minor unit, with Net and VAT equal to the breakdown sums exactly.
type Totals struct {
	Net   money.Value
	VAT   money.Value
	Gross money.Value
}

// computeBreakdown groups lines by VAT rate into entries sorted by
// descending rate. Per-line amounts are already rounded, so entry sums and
// the totals derived from them reconcile without double rounding.
func computeBreakdown(lines []InvoiceLine, currency string) ([]BreakdownEntry, error) {
	byRate := make(map[VATRate]*BreakdownEntry)
	var rates []VATRate

	for i, line := range lines {
		entry, ok := byRate[line.Rate]
		if !ok {
			entry = &BreakdownEntry{
				Rate:          line.Rate,
				TaxableAmount: money.Zero(currency),
				TaxAmount:     money.Zero(currency),
			}
			byRate[line.Rate] = entry
			rates = append(rates, line.Rate)
		}

		taxable, err := entry.TaxableAmount.Add(line.NetAmount())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		tax, err := entry.TaxAmount.Add(line.VATAmount())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		entry.TaxableAmount = taxable
		entry.TaxAmount = tax
	}

	sortRatesDescending(rates)

	entries := make([]BreakdownEntry, 0, len(rates))
	for _, rate := range rates {
		entries = append(entries, *byRate[rate])
	}
	return entries, nil
}

// computeTotals sums the breakdown entries into the invoice totals.
func computeTotals(entries []BreakdownEntry, currency string) (Totals, error) {
	net := money.Zero(currency)
	vat := money.Zero(currency)

	for _, entry := range entries {
		var err error
		if net, err = net.Add(entry.TaxableAmount); err != nil {
			return Totals{}, err
		}
		if vat, err = vat.Add(entry.TaxAmount); err != nil {
			return Totals{}, err
		}
	}

	gross, err := net.Add(vat)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Net: net, VAT: vat, Gross: gross}, nil
}
