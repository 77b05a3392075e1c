package invoice

import "fmt"

// Emitter is the invoice seller identity. It is loaded once from
// configuration at startup, shared read-only by every invoice, and never
// sourced from user input.
type Emitter struct {
	SIREN      string
	SIRET      string
	Name       string
	Address    string
	BIC        string
	VATNumber  string
	Logo       string
	PDFStorage string
}

// Validate checks the emitter identity at configuration load time.
func (e Emitter) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("emitter name is required")
	}
	if !ValidSIRET(e.SIRET) {
		return fmt.Errorf("emitter SIRET must be exactly 14 digits, got %q", e.SIRET)
	}
	if e.SIREN != "" && !ValidSIREN(e.SIREN) {
		return fmt.Errorf("emitter SIREN must be exactly 9 digits, got %q", e.SIREN)
	}
	if e.Address == "" {
		return fmt.Errorf("emitter address is required")
	}
	if e.VATNumber != "" && !ValidVATNumber(e.VATNumber) {
		return fmt.Errorf("emitter VAT number %q is not a valid intra-community identifier", e.VATNumber)
	}
	return nil
}

// Buyer is the invoice recipient identity, sourced from validated form
// input. VATNumber and Address are optional; CountryCode is required.
type Buyer struct {
	Name        string
	SIRET       string
	VATNumber   string
	Address     string
	CountryCode string
}
