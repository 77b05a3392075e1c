package testutil

import "github.com/mbellec/facturx/internal/core/invoice"

// EmitterFixture returns a valid emitter identity for tests.
func EmitterFixture() invoice.Emitter {
	return invoice.Emitter{
		SIREN:     "732829320",
		SIRET:     "73282932000074",
		Name:      "Atelier Numérique SARL",
		Address:   "12 rue de la République, 69002 Lyon",
		BIC:       "AGRIFRPP",
		VATNumber: "FR32732829320",
	}
}
