// Package cii renders a validated invoice model into the Cross Industry
// Invoice XML structure embedded in Factur-X documents.
//
// Serialization is a pure structural mapping: every required element comes
// from exactly one model field or derived value, and identical models
// produce byte-identical output. Business validation happened at model
// construction; a missing required field here is a broken contract and
// fails loudly instead of producing malformed XML.
package cii

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/mbellec/facturx/internal/core/invoice"
)

// Namespace URIs fixed by the CII 100 schema family.
const (
	NamespaceRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NamespaceRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NamespaceUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
	NamespaceQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
)

// Guideline context identifiers of the two supported Factur-X profiles.
const (
	GuidelineMinimum = "urn:factur-x.eu:1p0:minimum"
	GuidelineBasic   = "urn:factur-x.eu:1p0:basic"
)

const (
	dateFormat102   = "102"
	dateLayout102   = "20060102"
	schemeSIRENE    = "0002"
	schemeVAT       = "VA"
	taxTypeVAT      = "VAT"
	taxCategoryStd  = "S"
)

// Profile returns the guideline identifier the invoice serializes under:
// BASIC as soon as a BASIC-only optional block is populated, MINIMUM
// otherwise.
func Profile(inv *invoice.FacturXInvoice) string {
	if inv.Buyer.VATNumber != "" || inv.Buyer.Address != "" ||
		inv.PaymentTerms != "" || inv.PurchaseOrderReference != "" {
		return GuidelineBasic
	}
	return GuidelineMinimum
}

// Generate serializes the invoice into a complete CII XML document,
// including the XML declaration.
func Generate(inv *invoice.FacturXInvoice) ([]byte, error) {
	if err := checkContract(inv); err != nil {
		return nil, err
	}

	doc := xmlCrossIndustryInvoice{
		XmlnsRSM: NamespaceRSM,
		XmlnsRAM: NamespaceRAM,
		XmlnsUDT: NamespaceUDT,
		XmlnsQDT: NamespaceQDT,
		Context: xmlExchangedDocumentContext{
			GuidelineParameter: xmlDocumentContextParameter{ID: Profile(inv)},
		},
		Document: xmlExchangedDocument{
			ID:       inv.Number,
			TypeCode: int(inv.TypeCode),
			IssueDateTime: xmlIssueDateTime{
				DateTimeString: dateString(inv.IssueDate),
			},
		},
	}

	doc.Transaction.Agreement = xmlHeaderTradeAgreement{
		BuyerReference: inv.BuyerReference,
		Seller:         sellerParty(inv.Emitter),
		Buyer:          buyerParty(inv.Buyer),
	}
	if inv.PurchaseOrderReference != "" {
		doc.Transaction.Agreement.OrderReference = &xmlOrderReference{
			IssuerAssignedID: inv.PurchaseOrderReference,
		}
	}

	settlement := xmlHeaderTradeSettlement{
		CurrencyCode: inv.CurrencyCode,
	}
	if inv.DueDate != nil || inv.PaymentTerms != "" {
		terms := &xmlTradePaymentTerms{Description: inv.PaymentTerms}
		if inv.DueDate != nil {
			terms.DueDate = &xmlDueDateTime{DateTimeString: dateString(*inv.DueDate)}
		}
		settlement.PaymentTerms = terms
	}

	for _, entry := range inv.Breakdown() {
		settlement.TradeTaxes = append(settlement.TradeTaxes, xmlApplicableTradeTax{
			CalculatedAmount:      entry.TaxAmount.StringFixed(),
			TypeCode:              taxTypeVAT,
			BasisAmount:           entry.TaxableAmount.StringFixed(),
			CategoryCode:          taxCategoryStd,
			RateApplicablePercent: entry.Rate.Percent().StringFixed(2),
		})
	}

	totals := inv.Totals()
	settlement.Summation = xmlMonetarySummation{
		LineTotalAmount:     totals.Net.StringFixed(),
		TaxBasisTotalAmount: totals.Net.StringFixed(),
		TaxTotalAmount: xmlCurrencyAmount{
			CurrencyID: inv.CurrencyCode,
			Value:      totals.VAT.StringFixed(),
		},
		GrandTotalAmount: totals.Gross.StringFixed(),
		DuePayableAmount: totals.Gross.StringFixed(),
	}
	doc.Transaction.Settlement = settlement

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cross industry invoice: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// checkContract guards against an invoice that bypassed model construction.
// These are programming faults, not user-facing validation.
func checkContract(inv *invoice.FacturXInvoice) error {
	switch {
	case inv == nil:
		return fmt.Errorf("cii: nil invoice")
	case inv.Number == "":
		return fmt.Errorf("cii: invoice number missing despite model construction")
	case inv.IssueDate.IsZero():
		return fmt.Errorf("cii: issue date missing despite model construction")
	case inv.Emitter.Name == "" || inv.Emitter.SIRET == "":
		return fmt.Errorf("cii: emitter identity incomplete despite model construction")
	case inv.Buyer.Name == "" || inv.Buyer.SIRET == "":
		return fmt.Errorf("cii: buyer identity incomplete despite model construction")
	case len(inv.Breakdown()) == 0:
		return fmt.Errorf("cii: empty VAT breakdown despite model construction")
	}
	return nil
}

func dateString(t time.Time) xmlDateTimeString {
	return xmlDateTimeString{Format: dateFormat102, Value: t.Format(dateLayout102)}
}

func sellerParty(e invoice.Emitter) xmlTradeParty {
	party := xmlTradeParty{
		Name: e.Name,
		LegalOrganization: xmlLegalOrganization{
			ID: xmlSchemedID{SchemeID: schemeSIRENE, Value: e.SIRET},
		},
		PostalAddress: &xmlPostalAddress{
			LineOne:   e.Address,
			CountryID: invoice.DefaultCountryCode,
		},
	}
	if e.VATNumber != "" {
		party.TaxRegistration = &xmlTaxRegistration{
			ID: xmlSchemedID{SchemeID: schemeVAT, Value: e.VATNumber},
		}
	}
	return party
}

func buyerParty(b invoice.Buyer) xmlTradeParty {
	party := xmlTradeParty{
		Name: b.Name,
		LegalOrganization: xmlLegalOrganization{
			ID: xmlSchemedID{SchemeID: schemeSIRENE, Value: b.SIRET},
		},
		PostalAddress: &xmlPostalAddress{
			LineOne:   b.Address,
			CountryID: b.CountryCode,
		},
	}
	if b.VATNumber != "" {
		party.TaxRegistration = &xmlTaxRegistration{
			ID: xmlSchemedID{SchemeID: schemeVAT, Value: b.VATNumber},
		}
	}
	return party
}
