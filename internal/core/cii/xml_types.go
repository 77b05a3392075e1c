package cii

import "encoding/xml"

// XML document structure of a UN/CEFACT Cross Industry Invoice, restricted
// to the element set of the Factur-X MINIMUM and BASIC profiles. Struct
// field order is the schema element order; encoding/xml preserves it, which
// keeps serialization deterministic.

type xmlCrossIndustryInvoice struct {
	XMLName  xml.Name `xml:"rsm:CrossIndustryInvoice"`
	XmlnsRSM string   `xml:"xmlns:rsm,attr"`
	XmlnsRAM string   `xml:"xmlns:ram,attr"`
	XmlnsUDT string   `xml:"xmlns:udt,attr"`
	XmlnsQDT string   `xml:"xmlns:qdt,attr"`

	Context     xmlExchangedDocumentContext `xml:"rsm:ExchangedDocumentContext"`
	Document    xmlExchangedDocument        `xml:"rsm:ExchangedDocument"`
	Transaction xmlTradeTransaction         `xml:"rsm:SupplyChainTradeTransaction"`
}

type xmlExchangedDocumentContext struct {
	GuidelineParameter xmlDocumentContextParameter `xml:"ram:GuidelineSpecifiedDocumentContextParameter"`
}

type xmlDocumentContextParameter struct {
	ID string `xml:"ram:ID"`
}

type xmlExchangedDocument struct {
	ID            string            `xml:"ram:ID"`
	TypeCode      int               `xml:"ram:TypeCode"`
	IssueDateTime xmlIssueDateTime  `xml:"ram:IssueDateTime"`
}

type xmlIssueDateTime struct {
	DateTimeString xmlDateTimeString `xml:"udt:DateTimeString"`
}

// xmlDateTimeString carries a date in CII format 102 (YYYYMMDD).
type xmlDateTimeString struct {
	Format string `xml:"format,attr"`
	Value  string `xml:",chardata"`
}

type xmlTradeTransaction struct {
	Agreement  xmlHeaderTradeAgreement  `xml:"ram:ApplicableHeaderTradeAgreement"`
	Delivery   xmlHeaderTradeDelivery   `xml:"ram:ApplicableHeaderTradeDelivery"`
	Settlement xmlHeaderTradeSettlement `xml:"ram:ApplicableHeaderTradeSettlement"`
}

type xmlHeaderTradeAgreement struct {
	BuyerReference string             `xml:"ram:BuyerReference,omitempty"`
	Seller         xmlTradeParty      `xml:"ram:SellerTradeParty"`
	Buyer          xmlTradeParty      `xml:"ram:BuyerTradeParty"`
	OrderReference *xmlOrderReference `xml:"ram:BuyerOrderReferencedDocument"`
}

type xmlOrderReference struct {
	IssuerAssignedID string `xml:"ram:IssuerAssignedID"`
}

type xmlTradeParty struct {
	Name              string                `xml:"ram:Name"`
	LegalOrganization xmlLegalOrganization  `xml:"ram:SpecifiedLegalOrganization"`
	PostalAddress     *xmlPostalAddress     `xml:"ram:PostalTradeAddress"`
	TaxRegistration   *xmlTaxRegistration   `xml:"ram:SpecifiedTaxRegistration"`
}

type xmlLegalOrganization struct {
	ID xmlSchemedID `xml:"ram:ID"`
}

// xmlSchemedID is an identifier qualified by an ICD scheme; 0002 is the
// SIRENE registry SIRET numbers live in.
type xmlSchemedID struct {
	SchemeID string `xml:"schemeID,attr"`
	Value    string `xml:",chardata"`
}

type xmlPostalAddress struct {
	LineOne   string `xml:"ram:LineOne,omitempty"`
	CountryID string `xml:"ram:CountryID"`
}

type xmlTaxRegistration struct {
	ID xmlSchemedID `xml:"ram:ID"`
}

// xmlHeaderTradeDelivery is intentionally empty in MINIMUM and BASIC
// profiles but the element itself is mandatory.
type xmlHeaderTradeDelivery struct{}

type xmlHeaderTradeSettlement struct {
	CurrencyCode string                 `xml:"ram:InvoiceCurrencyCode"`
	PaymentTerms *xmlTradePaymentTerms  `xml:"ram:SpecifiedTradePaymentTerms"`
	TradeTaxes   []xmlApplicableTradeTax `xml:"ram:ApplicableTradeTax"`
	Summation    xmlMonetarySummation   `xml:"ram:SpecifiedTradeSettlementHeaderMonetarySummation"`
}

type xmlTradePaymentTerms struct {
	Description string          `xml:"ram:Description,omitempty"`
	DueDate     *xmlDueDateTime `xml:"ram:DueDateDateTime"`
}

type xmlDueDateTime struct {
	DateTimeString xmlDateTimeString `xml:"udt:DateTimeString"`
}

type xmlApplicableTradeTax struct {
	CalculatedAmount      string `xml:"ram:CalculatedAmount"`
	TypeCode              string `xml:"ram:TypeCode"`
	BasisAmount           string `xml:"ram:BasisAmount"`
	CategoryCode          string `xml:"ram:CategoryCode"`
	RateApplicablePercent string `xml:"ram:RateApplicablePercent"`
}

type xmlMonetarySummation struct {
	LineTotalAmount     string            `xml:"ram:LineTotalAmount"`
	TaxBasisTotalAmount string            `xml:"ram:TaxBasisTotalAmount"`
	TaxTotalAmount      xmlCurrencyAmount `xml:"ram:TaxTotalAmount"`
	GrandTotalAmount    string            `xml:"ram:GrandTotalAmount"`
	DuePayableAmount    string            `xml:"ram:DuePayableAmount"`
}

type xmlCurrencyAmount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}
