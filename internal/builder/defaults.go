package builder

import "einvois/internal/domain"

// Defaults is the read-only constants table applied at the document boundary
// when the sheet carries no value. It is passed by value into the builder;
// nothing mutates it.
type Defaults struct {
	Text              string
	InvoiceTypeCode   string
	CurrencyCode      string
	UnitCode          string
	TaxTypeCode       string
	TaxCategory       string
	TaxScheme         string
	Country           string
	CountryListID     string
	CountryListAgency string
}

// StandardDefaults mirrors the constants the MyInvois mapper downstream
// expects: "NA" sentinels for absent text, MYR as home currency, tax type 06
// (sales tax) and the ISO 3166 country list metadata.
var StandardDefaults = Defaults{
	Text:              domain.NotApplicable,
	InvoiceTypeCode:   "01",
	CurrencyCode:      "MYR",
	UnitCode:          "C62",
	TaxTypeCode:       "06",
	TaxCategory:       "06",
	TaxScheme:         "OTH",
	Country:           "MYS",
	CountryListID:     "ISO3166-1",
	CountryListAgency: "6",
}

// textOr returns s, or the "NA" sentinel when s is empty.
func (d Defaults) textOr(s string) string {
	if s == "" {
		return d.Text
	}
	return s
}
