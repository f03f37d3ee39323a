package builder

import "strconv"

// Schema maps logical document fields to the positional column identities of
// one export-tool version. The indices are reverse-engineered from sample
// files and brittle by construction. A new export version becomes a new
// Schema value injected into the builder, not a code change.
//
// Values are logical field names fed to sheet.Resolver, so "15" matches
// "15", "__EMPTY_15", "_15" and the rest of the naming templates.
type Schema struct {
	// Header
	InvoiceTypeCode   string
	ReferenceUUID     string
	ReferenceInternal string
	DocumentCurrency  string
	TaxCurrency       string
	ExchangeRate      string
	BillingReference  string
	PeriodStart       string
	PeriodEnd         string
	PeriodDescription string

	// Supplier
	SupplierName     string
	SupplierTIN      string
	SupplierBRN      string
	SupplierSST      string
	SupplierTTX      string
	SupplierEmail    string
	SupplierPhone    string
	SupplierAddrBase string // two consecutive slots starting here
	SupplierCity     string
	SupplierPostcode string
	SupplierState    string
	SupplierCountry  string
	SupplierMSIC     string
	SupplierActivity string

	// Buyer
	BuyerName     string
	BuyerTIN      string
	BuyerBRN      string
	BuyerSST      string
	BuyerTTX      string
	BuyerEmail    string
	BuyerPhone    string
	BuyerAddrBase string
	BuyerCity     string
	BuyerPostcode string
	BuyerState    string
	BuyerCountry  string

	// Delivery
	DeliveryName     string
	DeliveryTIN      string
	DeliveryBRN      string
	DeliveryAddrBase string
	DeliveryCity     string
	DeliveryPostcode string
	DeliveryState    string
	DeliveryCountry  string

	// Line item
	LineID              string
	ItemClassCode       string
	ItemClassType       string
	ItemDescription     string
	ItemOriginCountry   string
	Quantity            string
	UnitCode            string
	UnitPrice           string
	LineExtension       string
	ACIndicator         string
	ACReason            string
	ACMultiplier        string
	ACAmount            string
	LineTaxableAmount   string
	LineTaxAmount       string
	LineTaxCategory     string
	LineTaxPercent      string
	LineTaxExemptReason string
	LineTaxScheme       string
	PriceDiscountRate   string
	PriceDiscount       string

	// Summary
	SumLineExtension   string
	SumTaxExclusive    string
	SumTaxInclusive    string
	SumAllowanceTotal  string
	SumChargeTotal     string
	SumPayableRounding string
	SumPayable         string
	TaxTotalAmount     string
	TaxTotalTaxable    string
	TaxTotalExempted   string
	TaxTotalRate       string
	TaxTotalTypeCode   string
	TaxTotalExemptRsn  string
	TaxTotalCategory   string

	// Document-level allowance/charge
	DocACIndicator string
	DocACReason    string
	DocACAmount    string
}

// LayoutSchemaV1 is the positional map of the current MyInvois bulk-upload
// template, anchored on supplier TIN at column 15 and buyer TIN at column 34
// of the known sample file.
var LayoutSchemaV1 = Schema{
	InvoiceTypeCode:   "2",
	ReferenceUUID:     "3",
	ReferenceInternal: "4",
	DocumentCurrency:  "5",
	TaxCurrency:       "6",
	ExchangeRate:      "7",
	BillingReference:  "8",
	PeriodStart:       "9",
	PeriodEnd:         "10",
	PeriodDescription: "11",

	SupplierName:     "14",
	SupplierTIN:      "15",
	SupplierBRN:      "16",
	SupplierSST:      "17",
	SupplierTTX:      "18",
	SupplierEmail:    "19",
	SupplierPhone:    "20",
	SupplierAddrBase: "21",
	SupplierCity:     "23",
	SupplierPostcode: "24",
	SupplierState:    "25",
	SupplierCountry:  "26",
	SupplierMSIC:     "27",
	SupplierActivity: "28",

	BuyerName:     "33",
	BuyerTIN:      "34",
	BuyerBRN:      "35",
	BuyerSST:      "36",
	BuyerTTX:      "37",
	BuyerEmail:    "38",
	BuyerPhone:    "39",
	BuyerAddrBase: "40",
	BuyerCity:     "42",
	BuyerPostcode: "43",
	BuyerState:    "44",
	BuyerCountry:  "45",

	DeliveryName:     "47",
	DeliveryTIN:      "48",
	DeliveryBRN:      "49",
	DeliveryAddrBase: "50",
	DeliveryCity:     "52",
	DeliveryPostcode: "53",
	DeliveryState:    "54",
	DeliveryCountry:  "55",

	LineID:              "57",
	ItemClassCode:       "58",
	ItemClassType:       "59",
	ItemDescription:     "60",
	ItemOriginCountry:   "61",
	Quantity:            "62",
	UnitCode:            "63",
	UnitPrice:           "64",
	LineExtension:       "65",
	ACIndicator:         "66",
	ACReason:            "67",
	ACMultiplier:        "68",
	ACAmount:            "69",
	LineTaxableAmount:   "70",
	LineTaxAmount:       "71",
	LineTaxCategory:     "72",
	LineTaxPercent:      "73",
	LineTaxExemptReason: "74",
	LineTaxScheme:       "75",
	PriceDiscountRate:   "76",
	PriceDiscount:       "77",

	SumLineExtension:   "79",
	SumTaxExclusive:    "80",
	SumTaxInclusive:    "81",
	SumAllowanceTotal:  "82",
	SumChargeTotal:     "83",
	SumPayableRounding: "84",
	SumPayable:         "85",
	TaxTotalAmount:     "86",
	TaxTotalTaxable:    "87",
	TaxTotalExempted:   "88",
	TaxTotalRate:       "89",
	TaxTotalTypeCode:   "90",
	TaxTotalExemptRsn:  "91",
	TaxTotalCategory:   "92",

	DocACIndicator: "93",
	DocACReason:    "94",
	DocACAmount:    "95",
}

// AddressSlots returns the logical names of the two consecutive address
// fragment columns starting at base.
func AddressSlots(base string) []string {
	next := bumpIndex(base)
	return []string{base, next}
}

func bumpIndex(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return strconv.Itoa(n + 1)
}
