package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotApplicable is the sentinel used for textual fields that are absent or
// explicitly not applicable. Downstream MyInvois mapping requires the literal
// "NA" rather than an empty string.
const NotApplicable = "NA"

// InvoiceDocument is the reconstructed unit of work: one e-Invoice ready to
// be handed to the MyInvois submission mapper. It is immutable after
// construction except for the Analytics block filled in by the batch
// processor.
type InvoiceDocument struct {
	Header          InvoiceHeader      `json:"header"`
	Supplier        OrganizationParty  `json:"supplier"`
	Buyer           OrganizationParty  `json:"buyer"`
	Delivery        OrganizationParty  `json:"delivery"`
	Items           []LineItem         `json:"items"`
	Summary         MonetarySummary    `json:"summary"`
	AllowanceCharge AllowanceCharge    `json:"allowanceCharge"`
	Analytics       *DocumentAnalytics `json:"analytics,omitempty"`
}

// InvoiceHeader holds top-level invoice metadata.
type InvoiceHeader struct {
	InvoiceNo            string            `json:"invoiceNo"`
	InvoiceTypeCode      string            `json:"invoiceTypeCode"`
	DocumentCurrencyCode string            `json:"documentCurrencyCode"`
	TaxCurrencyCode      string            `json:"taxCurrencyCode"`
	ExchangeRate         float64           `json:"exchangeRate"`
	Reference            DocumentReference `json:"reference"`
	IssueDate            string            `json:"issueDate"`
	IssueTime            string            `json:"issueTime"`
	Period               InvoicePeriod     `json:"invoicePeriod"`
}

// DocumentReference ties the document to its source identifiers.
type DocumentReference struct {
	UUID             string `json:"uuid"`
	InternalID       string `json:"internalId"`
	BillingReference string `json:"billingReference"`
}

// InvoicePeriod describes the billing period the invoice covers.
type InvoicePeriod struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// PartyIdentification is one (id, scheme) pair on a party. Scheme is one of
// TIN, BRN, SST, TTX.
type PartyIdentification struct {
	ID     string   `json:"id"`
	Scheme IDScheme `json:"schemeId"`
}

// OrganizationParty represents the supplier, buyer or delivery party.
type OrganizationParty struct {
	Identifier       string                `json:"identifier"`
	Identifications  []PartyIdentification `json:"identifications"`
	Name             string                `json:"name"`
	Address          Address               `json:"address"`
	Contact          Contact               `json:"contact"`
	IndustryCode     string                `json:"industryCode,omitempty"`
	IndustryActivity string                `json:"industryActivity,omitempty"`
}

// Address is a postal address with the state resolved through the Malaysian
// state-code table.
type Address struct {
	Line            string `json:"line"`
	City            string `json:"city"`
	Postcode        string `json:"postcode"`
	State           string `json:"state"`
	Country         string `json:"country"`
	CountryListID   string `json:"countryListId"`
	CountryListName string `json:"countryListAgencyName"`
}

// Contact holds party contact details.
type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// LineItem is one invoice line.
type LineItem struct {
	ID                  string             `json:"id"`
	Quantity            float64            `json:"quantity"`
	UnitCode            string             `json:"unitCode"`
	UnitPrice           float64            `json:"unitPrice"`
	LineExtensionAmount float64            `json:"lineExtensionAmount"`
	AllowanceCharges    []AllowanceCharge  `json:"allowanceCharges"`
	TaxSubtotal         TaxSubtotal        `json:"taxSubtotal"`
	Classification      ItemClassification `json:"classification"`
	Price               PriceBreakdown     `json:"price"`
}

// AllowanceCharge is a discount (indicator false) or charge (indicator true)
// at line or document level.
type AllowanceCharge struct {
	ChargeIndicator bool    `json:"chargeIndicator"`
	Reason          string  `json:"reason"`
	Multiplier      float64 `json:"multiplierFactor"`
	Amount          float64 `json:"amount"`
}

// TaxSubtotal is the tax breakdown of a single line.
type TaxSubtotal struct {
	TaxableAmount   float64 `json:"taxableAmount"`
	TaxAmount       float64 `json:"taxAmount"`
	CategoryID      string  `json:"taxCategoryId"`
	Percent         float64 `json:"percent"`
	ExemptionReason string  `json:"exemptionReason"`
	SchemeID        string  `json:"taxSchemeId"`
}

// ItemClassification identifies what was sold.
type ItemClassification struct {
	Code          string `json:"code"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	OriginCountry string `json:"originCountry"`
}

// PriceBreakdown is the unit price detail of a line.
type PriceBreakdown struct {
	Amount       float64 `json:"amount"`
	DiscountRate float64 `json:"discountRate"`
	Discount     float64 `json:"discountAmount"`
	SubtotalRate float64 `json:"subtotalRate"`
}

// MonetarySummary holds the document-level monetary totals and tax block.
type MonetarySummary struct {
	LineExtensionAmount  float64  `json:"lineExtensionAmount"`
	TaxExclusiveAmount   float64  `json:"taxExclusiveAmount"`
	TaxInclusiveAmount   float64  `json:"taxInclusiveAmount"`
	AllowanceTotalAmount float64  `json:"allowanceTotalAmount"`
	ChargeTotalAmount    float64  `json:"chargeTotalAmount"`
	PayableRounding      float64  `json:"payableRoundingAmount"`
	PayableAmount        float64  `json:"payableAmount"`
	Tax                  TaxTotal `json:"taxTotal"`
}

// TaxTotal is the document-level tax block.
type TaxTotal struct {
	TotalAmount     float64 `json:"totalTaxAmount"`
	TaxableAmount   float64 `json:"taxableAmount"`
	ExemptedAmount  float64 `json:"exemptedAmount"`
	Rate            float64 `json:"rate"`
	TypeCode        string  `json:"typeCode"`
	ExemptionReason string  `json:"exemptionReason"`
	Category        string  `json:"category"`
}

// DocumentAnalytics is the batch-processing augmentation: derived, never part
// of the canonical document.
type DocumentAnalytics struct {
	ProcessingIndex int       `json:"processingIndex"`
	ProcessedAt     time.Time `json:"processedAt"`
	DocumentID      uuid.UUID `json:"documentId"`
	LineItemCount   int       `json:"lineItemCount"`
	TotalAmount     float64   `json:"totalAmount"`
	TaxAmount       float64   `json:"taxAmount"`
	Currency        string    `json:"currency"`
	InvoiceType     string    `json:"invoiceType"`
}

// RowValidation is the per-row entry of a ValidationReport.
type RowValidation struct {
	RowIndex int      `json:"rowIndex"`
	RowType  RowType  `json:"rowType"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// LogicalValidation is the batch-level coherence verdict of a report.
type LogicalValidation struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

// ValidationReport is the structured result of the diagnostic row pass.
type ValidationReport struct {
	Layout            SheetLayout       `json:"layout"`
	TotalRows         int               `json:"totalRows"`
	ValidRows         int               `json:"validRows"`
	InvalidRows       int               `json:"invalidRows"`
	RowTypeCounts     map[RowType]int   `json:"rowTypeCounts"`
	RowDetails        []RowValidation   `json:"rowDetails"`
	LogicalValidation LogicalValidation `json:"logicalValidation"`
}

// BuildFailure records a row/group that could not yield a document.
type BuildFailure struct {
	RowIndex  int    `json:"rowIndex"`
	InvoiceNo string `json:"invoiceNo,omitempty"`
	Reason    string `json:"reason"`
}

// LogEntry is one timestamped audit log line emitted during batch processing.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// BatchSummary aggregates batch-level statistics across all built documents.
type BatchSummary struct {
	Currencies     []string `json:"currencies"`
	InvoiceTypes   []string `json:"invoiceTypes"`
	TotalAmount    float64  `json:"totalAmount"`
	TotalTaxAmount float64  `json:"totalTaxAmount"`
	TotalLineItems int      `json:"totalLineItems"`
	Warnings       []string `json:"warnings"`
}

// BatchValidation collects per-document outcomes of one batch run.
type BatchValidation struct {
	DuplicateInvoices []string       `json:"duplicateInvoices"`
	InvalidInvoices   []BuildFailure `json:"invalidInvoices"`
	Warnings          []string       `json:"warnings"`
}

// BatchResult is the outcome of one ProcessBatch call.
type BatchResult struct {
	BatchID           uuid.UUID         `json:"batchId"`
	Success           bool              `json:"success"`
	Layout            SheetLayout       `json:"layout"`
	TotalInvoices     int               `json:"totalInvoices"`
	ProcessedInvoices int               `json:"processedInvoices"`
	FailedInvoices    int               `json:"failedInvoices"`
	Invoices          []InvoiceDocument `json:"invoices"`
	BatchSummary      BatchSummary      `json:"batchSummary"`
	Validation        BatchValidation   `json:"validation"`
	Report            *ValidationReport `json:"report,omitempty"`
	Logs              []LogEntry        `json:"logs"`
	StartedAt         time.Time         `json:"startedAt"`
	CompletedAt       time.Time         `json:"completedAt"`
}

// BatchReport is the persisted form of a BatchResult.
type BatchReport struct {
	ID                uuid.UUID   `db:"id" json:"id"`
	FileName          string      `db:"file_name" json:"file_name"`
	Status            BatchStatus `db:"status" json:"status"`
	Layout            string      `db:"layout" json:"layout"`
	TotalInvoices     int         `db:"total_invoices" json:"total_invoices"`
	ProcessedInvoices int         `db:"processed_invoices" json:"processed_invoices"`
	FailedInvoices    int         `db:"failed_invoices" json:"failed_invoices"`
	DuplicateCount    int         `db:"duplicate_count" json:"duplicate_count"`
	SummaryJSON       []byte      `db:"summary" json:"-"`
	ArchiveBucket     string      `db:"archive_bucket" json:"archive_bucket"`
	ArchiveKey        string      `db:"archive_key" json:"archive_key"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	CompletedAt       *time.Time  `db:"completed_at" json:"completed_at"`
}

// BatchDocument is the persisted per-document outcome within a batch.
type BatchDocument struct {
	ID           uuid.UUID `db:"id" json:"id"`
	BatchID      uuid.UUID `db:"batch_id" json:"batch_id"`
	InvoiceNo    string    `db:"invoice_no" json:"invoice_no"`
	Currency     string    `db:"currency" json:"currency"`
	InvoiceType  string    `db:"invoice_type" json:"invoice_type"`
	TotalAmount  float64   `db:"total_amount" json:"total_amount"`
	TaxAmount    float64   `db:"tax_amount" json:"tax_amount"`
	LineItems    int       `db:"line_items" json:"line_items"`
	Duplicate    bool      `db:"duplicate" json:"duplicate"`
	DocumentJSON []byte    `db:"document" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
