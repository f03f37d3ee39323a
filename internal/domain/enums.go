package domain

// SheetLayout identifies which of the two known spreadsheet layouts a batch
// follows. The decision is made once per batch and never changes.
type SheetLayout string

const (
	// LayoutInvoiceBased is the current one-row-per-invoice layout: every row
	// with a decisive Invoice value is a complete, self-sufficient document.
	LayoutInvoiceBased SheetLayout = "invoice_based"
	// LayoutLegacyHLF is the older multi-row layout: rows are tagged H/L/F and
	// one header row, N line rows and one footer row form a single document.
	LayoutLegacyHLF SheetLayout = "legacy_hlf"
	// LayoutUnknown means no recognizable row-type signal was found anywhere.
	// The whole batch fails closed.
	LayoutUnknown SheetLayout = "unknown"
)

// RowType classifies a single data row under the detected layout.
type RowType string

const (
	RowTypeInvoice RowType = "INVOICE"
	RowTypeHeader  RowType = "H"
	RowTypeLine    RowType = "L"
	RowTypeFooter  RowType = "F"
	RowTypeUnknown RowType = "UNKNOWN"
)

// IDScheme is a party identification scheme accepted by the MyInvois API.
type IDScheme string

const (
	SchemeTIN IDScheme = "TIN"
	SchemeBRN IDScheme = "BRN"
	SchemeSST IDScheme = "SST"
	SchemeTTX IDScheme = "TTX"
)

// LogLevel is the severity of a batch audit log entry.
type LogLevel string

const (
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// BatchStatus represents the lifecycle of a stored batch report.
type BatchStatus string

const (
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

// AllowedSpreadsheetExtensions maps upload extensions (without dot) to the
// content type the archive store records.
var AllowedSpreadsheetExtensions = map[string]string{
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xls":  "application/vnd.ms-excel",
}
