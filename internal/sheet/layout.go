package sheet

import (
	"regexp"
	"strings"

	"einvois/internal/domain"
)

// headerLabelLiterals are Invoice-column values that mark a header/label row
// rather than a document start. They must never be classified as decisive.
var headerLabelLiterals = map[string]bool{
	"Invoice":                            true,
	"Internal Document Reference Number": true,
	"Invoice_ID":                         true,
}

// rowTypeAliases are the historical names under which the H/L/F discriminator
// column has shipped. The empty-string key is real: one export tool emitted
// the discriminator under a blank header.
var rowTypeAliases = []string{
	"",
	"__EMPTY",
	"__EMPTY_0",
	"_0",
	"RowType",
	"Type",
	"RecordType",
	"Row_Type",
	"rowtype",
}

// Field-presence fallbacks for legacy sheets that lost the discriminator
// column entirely.
var (
	legacyHeaderFields = []string{"InvoiceNumber", "DocumentNumber"}
	legacyLineFields   = []string{"LineNumber", "ItemNumber"}
	legacyFooterFields = []string{"TotalAmount"}
)

var (
	digitRe        = regexp.MustCompile(`\d`)
	alphanumericRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// DetectLayout inspects data rows and decides which layout the sheet
// follows. The first decisive row wins; if no row decides, the layout is
// Unknown and the whole batch fails closed.
func DetectLayout(rows []Row) domain.SheetLayout {
	for _, row := range rows {
		if InvoiceValueDecisive(invoiceCellValue(row)) {
			return domain.LayoutInvoiceBased
		}
		if rt := LegacyRowType(row); rt != domain.RowTypeUnknown {
			return domain.LayoutLegacyHLF
		}
		if legacyByFieldPresence(row) {
			return domain.LayoutLegacyHLF
		}
	}
	return domain.LayoutUnknown
}

// InvoiceValueDecisive reports whether an Invoice-column value marks a
// complete invoice-based document row: non-empty, not a known header label,
// and either containing a digit or being a pure alphanumeric token.
func InvoiceValueDecisive(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || headerLabelLiterals[value] {
		return false
	}
	return digitRe.MatchString(value) || alphanumericRe.MatchString(value)
}

// InvoiceNumber returns the row's Invoice value (the one well-known header
// name that can be trusted), resolved through the usual naming templates.
func InvoiceNumber(row Row) string {
	r := NewResolver()
	return r.ResolveString(row, "Invoice")
}

// LegacyRowType reads the H/L/F discriminator from any of its historical
// aliases. Only the first character is significant and case is ignored.
// Returns RowTypeUnknown when no alias is present or the value is not H/L/F.
func LegacyRowType(row Row) domain.RowType {
	for _, alias := range rowTypeAliases {
		v, ok := row[alias]
		if !ok || IsEmptyValue(v) {
			continue
		}
		s := strings.ToUpper(AsString(v))
		if s == "" {
			continue
		}
		switch s[0] {
		case 'H':
			return domain.RowTypeHeader
		case 'L':
			return domain.RowTypeLine
		case 'F':
			return domain.RowTypeFooter
		}
	}
	return domain.RowTypeUnknown
}

// InferLegacyRowType falls back to field-presence inference for legacy rows
// whose discriminator column was dropped by the export tool.
func InferLegacyRowType(row Row) domain.RowType {
	if rt := LegacyRowType(row); rt != domain.RowTypeUnknown {
		return rt
	}
	if anyFieldPresent(row, legacyHeaderFields) {
		return domain.RowTypeHeader
	}
	if anyFieldPresent(row, legacyLineFields) {
		return domain.RowTypeLine
	}
	if anyFieldPresent(row, legacyFooterFields) {
		return domain.RowTypeFooter
	}
	return domain.RowTypeUnknown
}

func legacyByFieldPresence(row Row) bool {
	return anyFieldPresent(row, legacyHeaderFields) ||
		anyFieldPresent(row, legacyLineFields) ||
		anyFieldPresent(row, legacyFooterFields)
}

func anyFieldPresent(row Row, fields []string) bool {
	r := NewResolver()
	for _, f := range fields {
		if v, ok := r.Resolve(row, f); ok && !IsEmptyValue(v) {
			return true
		}
	}
	return false
}

func invoiceCellValue(row Row) string {
	r := NewResolver()
	return r.ResolveString(row, "Invoice")
}
