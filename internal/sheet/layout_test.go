package sheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"einvois/internal/domain"
	"einvois/internal/sheet"
)

func TestDetectLayout_InvoiceBased(t *testing.T) {
	rows := []sheet.Row{
		{"Invoice": "INV-2024-001", "__EMPTY_15": "C12345678901"},
	}
	assert.Equal(t, domain.LayoutInvoiceBased, sheet.DetectLayout(rows))
}

func TestDetectLayout_HeaderLabelsNotDecisive(t *testing.T) {
	tests := []struct {
		name  string
		label string
	}{
		{"invoice", "Invoice"},
		{"internal_ref", "Internal Document Reference Number"},
		{"invoice_id", "Invoice_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []sheet.Row{{"Invoice": tt.label}}
			assert.Equal(t, domain.LayoutUnknown, sheet.DetectLayout(rows))
		})
	}
}

func TestDetectLayout_LegacyByDiscriminator(t *testing.T) {
	for _, alias := range []string{"", "__EMPTY", "__EMPTY_0", "_0", "RowType", "Type", "RecordType", "Row_Type", "rowtype"} {
		name := alias
		if name == "" {
			name = "blank_header"
		}
		t.Run(name, func(t *testing.T) {
			rows := []sheet.Row{{alias: "H"}}
			assert.Equal(t, domain.LayoutLegacyHLF, sheet.DetectLayout(rows))
		})
	}
}

func TestDetectLayout_LegacyByFieldPresence(t *testing.T) {
	tests := []struct {
		name string
		row  sheet.Row
	}{
		{"invoice_number", sheet.Row{"InvoiceNumber": "DOC-1"}},
		{"document_number", sheet.Row{"DocumentNumber": "DOC-1"}},
		{"line_number", sheet.Row{"LineNumber": 1.0}},
		{"item_number", sheet.Row{"ItemNumber": 1.0}},
		{"total_amount", sheet.Row{"TotalAmount": 106.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, domain.LayoutLegacyHLF, sheet.DetectLayout([]sheet.Row{tt.row}))
		})
	}
}

func TestDetectLayout_FirstDecisiveRowWins(t *testing.T) {
	rows := []sheet.Row{
		{"Comment": "nothing decisive here"},
		{"Invoice": "INV-001"},
		{"RowType": "H"},
	}
	assert.Equal(t, domain.LayoutInvoiceBased, sheet.DetectLayout(rows))
}

func TestDetectLayout_Unknown(t *testing.T) {
	rows := []sheet.Row{
		{"Comment": "free text"},
		{"Invoice": ""},
	}
	assert.Equal(t, domain.LayoutUnknown, sheet.DetectLayout(rows))
	assert.Equal(t, domain.LayoutUnknown, sheet.DetectLayout(nil))
}

func TestInvoiceValueDecisive(t *testing.T) {
	assert.True(t, sheet.InvoiceValueDecisive("INV-001"))
	assert.True(t, sheet.InvoiceValueDecisive("12345"))
	assert.True(t, sheet.InvoiceValueDecisive("ABCDEF"))
	assert.False(t, sheet.InvoiceValueDecisive(""))
	assert.False(t, sheet.InvoiceValueDecisive("   "))
	assert.False(t, sheet.InvoiceValueDecisive("Invoice"))
	assert.False(t, sheet.InvoiceValueDecisive("Invoice_ID"))
	// No digits and not pure alphanumeric.
	assert.False(t, sheet.InvoiceValueDecisive("some free text"))
}

func TestLegacyRowType_FirstCharCaseInsensitive(t *testing.T) {
	assert.Equal(t, domain.RowTypeHeader, sheet.LegacyRowType(sheet.Row{"RowType": "h"}))
	assert.Equal(t, domain.RowTypeHeader, sheet.LegacyRowType(sheet.Row{"RowType": "Header"}))
	assert.Equal(t, domain.RowTypeLine, sheet.LegacyRowType(sheet.Row{"Type": "Line"}))
	assert.Equal(t, domain.RowTypeFooter, sheet.LegacyRowType(sheet.Row{"Type": "f"}))
	assert.Equal(t, domain.RowTypeUnknown, sheet.LegacyRowType(sheet.Row{"Type": "X"}))
	assert.Equal(t, domain.RowTypeUnknown, sheet.LegacyRowType(sheet.Row{"Other": "H"}))
}

func TestInferLegacyRowType_TagBeatsFieldPresence(t *testing.T) {
	// A row tagged L is a line row even when it carries header fields.
	row := sheet.Row{"RowType": "L", "InvoiceNumber": "DOC-1"}
	assert.Equal(t, domain.RowTypeLine, sheet.InferLegacyRowType(row))
}

func TestInferLegacyRowType_FieldPresencePriority(t *testing.T) {
	// Header fields outrank line fields, which outrank footer fields.
	row := sheet.Row{"InvoiceNumber": "DOC-1", "LineNumber": 1.0, "TotalAmount": 10.0}
	assert.Equal(t, domain.RowTypeHeader, sheet.InferLegacyRowType(row))

	row = sheet.Row{"LineNumber": 1.0, "TotalAmount": 10.0}
	assert.Equal(t, domain.RowTypeLine, sheet.InferLegacyRowType(row))

	row = sheet.Row{"TotalAmount": 10.0}
	assert.Equal(t, domain.RowTypeFooter, sheet.InferLegacyRowType(row))

	assert.Equal(t, domain.RowTypeUnknown, sheet.InferLegacyRowType(sheet.Row{"Other": "x"}))
}
