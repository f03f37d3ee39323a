package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"einvois/internal/builder"
	"einvois/internal/domain"
	"einvois/internal/sheet"
)

func TestExtractDocuments_InvoiceBased(t *testing.T) {
	rows := []sheet.Row{
		{"Invoice": "Invoice"}, // header label row, skipped
		fullRow(),
		{"Invoice": "INV-2024-002", "__EMPTY_5": "MYR"},
	}

	docs, failures, err := builder.ExtractDocuments(rows, builder.LayoutSchemaV1, builder.StandardDefaults)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, docs, 2)
	assert.Equal(t, "INV-2024-001", docs[0].Header.InvoiceNo)
	assert.Equal(t, "INV-2024-002", docs[1].Header.InvoiceNo)
}

func TestExtractDocuments_Legacy(t *testing.T) {
	rows := []sheet.Row{
		legacyHeader("DOC-001"),
		legacyLine(1, 100),
		legacyFooter(106),
	}

	docs, failures, err := builder.ExtractDocuments(rows, builder.LayoutSchemaV1, builder.StandardDefaults)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, docs, 1)
	assert.Equal(t, "DOC-001", docs[0].Header.InvoiceNo)
}

func TestExtractDocuments_IndeterminateLayout(t *testing.T) {
	rows := []sheet.Row{
		{"Comment": "free text"},
	}

	_, _, err := builder.ExtractDocuments(rows, builder.LayoutSchemaV1, builder.StandardDefaults)
	assert.ErrorIs(t, err, domain.ErrLayoutIndeterminate)
}
