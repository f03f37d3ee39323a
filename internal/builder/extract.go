package builder

import (
	"fmt"

	"einvois/internal/domain"
	"einvois/internal/sheet"
)

// ExtractDocuments is the layout-aware single-pass extraction used by manual
// uploads: detect the layout once, build every qualifying document, and
// return per-row failures without any batch aggregation. The only fatal
// condition is an indeterminate layout.
func ExtractDocuments(rows []sheet.Row, schema Schema, defaults Defaults) ([]domain.InvoiceDocument, []domain.BuildFailure, error) {
	layout := sheet.DetectLayout(rows)
	switch layout {
	case domain.LayoutInvoiceBased:
		docs, failures := extractInvoiceBased(rows, schema, defaults)
		return docs, failures, nil
	case domain.LayoutLegacyHLF:
		docs, failures, _ := NewLegacy(defaults).BuildAll(rows)
		return docs, failures, nil
	default:
		return nil, nil, domain.ErrLayoutIndeterminate
	}
}

func extractInvoiceBased(rows []sheet.Row, schema Schema, defaults Defaults) ([]domain.InvoiceDocument, []domain.BuildFailure) {
	b := New(schema, defaults)

	var (
		docs     []domain.InvoiceDocument
		failures []domain.BuildFailure
	)
	for i, row := range rows {
		if !sheet.InvoiceValueDecisive(sheet.InvoiceNumber(row)) {
			continue
		}
		doc, err := b.Build(row, Context{Rows: rows, RowIndex: i})
		if err != nil {
			failures = append(failures, domain.BuildFailure{
				RowIndex: i,
				Reason:   fmt.Sprintf("build failed: %v", err),
			})
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, failures
}
