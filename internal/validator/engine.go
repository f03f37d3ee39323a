package validator

import (
	"fmt"

	"einvois/internal/builder"
	"einvois/internal/domain"
	"einvois/internal/sheet"
)

// Engine is the row validator: a pure diagnostic pass over the data rows
// under the layout decided by the detector. It never constructs documents
// and never aborts: every finding lands in the report.
type Engine struct {
	resolver *sheet.Resolver
	schema   builder.Schema
	rules    []rowRule
}

// NewEngine creates an Engine bound to a positional schema.
func NewEngine(schema builder.Schema) *Engine {
	return &Engine{
		resolver: sheet.NewResolver(),
		schema:   schema,
		rules:    invoiceRowRules(),
	}
}

// Validate checks every data row's required fields, identifier formats and
// row-type coherence, then computes the batch-level logical verdict.
func (e *Engine) Validate(rows []sheet.Row, layout domain.SheetLayout) *domain.ValidationReport {
	report := &domain.ValidationReport{
		Layout:        layout,
		TotalRows:     len(rows),
		RowTypeCounts: make(map[domain.RowType]int),
	}

	for i, row := range rows {
		var rv domain.RowValidation
		switch layout {
		case domain.LayoutLegacyHLF:
			rv = e.validateLegacyRow(row, i)
		default:
			rv = e.validateInvoiceRow(row, i)
		}
		report.RowTypeCounts[rv.RowType]++
		if rv.Valid {
			report.ValidRows++
		} else {
			report.InvalidRows++
		}
		report.RowDetails = append(report.RowDetails, rv)
	}

	report.LogicalValidation = e.logicalValidation(layout, report.RowTypeCounts)
	return report
}

func (e *Engine) validateInvoiceRow(row sheet.Row, idx int) domain.RowValidation {
	rv := domain.RowValidation{RowIndex: idx, RowType: domain.RowTypeUnknown}

	if !sheet.InvoiceValueDecisive(sheet.InvoiceNumber(row)) {
		rv.Errors = append(rv.Errors, "row is not an INVOICE row: Invoice value is empty or a header label")
		return rv
	}
	rv.RowType = domain.RowTypeInvoice

	for _, rule := range e.rules {
		errs, warns := rule.check(row, e.resolver, e.schema)
		rv.Errors = append(rv.Errors, errs...)
		rv.Warnings = append(rv.Warnings, warns...)
	}
	rv.Valid = len(rv.Errors) == 0
	return rv
}

// validateLegacyRow keeps the reduced checks the legacy path has always had:
// the discriminator must resolve to H/L/F, nothing deeper. Kept for backward
// compatibility with sheets no current tool produces.
func (e *Engine) validateLegacyRow(row sheet.Row, idx int) domain.RowValidation {
	rv := domain.RowValidation{RowIndex: idx}
	rv.RowType = sheet.InferLegacyRowType(row)
	if rv.RowType == domain.RowTypeUnknown {
		rv.Errors = append(rv.Errors, "row type discriminator is not one of H/L/F")
		return rv
	}
	rv.Valid = true
	return rv
}

func (e *Engine) logicalValidation(layout domain.SheetLayout, counts map[domain.RowType]int) domain.LogicalValidation {
	lv := domain.LogicalValidation{}
	switch layout {
	case domain.LayoutInvoiceBased:
		lv.Valid = counts[domain.RowTypeInvoice] > 0
		if !lv.Valid {
			lv.Issues = append(lv.Issues, "no INVOICE rows found")
		}
	case domain.LayoutLegacyHLF:
		if counts[domain.RowTypeHeader] == 0 {
			lv.Issues = append(lv.Issues, "no header (H) rows found")
		}
		if counts[domain.RowTypeFooter] == 0 {
			lv.Issues = append(lv.Issues, "no footer (F) rows found")
		}
		lv.Valid = len(lv.Issues) == 0
	default:
		lv.Issues = append(lv.Issues, fmt.Sprintf("layout %s: nothing to validate", layout))
	}
	return lv
}
