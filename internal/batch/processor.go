package batch

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"einvois/internal/builder"
	"einvois/internal/domain"
	"einvois/internal/port"
	"einvois/internal/sheet"
	"einvois/internal/validator"
)

// Options tunes one batch run.
type Options struct {
	// Schema is the positional column map to build against. Zero value means
	// the current LayoutSchemaV1.
	Schema *builder.Schema
	// Sink receives audit log entries in addition to the result's Logs slice.
	// Optional; write failures never abort processing.
	Sink port.AuditSink
	// Clock overrides processing time. Tests only.
	Clock func() time.Time
}

// Processor orchestrates the whole pipeline over the rows of one sheet:
// diagnostic validation, one layout decision, per-row document construction,
// duplicate detection and batch statistics. Each ProcessBatch call is
// independent and side-effect-free, so concurrent batches are safe as long
// as they do not share a mutable sink.
type Processor struct {
	defaults builder.Defaults
}

// NewProcessor creates a Processor with the standard defaults table.
func NewProcessor() *Processor {
	return &Processor{defaults: builder.StandardDefaults}
}

// ProcessSheets flattens a multi-worksheet workbook into one row sequence
// and processes it as a single batch. Worksheet order is preserved.
func (p *Processor) ProcessSheets(sheets [][]sheet.Row, opts Options) *domain.BatchResult {
	var rows []sheet.Row
	for _, s := range sheets {
		rows = append(rows, s...)
	}
	return p.ProcessBatch(rows, opts)
}

// ProcessBatch runs the full pipeline. Only an indeterminate layout fails
// the batch; every other condition is recorded and processing continues to
// extract as many usable documents as the sheet allows.
func (p *Processor) ProcessBatch(rows []sheet.Row, opts Options) *domain.BatchResult {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	schema := builder.LayoutSchemaV1
	if opts.Schema != nil {
		schema = *opts.Schema
	}

	run := &runState{
		result: &domain.BatchResult{
			BatchID:   uuid.New(),
			StartedAt: clock().UTC(),
		},
		sink:  opts.Sink,
		clock: clock,
	}
	run.info("batch processing started", map[string]interface{}{"rows": len(rows)})

	dataRows := dropLeadingHeaderRows(rows)
	if len(dataRows) < len(rows) {
		run.info(fmt.Sprintf("skipped %d leading header rows", len(rows)-len(dataRows)), nil)
	}

	layout := sheet.DetectLayout(dataRows)
	run.result.Layout = layout
	if layout == domain.LayoutUnknown {
		run.err("no row-type signal found in any row; batch failed", nil)
		run.result.Success = false
		run.result.CompletedAt = clock().UTC()
		return run.result
	}
	run.info("layout detected", map[string]interface{}{"layout": string(layout)})

	run.result.Report = validator.NewEngine(schema).Validate(dataRows, layout)
	run.info("row validation finished", map[string]interface{}{
		"validRows":   run.result.Report.ValidRows,
		"invalidRows": run.result.Report.InvalidRows,
	})

	switch layout {
	case domain.LayoutInvoiceBased:
		p.processInvoiceBased(run, dataRows, schema, clock)
	case domain.LayoutLegacyHLF:
		p.processLegacy(run, dataRows, clock)
	}

	p.finalize(run, clock)
	return run.result
}

func (p *Processor) processInvoiceBased(run *runState, rows []sheet.Row, schema builder.Schema, clock func() time.Time) {
	b := builder.New(schema, p.defaults).WithClock(clock)

	for i, row := range rows {
		if !sheet.InvoiceValueDecisive(sheet.InvoiceNumber(row)) {
			continue
		}
		run.result.TotalInvoices++

		doc, err := b.Build(row, builder.Context{Rows: rows, RowIndex: i})
		if err != nil {
			run.recordFailure(domain.BuildFailure{
				RowIndex: i,
				Reason:   err.Error(),
			})
			continue
		}
		run.accept(*doc, i)
	}
}

func (p *Processor) processLegacy(run *runState, rows []sheet.Row, clock func() time.Time) {
	docs, failures, warnings := builder.NewLegacy(p.defaults).WithClock(clock).BuildAll(rows)

	run.result.TotalInvoices = len(docs) + len(failures)
	for _, w := range warnings {
		run.warn(w, nil)
		run.result.Validation.Warnings = append(run.result.Validation.Warnings, w)
	}
	for _, f := range failures {
		run.recordFailure(f)
	}
	for i, doc := range docs {
		run.accept(doc, i)
	}
}

func (p *Processor) finalize(run *runState, clock func() time.Time) {
	res := run.result

	res.BatchSummary.Currencies = sortedKeys(run.currencies)
	res.BatchSummary.InvoiceTypes = sortedKeys(run.invoiceTypes)
	if len(res.BatchSummary.Currencies) > 1 {
		w := fmt.Sprintf("batch mixes %d currencies: %v", len(res.BatchSummary.Currencies), res.BatchSummary.Currencies)
		res.BatchSummary.Warnings = append(res.BatchSummary.Warnings, w)
		run.warn(w, nil)
	}
	if len(res.BatchSummary.InvoiceTypes) > 1 {
		w := fmt.Sprintf("batch mixes %d invoice types: %v", len(res.BatchSummary.InvoiceTypes), res.BatchSummary.InvoiceTypes)
		res.BatchSummary.Warnings = append(res.BatchSummary.Warnings, w)
		run.warn(w, nil)
	}

	res.Success = res.ProcessedInvoices > 0
	res.CompletedAt = clock().UTC()
	run.info("batch processing finished", map[string]interface{}{
		"processed":  res.ProcessedInvoices,
		"failed":     res.FailedInvoices,
		"duplicates": len(res.Validation.DuplicateInvoices),
	})
}

// runState accumulates one batch run. Duplicate checks and summary folding
// are a sequential reduction over accepted documents; if document
// construction ever fans out, this stays the single aggregation point.
type runState struct {
	result       *domain.BatchResult
	sink         port.AuditSink
	clock        func() time.Time
	currencies   map[string]bool
	invoiceTypes map[string]bool
	seenInvoices map[string]bool
	dupRecorded  map[string]bool
}

// accept augments a built document with analytics, runs the duplicate check
// against everything accepted before it and folds it into the summary.
func (r *runState) accept(doc domain.InvoiceDocument, index int) {
	if r.seenInvoices == nil {
		r.seenInvoices = make(map[string]bool)
		r.dupRecorded = make(map[string]bool)
		r.currencies = make(map[string]bool)
		r.invoiceTypes = make(map[string]bool)
	}

	invoiceNo := doc.Header.InvoiceNo
	if r.seenInvoices[invoiceNo] {
		// Recorded once per number, document still included.
		if !r.dupRecorded[invoiceNo] {
			r.result.Validation.DuplicateInvoices = append(r.result.Validation.DuplicateInvoices, invoiceNo)
			r.dupRecorded[invoiceNo] = true
		}
		r.warn(fmt.Sprintf("duplicate invoice number %q in batch", invoiceNo), nil)
	}
	r.seenInvoices[invoiceNo] = true

	doc.Analytics = &domain.DocumentAnalytics{
		ProcessingIndex: r.result.ProcessedInvoices,
		ProcessedAt:     r.clock().UTC(),
		DocumentID:      uuid.New(),
		LineItemCount:   len(doc.Items),
		TotalAmount:     doc.Summary.TaxInclusiveAmount,
		TaxAmount:       doc.Summary.Tax.TotalAmount,
		Currency:        doc.Header.DocumentCurrencyCode,
		InvoiceType:     doc.Header.InvoiceTypeCode,
	}

	r.currencies[doc.Header.DocumentCurrencyCode] = true
	r.invoiceTypes[doc.Header.InvoiceTypeCode] = true
	r.result.BatchSummary.TotalAmount += doc.Summary.TaxInclusiveAmount
	r.result.BatchSummary.TotalTaxAmount += doc.Summary.Tax.TotalAmount
	r.result.BatchSummary.TotalLineItems += len(doc.Items)

	r.result.Invoices = append(r.result.Invoices, doc)
	r.result.ProcessedInvoices++
	r.info(fmt.Sprintf("invoice %q processed", invoiceNo), map[string]interface{}{"rowIndex": index})
}

func (r *runState) recordFailure(f domain.BuildFailure) {
	r.result.FailedInvoices++
	r.result.Validation.InvalidInvoices = append(r.result.Validation.InvalidInvoices, f)
	r.err(fmt.Sprintf("row %d: %s", f.RowIndex, f.Reason), nil)
}

func (r *runState) info(msg string, data map[string]interface{}) {
	r.log(domain.LogLevelInfo, msg, data)
}

func (r *runState) warn(msg string, data map[string]interface{}) {
	r.log(domain.LogLevelWarn, msg, data)
}

func (r *runState) err(msg string, data map[string]interface{}) {
	r.log(domain.LogLevelError, msg, data)
}

func (r *runState) log(level domain.LogLevel, msg string, data map[string]interface{}) {
	entry := domain.LogEntry{
		Timestamp: r.clock().UTC(),
		Level:     level,
		Message:   msg,
		Data:      data,
	}
	r.result.Logs = append(r.result.Logs, entry)
	if r.sink != nil {
		r.sink.Write(entry)
	}
}

// dropLeadingHeaderRows skips the header/description/field-mapping rows a
// fresh export carries before its data. A row counts as a header row when it
// is empty or its Invoice cell holds a known label literal.
func dropLeadingHeaderRows(rows []sheet.Row) []sheet.Row {
	i := 0
	for i < len(rows) && i < 3 {
		row := rows[i]
		if len(row) == 0 {
			i++
			continue
		}
		inv := sheet.InvoiceNumber(row)
		if inv != "" && !sheet.InvoiceValueDecisive(inv) {
			i++
			continue
		}
		break
	}
	return rows[i:]
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
