package domain

import "errors"

var (
	// ErrLayoutIndeterminate is the only batch-fatal condition: no row-type
	// signal was found anywhere in the sheet, so nothing can be built.
	ErrLayoutIndeterminate = errors.New("sheet layout could not be determined")

	// ErrMissingInvoiceNumber marks a single row/group that cannot yield a
	// document. Row-local: the batch continues.
	ErrMissingInvoiceNumber = errors.New("invoice number could not be resolved")

	ErrNoDataRows          = errors.New("no data rows in sheet")
	ErrTooManyRows         = errors.New("row count exceeds the batch limit")
	ErrBatchNotFound       = errors.New("batch report not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyWorkbook       = errors.New("workbook contains no worksheets")
	ErrArchiveFailed       = errors.New("spreadsheet archive to storage failed")
)
