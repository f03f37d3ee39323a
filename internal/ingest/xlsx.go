package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"einvois/internal/domain"
	"einvois/internal/sheet"
)

// XLSXReader is the excelize-backed SpreadsheetReader. It reproduces the
// keying behaviour of the export tools the core was built to tolerate:
// cells under a named header keep that name, cells under a blank header get
// the "__EMPTY_N" positional key.
type XLSXReader struct{}

// NewXLSXReader creates an XLSXReader.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// ReadWorkbook parses an .xlsx stream into raw rows, one slice per
// worksheet in workbook order. The first row of each sheet is treated as
// the header row; numeric-looking cells stay numeric so serial dates
// survive to the builder.
func (x *XLSXReader) ReadWorkbook(r io.Reader) ([][]sheet.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheetNames := f.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, domain.ErrEmptyWorkbook
	}

	out := make([][]sheet.Row, 0, len(sheetNames))
	for _, name := range sheetNames {
		rows, err := x.readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		out = append(out, rows)
	}
	return out, nil
}

func (x *XLSXReader) readSheet(f *excelize.File, name string) ([]sheet.Row, error) {
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	keys := columnKeys(raw[0])

	rows := make([]sheet.Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(sheet.Row, len(cells))
		for col, cell := range cells {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			row[keyFor(keys, col)] = cellValue(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columnKeys derives the row-map key of every column from the header row.
func columnKeys(header []string) []string {
	keys := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			keys[i] = "__EMPTY_" + strconv.Itoa(i)
		} else {
			keys[i] = h
		}
	}
	return keys
}

func keyFor(keys []string, col int) string {
	if col < len(keys) {
		return keys[col]
	}
	return "__EMPTY_" + strconv.Itoa(col)
}

// cellValue keeps numbers numeric (Excel serial dates arrive this way) and
// everything else as the raw string.
func cellValue(cell string) interface{} {
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}
