package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"einvois/internal/audit"
	"einvois/internal/batch"
	"einvois/internal/ingest"
)

// mapfile converts a spreadsheet of invoice rows into e-Invoice documents
// without a server or a database: read the workbook, run the batch pipeline,
// print the result as JSON.
func main() {
	var (
		inPath  = flag.String("in", "", "path to the .xlsx file to process")
		outPath = flag.String("out", "", "write the JSON batch result here (default stdout)")
		verbose = flag.Bool("v", false, "stream audit log entries to stderr while processing")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*inPath, *outPath, *verbose); err != nil {
		log.Fatal(err)
	}
}

func run(inPath, outPath string, verbose bool) error {
	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer f.Close()

	sheets, err := ingest.NewXLSXReader().ReadWorkbook(f)
	if err != nil {
		return fmt.Errorf("reading workbook: %w", err)
	}

	opts := batch.Options{}
	if verbose {
		opts.Sink = audit.StdlogSink{}
	}
	result := batch.NewProcessor().ProcessSheets(sheets, opts)

	out := os.Stdout
	if outPath != "" {
		out, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer out.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("batch failed: %d of %d invoices processed", result.ProcessedInvoices, result.TotalInvoices)
	}
	log.Printf("mapfile: processed %d invoices (%d failed, %d duplicates)",
		result.ProcessedInvoices, result.FailedInvoices, len(result.Validation.DuplicateInvoices))
	return nil
}
