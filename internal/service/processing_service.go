package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"einvois/internal/batch"
	"einvois/internal/config"
	"einvois/internal/domain"
	"einvois/internal/port"
)

// UploadInput is the DTO for batch upload requests.
type UploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// ProcessingService defines the batch processing contract: take an uploaded
// workbook, archive it, map its rows into e-Invoice documents and persist the
// outcome.
type ProcessingService interface {
	ProcessUpload(ctx context.Context, input UploadInput) (*domain.BatchResult, error)
	GetReport(ctx context.Context, batchID uuid.UUID) (*domain.BatchReport, error)
	ListReports(ctx context.Context, offset, limit int) ([]domain.BatchReport, int, error)
	ListDocuments(ctx context.Context, batchID uuid.UUID) ([]domain.BatchDocument, error)
}

type processingService struct {
	reader     port.SpreadsheetReader
	processor  *batch.Processor
	reportRepo port.BatchReportRepository
	storage    port.ObjectStorage
	cfg        *config.Config
}

// NewProcessingService creates a new ProcessingService implementation.
// storage may be nil when archiving is disabled.
func NewProcessingService(
	reader port.SpreadsheetReader,
	reportRepo port.BatchReportRepository,
	storage port.ObjectStorage,
	cfg *config.Config,
) ProcessingService {
	return &processingService{
		reader:     reader,
		processor:  batch.NewProcessor(),
		reportRepo: reportRepo,
		storage:    storage,
		cfg:        cfg,
	}
}

func (s *processingService) ProcessUpload(ctx context.Context, input UploadInput) (*domain.BatchResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	contentType, ok := domain.AllowedSpreadsheetExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.Batch.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, fmt.Errorf("file exceeds %d MB limit", s.cfg.Batch.MaxFileSizeMB)
	}

	// The upload is read twice (archive, then parse), so buffer it once.
	data, err := io.ReadAll(input.File)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	report := &domain.BatchReport{
		FileName: input.Header.Filename,
		Status:   domain.BatchStatusProcessing,
	}

	if s.storage != nil && !s.cfg.S3.Disabled {
		key := fmt.Sprintf("batches/%s/%s", uuid.New(), input.Header.Filename)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.S3.Bucket,
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: contentType,
		})
		if err != nil {
			log.Printf("processingService.ProcessUpload: archive failed for %s: %v", input.Header.Filename, err)
			return nil, domain.ErrArchiveFailed
		}
		report.ArchiveBucket = s.cfg.S3.Bucket
		report.ArchiveKey = key
	}

	sheets, err := s.reader.ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing workbook: %w", err)
	}

	totalRows := 0
	for _, rows := range sheets {
		totalRows += len(rows)
	}
	if totalRows == 0 {
		return nil, domain.ErrNoDataRows
	}
	if s.cfg.Batch.MaxRows > 0 && totalRows > s.cfg.Batch.MaxRows {
		return nil, domain.ErrTooManyRows
	}

	result := s.processor.ProcessSheets(sheets, batch.Options{})

	report.ID = result.BatchID
	report.Layout = string(result.Layout)
	report.TotalInvoices = result.TotalInvoices
	report.ProcessedInvoices = result.ProcessedInvoices
	report.FailedInvoices = result.FailedInvoices
	report.DuplicateCount = len(result.Validation.DuplicateInvoices)
	if result.Success {
		report.Status = domain.BatchStatusCompleted
	} else {
		report.Status = domain.BatchStatusFailed
	}
	if summary, err := json.Marshal(result.BatchSummary); err == nil {
		report.SummaryJSON = summary
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		log.Printf("processingService.ProcessUpload: failed to persist report %s: %v", report.ID, err)
		return nil, fmt.Errorf("persisting batch report: %w", err)
	}

	if err := s.reportRepo.AddDocuments(ctx, s.documentRows(result)); err != nil {
		log.Printf("processingService.ProcessUpload: failed to persist documents for %s: %v", report.ID, err)
		return nil, fmt.Errorf("persisting batch documents: %w", err)
	}

	if err := s.reportRepo.Complete(ctx, report); err != nil {
		return nil, fmt.Errorf("completing batch report: %w", err)
	}

	log.Printf("processingService.ProcessUpload: batch %s processed %d/%d invoices from %s",
		report.ID, report.ProcessedInvoices, report.TotalInvoices, input.Header.Filename)
	return result, nil
}

// documentRows flattens the accepted documents into their persisted form,
// flagging every occurrence of a duplicated invoice number after the first.
func (s *processingService) documentRows(result *domain.BatchResult) []domain.BatchDocument {
	duplicated := make(map[string]bool, len(result.Validation.DuplicateInvoices))
	for _, no := range result.Validation.DuplicateInvoices {
		duplicated[no] = true
	}

	seen := make(map[string]bool, len(result.Invoices))
	docs := make([]domain.BatchDocument, 0, len(result.Invoices))
	for _, inv := range result.Invoices {
		no := inv.Header.InvoiceNo
		doc := domain.BatchDocument{
			ID:          uuid.New(),
			BatchID:     result.BatchID,
			InvoiceNo:   no,
			Currency:    inv.Header.DocumentCurrencyCode,
			InvoiceType: inv.Header.InvoiceTypeCode,
			TotalAmount: inv.Summary.TaxInclusiveAmount,
			TaxAmount:   inv.Summary.Tax.TotalAmount,
			LineItems:   len(inv.Items),
			Duplicate:   duplicated[no] && seen[no],
		}
		if inv.Analytics != nil {
			doc.ID = inv.Analytics.DocumentID
		}
		if payload, err := json.Marshal(inv); err == nil {
			doc.DocumentJSON = payload
		}
		seen[no] = true
		docs = append(docs, doc)
	}
	return docs
}

func (s *processingService) GetReport(ctx context.Context, batchID uuid.UUID) (*domain.BatchReport, error) {
	return s.reportRepo.GetByID(ctx, batchID)
}

func (s *processingService) ListReports(ctx context.Context, offset, limit int) ([]domain.BatchReport, int, error) {
	return s.reportRepo.List(ctx, offset, limit)
}

func (s *processingService) ListDocuments(ctx context.Context, batchID uuid.UUID) ([]domain.BatchDocument, error) {
	if _, err := s.reportRepo.GetByID(ctx, batchID); err != nil {
		return nil, err
	}
	return s.reportRepo.ListDocuments(ctx, batchID)
}
