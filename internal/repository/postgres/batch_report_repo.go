package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"einvois/internal/domain"
	"einvois/internal/port"
)

type batchReportRepo struct {
	db *sqlx.DB
}

// NewBatchReportRepo creates a new PostgreSQL-backed BatchReportRepository.
func NewBatchReportRepo(db *sqlx.DB) port.BatchReportRepository {
	return &batchReportRepo{db: db}
}

func (r *batchReportRepo) Create(ctx context.Context, report *domain.BatchReport) error {
	report.CreatedAt = time.Now().UTC()

	query := `INSERT INTO batch_reports
		(id, file_name, status, layout, total_invoices, processed_invoices,
		 failed_invoices, duplicate_count, summary, archive_bucket, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.FileName, report.Status, report.Layout,
		report.TotalInvoices, report.ProcessedInvoices, report.FailedInvoices,
		report.DuplicateCount, report.SummaryJSON, report.ArchiveBucket,
		report.ArchiveKey, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("batchReportRepo.Create: %w", err)
	}
	return nil
}

func (r *batchReportRepo) Complete(ctx context.Context, report *domain.BatchReport) error {
	now := time.Now().UTC()
	report.CompletedAt = &now

	result, err := r.db.ExecContext(ctx,
		`UPDATE batch_reports
		 SET status = $1, layout = $2, total_invoices = $3, processed_invoices = $4,
		     failed_invoices = $5, duplicate_count = $6, summary = $7, completed_at = $8
		 WHERE id = $9`,
		report.Status, report.Layout, report.TotalInvoices, report.ProcessedInvoices,
		report.FailedInvoices, report.DuplicateCount, report.SummaryJSON,
		report.CompletedAt, report.ID)
	if err != nil {
		return fmt.Errorf("batchReportRepo.Complete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

func (r *batchReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchReport, error) {
	var report domain.BatchReport
	err := r.db.GetContext(ctx, &report,
		"SELECT * FROM batch_reports WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("batchReportRepo.GetByID: %w", err)
	}
	return &report, nil
}

func (r *batchReportRepo) List(ctx context.Context, offset, limit int) ([]domain.BatchReport, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM batch_reports")
	if err != nil {
		return nil, 0, fmt.Errorf("batchReportRepo.List count: %w", err)
	}

	var reports []domain.BatchReport
	err = r.db.SelectContext(ctx, &reports,
		`SELECT * FROM batch_reports
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchReportRepo.List: %w", err)
	}
	return reports, total, nil
}

func (r *batchReportRepo) AddDocuments(ctx context.Context, docs []domain.BatchDocument) error {
	if len(docs) == 0 {
		return nil
	}

	query := `INSERT INTO batch_documents
		(id, batch_id, invoice_no, currency, invoice_type, total_amount,
		 tax_amount, line_items, duplicate, document, created_at)
		VALUES (:id, :batch_id, :invoice_no, :currency, :invoice_type, :total_amount,
		 :tax_amount, :line_items, :duplicate, :document, :created_at)`

	now := time.Now().UTC()
	for i := range docs {
		docs[i].CreatedAt = now
	}
	_, err := r.db.NamedExecContext(ctx, query, docs)
	if err != nil {
		return fmt.Errorf("batchReportRepo.AddDocuments: %w", err)
	}
	return nil
}

func (r *batchReportRepo) ListDocuments(ctx context.Context, batchID uuid.UUID) ([]domain.BatchDocument, error) {
	var docs []domain.BatchDocument
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM batch_documents
		 WHERE batch_id = $1 ORDER BY created_at, invoice_no`,
		batchID)
	if err != nil {
		return nil, fmt.Errorf("batchReportRepo.ListDocuments: %w", err)
	}
	return docs, nil
}
