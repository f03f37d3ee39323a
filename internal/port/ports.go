package port

import (
	"context"
	"io"

	"github.com/google/uuid"

	"einvois/internal/domain"
	"einvois/internal/sheet"
)

// SpreadsheetReader turns an uploaded workbook into raw rows, one slice per
// worksheet, in worksheet order. The first rows of each sheet may be
// header/description rows; the core tolerates them.
type SpreadsheetReader interface {
	ReadWorkbook(r io.Reader) ([][]sheet.Row, error)
}

// AuditSink receives the timestamped log entries a batch run emits. A sink
// must be safe for concurrent writers; failures to record must never
// propagate back into processing.
type AuditSink interface {
	Write(entry domain.LogEntry)
}

// BatchReportRepository persists batch outcomes for later retrieval.
type BatchReportRepository interface {
	Create(ctx context.Context, report *domain.BatchReport) error
	Complete(ctx context.Context, report *domain.BatchReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchReport, error)
	List(ctx context.Context, offset, limit int) ([]domain.BatchReport, int, error)
	AddDocuments(ctx context.Context, docs []domain.BatchDocument) error
	ListDocuments(ctx context.Context, batchID uuid.UUID) ([]domain.BatchDocument, error)
}

// ObjectStorage archives original uploads next to their batch reports.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
}

// UploadInput describes one object to store.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
}

// UploadOutput is the storage location of an uploaded object.
type UploadOutput struct {
	Location string
	ETag     string
}
