package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"einvois/internal/config"
	"einvois/internal/domain"
	"einvois/internal/ingest"
	"einvois/internal/port"
	"einvois/internal/service"
	"einvois/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		S3: config.S3Config{
			Bucket: "einvois-test",
		},
		Batch: config.BatchConfig{
			MaxFileSizeMB: 20,
		},
	}
}

// workbookBytes builds a one-invoice workbook in the current positional
// layout: a header row followed by one data row.
func workbookBytes(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Invoice"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "INV-001"))

	// Column identities follow the blank-header positional convention.
	cells := map[int]interface{}{
		5:  "MYR",
		14: "Acme Sdn Bhd",
		15: "C12345678901",
		33: "Buyer Bhd",
		34: "C98765432109",
		57: 1,
		65: 100,
		81: 106,
	}
	for col, v := range cells {
		name, err := excelize.CoordinatesToCellName(col+1, 2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", name, v))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// formUpload wraps raw bytes in a multipart upload the way gin hands it to
// the service.
func formUpload(t *testing.T, filename string, content []byte) service.UploadInput {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/upload", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	return service.UploadInput{File: file, Header: header}
}

func TestProcessUpload_Success(t *testing.T) {
	repo := new(mocks.MockBatchReportRepo)
	storage := new(mocks.MockObjectStorage)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.BatchReport")).Return(nil)
	repo.On("AddDocuments", mock.Anything, mock.AnythingOfType("[]domain.BatchDocument")).Return(nil)
	repo.On("Complete", mock.Anything, mock.AnythingOfType("*domain.BatchReport")).Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "s3://einvois-test/key"}, nil)

	svc := service.NewProcessingService(ingest.NewXLSXReader(), repo, storage, testConfig())
	result, err := svc.ProcessUpload(context.Background(), formUpload(t, "batch.xlsx", workbookBytes(t)))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ProcessedInvoices)
	assert.Equal(t, "INV-001", result.Invoices[0].Header.InvoiceNo)

	repo.AssertExpectations(t)
	storage.AssertExpectations(t)

	created := repo.Calls[0].Arguments.Get(1).(*domain.BatchReport)
	assert.Equal(t, "batch.xlsx", created.FileName)
	assert.Equal(t, domain.BatchStatusCompleted, created.Status)
	assert.Equal(t, "einvois-test", created.ArchiveBucket)
	assert.Equal(t, 1, created.ProcessedInvoices)
	assert.NotEmpty(t, created.SummaryJSON)
}

func TestProcessUpload_UnsupportedExtension(t *testing.T) {
	repo := new(mocks.MockBatchReportRepo)
	svc := service.NewProcessingService(ingest.NewXLSXReader(), repo, nil, testConfig())

	_, err := svc.ProcessUpload(context.Background(), formUpload(t, "batch.csv", []byte("a,b")))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessUpload_NoDataRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Invoice"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	repo := new(mocks.MockBatchReportRepo)
	svc := service.NewProcessingService(ingest.NewXLSXReader(), repo, nil, testConfig())
	_, err := svc.ProcessUpload(context.Background(), formUpload(t, "batch.xlsx", buf.Bytes()))

	assert.ErrorIs(t, err, domain.ErrNoDataRows)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessUpload_RowLimitExceeded(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Invoice"))
	for i := 0; i < 3; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, fmt.Sprintf("INV-%03d", i+1)))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	cfg := testConfig()
	cfg.Batch.MaxRows = 2

	repo := new(mocks.MockBatchReportRepo)
	svc := service.NewProcessingService(ingest.NewXLSXReader(), repo, nil, cfg)
	_, err := svc.ProcessUpload(context.Background(), formUpload(t, "batch.xlsx", buf.Bytes()))

	assert.ErrorIs(t, err, domain.ErrTooManyRows)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessUpload_ArchiveFailure(t *testing.T) {
	repo := new(mocks.MockBatchReportRepo)
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, errors.New("bucket unreachable"))

	svc := service.NewProcessingService(ingest.NewXLSXReader(), repo, storage, testConfig())
	_, err := svc.ProcessUpload(context.Background(), formUpload(t, "batch.xlsx", workbookBytes(t)))

	assert.ErrorIs(t, err, domain.ErrArchiveFailed)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessUpload_NoStorageConfigured(t *testing.T) {
	repo := new(mocks.MockBatchReportRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.BatchReport")).Return(nil)
	repo.On("AddDocuments", mock.Anything, mock.AnythingOfType("[]domain.BatchDocument")).Return(nil)
	repo.On("Complete", mock.Anything, mock.AnythingOfType("*domain.BatchReport")).Return(nil)

	svc := service.NewProcessingService(ingest.NewXLSXReader(), repo, nil, testConfig())
	result, err := svc.ProcessUpload(context.Background(), formUpload(t, "batch.xlsx", workbookBytes(t)))

	require.NoError(t, err)
	assert.True(t, result.Success)

	created := repo.Calls[0].Arguments.Get(1).(*domain.BatchReport)
	assert.Empty(t, created.ArchiveBucket)
}

func TestGetReport_PassesThrough(t *testing.T) {
	repo := new(mocks.MockBatchReportRepo)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrBatchNotFound)

	svc := service.NewProcessingService(ingest.NewXLSXReader(), repo, nil, testConfig())
	_, err := svc.GetReport(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestListDocuments_ChecksBatchExists(t *testing.T) {
	repo := new(mocks.MockBatchReportRepo)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrBatchNotFound)

	svc := service.NewProcessingService(ingest.NewXLSXReader(), repo, nil, testConfig())
	_, err := svc.ListDocuments(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
	repo.AssertNotCalled(t, "ListDocuments", mock.Anything, mock.Anything)
}
