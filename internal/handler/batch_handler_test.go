package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"einvois/internal/domain"
	"einvois/internal/handler"
	"einvois/mocks"
)

func newTestRouter(svc *mocks.MockProcessingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewBatchHandler(svc)
	r.POST("/api/v1/batches/upload", h.Upload)
	r.GET("/api/v1/batches", h.List)
	r.GET("/api/v1/batches/:id", h.GetByID)
	r.GET("/api/v1/batches/:id/documents", h.ListDocuments)
	return r
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestBatchHandler_Upload(t *testing.T) {
	svc := new(mocks.MockProcessingService)
	svc.On("ProcessUpload", mock.Anything, mock.AnythingOfType("service.UploadInput")).
		Return(&domain.BatchResult{BatchID: uuid.New(), Success: true, ProcessedInvoices: 2}, nil)

	body, contentType := multipartBody(t, "batch.xlsx", []byte("stub"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestBatchHandler_UploadMissingFile(t *testing.T) {
	svc := new(mocks.MockProcessingService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/upload", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ProcessUpload", mock.Anything, mock.Anything)
}

func TestBatchHandler_UploadUnsupportedType(t *testing.T) {
	svc := new(mocks.MockProcessingService)
	svc.On("ProcessUpload", mock.Anything, mock.Anything).
		Return(nil, domain.ErrUnsupportedFileType)

	body, contentType := multipartBody(t, "batch.csv", []byte("a,b"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", resp.Error.Code)
}

func TestBatchHandler_UploadNoDataRows(t *testing.T) {
	svc := new(mocks.MockProcessingService)
	svc.On("ProcessUpload", mock.Anything, mock.Anything).
		Return(nil, domain.ErrNoDataRows)

	body, contentType := multipartBody(t, "batch.xlsx", []byte("stub"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NO_DATA_ROWS", resp.Error.Code)
}

func TestBatchHandler_UploadTooManyRows(t *testing.T) {
	svc := new(mocks.MockProcessingService)
	svc.On("ProcessUpload", mock.Anything, mock.Anything).
		Return(nil, domain.ErrTooManyRows)

	body, contentType := multipartBody(t, "batch.xlsx", []byte("stub"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TOO_MANY_ROWS", resp.Error.Code)
}

func TestBatchHandler_GetByID_NotFound(t *testing.T) {
	svc := new(mocks.MockProcessingService)
	id := uuid.New()
	svc.On("GetReport", mock.Anything, id).Return(nil, domain.ErrBatchNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+id.String(), nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchHandler_GetByID_InvalidID(t *testing.T) {
	svc := new(mocks.MockProcessingService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GetReport", mock.Anything, mock.Anything)
}

func TestBatchHandler_List(t *testing.T) {
	svc := new(mocks.MockProcessingService)
	svc.On("ListReports", mock.Anything, 0, 20).
		Return([]domain.BatchReport{{ID: uuid.New(), FileName: "batch.xlsx"}}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
}

func TestBatchHandler_List_ClampsLimit(t *testing.T) {
	svc := new(mocks.MockProcessingService)
	svc.On("ListReports", mock.Anything, 0, 20).
		Return([]domain.BatchReport{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches?limit=500&offset=-3", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestBatchHandler_ListDocuments(t *testing.T) {
	svc := new(mocks.MockProcessingService)
	id := uuid.New()
	svc.On("ListDocuments", mock.Anything, id).
		Return([]domain.BatchDocument{{BatchID: id, InvoiceNo: "INV-001"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+id.String()+"/documents", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
