package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"einvois/internal/domain"
)

// MockBatchReportRepo is a mock implementation of port.BatchReportRepository.
type MockBatchReportRepo struct {
	mock.Mock
}

func (m *MockBatchReportRepo) Create(ctx context.Context, report *domain.BatchReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockBatchReportRepo) Complete(ctx context.Context, report *domain.BatchReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockBatchReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchReport), args.Error(1)
}

func (m *MockBatchReportRepo) List(ctx context.Context, offset, limit int) ([]domain.BatchReport, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BatchReport), args.Int(1), args.Error(2)
}

func (m *MockBatchReportRepo) AddDocuments(ctx context.Context, docs []domain.BatchDocument) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockBatchReportRepo) ListDocuments(ctx context.Context, batchID uuid.UUID) ([]domain.BatchDocument, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchDocument), args.Error(1)
}
