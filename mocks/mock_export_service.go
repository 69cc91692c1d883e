package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, userID uuid.UUID, format domain.ExportFormat, filter domain.ExpenseFilter) (*service.ExportFile, error) {
	args := m.Called(ctx, userID, format, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockExportService) ExportLink(ctx context.Context, userID uuid.UUID, format domain.ExportFormat, filter domain.ExpenseFilter) (*service.ExportLink, error) {
	args := m.Called(ctx, userID, format, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportLink), args.Error(1)
}
