package handler

import (
	"context"

	appasset "github.com/erp/depreciation/internal/application/asset"
	appledger "github.com/erp/depreciation/internal/application/ledger"
	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Create(ctx context.Context, tenantID uuid.UUID, req appasset.CreateCategoryRequest) (*appasset.CategoryResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*appasset.CategoryResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) List(ctx context.Context, tenantID uuid.UUID, filter asset.CategoryFilter) ([]appasset.CategoryResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]appasset.CategoryResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req appasset.UpdateCategoryRequest) (*appasset.CategoryResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) asset(args mock.Arguments) (*appasset.AssetResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.AssetResponse), args.Error(1)
}

func (m *MockAssetService) board(args mock.Arguments) (*appasset.BoardResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.BoardResponse), args.Error(1)
}

func (m *MockAssetService) Create(ctx context.Context, tenantID uuid.UUID, req appasset.CreateAssetRequest) (*appasset.AssetResponse, error) {
	return m.asset(m.Called(ctx, tenantID, req))
}

func (m *MockAssetService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*appasset.AssetResponse, error) {
	return m.asset(m.Called(ctx, tenantID, id))
}

func (m *MockAssetService) List(ctx context.Context, tenantID uuid.UUID, filter asset.AssetFilter) ([]appasset.AssetResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]appasset.AssetResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetService) Update(ctx context.Context, tenantID, id uuid.UUID, req appasset.UpdateAssetRequest) (*appasset.AssetResponse, error) {
	return m.asset(m.Called(ctx, tenantID, id, req))
}

func (m *MockAssetService) ModifyDepreciation(ctx context.Context, tenantID, id uuid.UUID, req appasset.ModifyDepreciationRequest) (*appasset.BoardResponse, error) {
	return m.board(m.Called(ctx, tenantID, id, req))
}

func (m *MockAssetService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockAssetService) ComputeBoard(ctx context.Context, tenantID, id uuid.UUID) (*appasset.BoardResponse, error) {
	return m.board(m.Called(ctx, tenantID, id))
}

func (m *MockAssetService) Validate(ctx context.Context, tenantID, id uuid.UUID) (*appasset.AssetResponse, error) {
	return m.asset(m.Called(ctx, tenantID, id))
}

func (m *MockAssetService) Close(ctx context.Context, tenantID, id uuid.UUID) (*appasset.AssetResponse, error) {
	return m.asset(m.Called(ctx, tenantID, id))
}

func (m *MockAssetService) SetToDraft(ctx context.Context, tenantID, id uuid.UUID) (*appasset.AssetResponse, error) {
	return m.asset(m.Called(ctx, tenantID, id))
}

func (m *MockAssetService) Lines(ctx context.Context, tenantID, id uuid.UUID) ([]appasset.LineResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appasset.LineResponse), args.Error(1)
}

func (m *MockAssetService) History(ctx context.Context, tenantID, id uuid.UUID) ([]appasset.HistoryResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appasset.HistoryResponse), args.Error(1)
}

func (m *MockAssetService) Residual(ctx context.Context, tenantID, id uuid.UUID) (*appasset.ResidualResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.ResidualResponse), args.Error(1)
}

func (m *MockAssetService) EditableFields(ctx context.Context, tenantID, id uuid.UUID) (*appasset.EditableFieldsResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.EditableFieldsResponse), args.Error(1)
}

type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) PostLines(ctx context.Context, tenantID uuid.UUID, req appasset.PostLinesRequest) (*appasset.PostLinesResult, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.PostLinesResult), args.Error(1)
}

func (m *MockPostingService) ComputeEntriesForPeriod(ctx context.Context, tenantID, periodID uuid.UUID, categoryID *uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tenantID, periodID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockPostingService) CancelLine(ctx context.Context, tenantID, lineID uuid.UUID) (*appasset.LineResponse, error) {
	args := m.Called(ctx, tenantID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.LineResponse), args.Error(1)
}

func (m *MockPostingService) ResetLineToDraft(ctx context.Context, tenantID, lineID uuid.UUID) (*appasset.LineResponse, error) {
	args := m.Called(ctx, tenantID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appasset.LineResponse), args.Error(1)
}

func (m *MockPostingService) DeleteLine(ctx context.Context, tenantID, lineID uuid.UUID) error {
	return m.Called(ctx, tenantID, lineID).Error(0)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateJournal(ctx context.Context, tenantID uuid.UUID, req appledger.CreateJournalRequest) (*appledger.JournalResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.JournalResponse), args.Error(1)
}

func (m *MockLedgerService) ListJournals(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]appledger.JournalResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]appledger.JournalResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) CreatePeriod(ctx context.Context, tenantID uuid.UUID, req appledger.CreatePeriodRequest) (*appledger.PeriodResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.PeriodResponse), args.Error(1)
}

func (m *MockLedgerService) GetPeriod(ctx context.Context, tenantID, id uuid.UUID) (*appledger.PeriodResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.PeriodResponse), args.Error(1)
}

func (m *MockLedgerService) ListPeriods(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]appledger.PeriodResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]appledger.PeriodResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) ClosePeriod(ctx context.Context, tenantID, id uuid.UUID) (*appledger.PeriodResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.PeriodResponse), args.Error(1)
}

func (m *MockLedgerService) CreateCurrencyRate(ctx context.Context, tenantID uuid.UUID, req appledger.CreateCurrencyRateRequest) (*appledger.CurrencyRateResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.CurrencyRateResponse), args.Error(1)
}

func (m *MockLedgerService) ListCurrencyRates(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]appledger.CurrencyRateResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]appledger.CurrencyRateResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) GetMove(ctx context.Context, tenantID, id uuid.UUID) (*appledger.MoveResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.MoveResponse), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping() error { return p.err }

type stubScheduler bool

func (s stubScheduler) IsRunning() bool { return bool(s) }
