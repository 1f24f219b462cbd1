package ledger

import (
	"context"

	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Journal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Journal, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.Journal, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]ledger.Journal), args.Get(1).(int64), args.Error(2)
}

func (m *MockJournalRepository) Save(ctx context.Context, journal *ledger.Journal) error {
	return m.Called(ctx, journal).Error(0)
}

type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Period, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindCovering(ctx context.Context, tenantID uuid.UUID, date valueobject.Date) (*ledger.Period, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.Period, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]ledger.Period), args.Get(1).(int64), args.Error(2)
}

func (m *MockPeriodRepository) FindOpenEndedBefore(ctx context.Context, tenantID uuid.UUID, date valueobject.Date) ([]ledger.Period, error) {
	args := m.Called(ctx, tenantID, date)
	return args.Get(0).([]ledger.Period), args.Error(1)
}

func (m *MockPeriodRepository) Save(ctx context.Context, period *ledger.Period) error {
	return m.Called(ctx, period).Error(0)
}

type MockMoveRepository struct {
	mock.Mock
}

func (m *MockMoveRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Move, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Move), args.Error(1)
}

func (m *MockMoveRepository) Create(ctx context.Context, move *ledger.Move) error {
	return m.Called(ctx, move).Error(0)
}

func (m *MockMoveRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockMoveRepository) FindLinesByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]ledger.MoveLine, error) {
	args := m.Called(ctx, tenantID, assetID)
	return args.Get(0).([]ledger.MoveLine), args.Error(1)
}

func (m *MockMoveRepository) CountLinesByAsset(ctx context.Context, tenantID, assetID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, assetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMoveRepository) MaxLineDateByAssetAccount(ctx context.Context, tenantID, assetID, accountID uuid.UUID) (valueobject.Date, error) {
	args := m.Called(ctx, tenantID, assetID, accountID)
	return args.Get(0).(valueobject.Date), args.Error(1)
}

type MockCurrencyRateRepository struct {
	mock.Mock
}

func (m *MockCurrencyRateRepository) FindEffective(ctx context.Context, tenantID uuid.UUID, currency valueobject.Currency, date valueobject.Date) (*ledger.CurrencyRate, error) {
	args := m.Called(ctx, tenantID, currency, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.CurrencyRate), args.Error(1)
}

func (m *MockCurrencyRateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.CurrencyRate, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]ledger.CurrencyRate), args.Get(1).(int64), args.Error(2)
}

func (m *MockCurrencyRateRepository) Save(ctx context.Context, rate *ledger.CurrencyRate) error {
	return m.Called(ctx, rate).Error(0)
}
