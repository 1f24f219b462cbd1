package asset

import (
	"context"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Category, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.CategoryFilter) ([]asset.Category, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]asset.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*asset.Category, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*asset.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *asset.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*asset.Asset, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.AssetFilter) ([]asset.Asset, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]asset.Asset), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetRepository) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]asset.Asset, error) {
	args := m.Called(ctx, tenantID, parentID)
	return args.Get(0).([]asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindParentID(ctx context.Context, tenantID, id uuid.UUID) (*uuid.UUID, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

func (m *MockAssetRepository) FindOpenIDs(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockAssetRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssetRepository) SaveWithLock(ctx context.Context, a *asset.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssetRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockLineRepository struct {
	mock.Mock
}

func (m *MockLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.DepreciationLine, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.DepreciationLine), args.Error(1)
}

func (m *MockLineRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]asset.DepreciationLine, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]asset.DepreciationLine), args.Error(1)
}

func (m *MockLineRepository) FindByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]asset.DepreciationLine, error) {
	args := m.Called(ctx, tenantID, assetID)
	return args.Get(0).([]asset.DepreciationLine), args.Error(1)
}

func (m *MockLineRepository) FindPosted(ctx context.Context, tenantID, assetID uuid.UUID) ([]asset.DepreciationLine, error) {
	args := m.Called(ctx, tenantID, assetID)
	return args.Get(0).([]asset.DepreciationLine), args.Error(1)
}

func (m *MockLineRepository) FindDraftInRange(ctx context.Context, tenantID uuid.UUID, assetIDs []uuid.UUID, start, stop valueobject.Date) ([]asset.DepreciationLine, error) {
	args := m.Called(ctx, tenantID, assetIDs, start, stop)
	return args.Get(0).([]asset.DepreciationLine), args.Error(1)
}

func (m *MockLineRepository) DeleteDraftByAsset(ctx context.Context, tenantID, assetID uuid.UUID) error {
	return m.Called(ctx, tenantID, assetID).Error(0)
}

func (m *MockLineRepository) SaveBatch(ctx context.Context, lines []asset.DepreciationLine) error {
	return m.Called(ctx, lines).Error(0)
}

func (m *MockLineRepository) Save(ctx context.Context, line *asset.DepreciationLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockLineRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) FindByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]asset.History, error) {
	args := m.Called(ctx, tenantID, assetID)
	return args.Get(0).([]asset.History), args.Error(1)
}

func (m *MockHistoryRepository) Create(ctx context.Context, history *asset.History) error {
	return m.Called(ctx, history).Error(0)
}

type MockCodeSequence struct {
	mock.Mock
}

func (m *MockCodeSequence) Next(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Get(0).(int64), args.Error(1)
}

type MockLedgerGateway struct {
	mock.Mock
}

func (m *MockLedgerGateway) FindLastPostedDepreciationDate(ctx context.Context, tenantID, assetID, accountID uuid.UUID) (valueobject.Date, error) {
	args := m.Called(ctx, tenantID, assetID, accountID)
	return args.Get(0).(valueobject.Date), args.Error(1)
}

func (m *MockLedgerGateway) FindPeriodCovering(ctx context.Context, tenantID uuid.UUID, date valueobject.Date) (uuid.UUID, error) {
	args := m.Called(ctx, tenantID, date)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockLedgerGateway) JournalType(ctx context.Context, tenantID, journalID uuid.UUID) (ledger.JournalType, error) {
	args := m.Called(ctx, tenantID, journalID)
	return args.Get(0).(ledger.JournalType), args.Error(1)
}

func (m *MockLedgerGateway) CreateMove(ctx context.Context, move *ledger.Move) (uuid.UUID, error) {
	args := m.Called(ctx, move)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockLedgerGateway) ReverseAndDeleteMove(ctx context.Context, tenantID, moveID uuid.UUID) error {
	return m.Called(ctx, tenantID, moveID).Error(0)
}

func (m *MockLedgerGateway) SumAssetDepreciation(ctx context.Context, tenantID, assetID, accountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, assetID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerGateway) CountAssetEntries(ctx context.Context, tenantID, assetID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, assetID)
	return args.Get(0).(int64), args.Error(1)
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

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fixedCurrency converts with per-unit rates against the company currency
type fixedCurrency struct {
	company valueobject.Currency
	rates   map[valueobject.Currency]decimal.Decimal
}

func newFixedCurrency(company valueobject.Currency) *fixedCurrency {
	return &fixedCurrency{company: company, rates: map[valueobject.Currency]decimal.Decimal{}}
}

func (c *fixedCurrency) CompanyCurrency() valueobject.Currency { return c.company }

func (c *fixedCurrency) rate(cur valueobject.Currency) decimal.Decimal {
	if cur == c.company {
		return decimal.NewFromInt(1)
	}
	return c.rates[cur]
}

func (c *fixedCurrency) Convert(_ context.Context, _ uuid.UUID, from, to valueobject.Currency, amount decimal.Decimal, _ valueobject.Date) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	return to.Round(amount.Div(c.rate(from)).Mul(c.rate(to))), nil
}

func (c *fixedCurrency) IsZero(cur valueobject.Currency, amount decimal.Decimal) bool {
	return cur.IsZero(amount)
}
