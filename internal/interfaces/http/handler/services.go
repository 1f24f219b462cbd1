package handler

import (
	"context"
	"time"

	appasset "github.com/erp/depreciation/internal/application/asset"
	appledger "github.com/erp/depreciation/internal/application/ledger"
	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService is the category use case surface used by CategoryHandler
type CategoryService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req appasset.CreateCategoryRequest) (*appasset.CategoryResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*appasset.CategoryResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter asset.CategoryFilter) ([]appasset.CategoryResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req appasset.UpdateCategoryRequest) (*appasset.CategoryResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// AssetService is the asset lifecycle surface used by AssetHandler
type AssetService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req appasset.CreateAssetRequest) (*appasset.AssetResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*appasset.AssetResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter asset.AssetFilter) ([]appasset.AssetResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req appasset.UpdateAssetRequest) (*appasset.AssetResponse, error)
	ModifyDepreciation(ctx context.Context, tenantID, id uuid.UUID, req appasset.ModifyDepreciationRequest) (*appasset.BoardResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ComputeBoard(ctx context.Context, tenantID, id uuid.UUID) (*appasset.BoardResponse, error)
	Validate(ctx context.Context, tenantID, id uuid.UUID) (*appasset.AssetResponse, error)
	Close(ctx context.Context, tenantID, id uuid.UUID) (*appasset.AssetResponse, error)
	SetToDraft(ctx context.Context, tenantID, id uuid.UUID) (*appasset.AssetResponse, error)
	Lines(ctx context.Context, tenantID, id uuid.UUID) ([]appasset.LineResponse, error)
	History(ctx context.Context, tenantID, id uuid.UUID) ([]appasset.HistoryResponse, error)
	Residual(ctx context.Context, tenantID, id uuid.UUID) (*appasset.ResidualResponse, error)
	EditableFields(ctx context.Context, tenantID, id uuid.UUID) (*appasset.EditableFieldsResponse, error)
}

// PostingService is the ledger posting surface used by DepreciationLineHandler
// and LedgerHandler
type PostingService interface {
	PostLines(ctx context.Context, tenantID uuid.UUID, req appasset.PostLinesRequest) (*appasset.PostLinesResult, error)
	ComputeEntriesForPeriod(ctx context.Context, tenantID, periodID uuid.UUID, categoryID *uuid.UUID) ([]uuid.UUID, error)
	CancelLine(ctx context.Context, tenantID, lineID uuid.UUID) (*appasset.LineResponse, error)
	ResetLineToDraft(ctx context.Context, tenantID, lineID uuid.UUID) (*appasset.LineResponse, error)
	DeleteLine(ctx context.Context, tenantID, lineID uuid.UUID) error
}

// LedgerService is the ledger master data surface used by LedgerHandler
type LedgerService interface {
	CreateJournal(ctx context.Context, tenantID uuid.UUID, req appledger.CreateJournalRequest) (*appledger.JournalResponse, error)
	ListJournals(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]appledger.JournalResponse, int64, error)
	CreatePeriod(ctx context.Context, tenantID uuid.UUID, req appledger.CreatePeriodRequest) (*appledger.PeriodResponse, error)
	GetPeriod(ctx context.Context, tenantID, id uuid.UUID) (*appledger.PeriodResponse, error)
	ListPeriods(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]appledger.PeriodResponse, int64, error)
	ClosePeriod(ctx context.Context, tenantID, id uuid.UUID) (*appledger.PeriodResponse, error)
	CreateCurrencyRate(ctx context.Context, tenantID uuid.UUID, req appledger.CreateCurrencyRateRequest) (*appledger.CurrencyRateResponse, error)
	ListCurrencyRates(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]appledger.CurrencyRateResponse, int64, error)
	GetMove(ctx context.Context, tenantID, id uuid.UUID) (*appledger.MoveResponse, error)
}

// SchedulerStatus reports the period posting scheduler for the health endpoint
type SchedulerStatus interface {
	IsRunning() bool
}

// DatabasePinger checks database connectivity
type DatabasePinger interface {
	Ping() error
}

var (
	_ CategoryService = (*appasset.CategoryService)(nil)
	_ AssetService    = (*appasset.AssetService)(nil)
	_ PostingService  = (*appasset.PostingService)(nil)
	_ LedgerService   = (*appledger.LedgerService)(nil)
)

// startedAt is reported as the process uptime origin
var startedAt = time.Now()
