package ledger

import (
	"context"
	"time"

	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService manages the ledger master data the depreciation engine posts
// against: journals, accounting periods and currency rates. Moves are only
// read here; they are written by the posting service.
type LedgerService struct {
	journalRepo ledger.JournalRepository
	periodRepo  ledger.PeriodRepository
	moveRepo    ledger.MoveRepository
	rateRepo    ledger.CurrencyRateRepository
	logger      *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	journalRepo ledger.JournalRepository,
	periodRepo ledger.PeriodRepository,
	moveRepo ledger.MoveRepository,
	rateRepo ledger.CurrencyRateRepository,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		moveRepo:    moveRepo,
		rateRepo:    rateRepo,
		logger:      logger,
	}
}

// CreateJournal creates a journal
func (s *LedgerService) CreateJournal(ctx context.Context, tenantID uuid.UUID, req CreateJournalRequest) (*JournalResponse, error) {
	journal, err := ledger.NewJournal(tenantID, req.Code, req.Name, ledger.JournalType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := s.journalRepo.Save(ctx, journal); err != nil {
		return nil, err
	}
	resp := ToJournalResponse(journal)
	return &resp, nil
}

// ListJournals lists the journals of a tenant
func (s *LedgerService) ListJournals(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]JournalResponse, int64, error) {
	journals, total, err := s.journalRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]JournalResponse, len(journals))
	for i := range journals {
		out[i] = ToJournalResponse(&journals[i])
	}
	return out, total, nil
}

// CreatePeriod creates an open accounting period
func (s *LedgerService) CreatePeriod(ctx context.Context, tenantID uuid.UUID, req CreatePeriodRequest) (*PeriodResponse, error) {
	period, err := ledger.NewPeriod(tenantID, req.Code, req.Name, req.DateStart, req.DateStop)
	if err != nil {
		return nil, err
	}
	period.Special = req.Special
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	resp := ToPeriodResponse(period)
	return &resp, nil
}

// GetPeriod retrieves a period
func (s *LedgerService) GetPeriod(ctx context.Context, tenantID, id uuid.UUID) (*PeriodResponse, error) {
	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPeriodResponse(period)
	return &resp, nil
}

// ListPeriods lists the periods of a tenant
func (s *LedgerService) ListPeriods(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PeriodResponse, int64, error) {
	periods, total, err := s.periodRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PeriodResponse, len(periods))
	for i := range periods {
		out[i] = ToPeriodResponse(&periods[i])
	}
	return out, total, nil
}

// ClosePeriod marks a period done
func (s *LedgerService) ClosePeriod(ctx context.Context, tenantID, id uuid.UUID) (*PeriodResponse, error) {
	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := period.Close(); err != nil {
		return nil, err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	s.logger.Info("Accounting period closed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period_id", id.String()),
	)
	resp := ToPeriodResponse(period)
	return &resp, nil
}

// FindPeriodIDsToClose lists the open periods that stopped before the given
// day. It feeds the period close scheduler.
func (s *LedgerService) FindPeriodIDsToClose(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]uuid.UUID, error) {
	periods, err := s.periodRepo.FindOpenEndedBefore(ctx, tenantID, valueobject.DateOf(before))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(periods))
	for i := range periods {
		ids[i] = periods[i].ID
	}
	return ids, nil
}

// CreateCurrencyRate records a rate
func (s *LedgerService) CreateCurrencyRate(ctx context.Context, tenantID uuid.UUID, req CreateCurrencyRateRequest) (*CurrencyRateResponse, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	rate, err := ledger.NewCurrencyRate(tenantID, currency, req.Rate, req.EffectiveDate)
	if err != nil {
		return nil, err
	}
	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	resp := ToCurrencyRateResponse(rate)
	return &resp, nil
}

// ListCurrencyRates lists the rates of a tenant
func (s *LedgerService) ListCurrencyRates(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CurrencyRateResponse, int64, error) {
	rates, total, err := s.rateRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CurrencyRateResponse, len(rates))
	for i := range rates {
		out[i] = ToCurrencyRateResponse(&rates[i])
	}
	return out, total, nil
}

// GetMove reads a move with its lines
func (s *LedgerService) GetMove(ctx context.Context, tenantID, id uuid.UUID) (*MoveResponse, error) {
	move, err := s.moveRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMoveResponse(move)
	return &resp, nil
}
