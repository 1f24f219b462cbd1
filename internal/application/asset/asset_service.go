package asset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/erp/depreciation/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AssetService handles the asset lifecycle and depreciation board computation
type AssetService struct {
	categoryRepo   asset.CategoryRepository
	assetRepo      asset.AssetRepository
	lineRepo       asset.LineRepository
	historyRepo    asset.HistoryRepository
	ledger         asset.LedgerGateway
	currency       CurrencyProvider
	codes          asset.CodeSequence
	txScope        TransactionScope
	locks          assetLocks
	eventPublisher shared.EventPublisher
	metrics        *telemetry.DepreciationMetrics
	logger         *zap.Logger
	today          func() valueobject.Date
}

// NewAssetService creates a new AssetService. Without SetTransactionScope the
// repositories are used directly.
func NewAssetService(
	categoryRepo asset.CategoryRepository,
	assetRepo asset.AssetRepository,
	lineRepo asset.LineRepository,
	historyRepo asset.HistoryRepository,
	ledger asset.LedgerGateway,
	currency CurrencyProvider,
	codes asset.CodeSequence,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		categoryRepo: categoryRepo,
		assetRepo:    assetRepo,
		lineRepo:     lineRepo,
		historyRepo:  historyRepo,
		ledger:       ledger,
		currency:     currency,
		codes:        codes,
		txScope:      NewNoOpTransactionScope(assetRepo, lineRepo, historyRepo, ledger),
		locks:        assetLocks{ttl: shared.DefaultLockConfig().TTL},
		logger:       logger,
		today:        valueobject.Today,
	}
}

// SetTransactionScope sets the transaction scope used for multi-row writes
func (s *AssetService) SetTransactionScope(scope TransactionScope) {
	s.txScope = scope
}

// SetLocker sets the per-asset locker serializing board computation
func (s *AssetService) SetLocker(locker shared.Locker, ttl time.Duration) {
	s.locks = assetLocks{locker: locker, ttl: ttl}
}

// SetEventPublisher sets the event publisher
func (s *AssetService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the depreciation metrics
func (s *AssetService) SetMetrics(metrics *telemetry.DepreciationMetrics) {
	s.metrics = metrics
}

// Create creates an asset from its category, computes its board and, when
// the category says so, validates it right away
func (s *AssetService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAssetRequest) (*AssetResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "asset", "create")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCategoryID, req.CategoryID.String())

	category, err := s.findCategory(ctx, tenantID, req.CategoryID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	currency := s.currency.CompanyCurrency()
	if req.Currency != "" {
		currency, err = valueobject.ParseCurrency(req.Currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code, err = s.nextCode(ctx, tenantID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	} else if err := s.ensureCodeFree(ctx, tenantID, code); err != nil {
		return nil, err
	}

	var params *asset.DepreciationParams
	if !req.Params.IsEmpty() {
		p := req.Params.ApplyTo(category.DepreciationParams)
		params = &p
	}

	a, err := asset.NewAsset(tenantID, asset.NewAssetInput{
		Code:          code,
		Name:          req.Name,
		Category:      category,
		Currency:      currency,
		PurchaseValue: req.PurchaseValue,
		SalvageValue:  req.SalvageValue,
		PurchaseDate:  req.PurchaseDate,
		Valuation:     asset.Valuation(req.Valuation),
		PartnerID:     req.PartnerID,
		Params:        params,
		Accounts:      req.Accounts.ToDomain(),
		Note:          req.Note,
	})
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if err := s.attachParent(ctx, a, *req.ParentID); err != nil {
			return nil, err
		}
	}

	var result *board
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.AssetRepo().Save(ctx, a); err != nil {
			return err
		}
		b, err := s.rebuildBoard(ctx, repos, a, category)
		if err != nil {
			return err
		}
		result = b
		if !category.OpenAsset {
			return nil
		}
		if err := a.Validate(); err != nil {
			return err
		}
		return repos.AssetRepo().Save(ctx, a)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, a)
	s.logger.Info("Asset created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("asset_id", a.ID.String()),
		zap.String("code", a.Code),
		zap.String("state", string(a.State)),
		zap.Int("draft_lines", len(result.schedule.Lines)),
	)

	resp := ToAssetResponse(a)
	resp.ValueResidual = &result.residual
	resp.Lines = result.displayLines()
	return &resp, nil
}

// GetByID retrieves an asset with its residual value, entry count and children
func (s *AssetService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	category, err := s.accountCategory(ctx, a)
	if err != nil {
		return nil, err
	}
	depreciated, err := depreciatedAmount(ctx, s.ledger, s.currency, a, category, s.today())
	if err != nil {
		return nil, err
	}
	entryCount, err := s.ledger.CountAssetEntries(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	children, err := s.assetRepo.FindChildren(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	resp := ToAssetResponse(a)
	residual := a.ResidualValue(depreciated)
	resp.ValueResidual = &residual
	resp.EntryCount = &entryCount
	for i := range children {
		resp.Children = append(resp.Children, children[i].ID)
	}
	return &resp, nil
}

// List lists assets
func (s *AssetService) List(ctx context.Context, tenantID uuid.UUID, filter asset.AssetFilter) ([]AssetResponse, int64, error) {
	assets, total, err := s.assetRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToAssetResponses(assets), total, nil
}

// Update changes an asset. Each domain setter enforces what the asset state
// allows. A change of depreciation parameters on a non-draft asset is
// recorded in the asset history.
func (s *AssetService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateAssetRequest) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Code != nil || req.Note != nil || req.PartnerID != nil || req.AnalyticAccountID != nil {
		name, code, note := a.Name, a.Code, a.Note
		partnerID, analyticID := a.PartnerID, a.AnalyticAccountID
		if req.Name != nil {
			name = *req.Name
		}
		if req.Code != nil {
			code = strings.TrimSpace(*req.Code)
			if code != "" && code != a.Code {
				if err := s.ensureCodeFree(ctx, tenantID, code); err != nil {
					return nil, err
				}
			}
		}
		if req.Note != nil {
			note = *req.Note
		}
		if req.PartnerID != nil {
			partnerID = req.PartnerID
		}
		if req.AnalyticAccountID != nil {
			analyticID = req.AnalyticAccountID
		}
		if err := a.UpdateDetails(name, code, note, partnerID, analyticID); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil && *req.CategoryID != a.CategoryID {
		category, err := s.findCategory(ctx, tenantID, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if err := a.ApplyCategory(category); err != nil {
			return nil, err
		}
	}

	if req.PurchaseValue != nil || req.SalvageValue != nil {
		purchase, salvage := a.PurchaseValue, a.SalvageValue
		if req.PurchaseValue != nil {
			purchase = *req.PurchaseValue
		}
		if req.SalvageValue != nil {
			salvage = *req.SalvageValue
		}
		if err := a.SetValues(purchase, salvage); err != nil {
			return nil, err
		}
	}

	if req.ClearParent {
		if err := a.SetParent(nil); err != nil {
			return nil, err
		}
	} else if req.ParentID != nil {
		if err := s.attachParent(ctx, a, *req.ParentID); err != nil {
			return nil, err
		}
	}

	paramsChanged := false
	if !req.Params.IsEmpty() {
		next := req.Params.ApplyTo(a.DepreciationParams)
		if !next.Equal(a.DepreciationParams) {
			if err := a.SetDepreciationParams(next); err != nil {
				return nil, err
			}
			paramsChanged = true
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.AssetRepo().Save(ctx, a); err != nil {
			return err
		}
		if !paramsChanged || a.State == asset.AssetStateDraft {
			return nil
		}
		history, err := asset.NewHistory(a, req.HistoryName, req.User, req.HistoryNote, s.today())
		if err != nil {
			return err
		}
		return repos.HistoryRepo().Create(ctx, history)
	})
	if err != nil {
		return nil, err
	}

	resp := ToAssetResponse(a)
	return &resp, nil
}

// ModifyDepreciation changes the time parameters of an asset, records the
// change in its history and recomputes the board
func (s *AssetService) ModifyDepreciation(ctx context.Context, tenantID, id uuid.UUID, req ModifyDepreciationRequest) (*BoardResponse, error) {
	release, err := s.locks.acquire(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	defer release()

	var a *asset.Asset
	var result *board
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.AssetRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		a = found

		next := a.DepreciationParams
		if req.MethodTime != nil {
			next.MethodTime = asset.MethodTime(*req.MethodTime)
		}
		if req.MethodNumber != nil {
			next.MethodNumber = *req.MethodNumber
		}
		if req.MethodPeriod != nil {
			next.MethodPeriod = *req.MethodPeriod
		}
		if req.MethodEnd != nil {
			next.MethodEnd = *req.MethodEnd
		}
		if err := a.SetDepreciationParams(next); err != nil {
			return err
		}
		if err := repos.AssetRepo().Save(ctx, a); err != nil {
			return err
		}

		history, err := asset.NewHistory(a, req.Name, req.User, req.Note, s.today())
		if err != nil {
			return err
		}
		if err := repos.HistoryRepo().Create(ctx, history); err != nil {
			return err
		}

		category, err := s.accountCategory(ctx, a)
		if err != nil {
			return err
		}
		result, err = s.rebuildBoard(ctx, repos, a, category)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, a)
	return result.response(a.ID), nil
}

// Delete removes an asset that has no ledger activity and no children
func (s *AssetService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	entryCount, err := s.ledger.CountAssetEntries(ctx, tenantID, id)
	if err != nil {
		return err
	}
	lines, err := s.lineRepo.FindByAsset(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := a.EnsureDeletable(entryCount, lines); err != nil {
		return err
	}

	children, err := s.assetRepo.FindChildren(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.NewDomainErrorf("HAS_CHILDREN", "Asset %s has %d child asset(s)", a.DisplayName(), len(children))
	}

	if err := s.assetRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Asset deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("asset_id", id.String()),
	)
	return nil
}

// ComputeBoard regenerates the draft lines of an asset. Posted lines are
// kept; calling it again without new ledger activity yields the same lines.
func (s *AssetService) ComputeBoard(ctx context.Context, tenantID, id uuid.UUID) (*BoardResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "asset", "compute_board")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAssetID, id.String())

	release, err := s.locks.acquire(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer release()

	start := time.Now()
	var a *asset.Asset
	var result *board
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.AssetRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		a = found
		category, err := s.accountCategory(ctx, a)
		if err != nil {
			return err
		}
		result, err = s.rebuildBoard(ctx, repos, a, category)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordBoardComputed(ctx, tenantID, string(a.Method), time.Since(start))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrMethod, string(a.Method),
		telemetry.SpanAttrPostedLines, len(result.posted),
		telemetry.SpanAttrDraftLines, len(result.schedule.Lines),
	)
	telemetry.SetOK(span)
	publishEvents(ctx, s.eventPublisher, s.logger, a)

	s.logger.Debug("Depreciation board computed",
		zap.String("asset_id", id.String()),
		zap.Int("posted_lines", len(result.posted)),
		zap.Int("draft_lines", len(result.schedule.Lines)),
	)
	return result.response(a.ID), nil
}

// Validate moves a draft asset to open
func (s *AssetService) Validate(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	return s.transition(ctx, tenantID, id, "validate", (*asset.Asset).Validate)
}

// Close closes an asset by hand
func (s *AssetService) Close(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	resp, err := s.transition(ctx, tenantID, id, "close", (*asset.Asset).Close)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAssetClosed(ctx, tenantID, false)
	return resp, nil
}

// SetToDraft moves an asset back to draft
func (s *AssetService) SetToDraft(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	return s.transition(ctx, tenantID, id, "set_to_draft", (*asset.Asset).SetToDraft)
}

func (s *AssetService) transition(ctx context.Context, tenantID, id uuid.UUID, op string, apply func(*asset.Asset) error) (*AssetResponse, error) {
	release, err := s.locks.acquire(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	defer release()

	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	prev := a.State
	if err := apply(a); err != nil {
		return nil, err
	}
	if err := s.assetRepo.SaveWithLock(ctx, a); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, a)
	s.logger.Info("Asset state changed",
		zap.String("op", op),
		zap.String("asset_id", id.String()),
		zap.String("from", string(prev)),
		zap.String("to", string(a.State)),
	)
	resp := ToAssetResponse(a)
	return &resp, nil
}

// Lines lists the depreciation lines of an asset, date descending then
// sequence ascending
func (s *AssetService) Lines(ctx context.Context, tenantID, id uuid.UUID) ([]LineResponse, error) {
	if _, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	lines, err := s.lineRepo.FindByAsset(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	asset.SortForDisplay(lines)
	return ToLineResponses(lines), nil
}

// History lists the history entries of an asset, most recent first
func (s *AssetService) History(ctx context.Context, tenantID, id uuid.UUID) ([]HistoryResponse, error) {
	if _, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.FindByAsset(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryResponse, len(entries))
	for i := range entries {
		out[i] = ToHistoryResponse(&entries[i])
	}
	return out, nil
}

// Residual returns purchase - posted depreciation - salvage in the asset currency
func (s *AssetService) Residual(ctx context.Context, tenantID, id uuid.UUID) (*ResidualResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	category, err := s.accountCategory(ctx, a)
	if err != nil {
		return nil, err
	}
	depreciated, err := depreciatedAmount(ctx, s.ledger, s.currency, a, category, s.today())
	if err != nil {
		return nil, err
	}
	residual := a.ResidualValue(depreciated)
	return &ResidualResponse{
		AssetID:       a.ID,
		PurchaseValue: a.PurchaseValue,
		SalvageValue:  a.SalvageValue,
		Depreciated:   depreciated,
		Residual:      valueobject.MustNewMoney(residual, a.Currency),
		FullyDepr:     s.currency.IsZero(a.Currency, residual),
	}, nil
}

// EditableFields reports which fields the asset's current state lets a user edit
func (s *AssetService) EditableFields(ctx context.Context, tenantID, id uuid.UUID) (*EditableFieldsResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := NewEditableFieldsResponse(a.State)
	return &resp, nil
}

// board is the outcome of a board rebuild
type board struct {
	residual decimal.Decimal
	posted   []asset.DepreciationLine
	schedule *asset.Schedule
}

func (b *board) displayLines() []LineResponse {
	lines := make([]asset.DepreciationLine, 0, len(b.posted)+len(b.schedule.Lines))
	lines = append(lines, b.posted...)
	lines = append(lines, b.schedule.Lines...)
	asset.SortForDisplay(lines)
	return ToLineResponses(lines)
}

func (b *board) response(assetID uuid.UUID) *BoardResponse {
	return &BoardResponse{
		AssetID:       assetID,
		ValueResidual: b.residual,
		Anchor:        b.schedule.Anchor,
		PostedLines:   len(b.posted),
		DraftLines:    len(b.schedule.Lines),
		Lines:         b.displayLines(),
	}
}

// rebuildBoard replaces the draft lines of a with a freshly built schedule.
// A zero residual leaves the existing lines alone. category supplies the
// fallback depreciation account and may be nil.
func (s *AssetService) rebuildBoard(ctx context.Context, repos TransactionalRepositories, a *asset.Asset, category *asset.Category) (*board, error) {
	posted, err := repos.LineRepo().FindPosted(ctx, a.TenantID, a.ID)
	if err != nil {
		return nil, err
	}
	depreciated, err := depreciatedAmount(ctx, repos.Ledger(), s.currency, a, category, s.today())
	if err != nil {
		return nil, err
	}
	residual := a.ResidualValue(depreciated)

	var last valueobject.Date
	if account := a.DepreciationAccount(category); a.Prorata && account != nil {
		last, err = repos.Ledger().FindLastPostedDepreciationDate(ctx, a.TenantID, a.ID, *account)
		if err != nil {
			return nil, err
		}
	}

	schedule, err := asset.BuildSchedule(a, asset.ScheduleInput{
		ValueResidual:        residual,
		PostedLines:          posted,
		LastDepreciationDate: last,
	})
	if err != nil {
		return nil, err
	}
	result := &board{residual: residual, posted: posted, schedule: schedule}
	if residual.IsZero() {
		return result, nil
	}

	if err := repos.LineRepo().DeleteDraftByAsset(ctx, a.TenantID, a.ID); err != nil {
		return nil, err
	}
	if len(schedule.Lines) > 0 {
		if err := repos.LineRepo().SaveBatch(ctx, schedule.Lines); err != nil {
			return nil, err
		}
	}
	a.RecordBoardComputed(len(schedule.Lines), len(posted))
	return result, nil
}

func (s *AssetService) findCategory(ctx context.Context, tenantID, id uuid.UUID) (*asset.Category, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(asset.CodeInvalidCategory, "Asset category not found")
		}
		return nil, err
	}
	return category, nil
}

// accountCategory loads the category whose accounts back a. A category that
// no longer exists yields nil.
func (s *AssetService) accountCategory(ctx context.Context, a *asset.Asset) (*asset.Category, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, a.TenantID, a.CategoryID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return category, err
}

func (s *AssetService) nextCode(ctx context.Context, tenantID uuid.UUID) (string, error) {
	n, err := s.codes.Next(ctx, tenantID, assetCodeSequence)
	if err != nil {
		return "", fmt.Errorf("failed to allocate asset code: %w", err)
	}
	return fmt.Sprintf("ASSET/%d/%05d", s.today().Year(), n), nil
}

func (s *AssetService) ensureCodeFree(ctx context.Context, tenantID uuid.UUID, code string) error {
	exists, err := s.assetRepo.ExistsByCode(ctx, tenantID, code)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Asset with this code already exists")
	}
	return nil
}

// attachParent sets the parent of a after checking it exists and would not
// close a cycle
func (s *AssetService) attachParent(ctx context.Context, a *asset.Asset, parentID uuid.UUID) error {
	if parentID != a.ID {
		if _, err := s.assetRepo.FindByIDForTenant(ctx, a.TenantID, parentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_PARENT", "Parent asset not found")
			}
			return err
		}
	}
	lookup := func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
		return s.assetRepo.FindParentID(ctx, a.TenantID, id)
	}
	if err := asset.EnsureNoCycle(ctx, a.ID, &parentID, lookup); err != nil {
		return err
	}
	return a.SetParent(&parentID)
}
