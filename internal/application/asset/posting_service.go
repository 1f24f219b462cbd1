package asset

import (
	"context"
	"errors"
	"time"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/erp/depreciation/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostingService turns draft depreciation lines into ledger moves and
// reverses posted lines
type PostingService struct {
	categoryRepo   asset.CategoryRepository
	assetRepo      asset.AssetRepository
	lineRepo       asset.LineRepository
	periodRepo     ledger.PeriodRepository
	currency       CurrencyProvider
	txScope        TransactionScope
	locks          assetLocks
	eventPublisher shared.EventPublisher
	metrics        *telemetry.DepreciationMetrics
	logger         *zap.Logger
	today          func() valueobject.Date
}

// NewPostingService creates a new PostingService. Without
// SetTransactionScope the repositories are used directly.
func NewPostingService(
	categoryRepo asset.CategoryRepository,
	assetRepo asset.AssetRepository,
	lineRepo asset.LineRepository,
	historyRepo asset.HistoryRepository,
	ledgerGateway asset.LedgerGateway,
	periodRepo ledger.PeriodRepository,
	currency CurrencyProvider,
	logger *zap.Logger,
) *PostingService {
	return &PostingService{
		categoryRepo: categoryRepo,
		assetRepo:    assetRepo,
		lineRepo:     lineRepo,
		periodRepo:   periodRepo,
		currency:     currency,
		txScope:      NewNoOpTransactionScope(assetRepo, lineRepo, historyRepo, ledgerGateway),
		locks:        assetLocks{ttl: shared.DefaultLockConfig().TTL},
		logger:       logger,
		today:        valueobject.Today,
	}
}

// SetTransactionScope sets the transaction scope a batch is posted in
func (s *PostingService) SetTransactionScope(scope TransactionScope) {
	s.txScope = scope
}

// SetLocker sets the per-asset locker
func (s *PostingService) SetLocker(locker shared.Locker, ttl time.Duration) {
	s.locks = assetLocks{locker: locker, ttl: ttl}
}

// SetEventPublisher sets the event publisher
func (s *PostingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the depreciation metrics
func (s *PostingService) SetMetrics(metrics *telemetry.DepreciationMetrics) {
	s.metrics = metrics
}

// PostLines posts a batch of draft lines in one transaction. Lines of
// manually valued assets are skipped and stay draft. Any other failure
// rolls the whole batch back. Assets whose residual value reaches zero are
// closed.
func (s *PostingService) PostLines(ctx context.Context, tenantID uuid.UUID, req PostLinesRequest) (*PostLinesResult, error) {
	var override valueobject.Date
	if req.Date != nil {
		override = *req.Date
	}
	return s.postLines(ctx, tenantID, req.LineIDs, override)
}

// ComputeEntriesForPeriod posts the draft lines of every open asset dated
// within the period, optionally for one category, using the period stop
// date as depreciation date. It returns the created move IDs.
func (s *PostingService) ComputeEntriesForPeriod(ctx context.Context, tenantID, periodID uuid.UUID, categoryID *uuid.UUID) ([]uuid.UUID, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "depreciation", "compute_entries")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPeriodID, periodID.String())

	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, periodID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !period.IsOpen() {
		return nil, ledger.ErrPeriodClosed
	}

	assetIDs, err := s.assetRepo.FindOpenIDs(ctx, tenantID, categoryID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(assetIDs) == 0 {
		return []uuid.UUID{}, nil
	}

	lines, err := s.lineRepo.FindDraftInRange(ctx, tenantID, assetIDs, period.DateStart, period.DateStop)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(lines) == 0 {
		s.logger.Debug("No draft depreciation lines in period",
			zap.String("tenant_id", tenantID.String()),
			zap.String("period_id", periodID.String()),
		)
		return []uuid.UUID{}, nil
	}

	lineIDs := make([]uuid.UUID, len(lines))
	for i := range lines {
		lineIDs[i] = lines[i].ID
	}
	result, err := s.postLines(ctx, tenantID, lineIDs, period.DateStop)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Period depreciation posted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period_id", periodID.String()),
		zap.Int("assets", len(assetIDs)),
		zap.Int("moves", len(result.MoveIDs)),
		zap.Int("skipped", result.Skipped),
		zap.Int("closed_assets", len(result.ClosedAssets)),
	)
	return result.MoveIDs, nil
}

func (s *PostingService) postLines(ctx context.Context, tenantID uuid.UUID, lineIDs []uuid.UUID, override valueobject.Date) (*PostLinesResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "depreciation", "post_lines")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLineCount, len(lineIDs))

	lineIDs = uniqueIDs(lineIDs)
	lines, err := s.lineRepo.FindByIDs(ctx, tenantID, lineIDs)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(lines) != len(lineIDs) {
		return nil, shared.NewDomainError("NOT_FOUND", "One or more depreciation lines were not found")
	}

	assetIDs := make([]uuid.UUID, 0, len(lines))
	for i := range lines {
		assetIDs = append(assetIDs, lines[i].AssetID)
	}
	assetIDs = uniqueIDs(assetIDs)

	release, err := s.locks.acquire(ctx, tenantID, assetIDs...)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer release()

	result := &PostLinesResult{MoveIDs: []uuid.UUID{}, ClosedAssets: []uuid.UUID{}}
	var touched []*asset.Asset
	companyCurrency := s.currency.CompanyCurrency()

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// reload under the locks
		lines, err := repos.LineRepo().FindByIDs(ctx, tenantID, lineIDs)
		if err != nil {
			return err
		}
		asset.SortBySequence(lines)

		assets, err := repos.AssetRepo().FindByIDs(ctx, tenantID, assetIDs)
		if err != nil {
			return err
		}
		categoryIDs := make([]uuid.UUID, 0, len(assets))
		for _, a := range assets {
			categoryIDs = append(categoryIDs, a.CategoryID)
		}
		categories, err := s.categoryRepo.FindByIDs(ctx, tenantID, uniqueIDs(categoryIDs))
		if err != nil {
			return err
		}

		generator := asset.NewPostingGenerator(repos.Ledger(), s.currency)
		var affected []uuid.UUID
		seen := make(map[uuid.UUID]bool)

		for i := range lines {
			line := &lines[i]
			a, ok := assets[line.AssetID]
			if !ok {
				return shared.ErrNotFound
			}
			category, ok := categories[a.CategoryID]
			if !ok {
				return asset.ErrInvalidCategory
			}

			posting, err := generator.Generate(ctx, asset.PostingRequest{
				Asset:           a,
				Category:        category,
				Line:            line,
				CompanyCurrency: companyCurrency,
				DateOverride:    override,
			})
			if errors.Is(err, asset.ErrManualValuationSkip) {
				// no move, but the line still leaves the schedule
				if line.State == asset.LineStateDraft {
					if err := line.MarkDone(nil); err != nil {
						return err
					}
					if err := repos.LineRepo().Save(ctx, line); err != nil {
						return err
					}
				}
				result.Skipped++
				s.logger.Debug("Skipping line of manually valued asset",
					zap.String("asset_id", a.ID.String()),
					zap.String("line_id", line.ID.String()),
				)
				continue
			}
			if err != nil {
				return err
			}

			moveID, err := repos.Ledger().CreateMove(ctx, posting.Move)
			if err != nil {
				return err
			}
			if err := line.MarkDone(&moveID); err != nil {
				return err
			}
			if err := repos.LineRepo().Save(ctx, line); err != nil {
				return err
			}
			a.RecordLinePosted(line)

			result.MoveIDs = append(result.MoveIDs, moveID)
			result.Posted++
			if !seen[a.ID] {
				seen[a.ID] = true
				affected = append(affected, a.ID)
			}
		}

		for _, id := range affected {
			a := assets[id]
			touched = append(touched, a)
			depreciated, err := depreciatedAmount(ctx, repos.Ledger(), s.currency, a, categories[a.CategoryID], s.today())
			if err != nil {
				return err
			}
			if !s.currency.IsZero(a.Currency, a.ResidualValue(depreciated)) {
				continue
			}
			if err := a.CloseFullyDepreciated(); err != nil {
				return err
			}
			if err := repos.AssetRepo().SaveWithLock(ctx, a); err != nil {
				return err
			}
			result.ClosedAssets = append(result.ClosedAssets, a.ID)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordLinesPosted(ctx, tenantID, result.Posted)
	s.metrics.RecordMovesCreated(ctx, tenantID, len(result.MoveIDs))
	s.metrics.RecordLinesSkipped(ctx, tenantID, result.Skipped)
	for range result.ClosedAssets {
		s.metrics.RecordAssetClosed(ctx, tenantID, true)
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPostedLines, result.Posted,
		"skipped_lines", result.Skipped,
		"closed_assets", len(result.ClosedAssets),
	)
	telemetry.SetOK(span)
	publishEvents(ctx, s.eventPublisher, s.logger, touched...)

	s.logger.Info("Depreciation lines posted",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("posted", result.Posted),
		zap.Int("skipped", result.Skipped),
		zap.Int("closed_assets", len(result.ClosedAssets)),
	)
	return result, nil
}

// CancelLine voids a line. A posted line's move is retracted and deleted
// in the same transaction.
func (s *PostingService) CancelLine(ctx context.Context, tenantID, lineID uuid.UUID) (*LineResponse, error) {
	return s.reverseLine(ctx, tenantID, lineID, "cancel", (*asset.DepreciationLine).Cancel)
}

// ResetLineToDraft reopens a done or cancelled line, retracting its move
func (s *PostingService) ResetLineToDraft(ctx context.Context, tenantID, lineID uuid.UUID) (*LineResponse, error) {
	return s.reverseLine(ctx, tenantID, lineID, "draft", (*asset.DepreciationLine).ResetToDraft)
}

func (s *PostingService) reverseLine(ctx context.Context, tenantID, lineID uuid.UUID, op string, apply func(*asset.DepreciationLine) (*uuid.UUID, error)) (*LineResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "depreciation", op+"_line")
	defer span.End()

	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, lineID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	release, err := s.locks.acquire(ctx, tenantID, line.AssetID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer release()

	var a *asset.Asset
	var retracted *uuid.UUID
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.LineRepo().FindByIDForTenant(ctx, tenantID, lineID)
		if err != nil {
			return err
		}
		line = current
		a, err = repos.AssetRepo().FindByIDForTenant(ctx, tenantID, line.AssetID)
		if err != nil {
			return err
		}

		retracted, err = apply(line)
		if err != nil {
			return err
		}
		if retracted != nil {
			if err := repos.Ledger().ReverseAndDeleteMove(ctx, tenantID, *retracted); err != nil {
				return err
			}
		}
		if err := repos.LineRepo().Save(ctx, line); err != nil {
			return err
		}
		a.RecordLineCancelled(line, retracted)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if retracted != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrMoveID, retracted.String())
	}
	s.metrics.RecordLineCancelled(ctx, tenantID)
	publishEvents(ctx, s.eventPublisher, s.logger, a)

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("line_id", lineID.String()),
		zap.String("asset_id", line.AssetID.String()),
		zap.String("state", string(line.State)),
	}
	if retracted != nil {
		fields = append(fields, zap.String("move_id", retracted.String()))
	}
	s.logger.Info("Depreciation line reversed", fields...)

	resp := ToLineResponse(line)
	return &resp, nil
}

// DeleteLine removes a draft line
func (s *PostingService) DeleteLine(ctx context.Context, tenantID, lineID uuid.UUID) error {
	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, lineID)
	if err != nil {
		return err
	}
	if err := line.EnsureDeletable(); err != nil {
		return err
	}
	return s.lineRepo.Delete(ctx, tenantID, lineID)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
