package asset

import (
	"context"
	"fmt"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// systemUser is recorded on history entries written by background handlers
const systemUser = "system"

// AssetClosedHandler handles AssetClosedEvent. It logs the closure and
// appends a history entry so the asset keeps a trace of when it was closed.
type AssetClosedHandler struct {
	assetRepo   asset.AssetRepository
	historyRepo asset.HistoryRepository
	logger      *zap.Logger
}

// NewAssetClosedHandler creates a new handler for asset closed events
func NewAssetClosedHandler(assetRepo asset.AssetRepository, historyRepo asset.HistoryRepository, logger *zap.Logger) *AssetClosedHandler {
	return &AssetClosedHandler{
		assetRepo:   assetRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *AssetClosedHandler) EventTypes() []string {
	return []string{asset.EventTypeAssetClosed}
}

// Handle processes an AssetClosedEvent
func (h *AssetClosedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	closed, ok := event.(*asset.AssetClosedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", asset.EventTypeAssetClosed),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			asset.EventTypeAssetClosed, event.EventType())
	}

	h.logger.Info("asset closed",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("asset_id", event.AggregateID().String()),
		zap.String("name", closed.Name),
		zap.Bool("automatic", closed.Automatic),
		zap.String("prev_state", string(closed.PrevState)),
	)

	a, err := h.assetRepo.FindByIDForTenant(ctx, event.TenantID(), event.AggregateID())
	if err != nil {
		return fmt.Errorf("failed to load closed asset %s: %w", event.AggregateID(), err)
	}

	name := "Closed"
	note := fmt.Sprintf("Closed from %s state", closed.PrevState)
	if closed.Automatic {
		name = "Fully depreciated"
		note = "Closed automatically after the residual value reached zero"
	}
	history, err := asset.NewHistory(a, name, systemUser, note, valueobject.DateOf(closed.OccurredAt()))
	if err != nil {
		return err
	}
	if err := h.historyRepo.Create(ctx, history); err != nil {
		return fmt.Errorf("failed to record closure of asset %s: %w", a.ID, err)
	}
	return nil
}
