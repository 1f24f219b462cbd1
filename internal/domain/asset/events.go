package asset

import (
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type names
const (
	AggregateTypeAsset = "Asset"
)

// Event types
const (
	EventTypeAssetValidated            = "AssetValidated"
	EventTypeAssetClosed               = "AssetClosed"
	EventTypeAssetReopened             = "AssetReopened"
	EventTypeDepreciationBoardComputed = "DepreciationBoardComputed"
	EventTypeDepreciationLinePosted    = "DepreciationLinePosted"
	EventTypeDepreciationLineCancelled = "DepreciationLineCancelled"
)

// AssetValidatedEvent is raised when an asset goes from draft to open
type AssetValidatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewAssetValidatedEvent creates an AssetValidatedEvent
func NewAssetValidatedEvent(a *Asset) *AssetValidatedEvent {
	return &AssetValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetValidated, AggregateTypeAsset, a.ID, a.TenantID),
		Code:            a.Code,
		Name:            a.Name,
	}
}

// AssetClosedEvent is raised when an asset is closed. Automatic is true when
// the close followed a posting that brought the residual value to zero.
type AssetClosedEvent struct {
	shared.BaseDomainEvent
	Name      string     `json:"name"`
	Automatic bool       `json:"automatic"`
	PrevState AssetState `json:"prev_state"`
}

// NewAssetClosedEvent creates an AssetClosedEvent
func NewAssetClosedEvent(a *Asset, prev AssetState, automatic bool) *AssetClosedEvent {
	return &AssetClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetClosed, AggregateTypeAsset, a.ID, a.TenantID),
		Name:            a.Name,
		Automatic:       automatic,
		PrevState:       prev,
	}
}

// AssetReopenedEvent is raised when an asset is set back to draft
type AssetReopenedEvent struct {
	shared.BaseDomainEvent
	PrevState AssetState `json:"prev_state"`
}

// NewAssetReopenedEvent creates an AssetReopenedEvent
func NewAssetReopenedEvent(a *Asset, prev AssetState) *AssetReopenedEvent {
	return &AssetReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetReopened, AggregateTypeAsset, a.ID, a.TenantID),
		PrevState:       prev,
	}
}

// DepreciationBoardComputedEvent is raised after draft lines are regenerated
type DepreciationBoardComputedEvent struct {
	shared.BaseDomainEvent
	DraftLines  int `json:"draft_lines"`
	PostedLines int `json:"posted_lines"`
}

// NewDepreciationBoardComputedEvent creates a DepreciationBoardComputedEvent
func NewDepreciationBoardComputedEvent(a *Asset, draftLines, postedLines int) *DepreciationBoardComputedEvent {
	return &DepreciationBoardComputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDepreciationBoardComputed, AggregateTypeAsset, a.ID, a.TenantID),
		DraftLines:      draftLines,
		PostedLines:     postedLines,
	}
}

// DepreciationLinePostedEvent is raised when a line is posted to the ledger
type DepreciationLinePostedEvent struct {
	shared.BaseDomainEvent
	LineID           uuid.UUID        `json:"line_id"`
	Sequence         int              `json:"sequence"`
	Amount           decimal.Decimal  `json:"amount"`
	DepreciationDate valueobject.Date `json:"depreciation_date"`
	MoveID           *uuid.UUID       `json:"move_id,omitempty"`
}

// NewDepreciationLinePostedEvent creates a DepreciationLinePostedEvent
func NewDepreciationLinePostedEvent(a *Asset, line *DepreciationLine) *DepreciationLinePostedEvent {
	return &DepreciationLinePostedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeDepreciationLinePosted, AggregateTypeAsset, a.ID, a.TenantID),
		LineID:           line.ID,
		Sequence:         line.Sequence,
		Amount:           line.Amount,
		DepreciationDate: line.DepreciationDate,
		MoveID:           line.MoveID,
	}
}

// DepreciationLineCancelledEvent is raised when a posted line is cancelled
type DepreciationLineCancelledEvent struct {
	shared.BaseDomainEvent
	LineID          uuid.UUID  `json:"line_id"`
	Sequence        int        `json:"sequence"`
	RetractedMoveID *uuid.UUID `json:"retracted_move_id,omitempty"`
}

// NewDepreciationLineCancelledEvent creates a DepreciationLineCancelledEvent
func NewDepreciationLineCancelledEvent(a *Asset, line *DepreciationLine, retracted *uuid.UUID) *DepreciationLineCancelledEvent {
	return &DepreciationLineCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDepreciationLineCancelled, AggregateTypeAsset, a.ID, a.TenantID),
		LineID:          line.ID,
		Sequence:        line.Sequence,
		RetractedMoveID: retracted,
	}
}
