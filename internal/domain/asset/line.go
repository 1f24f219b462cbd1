package asset

import (
	"sort"
	"time"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepreciationLine is one planned or posted schedule entry. It is owned by
// its asset; done and cancel lines anchor every later recomputation.
type DepreciationLine struct {
	shared.BaseEntity
	TenantID         uuid.UUID
	AssetID          uuid.UUID
	Name             string
	Sequence         int
	Amount           decimal.Decimal
	RemainingValue   decimal.Decimal
	DepreciatedValue decimal.Decimal
	DepreciationDate valueobject.Date
	State            LineState
	MoveID           *uuid.UUID
	PeriodID         *uuid.UUID
}

// IsPosted reports whether the line is done or cancelled
func (l *DepreciationLine) IsPosted() bool {
	return l.State.IsPosted()
}

// Label is the line name, or its date when unnamed
func (l *DepreciationLine) Label() string {
	if l.Name != "" {
		return l.Name
	}
	return l.DepreciationDate.String()
}

// MarkDone moves a draft line to done, linking the generated move. moveID is
// nil for manually valued assets.
func (l *DepreciationLine) MarkDone(moveID *uuid.UUID) error {
	if l.State != LineStateDraft {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot post depreciation line %s in %s state", l.Label(), l.State)
	}
	l.State = LineStateDone
	l.MoveID = moveID
	l.UpdatedAt = time.Now()
	return nil
}

// Cancel voids the line and detaches its move. The detached move id is
// returned so the caller can retract it.
func (l *DepreciationLine) Cancel() (*uuid.UUID, error) {
	if l.State == LineStateCancel {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Depreciation line %s is already cancelled", l.Label())
	}
	retracted := l.MoveID
	l.State = LineStateCancel
	l.MoveID = nil
	l.UpdatedAt = time.Now()
	return retracted, nil
}

// ResetToDraft reopens a done or cancelled line. The detached move id, if
// any, is returned so the caller can retract it.
func (l *DepreciationLine) ResetToDraft() (*uuid.UUID, error) {
	if l.State == LineStateDraft {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Depreciation line %s is already in draft state", l.Label())
	}
	retracted := l.MoveID
	l.State = LineStateDraft
	l.MoveID = nil
	l.UpdatedAt = time.Now()
	return retracted, nil
}

// EnsureDeletable only allows draft lines to be removed
func (l *DepreciationLine) EnsureDeletable() error {
	if l.State != LineStateDraft {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot delete depreciation line %s in %s state", l.Label(), l.State)
	}
	return nil
}

// SortForDisplay orders lines by date descending, then sequence ascending
func SortForDisplay(lines []DepreciationLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		if c := lines[i].DepreciationDate.Compare(lines[j].DepreciationDate); c != 0 {
			return c > 0
		}
		return lines[i].Sequence < lines[j].Sequence
	})
}

// SortBySequence orders lines by ascending sequence
func SortBySequence(lines []DepreciationLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Sequence < lines[j].Sequence
	})
}
