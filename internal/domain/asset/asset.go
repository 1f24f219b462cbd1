package asset

import (
	"strings"
	"time"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asset is a depreciable item. Its residual value is never stored: it is
// derived from posted ledger activity by ResidualValue.
type Asset struct {
	shared.TenantAggregateRoot
	Code          string
	Name          string
	CategoryID    uuid.UUID
	ParentID      *uuid.UUID
	PartnerID     *uuid.UUID
	Currency      valueobject.Currency
	PurchaseValue decimal.Decimal
	SalvageValue  decimal.Decimal
	PurchaseDate  valueobject.Date
	Valuation     Valuation
	State         AssetState
	Active        bool
	Note          string
	DepreciationParams
	Accounts
}

// NewAssetInput holds the values needed to create an asset
type NewAssetInput struct {
	Code          string
	Name          string
	Category      *Category
	Currency      valueobject.Currency
	PurchaseValue decimal.Decimal
	SalvageValue  decimal.Decimal
	PurchaseDate  valueobject.Date
	Valuation     Valuation
	PartnerID     *uuid.UUID
	// Params overrides the category parameters when set
	Params *DepreciationParams
	// Accounts overrides the category references that are set
	Accounts Accounts
	Note     string
}

// NewAsset creates a draft asset with the category applied
func NewAsset(tenantID uuid.UUID, in NewAssetInput) (*Asset, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	if in.Category == nil {
		return nil, shared.NewDomainError(CodeInvalidCategory, "Asset category is required")
	}
	if !in.Currency.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_CURRENCY", "Invalid currency code %q", in.Currency)
	}
	if in.PurchaseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Purchase date is required")
	}
	if err := validateValues(in.PurchaseValue, in.SalvageValue); err != nil {
		return nil, err
	}
	valuation := in.Valuation
	if valuation == "" {
		valuation = ValuationAuto
	}
	if !valuation.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_VALUATION", "Unknown valuation %q", valuation)
	}

	a := &Asset{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.TrimSpace(in.Code),
		Name:                strings.TrimSpace(in.Name),
		Currency:            in.Currency,
		PurchaseValue:       in.PurchaseValue,
		SalvageValue:        in.SalvageValue,
		PurchaseDate:        in.PurchaseDate,
		Valuation:           valuation,
		PartnerID:           in.PartnerID,
		State:               AssetStateDraft,
		Active:              true,
		Note:                in.Note,
		Accounts:            in.Accounts,
	}
	if err := a.ApplyCategory(in.Category); err != nil {
		return nil, err
	}
	if in.Params != nil {
		if err := a.SetDepreciationParams(*in.Params); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func validateValues(purchase, salvage decimal.Decimal) error {
	if !purchase.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Purchase value must be positive")
	}
	if salvage.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Salvage value cannot be negative")
	}
	if salvage.GreaterThan(purchase) {
		return shared.NewDomainError("INVALID_AMOUNT", "Salvage value cannot exceed the purchase value")
	}
	return nil
}

// ApplyCategory copies the category parameters into the asset and fills the
// ledger references the asset does not set itself
func (a *Asset) ApplyCategory(c *Category) error {
	if c == nil {
		return shared.NewDomainError(CodeInvalidCategory, "Asset category is required")
	}
	if !c.IsAssignable() {
		return shared.NewDomainErrorf(CodeInvalidCategory, "Category %s is a view category and cannot hold assets", c.Name)
	}
	if !c.BelongsTo(a.TenantID) {
		return shared.ErrNotFound
	}
	if a.State != AssetStateDraft {
		return shared.NewDomainError("INVALID_STATE", "The category can only be changed on draft assets")
	}
	a.CategoryID = c.ID
	a.DepreciationParams = c.DepreciationParams
	a.Accounts = a.Accounts.Merge(c.Accounts)
	a.UpdatedAt = time.Now()
	return nil
}

// SetDepreciationParams replaces the schedule parameters. Closed assets are
// frozen.
func (a *Asset) SetDepreciationParams(params DepreciationParams) error {
	if a.State == AssetStateClose {
		return shared.NewDomainError("INVALID_STATE", "Cannot change depreciation parameters of a closed asset")
	}
	if err := params.Validate(); err != nil {
		return err
	}
	a.DepreciationParams = params
	a.touch()
	return nil
}

// SetValues changes the purchase and salvage values on a draft asset
func (a *Asset) SetValues(purchase, salvage decimal.Decimal) error {
	if a.State != AssetStateDraft {
		return shared.NewDomainError("INVALID_STATE", "Purchase and salvage values can only be changed on draft assets")
	}
	if err := validateValues(purchase, salvage); err != nil {
		return err
	}
	a.PurchaseValue = purchase
	a.SalvageValue = salvage
	a.touch()
	return nil
}

// UpdateDetails changes descriptive fields
func (a *Asset) UpdateDetails(name, code, note string, partnerID, analyticAccountID *uuid.UUID) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	a.Name = strings.TrimSpace(name)
	a.Code = strings.TrimSpace(code)
	a.Note = note
	a.PartnerID = partnerID
	a.AnalyticAccountID = analyticAccountID
	a.touch()
	return nil
}

// SetParent sets or clears the parent asset. Cycle detection needs the
// repository and is done by EnsureNoCycle before calling this.
func (a *Asset) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == a.ID {
		return ErrRecursiveAsset
	}
	a.ParentID = parentID
	a.touch()
	return nil
}

// Validate confirms a draft asset so its lines can be posted
func (a *Asset) Validate() error {
	if a.State != AssetStateDraft {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot validate asset in %s state", a.State)
	}
	if err := a.DepreciationParams.Validate(); err != nil {
		return err
	}
	a.State = AssetStateOpen
	a.touch()
	a.AddDomainEvent(NewAssetValidatedEvent(a))
	return nil
}

// Close closes the asset by hand
func (a *Asset) Close() error {
	return a.close(false)
}

// CloseFullyDepreciated closes an open asset whose residual value reached zero
func (a *Asset) CloseFullyDepreciated() error {
	return a.close(true)
}

func (a *Asset) close(automatic bool) error {
	if a.State == AssetStateClose {
		return shared.NewDomainError("INVALID_STATE", "Asset is already closed")
	}
	prev := a.State
	a.State = AssetStateClose
	a.touch()
	a.AddDomainEvent(NewAssetClosedEvent(a, prev, automatic))
	return nil
}

// SetToDraft reverts the asset to draft
func (a *Asset) SetToDraft() error {
	if a.State == AssetStateDraft {
		return shared.NewDomainError("INVALID_STATE", "Asset is already in draft state")
	}
	prev := a.State
	a.State = AssetStateDraft
	a.touch()
	a.AddDomainEvent(NewAssetReopenedEvent(a, prev))
	return nil
}

// IsOpen reports whether lines may be posted
func (a *Asset) IsOpen() bool {
	return a.State == AssetStateOpen
}

// DisplayName returns "<code> <name>", or the name when there is no code
func (a *Asset) DisplayName() string {
	if a.Code == "" {
		return a.Name
	}
	return a.Code + " " + a.Name
}

// LineNamePrefix is used to name generated lines "<prefix>/<sequence>"
func (a *Asset) LineNamePrefix() string {
	if a.Code != "" {
		return a.Code
	}
	return a.ID.String()
}

// ResidualValue returns purchase - depreciated - salvage, where depreciated is
// the accumulated posted depreciation in the asset currency
func (a *Asset) ResidualValue(depreciated decimal.Decimal) decimal.Decimal {
	return a.PurchaseValue.Sub(depreciated).Sub(a.SalvageValue)
}

// EnsureDeletable fails when ledger lines reference the asset or any of its
// lines is posted
func (a *Asset) EnsureDeletable(entryCount int64, lines []DepreciationLine) error {
	if entryCount > 0 {
		return ErrHasPostedEntries
	}
	for i := range lines {
		if lines[i].MoveID != nil {
			return ErrHasPostedEntries
		}
	}
	return nil
}

// RecordBoardComputed queues a DepreciationBoardComputed event
func (a *Asset) RecordBoardComputed(draftLines, postedLines int) {
	a.AddDomainEvent(NewDepreciationBoardComputedEvent(a, draftLines, postedLines))
}

// RecordLinePosted queues a DepreciationLinePosted event
func (a *Asset) RecordLinePosted(line *DepreciationLine) {
	a.AddDomainEvent(NewDepreciationLinePostedEvent(a, line))
}

// RecordLineCancelled queues a DepreciationLineCancelled event
func (a *Asset) RecordLineCancelled(line *DepreciationLine, retracted *uuid.UUID) {
	a.AddDomainEvent(NewDepreciationLineCancelledEvent(a, line, retracted))
}

func (a *Asset) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Editable fields per state
var editableFields = map[AssetState]map[string]bool{
	AssetStateOpen: {
		"name": true, "code": true, "note": true, "partner_id": true, "analytic_account_id": true,
	},
	AssetStateClose: {
		"note": true,
	},
}

// CanEditField reports whether field may be edited while the asset is in
// state. Draft assets are fully editable.
func CanEditField(state AssetState, field string) bool {
	if state == AssetStateDraft {
		return true
	}
	return editableFields[state][field]
}
