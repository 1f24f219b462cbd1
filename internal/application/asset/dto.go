package asset

import (
	"time"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParamsInput carries depreciation parameters. Nil fields keep the current value.
type ParamsInput struct {
	Method               *string           `json:"method" binding:"omitempty,depmethod"`
	MethodNumber         *int              `json:"method_number" binding:"omitempty,min=0"`
	MethodPeriod         *int              `json:"method_period" binding:"omitempty,min=1"`
	MethodTime           *string           `json:"method_time" binding:"omitempty,methodtime"`
	MethodEnd            *valueobject.Date `json:"method_end"`
	MethodProgressFactor *decimal.Decimal  `json:"method_progress_factor"`
	Prorata              *bool             `json:"prorata"`
}

// IsEmpty reports whether no parameter is set
func (p *ParamsInput) IsEmpty() bool {
	return p == nil || (p.Method == nil && p.MethodNumber == nil && p.MethodPeriod == nil &&
		p.MethodTime == nil && p.MethodEnd == nil && p.MethodProgressFactor == nil && p.Prorata == nil)
}

// ApplyTo returns base with the set fields replaced
func (p *ParamsInput) ApplyTo(base asset.DepreciationParams) asset.DepreciationParams {
	if p == nil {
		return base
	}
	if p.Method != nil {
		base.Method = asset.Method(*p.Method)
	}
	if p.MethodNumber != nil {
		base.MethodNumber = *p.MethodNumber
	}
	if p.MethodPeriod != nil {
		base.MethodPeriod = *p.MethodPeriod
	}
	if p.MethodTime != nil {
		base.MethodTime = asset.MethodTime(*p.MethodTime)
	}
	if p.MethodEnd != nil {
		base.MethodEnd = *p.MethodEnd
	}
	if p.MethodProgressFactor != nil {
		base.MethodProgressFactor = *p.MethodProgressFactor
	}
	if p.Prorata != nil {
		base.Prorata = *p.Prorata
	}
	return base
}

// AccountsInput carries ledger references
type AccountsInput struct {
	JournalID                    *uuid.UUID `json:"journal_id"`
	AssetAccountID               *uuid.UUID `json:"account_asset_id"`
	DepreciationAccountID        *uuid.UUID `json:"account_depreciation_id"`
	ExpenseDepreciationAccountID *uuid.UUID `json:"account_expense_depreciation_id"`
	RevaluationAccountID         *uuid.UUID `json:"account_revaluation_id"`
	AnalyticAccountID            *uuid.UUID `json:"account_analytic_id"`
}

// ToDomain converts the input to domain accounts
func (a AccountsInput) ToDomain() asset.Accounts {
	return asset.Accounts{
		JournalID:                    a.JournalID,
		AssetAccountID:               a.AssetAccountID,
		DepreciationAccountID:        a.DepreciationAccountID,
		ExpenseDepreciationAccountID: a.ExpenseDepreciationAccountID,
		RevaluationAccountID:         a.RevaluationAccountID,
		AnalyticAccountID:            a.AnalyticAccountID,
	}
}

// AccountsResponse represents ledger references in API responses
type AccountsResponse struct {
	JournalID                    *uuid.UUID `json:"journal_id"`
	AssetAccountID               *uuid.UUID `json:"account_asset_id"`
	DepreciationAccountID        *uuid.UUID `json:"account_depreciation_id"`
	ExpenseDepreciationAccountID *uuid.UUID `json:"account_expense_depreciation_id"`
	RevaluationAccountID         *uuid.UUID `json:"account_revaluation_id"`
	AnalyticAccountID            *uuid.UUID `json:"account_analytic_id"`
}

func toAccountsResponse(a asset.Accounts) AccountsResponse {
	return AccountsResponse(a)
}

// ParamsResponse represents depreciation parameters in API responses
type ParamsResponse struct {
	Method               string           `json:"method"`
	MethodNumber         int              `json:"method_number"`
	MethodPeriod         int              `json:"method_period"`
	MethodTime           string           `json:"method_time"`
	MethodEnd            valueobject.Date `json:"method_end"`
	MethodProgressFactor decimal.Decimal  `json:"method_progress_factor"`
	Prorata              bool             `json:"prorata"`
}

func toParamsResponse(p asset.DepreciationParams) ParamsResponse {
	return ParamsResponse{
		Method:               string(p.Method),
		MethodNumber:         p.MethodNumber,
		MethodPeriod:         p.MethodPeriod,
		MethodTime:           string(p.MethodTime),
		MethodEnd:            p.MethodEnd,
		MethodProgressFactor: p.MethodProgressFactor,
		Prorata:              p.Prorata,
	}
}

// CreateCategoryRequest represents a request to create an asset category
type CreateCategoryRequest struct {
	Name      string        `json:"name" binding:"required,min=1,max=100"`
	Type      string        `json:"type" binding:"omitempty,oneof=view normal"`
	ParentID  *uuid.UUID    `json:"parent_id"`
	Note      string        `json:"note" binding:"max=2000"`
	OpenAsset bool          `json:"open_asset"`
	Params    *ParamsInput  `json:"params"`
	Accounts  AccountsInput `json:"accounts"`
}

// UpdateCategoryRequest represents a request to update an asset category
type UpdateCategoryRequest struct {
	Name      *string        `json:"name" binding:"omitempty,min=1,max=100"`
	ParentID  *uuid.UUID     `json:"parent_id"`
	Note      *string        `json:"note" binding:"omitempty,max=2000"`
	OpenAsset *bool          `json:"open_asset"`
	Params    *ParamsInput   `json:"params"`
	Accounts  *AccountsInput `json:"accounts"`
}

// CategoryResponse represents an asset category in API responses
type CategoryResponse struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	CompleteName string           `json:"complete_name"`
	Type         string           `json:"type"`
	ParentID     *uuid.UUID       `json:"parent_id,omitempty"`
	Note         string           `json:"note"`
	OpenAsset    bool             `json:"open_asset"`
	Params       ParamsResponse   `json:"params"`
	Accounts     AccountsResponse `json:"accounts"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ToCategoryResponse converts a category; parents resolves the complete name
func ToCategoryResponse(c *asset.Category, parents map[uuid.UUID]*asset.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		CompleteName: asset.CompleteName(c, parents),
		Type:         string(c.Type),
		ParentID:     c.ParentID,
		Note:         c.Note,
		OpenAsset:    c.OpenAsset,
		Params:       toParamsResponse(c.DepreciationParams),
		Accounts:     toAccountsResponse(c.Accounts),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// CreateAssetRequest represents a request to create an asset. Parameters and
// accounts left empty are taken from the category.
type CreateAssetRequest struct {
	Code          string           `json:"code" binding:"max=32"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	CategoryID    uuid.UUID        `json:"category_id" binding:"required"`
	ParentID      *uuid.UUID       `json:"parent_id"`
	PartnerID     *uuid.UUID       `json:"partner_id"`
	Currency      string           `json:"currency" binding:"omitempty,len=3"`
	PurchaseValue decimal.Decimal  `json:"purchase_value"`
	SalvageValue  decimal.Decimal  `json:"salvage_value"`
	PurchaseDate  valueobject.Date `json:"purchase_date"`
	Valuation     string           `json:"valuation" binding:"omitempty,oneof=auto manual"`
	Note          string           `json:"note" binding:"max=2000"`
	Params        *ParamsInput     `json:"params"`
	Accounts      AccountsInput    `json:"accounts"`
}

// UpdateAssetRequest represents a request to update an asset. Which fields
// may change depends on the asset state.
type UpdateAssetRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Code              *string          `json:"code" binding:"omitempty,max=32"`
	Note              *string          `json:"note" binding:"omitempty,max=2000"`
	PartnerID         *uuid.UUID       `json:"partner_id"`
	AnalyticAccountID *uuid.UUID       `json:"account_analytic_id"`
	ParentID          *uuid.UUID       `json:"parent_id"`
	ClearParent       bool             `json:"clear_parent"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	PurchaseValue     *decimal.Decimal `json:"purchase_value"`
	SalvageValue      *decimal.Decimal `json:"salvage_value"`
	Params            *ParamsInput     `json:"params"`
	// HistoryName and HistoryNote label the history entry recorded when the
	// parameters of a non-draft asset change
	HistoryName string `json:"history_name" binding:"max=100"`
	HistoryNote string `json:"history_note" binding:"max=2000"`
	// User is set by the handler from the request headers
	User string `json:"-"`
}

// ModifyDepreciationRequest changes the time parameters of an asset and
// records the change in its history
type ModifyDepreciationRequest struct {
	Name         string            `json:"name" binding:"required,min=1,max=100"`
	MethodTime   *string           `json:"method_time" binding:"omitempty,methodtime"`
	MethodNumber *int              `json:"method_number" binding:"omitempty,min=1"`
	MethodPeriod *int              `json:"method_period" binding:"omitempty,min=1"`
	MethodEnd    *valueobject.Date `json:"method_end"`
	Note         string            `json:"note" binding:"max=2000"`
	User         string            `json:"-"`
}

// AssetResponse represents an asset in API responses
type AssetResponse struct {
	ID            uuid.UUID         `json:"id"`
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	DisplayName   string            `json:"display_name"`
	CategoryID    uuid.UUID         `json:"category_id"`
	ParentID      *uuid.UUID        `json:"parent_id,omitempty"`
	PartnerID     *uuid.UUID        `json:"partner_id,omitempty"`
	Currency      string            `json:"currency"`
	PurchaseValue decimal.Decimal   `json:"purchase_value"`
	SalvageValue  decimal.Decimal   `json:"salvage_value"`
	ValueResidual *decimal.Decimal  `json:"value_residual,omitempty"`
	PurchaseDate  valueobject.Date  `json:"purchase_date"`
	Valuation     string            `json:"valuation"`
	State         string            `json:"state"`
	Active        bool              `json:"active"`
	Note          string            `json:"note"`
	EntryCount    *int64            `json:"entry_count,omitempty"`
	Children      []uuid.UUID       `json:"children,omitempty"`
	Params        ParamsResponse    `json:"params"`
	Accounts      AccountsResponse  `json:"accounts"`
	Version       int               `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Lines         []LineResponse    `json:"lines,omitempty"`
	History       []HistoryResponse `json:"history,omitempty"`
}

// ToAssetResponse converts an asset without derived values
func ToAssetResponse(a *asset.Asset) AssetResponse {
	return AssetResponse{
		ID:            a.ID,
		Code:          a.Code,
		Name:          a.Name,
		DisplayName:   a.DisplayName(),
		CategoryID:    a.CategoryID,
		ParentID:      a.ParentID,
		PartnerID:     a.PartnerID,
		Currency:      string(a.Currency),
		PurchaseValue: a.PurchaseValue,
		SalvageValue:  a.SalvageValue,
		PurchaseDate:  a.PurchaseDate,
		Valuation:     string(a.Valuation),
		State:         string(a.State),
		Active:        a.Active,
		Note:          a.Note,
		Params:        toParamsResponse(a.DepreciationParams),
		Accounts:      toAccountsResponse(a.Accounts),
		Version:       a.GetVersion(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToAssetResponses converts a slice of assets
func ToAssetResponses(assets []asset.Asset) []AssetResponse {
	out := make([]AssetResponse, len(assets))
	for i := range assets {
		out[i] = ToAssetResponse(&assets[i])
	}
	return out
}

// LineResponse represents a depreciation line in API responses
type LineResponse struct {
	ID               uuid.UUID        `json:"id"`
	AssetID          uuid.UUID        `json:"asset_id"`
	Name             string           `json:"name"`
	Sequence         int              `json:"sequence"`
	Amount           decimal.Decimal  `json:"amount"`
	RemainingValue   decimal.Decimal  `json:"remaining_value"`
	DepreciatedValue decimal.Decimal  `json:"depreciated_value"`
	DepreciationDate valueobject.Date `json:"depreciation_date"`
	State            string           `json:"state"`
	MoveID           *uuid.UUID       `json:"move_id,omitempty"`
	PeriodID         *uuid.UUID       `json:"period_id,omitempty"`
}

// ToLineResponse converts a depreciation line
func ToLineResponse(l *asset.DepreciationLine) LineResponse {
	return LineResponse{
		ID:               l.ID,
		AssetID:          l.AssetID,
		Name:             l.Name,
		Sequence:         l.Sequence,
		Amount:           l.Amount,
		RemainingValue:   l.RemainingValue,
		DepreciatedValue: l.DepreciatedValue,
		DepreciationDate: l.DepreciationDate,
		State:            string(l.State),
		MoveID:           l.MoveID,
		PeriodID:         l.PeriodID,
	}
}

// ToLineResponses converts a slice of lines, keeping their order
func ToLineResponses(lines []asset.DepreciationLine) []LineResponse {
	out := make([]LineResponse, len(lines))
	for i := range lines {
		out[i] = ToLineResponse(&lines[i])
	}
	return out
}

// HistoryResponse represents an asset history entry in API responses
type HistoryResponse struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	User         string           `json:"user"`
	Date         valueobject.Date `json:"date"`
	MethodTime   string           `json:"method_time"`
	MethodNumber int              `json:"method_number"`
	MethodPeriod int              `json:"method_period"`
	MethodEnd    valueobject.Date `json:"method_end"`
	Note         string           `json:"note"`
}

// ToHistoryResponse converts a history entry
func ToHistoryResponse(h *asset.History) HistoryResponse {
	return HistoryResponse{
		ID:           h.ID,
		Name:         h.Name,
		User:         h.User,
		Date:         h.Date,
		MethodTime:   string(h.MethodTime),
		MethodNumber: h.MethodNumber,
		MethodPeriod: h.MethodPeriod,
		MethodEnd:    h.MethodEnd,
		Note:         h.Note,
	}
}

// ResidualResponse is the residual value of an asset in its own currency
type ResidualResponse struct {
	AssetID       uuid.UUID         `json:"asset_id"`
	PurchaseValue decimal.Decimal   `json:"purchase_value"`
	SalvageValue  decimal.Decimal   `json:"salvage_value"`
	Depreciated   decimal.Decimal   `json:"depreciated"`
	Residual      valueobject.Money `json:"residual"`
	FullyDepr     bool              `json:"fully_depreciated"`
}

// BoardResponse is the result of a depreciation board computation
type BoardResponse struct {
	AssetID       uuid.UUID        `json:"asset_id"`
	ValueResidual decimal.Decimal  `json:"value_residual"`
	Anchor        valueobject.Date `json:"anchor"`
	PostedLines   int              `json:"posted_lines"`
	DraftLines    int              `json:"draft_lines"`
	Lines         []LineResponse   `json:"lines"`
}

// PostLinesRequest represents a request to post depreciation lines
type PostLinesRequest struct {
	LineIDs []uuid.UUID `json:"line_ids" binding:"required,min=1,dive,required"`
	// Date overrides the depreciation date of every line
	Date *valueobject.Date `json:"date"`
}

// PostLinesResult summarises a posting batch
type PostLinesResult struct {
	MoveIDs      []uuid.UUID `json:"move_ids"`
	Posted       int         `json:"posted"`
	Skipped      int         `json:"skipped"`
	ClosedAssets []uuid.UUID `json:"closed_assets"`
}

// ComputeEntriesRequest restricts period posting to one category
type ComputeEntriesRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
}

// EditableFieldsResponse lists which fields the presentation layer may edit
type EditableFieldsResponse struct {
	State  string          `json:"state"`
	Fields map[string]bool `json:"fields"`
}

// editableFieldNames are the fields reported by EditableFields
var editableFieldNames = []string{
	"name", "code", "note", "partner_id", "analytic_account_id", "category_id",
	"currency", "purchase_value", "salvage_value", "purchase_date", "method",
	"method_number", "method_period", "method_time", "method_end",
	"method_progress_factor", "prorata", "parent_id",
}

// NewEditableFieldsResponse evaluates the editable fields for a state
func NewEditableFieldsResponse(state asset.AssetState) EditableFieldsResponse {
	fields := make(map[string]bool, len(editableFieldNames))
	for _, f := range editableFieldNames {
		fields[f] = asset.CanEditField(state, f)
	}
	return EditableFieldsResponse{State: string(state), Fields: fields}
}
