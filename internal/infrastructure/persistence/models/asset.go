package models

import (
	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepreciationParamsModel holds the schedule parameters shared by categories and assets.
// It is embedded, so its columns live on the owning table.
type DepreciationParamsModel struct {
	Method               asset.Method     `gorm:"type:varchar(20);not null;default:'linear'"`
	MethodNumber         int              `gorm:"not null;default:0"`
	MethodPeriod         int              `gorm:"not null;default:1"`
	MethodTime           asset.MethodTime `gorm:"type:varchar(20);not null;default:'number'"`
	MethodEnd            valueobject.Date `gorm:"type:date"`
	MethodProgressFactor decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Prorata              bool             `gorm:"not null;default:false"`
}

func (m DepreciationParamsModel) toDomain() asset.DepreciationParams {
	return asset.DepreciationParams{
		Method:               m.Method,
		MethodNumber:         m.MethodNumber,
		MethodPeriod:         m.MethodPeriod,
		MethodTime:           m.MethodTime,
		MethodEnd:            m.MethodEnd,
		MethodProgressFactor: m.MethodProgressFactor,
		Prorata:              m.Prorata,
	}
}

func depreciationParamsFromDomain(p asset.DepreciationParams) DepreciationParamsModel {
	return DepreciationParamsModel{
		Method:               p.Method,
		MethodNumber:         p.MethodNumber,
		MethodPeriod:         p.MethodPeriod,
		MethodTime:           p.MethodTime,
		MethodEnd:            p.MethodEnd,
		MethodProgressFactor: p.MethodProgressFactor,
		Prorata:              p.Prorata,
	}
}

// AccountsModel holds the ledger references used when posting depreciation
type AccountsModel struct {
	JournalID                    *uuid.UUID `gorm:"type:uuid"`
	AssetAccountID               *uuid.UUID `gorm:"type:uuid"`
	DepreciationAccountID        *uuid.UUID `gorm:"type:uuid"`
	ExpenseDepreciationAccountID *uuid.UUID `gorm:"type:uuid"`
	RevaluationAccountID         *uuid.UUID `gorm:"type:uuid"`
	AnalyticAccountID            *uuid.UUID `gorm:"type:uuid"`
}

func (m AccountsModel) toDomain() asset.Accounts {
	return asset.Accounts{
		JournalID:                    m.JournalID,
		AssetAccountID:               m.AssetAccountID,
		DepreciationAccountID:        m.DepreciationAccountID,
		ExpenseDepreciationAccountID: m.ExpenseDepreciationAccountID,
		RevaluationAccountID:         m.RevaluationAccountID,
		AnalyticAccountID:            m.AnalyticAccountID,
	}
}

func accountsFromDomain(a asset.Accounts) AccountsModel {
	return AccountsModel{
		JournalID:                    a.JournalID,
		AssetAccountID:               a.AssetAccountID,
		DepreciationAccountID:        a.DepreciationAccountID,
		ExpenseDepreciationAccountID: a.ExpenseDepreciationAccountID,
		RevaluationAccountID:         a.RevaluationAccountID,
		AnalyticAccountID:            a.AnalyticAccountID,
	}
}

// AssetCategoryModel is the persistence model for the Category aggregate root.
type AssetCategoryModel struct {
	TenantAggregateModel
	Name      string             `gorm:"type:varchar(200);not null"`
	Type      asset.CategoryType `gorm:"type:varchar(20);not null;default:'normal'"`
	ParentID  *uuid.UUID         `gorm:"type:uuid;index"`
	Note      string             `gorm:"type:text"`
	OpenAsset bool               `gorm:"not null;default:false"`
	DepreciationParamsModel
	AccountsModel
}

// TableName returns the table name for GORM
func (AssetCategoryModel) TableName() string {
	return "asset_categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *AssetCategoryModel) ToDomain() *asset.Category {
	return &asset.Category{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Type:                m.Type,
		ParentID:            m.ParentID,
		Note:                m.Note,
		OpenAsset:           m.OpenAsset,
		DepreciationParams:  m.DepreciationParamsModel.toDomain(),
		Accounts:            m.AccountsModel.toDomain(),
	}
}

// FromDomain populates the persistence model from a domain Category
func (m *AssetCategoryModel) FromDomain(c *asset.Category) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Type = c.Type
	m.ParentID = c.ParentID
	m.Note = c.Note
	m.OpenAsset = c.OpenAsset
	m.DepreciationParamsModel = depreciationParamsFromDomain(c.DepreciationParams)
	m.AccountsModel = accountsFromDomain(c.Accounts)
}

// AssetCategoryModelFromDomain creates a new persistence model from domain
func AssetCategoryModelFromDomain(c *asset.Category) *AssetCategoryModel {
	m := &AssetCategoryModel{}
	m.FromDomain(c)
	return m
}

// AssetModel is the persistence model for the Asset aggregate root.
// The residual value has no column: it is derived from ledger activity.
type AssetModel struct {
	TenantAggregateModel
	Code          string               `gorm:"type:varchar(50);not null"`
	Name          string               `gorm:"type:varchar(200);not null"`
	CategoryID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	ParentID      *uuid.UUID           `gorm:"type:uuid;index"`
	PartnerID     *uuid.UUID           `gorm:"type:uuid"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null"`
	PurchaseValue decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	SalvageValue  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	PurchaseDate  valueobject.Date     `gorm:"type:date;not null"`
	Valuation     asset.Valuation      `gorm:"type:varchar(20);not null;default:'auto'"`
	State         asset.AssetState     `gorm:"type:varchar(20);not null;default:'draft';index"`
	Active        bool                 `gorm:"not null;default:true"`
	Note          string               `gorm:"type:text"`
	DepreciationParamsModel
	AccountsModel
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the persistence model to a domain Asset
func (m *AssetModel) ToDomain() *asset.Asset {
	return &asset.Asset{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		CategoryID:          m.CategoryID,
		ParentID:            m.ParentID,
		PartnerID:           m.PartnerID,
		Currency:            m.Currency,
		PurchaseValue:       m.PurchaseValue,
		SalvageValue:        m.SalvageValue,
		PurchaseDate:        m.PurchaseDate,
		Valuation:           m.Valuation,
		State:               m.State,
		Active:              m.Active,
		Note:                m.Note,
		DepreciationParams:  m.DepreciationParamsModel.toDomain(),
		Accounts:            m.AccountsModel.toDomain(),
	}
}

// FromDomain populates the persistence model from a domain Asset
func (m *AssetModel) FromDomain(a *asset.Asset) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
	m.CategoryID = a.CategoryID
	m.ParentID = a.ParentID
	m.PartnerID = a.PartnerID
	m.Currency = a.Currency
	m.PurchaseValue = a.PurchaseValue
	m.SalvageValue = a.SalvageValue
	m.PurchaseDate = a.PurchaseDate
	m.Valuation = a.Valuation
	m.State = a.State
	m.Active = a.Active
	m.Note = a.Note
	m.DepreciationParamsModel = depreciationParamsFromDomain(a.DepreciationParams)
	m.AccountsModel = accountsFromDomain(a.Accounts)
}

// AssetModelFromDomain creates a new persistence model from domain
func AssetModelFromDomain(a *asset.Asset) *AssetModel {
	m := &AssetModel{}
	m.FromDomain(a)
	return m
}

// DepreciationLineModel is the persistence model for a depreciation line
type DepreciationLineModel struct {
	TenantModel
	AssetID          uuid.UUID        `gorm:"type:uuid;not null;index:idx_depreciation_line_asset_date,priority:1"`
	Name             string           `gorm:"type:varchar(100)"`
	Sequence         int              `gorm:"not null"`
	Amount           decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	RemainingValue   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DepreciatedValue decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DepreciationDate valueobject.Date `gorm:"type:date;not null;index:idx_depreciation_line_asset_date,priority:2"`
	State            asset.LineState  `gorm:"type:varchar(20);not null;default:'draft';index"`
	MoveID           *uuid.UUID       `gorm:"type:uuid;index"`
	PeriodID         *uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (DepreciationLineModel) TableName() string {
	return "depreciation_lines"
}

// ToDomain converts the persistence model to a domain DepreciationLine
func (m *DepreciationLineModel) ToDomain() asset.DepreciationLine {
	return asset.DepreciationLine{
		BaseEntity:       m.BaseModel.ToDomain(),
		TenantID:         m.TenantID,
		AssetID:          m.AssetID,
		Name:             m.Name,
		Sequence:         m.Sequence,
		Amount:           m.Amount,
		RemainingValue:   m.RemainingValue,
		DepreciatedValue: m.DepreciatedValue,
		DepreciationDate: m.DepreciationDate,
		State:            m.State,
		MoveID:           m.MoveID,
		PeriodID:         m.PeriodID,
	}
}

// DepreciationLineModelFromDomain creates a new persistence model from domain
func DepreciationLineModelFromDomain(l *asset.DepreciationLine) *DepreciationLineModel {
	m := &DepreciationLineModel{
		AssetID:          l.AssetID,
		Name:             l.Name,
		Sequence:         l.Sequence,
		Amount:           l.Amount,
		RemainingValue:   l.RemainingValue,
		DepreciatedValue: l.DepreciatedValue,
		DepreciationDate: l.DepreciationDate,
		State:            l.State,
		MoveID:           l.MoveID,
		PeriodID:         l.PeriodID,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	m.TenantID = l.TenantID
	return m
}

// AssetHistoryModel is the persistence model for an asset history entry
type AssetHistoryModel struct {
	TenantModel
	AssetID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name         string           `gorm:"type:varchar(200)"`
	User         string           `gorm:"column:user_name;type:varchar(100)"`
	Date         valueobject.Date `gorm:"type:date;not null"`
	MethodTime   asset.MethodTime `gorm:"type:varchar(20)"`
	MethodNumber int
	MethodPeriod int
	MethodEnd    valueobject.Date `gorm:"type:date"`
	Note         string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AssetHistoryModel) TableName() string {
	return "asset_history"
}

// ToDomain converts the persistence model to a domain History entry
func (m *AssetHistoryModel) ToDomain() asset.History {
	return asset.History{
		BaseEntity:   m.BaseModel.ToDomain(),
		TenantID:     m.TenantID,
		AssetID:      m.AssetID,
		Name:         m.Name,
		User:         m.User,
		Date:         m.Date,
		MethodTime:   m.MethodTime,
		MethodNumber: m.MethodNumber,
		MethodPeriod: m.MethodPeriod,
		MethodEnd:    m.MethodEnd,
		Note:         m.Note,
	}
}

// AssetHistoryModelFromDomain creates a new persistence model from domain
func AssetHistoryModelFromDomain(h *asset.History) *AssetHistoryModel {
	m := &AssetHistoryModel{
		AssetID:      h.AssetID,
		Name:         h.Name,
		User:         h.User,
		Date:         h.Date,
		MethodTime:   h.MethodTime,
		MethodNumber: h.MethodNumber,
		MethodPeriod: h.MethodPeriod,
		MethodEnd:    h.MethodEnd,
		Note:         h.Note,
	}
	m.FromDomainBaseEntity(h.BaseEntity)
	m.TenantID = h.TenantID
	return m
}
