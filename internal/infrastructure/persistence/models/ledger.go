package models

import (
	"time"

	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalModel is the persistence model for the Journal aggregate root.
type JournalModel struct {
	TenantAggregateModel
	Code string             `gorm:"type:varchar(20);not null"`
	Name string             `gorm:"type:varchar(100);not null"`
	Type ledger.JournalType `gorm:"type:varchar(20);not null;default:'general'"`
}

// TableName returns the table name for GORM
func (JournalModel) TableName() string {
	return "journals"
}

// ToDomain converts the persistence model to a domain Journal
func (m *JournalModel) ToDomain() *ledger.Journal {
	return &ledger.Journal{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Type:                m.Type,
	}
}

// FromDomain populates the persistence model from a domain Journal
func (m *JournalModel) FromDomain(j *ledger.Journal) {
	m.FromDomainTenantAggregateRoot(j.TenantAggregateRoot)
	m.Code = j.Code
	m.Name = j.Name
	m.Type = j.Type
}

// JournalModelFromDomain creates a new persistence model from domain
func JournalModelFromDomain(j *ledger.Journal) *JournalModel {
	m := &JournalModel{}
	m.FromDomain(j)
	return m
}

// PeriodModel is the persistence model for the Period aggregate root.
type PeriodModel struct {
	TenantAggregateModel
	Code      string             `gorm:"type:varchar(20);not null"`
	Name      string             `gorm:"type:varchar(100);not null"`
	DateStart valueobject.Date   `gorm:"type:date;not null;index"`
	DateStop  valueobject.Date   `gorm:"type:date;not null;index"`
	Special   bool               `gorm:"not null;default:false"`
	State     ledger.PeriodState `gorm:"type:varchar(20);not null;default:'open';index"`
}

// TableName returns the table name for GORM
func (PeriodModel) TableName() string {
	return "periods"
}

// ToDomain converts the persistence model to a domain Period
func (m *PeriodModel) ToDomain() *ledger.Period {
	return &ledger.Period{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		DateStart:           m.DateStart,
		DateStop:            m.DateStop,
		Special:             m.Special,
		State:               m.State,
	}
}

// FromDomain populates the persistence model from a domain Period
func (m *PeriodModel) FromDomain(p *ledger.Period) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.DateStart = p.DateStart
	m.DateStop = p.DateStop
	m.Special = p.Special
	m.State = p.State
}

// PeriodModelFromDomain creates a new persistence model from domain
func PeriodModelFromDomain(p *ledger.Period) *PeriodModel {
	m := &PeriodModel{}
	m.FromDomain(p)
	return m
}

// MoveModel is the persistence model for a move header
type MoveModel struct {
	TenantAggregateModel
	Name      string           `gorm:"type:varchar(64);not null"`
	Ref       string           `gorm:"type:varchar(100);index"`
	JournalID uuid.UUID        `gorm:"type:uuid;not null;index"`
	PeriodID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Date      valueobject.Date `gorm:"type:date;not null"`
	State     ledger.MoveState `gorm:"type:varchar(20);not null;default:'draft'"`
	Lines     []MoveLineModel  `gorm:"foreignKey:MoveID;references:ID"`
}

// TableName returns the table name for GORM
func (MoveModel) TableName() string {
	return "moves"
}

// ToDomain converts the persistence model to a domain Move with its lines
func (m *MoveModel) ToDomain() *ledger.Move {
	move := &ledger.Move{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Ref:                 m.Ref,
		JournalID:           m.JournalID,
		PeriodID:            m.PeriodID,
		Date:                m.Date,
		State:               m.State,
		Lines:               make([]ledger.MoveLine, len(m.Lines)),
	}
	for i := range m.Lines {
		move.Lines[i] = m.Lines[i].ToDomain()
	}
	return move
}

// MoveModelFromDomain creates a header model from domain. Lines are mapped
// separately with MoveLineModelFromDomain.
func MoveModelFromDomain(move *ledger.Move) *MoveModel {
	m := &MoveModel{
		Name:      move.Name,
		Ref:       move.Ref,
		JournalID: move.JournalID,
		PeriodID:  move.PeriodID,
		Date:      move.Date,
		State:     move.State,
	}
	m.FromDomainTenantAggregateRoot(move.TenantAggregateRoot)
	return m
}

// MoveLineModel is the persistence model for a move line
type MoveLineModel struct {
	ID                uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	MoveID            uuid.UUID            `gorm:"type:uuid;not null;index"`
	Name              string               `gorm:"type:varchar(200)"`
	Ref               string               `gorm:"type:varchar(100)"`
	AccountID         uuid.UUID            `gorm:"type:uuid;not null;index:idx_move_line_asset_account,priority:2"`
	Debit             decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Credit            decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	AmountCurrency    decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	CurrencyCode      valueobject.Currency `gorm:"type:varchar(3)"`
	PartnerID         *uuid.UUID           `gorm:"type:uuid"`
	AnalyticAccountID *uuid.UUID           `gorm:"type:uuid"`
	JournalID         uuid.UUID            `gorm:"type:uuid;not null"`
	PeriodID          uuid.UUID            `gorm:"type:uuid;not null"`
	Date              valueobject.Date     `gorm:"type:date;not null"`
	AssetID           *uuid.UUID           `gorm:"type:uuid;index:idx_move_line_asset_account,priority:1"`
	CreatedAt         time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MoveLineModel) TableName() string {
	return "move_lines"
}

// ToDomain converts the persistence model to a domain MoveLine
func (m *MoveLineModel) ToDomain() ledger.MoveLine {
	return ledger.MoveLine{
		ID:                m.ID,
		MoveID:            m.MoveID,
		Name:              m.Name,
		Ref:               m.Ref,
		AccountID:         m.AccountID,
		Debit:             m.Debit,
		Credit:            m.Credit,
		AmountCurrency:    m.AmountCurrency,
		CurrencyCode:      m.CurrencyCode,
		PartnerID:         m.PartnerID,
		AnalyticAccountID: m.AnalyticAccountID,
		JournalID:         m.JournalID,
		PeriodID:          m.PeriodID,
		Date:              m.Date,
		AssetID:           m.AssetID,
	}
}

// MoveLineModelFromDomain creates a new persistence model from domain
func MoveLineModelFromDomain(tenantID uuid.UUID, l *ledger.MoveLine) *MoveLineModel {
	return &MoveLineModel{
		ID:                l.ID,
		TenantID:          tenantID,
		MoveID:            l.MoveID,
		Name:              l.Name,
		Ref:               l.Ref,
		AccountID:         l.AccountID,
		Debit:             l.Debit,
		Credit:            l.Credit,
		AmountCurrency:    l.AmountCurrency,
		CurrencyCode:      l.CurrencyCode,
		PartnerID:         l.PartnerID,
		AnalyticAccountID: l.AnalyticAccountID,
		JournalID:         l.JournalID,
		PeriodID:          l.PeriodID,
		Date:              l.Date,
		AssetID:           l.AssetID,
	}
}

// CurrencyRateModel is the persistence model for the CurrencyRate aggregate root.
type CurrencyRateModel struct {
	TenantAggregateModel
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null"`
	Rate          decimal.Decimal      `gorm:"type:decimal(18,6);not null"`
	EffectiveDate valueobject.Date     `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (CurrencyRateModel) TableName() string {
	return "currency_rates"
}

// ToDomain converts the persistence model to a domain CurrencyRate
func (m *CurrencyRateModel) ToDomain() *ledger.CurrencyRate {
	return &ledger.CurrencyRate{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Currency:            m.Currency,
		Rate:                m.Rate,
		EffectiveDate:       m.EffectiveDate,
	}
}

// FromDomain populates the persistence model from a domain CurrencyRate
func (m *CurrencyRateModel) FromDomain(r *ledger.CurrencyRate) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Currency = r.Currency
	m.Rate = r.Rate
	m.EffectiveDate = r.EffectiveDate
}

// CurrencyRateModelFromDomain creates a new persistence model from domain
func CurrencyRateModelFromDomain(r *ledger.CurrencyRate) *CurrencyRateModel {
	m := &CurrencyRateModel{}
	m.FromDomain(r)
	return m
}

// SequenceModel stores the last number handed out by a named per-tenant sequence
type SequenceModel struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"type:varchar(64);primaryKey"`
	Value    int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "asset_sequences"
}
