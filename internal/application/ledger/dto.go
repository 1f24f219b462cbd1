package ledger

import (
	"time"

	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateJournalRequest represents a request to create a journal
type CreateJournalRequest struct {
	Code string `json:"code" binding:"required,min=1,max=20"`
	Name string `json:"name" binding:"required,min=1,max=100"`
	Type string `json:"type" binding:"required,oneof=general purchase sale cash bank"`
}

// JournalResponse represents a journal in API responses
type JournalResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePeriodRequest represents a request to create an accounting period
type CreatePeriodRequest struct {
	Code      string           `json:"code" binding:"required,min=1,max=20"`
	Name      string           `json:"name" binding:"max=100"`
	DateStart valueobject.Date `json:"date_start"`
	DateStop  valueobject.Date `json:"date_stop"`
	Special   bool             `json:"special"`
}

// PeriodResponse represents a period in API responses
type PeriodResponse struct {
	ID        uuid.UUID        `json:"id"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	DateStart valueobject.Date `json:"date_start"`
	DateStop  valueobject.Date `json:"date_stop"`
	Special   bool             `json:"special"`
	State     string           `json:"state"`
}

// CreateCurrencyRateRequest represents a request to record a currency rate
type CreateCurrencyRateRequest struct {
	Currency      string           `json:"currency" binding:"required,len=3"`
	Rate          decimal.Decimal  `json:"rate"`
	EffectiveDate valueobject.Date `json:"effective_date"`
}

// CurrencyRateResponse represents a rate in API responses
type CurrencyRateResponse struct {
	ID            uuid.UUID        `json:"id"`
	Currency      string           `json:"currency"`
	Rate          decimal.Decimal  `json:"rate"`
	EffectiveDate valueobject.Date `json:"effective_date"`
}

// MoveLineResponse represents one side of a move
type MoveLineResponse struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Ref               string           `json:"ref"`
	AccountID         uuid.UUID        `json:"account_id"`
	Debit             decimal.Decimal  `json:"debit"`
	Credit            decimal.Decimal  `json:"credit"`
	AmountCurrency    decimal.Decimal  `json:"amount_currency"`
	Currency          string           `json:"currency,omitempty"`
	PartnerID         *uuid.UUID       `json:"partner_id,omitempty"`
	AnalyticAccountID *uuid.UUID       `json:"analytic_account_id,omitempty"`
	Date              valueobject.Date `json:"date"`
	AssetID           *uuid.UUID       `json:"asset_id,omitempty"`
}

// MoveResponse represents a move with its lines
type MoveResponse struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Ref       string             `json:"ref"`
	JournalID uuid.UUID          `json:"journal_id"`
	PeriodID  uuid.UUID          `json:"period_id"`
	Date      valueobject.Date   `json:"date"`
	State     string             `json:"state"`
	Lines     []MoveLineResponse `json:"lines"`
}

// ToJournalResponse converts a journal to its response
func ToJournalResponse(j *ledger.Journal) JournalResponse {
	return JournalResponse{
		ID:        j.ID,
		Code:      j.Code,
		Name:      j.Name,
		Type:      j.Type.String(),
		CreatedAt: j.CreatedAt,
	}
}

// ToPeriodResponse converts a period to its response
func ToPeriodResponse(p *ledger.Period) PeriodResponse {
	return PeriodResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		DateStart: p.DateStart,
		DateStop:  p.DateStop,
		Special:   p.Special,
		State:     string(p.State),
	}
}

// ToCurrencyRateResponse converts a rate to its response
func ToCurrencyRateResponse(r *ledger.CurrencyRate) CurrencyRateResponse {
	return CurrencyRateResponse{
		ID:            r.ID,
		Currency:      r.Currency.String(),
		Rate:          r.Rate,
		EffectiveDate: r.EffectiveDate,
	}
}

// ToMoveResponse converts a move to its response
func ToMoveResponse(m *ledger.Move) MoveResponse {
	lines := make([]MoveLineResponse, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = MoveLineResponse{
			ID:                l.ID,
			Name:              l.Name,
			Ref:               l.Ref,
			AccountID:         l.AccountID,
			Debit:             l.Debit,
			Credit:            l.Credit,
			AmountCurrency:    l.AmountCurrency,
			Currency:          l.CurrencyCode.String(),
			PartnerID:         l.PartnerID,
			AnalyticAccountID: l.AnalyticAccountID,
			Date:              l.Date,
			AssetID:           l.AssetID,
		}
	}
	return MoveResponse{
		ID:        m.ID,
		Name:      m.Name,
		Ref:       m.Ref,
		JournalID: m.JournalID,
		PeriodID:  m.PeriodID,
		Date:      m.Date,
		State:     string(m.State),
		Lines:     lines,
	}
}
