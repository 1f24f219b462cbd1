package ledger

import (
	"context"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyService converts amounts between currencies using the tenant's
// rate table. Rates express units of a currency per unit of the company
// currency, so the company currency itself always has rate 1.
type CurrencyService struct {
	rateRepo ledger.CurrencyRateRepository
	company  valueobject.Currency
}

// NewCurrencyService creates a new CurrencyService
func NewCurrencyService(rateRepo ledger.CurrencyRateRepository, company valueobject.Currency) *CurrencyService {
	return &CurrencyService{rateRepo: rateRepo, company: company}
}

// CompanyCurrency returns the currency ledger amounts are kept in
func (s *CurrencyService) CompanyCurrency() valueobject.Currency {
	return s.company
}

// Convert converts amount from one currency to another at the rates
// effective on asOf, rounded to the target currency
func (s *CurrencyService) Convert(ctx context.Context, tenantID uuid.UUID, from, to valueobject.Currency, amount decimal.Decimal, asOf valueobject.Date) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	fromRate, err := s.rate(ctx, tenantID, from, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := s.rate(ctx, tenantID, to, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return to.Round(amount.Div(fromRate).Mul(toRate)), nil
}

// IsZero reports whether amount is zero at the currency precision
func (s *CurrencyService) IsZero(currency valueobject.Currency, amount decimal.Decimal) bool {
	return currency.IsZero(amount)
}

// Round rounds amount to the currency precision
func (s *CurrencyService) Round(currency valueobject.Currency, amount decimal.Decimal) decimal.Decimal {
	return currency.Round(amount)
}

func (s *CurrencyService) rate(ctx context.Context, tenantID uuid.UUID, currency valueobject.Currency, asOf valueobject.Date) (decimal.Decimal, error) {
	if currency == s.company {
		return decimal.NewFromInt(1), nil
	}
	r, err := s.rateRepo.FindEffective(ctx, tenantID, currency, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Rate, nil
}

var _ asset.CurrencyConverter = (*CurrencyService)(nil)
