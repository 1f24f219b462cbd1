package ledger

import (
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyRate is the number of units of Currency worth one unit of the
// company currency, effective from EffectiveDate until the next rate.
type CurrencyRate struct {
	shared.TenantAggregateRoot
	Currency      valueobject.Currency
	Rate          decimal.Decimal
	EffectiveDate valueobject.Date
}

// NewCurrencyRate creates a rate
func NewCurrencyRate(tenantID uuid.UUID, currency valueobject.Currency, rate decimal.Decimal, effective valueobject.Date) (*CurrencyRate, error) {
	if !currency.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_CURRENCY", "Invalid currency code %q", currency)
	}
	if !rate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "Currency rate must be positive")
	}
	if effective.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Currency rate effective date is required")
	}
	return &CurrencyRate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Currency:            currency,
		Rate:                rate,
		EffectiveDate:       effective,
	}, nil
}
