package ledger

import (
	"context"
	"testing"

	"github.com/erp/depreciation/internal/domain/ledger"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func rate(t *testing.T, tenantID uuid.UUID, currency string, value string) *ledger.CurrencyRate {
	t.Helper()
	r, err := ledger.NewCurrencyRate(tenantID, valueobject.Currency(currency), decimal.RequireFromString(value), valueobject.MustParseDate("2023-01-01"))
	require.NoError(t, err)
	return r
}

func TestCurrencyService_Convert(t *testing.T) {
	tenantID := uuid.New()
	asOf := valueobject.MustParseDate("2023-06-30")

	t.Run("same currency is returned as is", func(t *testing.T) {
		repo := new(MockCurrencyRateRepository)
		svc := NewCurrencyService(repo, "EUR")

		got, err := svc.Convert(context.Background(), tenantID, "USD", "USD", decimal.RequireFromString("10.005"), asOf)
		require.NoError(t, err)
		assert.Equal(t, "10.005", got.String())
		repo.AssertNotCalled(t, "FindEffective", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign to company divides by the rate", func(t *testing.T) {
		repo := new(MockCurrencyRateRepository)
		repo.On("FindEffective", mock.Anything, tenantID, valueobject.Currency("USD"), asOf).
			Return(rate(t, tenantID, "USD", "1.25"), nil)
		svc := NewCurrencyService(repo, "EUR")

		got, err := svc.Convert(context.Background(), tenantID, "USD", "EUR", decimal.NewFromInt(100), asOf)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(80).Equal(got), got.String())
	})

	t.Run("company to foreign multiplies and rounds", func(t *testing.T) {
		repo := new(MockCurrencyRateRepository)
		repo.On("FindEffective", mock.Anything, tenantID, valueobject.Currency("JPY"), asOf).
			Return(rate(t, tenantID, "JPY", "150.4"), nil)
		svc := NewCurrencyService(repo, "EUR")

		got, err := svc.Convert(context.Background(), tenantID, "EUR", "JPY", decimal.RequireFromString("10.01"), asOf)
		require.NoError(t, err)
		assert.Equal(t, "1506", got.String())
	})

	t.Run("missing rate propagates", func(t *testing.T) {
		repo := new(MockCurrencyRateRepository)
		repo.On("FindEffective", mock.Anything, tenantID, valueobject.Currency("USD"), asOf).
			Return(nil, ledger.ErrRateNotFound)
		svc := NewCurrencyService(repo, "EUR")

		_, err := svc.Convert(context.Background(), tenantID, "USD", "EUR", decimal.NewFromInt(1), asOf)
		assert.ErrorIs(t, err, ledger.ErrRateNotFound)
	})
}

func TestCurrencyService_IsZeroAndRound(t *testing.T) {
	svc := NewCurrencyService(new(MockCurrencyRateRepository), "EUR")

	assert.True(t, svc.IsZero("EUR", decimal.RequireFromString("0.004")))
	assert.False(t, svc.IsZero("EUR", decimal.RequireFromString("0.005")))
	assert.Equal(t, "1.23", svc.Round("EUR", decimal.RequireFromString("1.234")).String())
	assert.Equal(t, valueobject.Currency("EUR"), svc.CompanyCurrency())
}
