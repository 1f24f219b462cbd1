package asset

import (
	"testing"

	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testTenantID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func idPtr() *uuid.UUID {
	id := uuid.New()
	return &id
}

func newTestCategory(t *testing.T) *Category {
	t.Helper()
	c, err := NewCategory(testTenantID, "Computers")
	require.NoError(t, err)
	c.SetAccounts(Accounts{
		JournalID:                    idPtr(),
		AssetAccountID:               idPtr(),
		DepreciationAccountID:        idPtr(),
		ExpenseDepreciationAccountID: idPtr(),
	})
	return c
}

func linearParams(number, period int) DepreciationParams {
	return DepreciationParams{
		Method:       MethodLinear,
		MethodNumber: number,
		MethodPeriod: period,
		MethodTime:   MethodTimeNumber,
	}
}

func degressiveParams(number int, factor string) DepreciationParams {
	return DepreciationParams{
		Method:               MethodDegressive,
		MethodNumber:         number,
		MethodPeriod:         1,
		MethodTime:           MethodTimeNumber,
		MethodProgressFactor: decimal.RequireFromString(factor),
	}
}

func newTestAsset(t *testing.T, purchase, salvage string, purchaseDate string, params DepreciationParams) *Asset {
	t.Helper()
	a, err := NewAsset(testTenantID, NewAssetInput{
		Code:          "ASSET/2023/1",
		Name:          "Laptop",
		Category:      newTestCategory(t),
		Currency:      valueobject.USD,
		PurchaseValue: decimal.RequireFromString(purchase),
		SalvageValue:  decimal.RequireFromString(salvage),
		PurchaseDate:  valueobject.MustParseDate(purchaseDate),
		Params:        &params,
	})
	require.NoError(t, err)
	return a
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sumAmounts(lines []DepreciationLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
