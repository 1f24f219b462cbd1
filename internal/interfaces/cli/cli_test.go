package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	appasset "github.com/erp/depreciation/internal/application/asset"
	ledgerapp "github.com/erp/depreciation/internal/application/ledger"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	tenantID   uuid.UUID
	periodID   uuid.UUID
	categoryID *uuid.UUID
	moveIDs    []uuid.UUID
	err        error
}

func (f *fakePoster) ComputeEntriesForPeriod(_ context.Context, tenantID, periodID uuid.UUID, categoryID *uuid.UUID) ([]uuid.UUID, error) {
	f.tenantID, f.periodID, f.categoryID = tenantID, periodID, categoryID
	return f.moveIDs, f.err
}

type fakeResidual struct {
	resp *appasset.ResidualResponse
	err  error
}

func (f *fakeResidual) Residual(_ context.Context, _, _ uuid.UUID) (*appasset.ResidualResponse, error) {
	return f.resp, f.err
}

func execute(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test", open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func openWith(svc *Services) (Opener, *int) {
	released := 0
	return func(context.Context, string) (*Services, func(), error) {
		return svc, func() { released++ }, nil
	}, &released
}

func TestPreview(t *testing.T) {
	t.Run("linear board as json", func(t *testing.T) {
		out, err := execute(t, nil, "preview",
			"--value", "1200", "--date", "2024-01-01",
			"--method", "linear", "--number", "12", "--period", "1",
			"-o", "json")
		require.NoError(t, err)

		var lines []previewLine
		require.NoError(t, json.Unmarshal([]byte(out), &lines))
		require.Len(t, lines, 12)
		total := decimal.Zero
		for _, l := range lines {
			assert.True(t, l.Amount.Equal(decimal.NewFromInt(100)), "line %d amount %s", l.Sequence, l.Amount)
			total = total.Add(l.Amount)
		}
		assert.True(t, total.Equal(decimal.NewFromInt(1200)))
		assert.Equal(t, "PREVIEW/1", lines[0].Name)
		assert.Equal(t, "2024-01-01", lines[0].DepreciationDate.String())
		assert.Equal(t, "2024-12-01", lines[11].DepreciationDate.String())
		assert.True(t, lines[11].RemainingValue.IsZero())
	})

	t.Run("table output", func(t *testing.T) {
		out, err := execute(t, nil, "preview", "--value", "300", "--date", "2024-03-15",
			"--method", "linear", "--number", "3")
		require.NoError(t, err)
		assert.Contains(t, out, "Total")
		assert.Contains(t, out, "300.00")
		assert.Contains(t, out, "2024-03-01")
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
		}{
			{"missing value", []string{"preview", "--date", "2024-01-01"}},
			{"bad value", []string{"preview", "--value", "abc", "--date", "2024-01-01"}},
			{"bad date", []string{"preview", "--value", "100", "--date", "2023-02-29"}},
			{"unknown method", []string{"preview", "--value", "100", "--date", "2024-01-01", "--method", "sum-of-years"}},
			{"zero periods", []string{"preview", "--value", "100", "--date", "2024-01-01", "--number", "0"}},
			{"bad output", []string{"preview", "--value", "100", "--date", "2024-01-01", "-o", "xml"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := execute(t, nil, tt.args...)
				assert.Error(t, err)
			})
		}
	})
}

func TestPostPeriod(t *testing.T) {
	tenantID := uuid.New()
	periodID := uuid.New()
	categoryID := uuid.New()

	t.Run("posts with explicit tenant and category", func(t *testing.T) {
		poster := &fakePoster{moveIDs: []uuid.UUID{uuid.New(), uuid.New()}}
		open, released := openWith(&Services{Poster: poster})

		out, err := execute(t, open, "post-period", periodID.String(),
			"--tenant", tenantID.String(), "--category", categoryID.String(), "-o", "json")
		require.NoError(t, err)

		var res postPeriodResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, 2, res.Count)
		assert.Equal(t, periodID, res.PeriodID)
		assert.Equal(t, tenantID, poster.tenantID)
		require.NotNil(t, poster.categoryID)
		assert.Equal(t, categoryID, *poster.categoryID)
		assert.Equal(t, 1, *released)
	})

	t.Run("falls back to default tenant", func(t *testing.T) {
		poster := &fakePoster{}
		open, _ := openWith(&Services{Poster: poster, DefaultTenantID: tenantID})

		out, err := execute(t, open, "post-period", periodID.String())
		require.NoError(t, err)
		assert.Contains(t, out, "Posted 0 move(s)")
		assert.Equal(t, tenantID, poster.tenantID)
		assert.Nil(t, poster.categoryID)
	})

	t.Run("requires a tenant", func(t *testing.T) {
		open, _ := openWith(&Services{Poster: &fakePoster{}})
		_, err := execute(t, open, "post-period", periodID.String())
		assert.ErrorContains(t, err, "--tenant is required")
	})

	t.Run("invalid period id", func(t *testing.T) {
		_, err := execute(t, nil, "post-period", "not-a-uuid")
		assert.ErrorContains(t, err, "invalid period id")
	})

	t.Run("service error", func(t *testing.T) {
		open, released := openWith(&Services{Poster: &fakePoster{err: errors.New("period closed")}, DefaultTenantID: tenantID})
		_, err := execute(t, open, "post-period", periodID.String())
		assert.ErrorContains(t, err, "period closed")
		assert.Equal(t, 1, *released)
	})

	t.Run("no database", func(t *testing.T) {
		_, err := execute(t, nil, "post-period", periodID.String())
		assert.ErrorContains(t, err, "no database configured")
	})
}

func TestResidual(t *testing.T) {
	tenantID := uuid.New()
	assetID := uuid.New()
	residual, err := valueobject.NewMoney(decimal.NewFromInt(400), valueobject.Currency("EUR"))
	require.NoError(t, err)

	reader := &fakeResidual{resp: &appasset.ResidualResponse{
		AssetID:       assetID,
		PurchaseValue: decimal.NewFromInt(1000),
		SalvageValue:  decimal.NewFromInt(100),
		Depreciated:   decimal.NewFromInt(500),
		Residual:      residual,
	}}
	open, _ := openWith(&Services{Residual: reader, DefaultTenantID: tenantID})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, open, "residual", assetID.String())
		require.NoError(t, err)
		assert.Contains(t, out, assetID.String())
		assert.Contains(t, out, "1000.00")
		assert.Contains(t, out, "400.00 EUR")
		assert.Contains(t, out, "false")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, open, "residual", assetID.String(), "-o", "json")
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &body))
		assert.Equal(t, assetID.String(), body["asset_id"])
		money, ok := body["residual"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "400", money["amount"])
		assert.Equal(t, "EUR", money["currency"])
	})

	t.Run("service error", func(t *testing.T) {
		failing, _ := openWith(&Services{Residual: &fakeResidual{err: errors.New("not found")}, DefaultTenantID: tenantID})
		_, err := execute(t, failing, "residual", assetID.String())
		assert.ErrorContains(t, err, "not found")
	})
}

type fakeRates struct {
	created []ledgerapp.CreateCurrencyRateRequest
	err     error
}

func (f *fakeRates) CreateCurrencyRate(_ context.Context, _ uuid.UUID, req ledgerapp.CreateCurrencyRateRequest) (*ledgerapp.CurrencyRateResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &ledgerapp.CurrencyRateResponse{ID: uuid.New(), Currency: req.Currency, Rate: req.Rate, EffectiveDate: req.EffectiveDate}, nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportRates(t *testing.T) {
	tenantID := uuid.New()
	valid := writeFile(t, "currency,rate,effective_date\nUSD,1.08,2024-01-01\nGBP,0.86,2024-01-01\n")

	t.Run("imports every row", func(t *testing.T) {
		rates := &fakeRates{}
		open, released := openWith(&Services{Rates: rates, DefaultTenantID: tenantID})
		out, err := execute(t, open, "import-rates", valid)
		require.NoError(t, err)
		assert.Contains(t, out, "Imported 2 rate(s)")
		require.Len(t, rates.created, 2)
		assert.Equal(t, "USD", rates.created[0].Currency)
		assert.True(t, rates.created[1].Rate.Equal(decimal.RequireFromString("0.86")))
		assert.Equal(t, 1, *released)
	})

	t.Run("dry run does not open the database", func(t *testing.T) {
		out, err := execute(t, nil, "import-rates", valid, "--dry-run", "-o", "json")
		require.NoError(t, err)
		var res importRatesResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, 2, res.Imported)
		assert.True(t, res.DryRun)
	})

	t.Run("invalid rows abort the import", func(t *testing.T) {
		rates := &fakeRates{}
		open, _ := openWith(&Services{Rates: rates, DefaultTenantID: tenantID})
		path := writeFile(t, "currency,rate,effective_date\nUSD,1.08,2024-01-01\nUSD,-1,2024-01-02\n")
		out, err := execute(t, open, "import-rates", path)
		assert.ErrorContains(t, err, "1 invalid row(s)")
		assert.Contains(t, out, "row 3, column 'rate': rate must be positive")
		assert.Empty(t, rates.created)
	})

	t.Run("service error names the row", func(t *testing.T) {
		open, _ := openWith(&Services{Rates: &fakeRates{err: errors.New("duplicate rate")}, DefaultTenantID: tenantID})
		_, err := execute(t, open, "import-rates", valid)
		assert.ErrorContains(t, err, "row 2: duplicate rate")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, nil, "import-rates", filepath.Join(t.TempDir(), "none.csv"))
		assert.Error(t, err)
	})
}
