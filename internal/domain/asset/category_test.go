package asset

import (
	"fmt"
	"testing"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory_Defaults(t *testing.T) {
	c, err := NewCategory(testTenantID, "  Vehicles ")
	require.NoError(t, err)

	assert.Equal(t, "Vehicles", c.Name)
	assert.Equal(t, CategoryTypeNormal, c.Type)
	assert.Equal(t, MethodDegressive, c.Method)
	assert.Equal(t, 5, c.MethodNumber)
	assert.Equal(t, 1, c.MethodPeriod)
	assert.Equal(t, MethodTimeNumber, c.MethodTime)
	assert.True(t, c.MethodProgressFactor.Equal(dec("0.3")))
	assert.False(t, c.Prorata)
	assert.False(t, c.OpenAsset)
	assert.NoError(t, c.DepreciationParams.Validate())

	_, err = NewCategory(testTenantID, "")
	assert.True(t, shared.IsDomainError(err, "INVALID_NAME"))
}

func TestCategory_SetAccountsDefaultsFromAssetAccount(t *testing.T) {
	c, err := NewCategory(testTenantID, "Vehicles")
	require.NoError(t, err)

	assetAccount := idPtr()
	c.SetAccounts(Accounts{AssetAccountID: assetAccount})
	assert.Equal(t, assetAccount, c.DepreciationAccountID)
	assert.Equal(t, assetAccount, c.RevaluationAccountID)

	own := idPtr()
	c.SetAccounts(Accounts{AssetAccountID: assetAccount, DepreciationAccountID: own})
	assert.Equal(t, own, c.DepreciationAccountID)
}

func TestCategory_SetParent(t *testing.T) {
	view, err := NewCategory(testTenantID, "Equipment")
	require.NoError(t, err)
	require.NoError(t, view.SetType(CategoryTypeView))

	normal, err := NewCategory(testTenantID, "Computers")
	require.NoError(t, err)

	require.NoError(t, normal.SetParent(view))
	assert.Equal(t, view.ID, *normal.ParentID)

	other, err := NewCategory(testTenantID, "Printers")
	require.NoError(t, err)
	assert.True(t, shared.IsDomainError(normal.SetParent(other), CodeInvalidCategory))
	assert.True(t, shared.IsDomainError(view.SetParent(view), CodeInvalidCategory))
	assert.True(t, shared.IsDomainError(view.SetType("bogus"), CodeInvalidCategory))

	require.NoError(t, normal.SetParent(nil))
	assert.Nil(t, normal.ParentID)
}

func TestCompleteName(t *testing.T) {
	parents := map[uuid.UUID]*Category{}
	var prev *Category
	var chain []*Category
	for i := 1; i <= 8; i++ {
		c, err := NewCategory(testTenantID, fmt.Sprintf("L%d", i))
		require.NoError(t, err)
		if prev != nil {
			id := prev.ID
			c.ParentID = &id
		}
		parents[c.ID] = c
		chain = append(chain, c)
		prev = c
	}

	assert.Equal(t, "L1", CompleteName(chain[0], parents))
	assert.Equal(t, "L1 / L2 / L3", CompleteName(chain[2], parents))
	assert.Equal(t, "L1 / L2 / L3 / L4 / L5 / L6", CompleteName(chain[5], parents))
	assert.Equal(t, "... / L2 / L3 / L4 / L5 / L6 / L7", CompleteName(chain[6], parents))
	assert.Equal(t, "... / L3 / L4 / L5 / L6 / L7 / L8", CompleteName(chain[7], parents))
}

func TestDepreciationParams_Validate(t *testing.T) {
	end := linearParams(0, 1)
	end.MethodTime = MethodTimeEnd

	tests := []struct {
		name   string
		params DepreciationParams
		valid  bool
	}{
		{"defaults", DefaultDepreciationParams(), true},
		{"linear", linearParams(12, 1), true},
		{"unknown method", DepreciationParams{Method: "custom", MethodNumber: 1, MethodPeriod: 1, MethodTime: MethodTimeNumber}, false},
		{"unknown time", DepreciationParams{Method: MethodLinear, MethodNumber: 1, MethodPeriod: 1, MethodTime: "weekly"}, false},
		{"zero period", linearParams(12, 0), false},
		{"negative period", linearParams(12, -1), false},
		{"zero number", linearParams(0, 1), false},
		{"end without date", end, false},
		{"factor above one", degressiveParams(5, "30"), false},
		{"zero factor", degressiveParams(5, "0"), false},
		{"activity accepted", DepreciationParams{Method: MethodLinear, MethodNumber: 3, MethodPeriod: 1, MethodTime: MethodTimeActivity}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, shared.IsDomainError(err, CodeInvalidScheduleConfiguration), "got %v", err)
			}
		})
	}
}
