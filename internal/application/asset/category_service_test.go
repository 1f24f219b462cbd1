package asset

import (
	"context"
	"testing"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newViewCategory(t *testing.T, name string, parent *asset.Category) *asset.Category {
	t.Helper()
	c, err := asset.NewCategory(testTenantID, name)
	require.NoError(t, err)
	require.NoError(t, c.SetType(asset.CategoryTypeView))
	if parent != nil {
		require.NoError(t, c.SetParent(parent))
	}
	return c
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("under a view category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockAssetRepository), zap.NewNop())
		parent := newViewCategory(t, "Equipment", nil)
		categories.On("FindByIDForTenant", mock.Anything, testTenantID, parent.ID).Return(parent, nil)
		categories.On("Save", mock.Anything, mock.AnythingOfType("*asset.Category")).Return(nil)
		categories.On("FindByIDs", mock.Anything, testTenantID, []uuid.UUID{parent.ID}).
			Return(map[uuid.UUID]*asset.Category{parent.ID: parent}, nil)

		method := "linear"
		number := 36
		assetAccount := uuid.New()
		resp, err := svc.Create(ctx, testTenantID, CreateCategoryRequest{
			Name:      "Computers",
			ParentID:  &parent.ID,
			OpenAsset: true,
			Params:    &ParamsInput{Method: &method, MethodNumber: &number},
			Accounts:  AccountsInput{AssetAccountID: &assetAccount},
		})
		require.NoError(t, err)

		assert.Equal(t, "Equipment / Computers", resp.CompleteName)
		assert.Equal(t, "normal", resp.Type)
		assert.True(t, resp.OpenAsset)
		assert.Equal(t, "linear", resp.Params.Method)
		assert.Equal(t, 36, resp.Params.MethodNumber)
		assert.Equal(t, 1, resp.Params.MethodPeriod)
		require.NotNil(t, resp.Accounts.DepreciationAccountID)
		assert.Equal(t, assetAccount, *resp.Accounts.DepreciationAccountID, "defaults to the asset account")
		categories.AssertExpectations(t)
	})

	t.Run("parent must be a view category", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockAssetRepository), zap.NewNop())
		parent := newTestCategory(t)
		categories.On("FindByIDForTenant", mock.Anything, testTenantID, parent.ID).Return(parent, nil)

		_, err := svc.Create(ctx, testTenantID, CreateCategoryRequest{Name: "Laptops", ParentID: &parent.ID})
		assert.True(t, shared.IsDomainError(err, asset.CodeInvalidCategory))
		categories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown parent", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockAssetRepository), zap.NewNop())
		parentID := uuid.New()
		categories.On("FindByIDForTenant", mock.Anything, testTenantID, parentID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, testTenantID, CreateCategoryRequest{Name: "Laptops", ParentID: &parentID})
		assert.True(t, shared.IsDomainError(err, asset.CodeInvalidCategory))
	})

	t.Run("invalid parameters", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		svc := NewCategoryService(categories, new(MockAssetRepository), zap.NewNop())

		period := 0
		_, err := svc.Create(ctx, testTenantID, CreateCategoryRequest{
			Name:   "Laptops",
			Params: &ParamsInput{MethodPeriod: &period},
		})
		require.Error(t, err)
		categories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_List(t *testing.T) {
	categories := new(MockCategoryRepository)
	svc := NewCategoryService(categories, new(MockAssetRepository), zap.NewNop())

	root := newViewCategory(t, "Fixed assets", nil)
	mid := newViewCategory(t, "Equipment", root)
	leaf, err := asset.NewCategory(testTenantID, "Computers")
	require.NoError(t, err)
	require.NoError(t, leaf.SetParent(mid))

	filter := asset.CategoryFilter{Filter: shared.Filter{Page: 1, PageSize: 20}}
	categories.On("FindAllForTenant", mock.Anything, testTenantID, filter).Return([]asset.Category{*leaf, *root}, int64(2), nil)
	categories.On("FindByIDs", mock.Anything, testTenantID, []uuid.UUID{mid.ID}).
		Return(map[uuid.UUID]*asset.Category{mid.ID: mid}, nil)
	categories.On("FindByIDs", mock.Anything, testTenantID, []uuid.UUID{root.ID}).
		Return(map[uuid.UUID]*asset.Category{root.ID: root}, nil)

	items, total, err := svc.List(context.Background(), testTenantID, filter)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Fixed assets / Equipment / Computers", items[0].CompleteName)
	assert.Equal(t, "Fixed assets", items[1].CompleteName)
	categories.AssertNumberOfCalls(t, "FindByIDs", 2)
}

func TestCategoryService_Update(t *testing.T) {
	categories := new(MockCategoryRepository)
	svc := NewCategoryService(categories, new(MockAssetRepository), zap.NewNop())
	c := newTestCategory(t)
	categories.On("FindByIDForTenant", mock.Anything, testTenantID, c.ID).Return(c, nil)
	categories.On("Save", mock.Anything, c).Return(nil)

	name := "Servers"
	open := true
	number := 3
	resp, err := svc.Update(context.Background(), testTenantID, c.ID, UpdateCategoryRequest{
		Name:      &name,
		OpenAsset: &open,
		Params:    &ParamsInput{MethodNumber: &number},
	})
	require.NoError(t, err)
	assert.Equal(t, "Servers", resp.Name)
	assert.True(t, resp.OpenAsset)
	assert.Equal(t, 3, resp.Params.MethodNumber)
	assert.Equal(t, "degressive", resp.Params.Method)
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("used by assets", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		assets := new(MockAssetRepository)
		svc := NewCategoryService(categories, assets, zap.NewNop())
		c := newTestCategory(t)
		categories.On("FindByIDForTenant", mock.Anything, testTenantID, c.ID).Return(c, nil)
		assets.On("FindAllForTenant", mock.Anything, testTenantID, mock.MatchedBy(func(f asset.AssetFilter) bool {
			return f.CategoryID != nil && *f.CategoryID == c.ID
		})).Return([]asset.Asset{}, int64(3), nil)

		err := svc.Delete(ctx, testTenantID, c.ID)
		assert.True(t, shared.IsDomainError(err, "HAS_ASSETS"))
		categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("has sub-categories", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		assets := new(MockAssetRepository)
		svc := NewCategoryService(categories, assets, zap.NewNop())
		c := newViewCategory(t, "Equipment", nil)
		categories.On("FindByIDForTenant", mock.Anything, testTenantID, c.ID).Return(c, nil)
		assets.On("FindAllForTenant", mock.Anything, testTenantID, mock.Anything).Return([]asset.Asset{}, int64(0), nil)
		categories.On("FindAllForTenant", mock.Anything, testTenantID, mock.MatchedBy(func(f asset.CategoryFilter) bool {
			return f.ParentID != nil && *f.ParentID == c.ID
		})).Return([]asset.Category{}, int64(1), nil)

		err := svc.Delete(ctx, testTenantID, c.ID)
		assert.True(t, shared.IsDomainError(err, "HAS_CHILDREN"))
	})

	t.Run("unused", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		assets := new(MockAssetRepository)
		svc := NewCategoryService(categories, assets, zap.NewNop())
		c := newTestCategory(t)
		categories.On("FindByIDForTenant", mock.Anything, testTenantID, c.ID).Return(c, nil)
		assets.On("FindAllForTenant", mock.Anything, testTenantID, mock.Anything).Return([]asset.Asset{}, int64(0), nil)
		categories.On("FindAllForTenant", mock.Anything, testTenantID, mock.Anything).Return([]asset.Category{}, int64(0), nil)
		categories.On("Delete", mock.Anything, testTenantID, c.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, testTenantID, c.ID))
		categories.AssertExpectations(t)
	})
}
