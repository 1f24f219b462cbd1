package asset

import (
	"context"
	"errors"

	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ancestorDepth bounds how far complete names are resolved; deeper paths
// render as "..." anyway
const ancestorDepth = 7

// CategoryService handles asset category operations
type CategoryService struct {
	categoryRepo asset.CategoryRepository
	assetRepo    asset.AssetRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo asset.CategoryRepository, assetRepo asset.AssetRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		assetRepo:    assetRepo,
		logger:       logger,
	}
}

// Create creates a category. Parameters not given take the category defaults.
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := asset.NewCategory(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Type != "" {
		if err := category.SetType(asset.CategoryType(req.Type)); err != nil {
			return nil, err
		}
	}
	if req.ParentID != nil {
		parent, err := s.findParent(ctx, tenantID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if err := category.SetParent(parent); err != nil {
			return nil, err
		}
	}
	if !req.Params.IsEmpty() {
		if err := category.SetDepreciationParams(req.Params.ApplyTo(category.DepreciationParams)); err != nil {
			return nil, err
		}
	}
	category.SetAccounts(req.Accounts.ToDomain())
	category.Note = req.Note
	category.OpenAsset = req.OpenAsset

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Asset category created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)
	return s.toResponse(ctx, tenantID, category)
}

// GetByID retrieves a category
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, tenantID, category)
}

// List lists categories with their complete names
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID, filter asset.CategoryFilter) ([]CategoryResponse, int64, error) {
	categories, total, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*asset.Category, len(categories))
	for i := range categories {
		items[i] = &categories[i]
	}
	parents, err := s.loadAncestors(ctx, tenantID, items...)
	if err != nil {
		return nil, 0, err
	}

	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i], parents)
	}
	return out, total, nil
}

// Update updates a category. Existing assets keep the values copied from it.
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := category.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ParentID != nil {
		parent, err := s.findParent(ctx, tenantID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if err := category.SetParent(parent); err != nil {
			return nil, err
		}
	}
	if !req.Params.IsEmpty() {
		if err := category.SetDepreciationParams(req.Params.ApplyTo(category.DepreciationParams)); err != nil {
			return nil, err
		}
	}
	if req.Accounts != nil {
		category.SetAccounts(req.Accounts.ToDomain())
	}
	if req.Note != nil {
		category.Note = *req.Note
	}
	if req.OpenAsset != nil {
		category.OpenAsset = *req.OpenAsset
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, tenantID, category)
}

// Delete removes a category that no asset or sub-category references
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	assetFilter := asset.AssetFilter{Filter: shared.Filter{Page: 1, PageSize: 1}, CategoryID: &id}
	_, assetCount, err := s.assetRepo.FindAllForTenant(ctx, tenantID, assetFilter)
	if err != nil {
		return err
	}
	if assetCount > 0 {
		return shared.NewDomainErrorf("HAS_ASSETS", "Category is used by %d asset(s)", assetCount)
	}

	childFilter := asset.CategoryFilter{Filter: shared.Filter{Page: 1, PageSize: 1}, ParentID: &id}
	_, childCount, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, childFilter)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return shared.NewDomainError("HAS_CHILDREN", "Category has sub-categories")
	}

	return s.categoryRepo.Delete(ctx, tenantID, id)
}

func (s *CategoryService) findParent(ctx context.Context, tenantID, parentID uuid.UUID) (*asset.Category, error) {
	parent, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, parentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(asset.CodeInvalidCategory, "Parent category not found")
		}
		return nil, err
	}
	return parent, nil
}

func (s *CategoryService) toResponse(ctx context.Context, tenantID uuid.UUID, category *asset.Category) (*CategoryResponse, error) {
	parents, err := s.loadAncestors(ctx, tenantID, category)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category, parents)
	return &resp, nil
}

// loadAncestors resolves the parent chains of the given categories, one
// query per level
func (s *CategoryService) loadAncestors(ctx context.Context, tenantID uuid.UUID, categories ...*asset.Category) (map[uuid.UUID]*asset.Category, error) {
	parents := make(map[uuid.UUID]*asset.Category)
	level := categories
	for depth := 0; depth < ancestorDepth && len(level) > 0; depth++ {
		var ids []uuid.UUID
		seen := make(map[uuid.UUID]bool)
		for _, c := range level {
			if c.ParentID == nil || seen[*c.ParentID] {
				continue
			}
			if _, ok := parents[*c.ParentID]; ok {
				continue
			}
			seen[*c.ParentID] = true
			ids = append(ids, *c.ParentID)
		}
		if len(ids) == 0 {
			break
		}
		found, err := s.categoryRepo.FindByIDs(ctx, tenantID, ids)
		if err != nil {
			return nil, err
		}
		level = level[:0:0]
		for id, c := range found {
			parents[id] = c
			level = append(level, c)
		}
	}
	return parents, nil
}
