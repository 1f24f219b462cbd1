package handler

import (
	appasset "github.com/erp/depreciation/internal/application/asset"
	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryHandler handles asset category API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CategoryListQuery holds the query parameters of the category list
type CategoryListQuery struct {
	dto.ListRequest
	Type     string `form:"type" binding:"omitempty,oneof=view normal"`
	ParentID string `form:"parent_id" binding:"omitempty,uuid"`
}

// Create godoc
// @Summary      Create an asset category
// @Description  Create a view or normal category. Normal categories carry the default depreciation parameters and accounts of their assets.
// @Tags         asset-categories
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body appasset.CreateCategoryRequest true "Category creation request"
// @Success      201 {object} dto.Response{data=appasset.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /asset-categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appasset.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, category)
}

// GetByID godoc
// @Summary      Get an asset category
// @Tags         asset-categories
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /asset-categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, category)
}

// List godoc
// @Summary      List asset categories
// @Tags         asset-categories
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name"
// @Param        type query string false "Category type" Enums(view, normal)
// @Param        parent_id query string false "Parent category ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]appasset.CategoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /asset-categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query CategoryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := asset.CategoryFilter{Filter: query.ToFilter()}
	if query.Type != "" {
		t := asset.CategoryType(query.Type)
		filter.Type = &t
	}
	if query.ParentID != "" {
		parentID := uuid.MustParse(query.ParentID)
		filter.ParentID = &parentID
	}

	categories, total, err := h.categoryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, categories, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update an asset category
// @Description  Update name, parent, note, default parameters or accounts. Existing assets keep their own values.
// @Tags         asset-categories
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body appasset.UpdateCategoryRequest true "Category update request"
// @Success      200 {object} dto.Response{data=appasset.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /asset-categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	var req appasset.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete godoc
// @Summary      Delete an asset category
// @Description  Categories still referenced by assets or child categories cannot be deleted.
// @Tags         asset-categories
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /asset-categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
