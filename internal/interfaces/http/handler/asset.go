package handler

import (
	appasset "github.com/erp/depreciation/internal/application/asset"
	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/erp/depreciation/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssetHandler handles asset lifecycle and depreciation board endpoints
type AssetHandler struct {
	BaseHandler
	assetService AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// AssetListQuery holds the query parameters of the asset list
type AssetListQuery struct {
	dto.ListRequest
	State      string `form:"state" binding:"omitempty,oneof=draft open close"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	ParentID   string `form:"parent_id" binding:"omitempty,uuid"`
}

// LineListQuery restricts the depreciation lines returned for an asset
type LineListQuery struct {
	From  string `form:"from" binding:"omitempty,isodate"`
	To    string `form:"to" binding:"omitempty,isodate"`
	State string `form:"state" binding:"omitempty,oneof=draft done cancel"`
}

// Create godoc
// @Summary      Create an asset
// @Description  Create a draft asset. Depreciation parameters and accounts not given are copied from the category.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body appasset.CreateAssetRequest true "Asset creation request"
// @Success      201 {object} dto.Response{data=appasset.AssetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appasset.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	created, err := h.assetService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, created)
}

// GetByID godoc
// @Summary      Get an asset
// @Description  Returns the asset with its residual value, entry count and children.
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.AssetResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id} [get]
func (h *AssetHandler) GetByID(c *gin.Context) {
	h.withAsset(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.assetService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// List godoc
// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name or code"
// @Param        state query string false "Asset state" Enums(draft, open, close)
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        parent_id query string false "Parent asset ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]appasset.AssetResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query AssetListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := asset.AssetFilter{Filter: query.ToFilter()}
	if query.State != "" {
		state := asset.AssetState(query.State)
		filter.State = &state
	}
	if query.CategoryID != "" {
		categoryID := uuid.MustParse(query.CategoryID)
		filter.CategoryID = &categoryID
	}
	if query.ParentID != "" {
		parentID := uuid.MustParse(query.ParentID)
		filter.ParentID = &parentID
	}

	assets, total, err := h.assetService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, assets, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update an asset
// @Description  Fields that may change depend on the asset state. Parameter changes on a running asset are recorded in its history.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        X-User header string false "Acting user"
// @Param        id path string true "Asset ID" format(uuid)
// @Param        request body appasset.UpdateAssetRequest true "Asset update request"
// @Success      200 {object} dto.Response{data=appasset.AssetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	var req appasset.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.User = getUser(c)

	updated, err := h.assetService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// ModifyDepreciation godoc
// @Summary      Modify depreciation time parameters
// @Description  Records a history entry, applies the new duration and recomputes the board.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        X-User header string false "Acting user"
// @Param        id path string true "Asset ID" format(uuid)
// @Param        request body appasset.ModifyDepreciationRequest true "Modification"
// @Success      200 {object} dto.Response{data=appasset.BoardResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id}/modify [post]
func (h *AssetHandler) ModifyDepreciation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	var req appasset.ModifyDepreciationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.User = getUser(c)

	board, err := h.assetService.ModifyDepreciation(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, board)
}

// Delete godoc
// @Summary      Delete an asset
// @Description  Assets with posted entries or child assets cannot be deleted.
// @Tags         assets
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	if err := h.assetService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Compute godoc
// @Summary      Compute the depreciation board
// @Description  Regenerates the draft lines after the last posted line. Posted and cancelled lines are kept.
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.BoardResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id}/compute [post]
func (h *AssetHandler) Compute(c *gin.Context) {
	h.withAsset(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.assetService.ComputeBoard(c.Request.Context(), tenantID, id)
	})
}

// Validate godoc
// @Summary      Confirm an asset
// @Description  Moves a draft asset to open. An asset already fully depreciated is closed instead.
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.AssetResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id}/validate [post]
func (h *AssetHandler) Validate(c *gin.Context) {
	h.withAsset(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.assetService.Validate(c.Request.Context(), tenantID, id)
	})
}

// Close godoc
// @Summary      Close an asset
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.AssetResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id}/close [post]
func (h *AssetHandler) Close(c *gin.Context) {
	h.withAsset(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.assetService.Close(c.Request.Context(), tenantID, id)
	})
}

// SetToDraft godoc
// @Summary      Reset an asset to draft
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.AssetResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id}/draft [post]
func (h *AssetHandler) SetToDraft(c *gin.Context) {
	h.withAsset(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.assetService.SetToDraft(c.Request.Context(), tenantID, id)
	})
}

// Lines godoc
// @Summary      List depreciation lines of an asset
// @Description  Lines are ordered by depreciation date then sequence.
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Param        from query string false "First depreciation date (YYYY-MM-DD)"
// @Param        to query string false "Last depreciation date (YYYY-MM-DD)"
// @Param        state query string false "Line state" Enums(draft, done, cancel)
// @Success      200 {object} dto.Response{data=[]appasset.LineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id}/lines [get]
func (h *AssetHandler) Lines(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	var query LineListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	lines, err := h.assetService.Lines(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, filterLines(lines, query))
}

// filterLines applies the optional date range and state of a LineListQuery.
// Both bounds are inclusive.
func filterLines(lines []appasset.LineResponse, query LineListQuery) []appasset.LineResponse {
	if query.From == "" && query.To == "" && query.State == "" {
		return lines
	}
	var from, to valueobject.Date
	if query.From != "" {
		from = valueobject.MustParseDate(query.From)
	}
	if query.To != "" {
		to = valueobject.MustParseDate(query.To)
	}

	out := make([]appasset.LineResponse, 0, len(lines))
	for _, l := range lines {
		if !from.IsZero() && l.DepreciationDate.Before(from) {
			continue
		}
		if !to.IsZero() && l.DepreciationDate.After(to) {
			continue
		}
		if query.State != "" && l.State != query.State {
			continue
		}
		out = append(out, l)
	}
	return out
}

// History godoc
// @Summary      List the depreciation history of an asset
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]appasset.HistoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id}/history [get]
func (h *AssetHandler) History(c *gin.Context) {
	h.withAsset(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.assetService.History(c.Request.Context(), tenantID, id)
	})
}

// Residual godoc
// @Summary      Get the residual value of an asset
// @Description  Purchase value minus salvage value minus the posted depreciation, in the asset currency.
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.ResidualResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id}/residual [get]
func (h *AssetHandler) Residual(c *gin.Context) {
	h.withAsset(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.assetService.Residual(c.Request.Context(), tenantID, id)
	})
}

// EditableFields godoc
// @Summary      List the editable fields of an asset
// @Tags         assets
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.EditableFieldsResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{id}/editable-fields [get]
func (h *AssetHandler) EditableFields(c *gin.Context) {
	h.withAsset(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.assetService.EditableFields(c.Request.Context(), tenantID, id)
	})
}

// withAsset resolves tenant and asset ID, runs fn and writes its result
func (h *AssetHandler) withAsset(c *gin.Context, fn func(tenantID, id uuid.UUID) (any, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid asset ID format")
		return
	}

	result, err := fn(tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
