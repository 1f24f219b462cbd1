package handler

import (
	appasset "github.com/erp/depreciation/internal/application/asset"
	"github.com/gin-gonic/gin"
)

// DepreciationLineHandler handles posting and reversal of depreciation lines
type DepreciationLineHandler struct {
	BaseHandler
	postingService PostingService
}

// NewDepreciationLineHandler creates a new DepreciationLineHandler
func NewDepreciationLineHandler(postingService PostingService) *DepreciationLineHandler {
	return &DepreciationLineHandler{
		postingService: postingService,
	}
}

// Post godoc
// @Summary      Post depreciation lines
// @Description  Creates one balanced move per draft line. Lines already posted are skipped. Assets whose residual reaches zero are closed.
// @Tags         depreciation-lines
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body appasset.PostLinesRequest true "Lines to post"
// @Success      200 {object} dto.Response{data=appasset.PostLinesResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /depreciation-lines/post [post]
func (h *DepreciationLineHandler) Post(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appasset.PostLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.postingService.PostLines(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel a depreciation line
// @Description  Marks a draft line as cancelled. It then anchors later recomputation like a posted line.
// @Tags         depreciation-lines
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Line ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.LineResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /depreciation-lines/{id}/cancel [post]
func (h *DepreciationLineHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	line, err := h.postingService.CancelLine(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, line)
}

// ResetToDraft godoc
// @Summary      Reset a depreciation line to draft
// @Description  Removes the move of a posted line and returns the line to draft.
// @Tags         depreciation-lines
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Line ID" format(uuid)
// @Success      200 {object} dto.Response{data=appasset.LineResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /depreciation-lines/{id}/draft [post]
func (h *DepreciationLineHandler) ResetToDraft(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	line, err := h.postingService.ResetLineToDraft(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, line)
}

// Delete godoc
// @Summary      Delete a draft depreciation line
// @Tags         depreciation-lines
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Line ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /depreciation-lines/{id} [delete]
func (h *DepreciationLineHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	if err := h.postingService.DeleteLine(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
