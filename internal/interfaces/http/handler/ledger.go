package handler

import (
	"errors"
	"io"

	appasset "github.com/erp/depreciation/internal/application/asset"
	appledger "github.com/erp/depreciation/internal/application/ledger"
	"github.com/erp/depreciation/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles journals, periods, currency rates and moves
type LedgerHandler struct {
	BaseHandler
	ledgerService  LedgerService
	postingService PostingService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService LedgerService, postingService PostingService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:  ledgerService,
		postingService: postingService,
	}
}

// ComputeEntriesResponse lists the moves created for a period
type ComputeEntriesResponse struct {
	PeriodID uuid.UUID   `json:"period_id"`
	MoveIDs  []uuid.UUID `json:"move_ids"`
	Count    int         `json:"count"`
}

// CreateJournal godoc
// @Summary      Create a journal
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body appledger.CreateJournalRequest true "Journal"
// @Success      201 {object} dto.Response{data=appledger.JournalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/journals [post]
func (h *LedgerHandler) CreateJournal(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appledger.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	journal, err := h.ledgerService.CreateJournal(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, journal)
}

// ListJournals godoc
// @Summary      List journals
// @Tags         ledger
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appledger.JournalResponse,meta=dto.Meta}
// @Router       /ledger/journals [get]
func (h *LedgerHandler) ListJournals(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}
	filter := query.ToFilter()

	journals, total, err := h.ledgerService.ListJournals(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, journals, total, filter.Page, filter.PageSize)
}

// CreatePeriod godoc
// @Summary      Create an accounting period
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body appledger.CreatePeriodRequest true "Period"
// @Success      201 {object} dto.Response{data=appledger.PeriodResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/periods [post]
func (h *LedgerHandler) CreatePeriod(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appledger.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	period, err := h.ledgerService.CreatePeriod(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, period)
}

// GetPeriod godoc
// @Summary      Get an accounting period
// @Tags         ledger
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} dto.Response{data=appledger.PeriodResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/periods/{id} [get]
func (h *LedgerHandler) GetPeriod(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID format")
		return
	}

	period, err := h.ledgerService.GetPeriod(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, period)
}

// ListPeriods godoc
// @Summary      List accounting periods
// @Tags         ledger
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appledger.PeriodResponse,meta=dto.Meta}
// @Router       /ledger/periods [get]
func (h *LedgerHandler) ListPeriods(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}
	filter := query.ToFilter()

	periods, total, err := h.ledgerService.ListPeriods(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, periods, total, filter.Page, filter.PageSize)
}

// ClosePeriod godoc
// @Summary      Close an accounting period
// @Description  No move can be posted into a closed period.
// @Tags         ledger
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} dto.Response{data=appledger.PeriodResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/periods/{id}/close [post]
func (h *LedgerHandler) ClosePeriod(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID format")
		return
	}

	period, err := h.ledgerService.ClosePeriod(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, period)
}

// ComputeEntries godoc
// @Summary      Post all draft lines of a period
// @Description  Posts every draft line of open automatic assets dated within the period, optionally restricted to one category.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Period ID" format(uuid)
// @Param        request body appasset.ComputeEntriesRequest false "Category restriction"
// @Success      200 {object} dto.Response{data=ComputeEntriesResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/periods/{id}/compute-entries [post]
func (h *LedgerHandler) ComputeEntries(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID format")
		return
	}

	// the body is optional
	var req appasset.ComputeEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindingError(c, err)
		return
	}

	moveIDs, err := h.postingService.ComputeEntriesForPeriod(c.Request.Context(), tenantID, id, req.CategoryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if moveIDs == nil {
		moveIDs = []uuid.UUID{}
	}

	h.Success(c, ComputeEntriesResponse{
		PeriodID: id,
		MoveIDs:  moveIDs,
		Count:    len(moveIDs),
	})
}

// CreateCurrencyRate godoc
// @Summary      Record a currency rate
// @Description  The rate is the amount of the currency per unit of company currency, effective from the given date.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body appledger.CreateCurrencyRateRequest true "Rate"
// @Success      201 {object} dto.Response{data=appledger.CurrencyRateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/currency-rates [post]
func (h *LedgerHandler) CreateCurrencyRate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appledger.CreateCurrencyRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	rate, err := h.ledgerService.CreateCurrencyRate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, rate)
}

// ListCurrencyRates godoc
// @Summary      List currency rates
// @Tags         ledger
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appledger.CurrencyRateResponse,meta=dto.Meta}
// @Router       /ledger/currency-rates [get]
func (h *LedgerHandler) ListCurrencyRates(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}
	filter := query.ToFilter()

	rates, total, err := h.ledgerService.ListCurrencyRates(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, rates, total, filter.Page, filter.PageSize)
}

// GetMove godoc
// @Summary      Get a journal move
// @Tags         ledger
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        id path string true "Move ID" format(uuid)
// @Success      200 {object} dto.Response{data=appledger.MoveResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/moves/{id} [get]
func (h *LedgerHandler) GetMove(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid move ID format")
		return
	}

	move, err := h.ledgerService.GetMove(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, move)
}
