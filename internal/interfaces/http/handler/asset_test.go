package handler

import (
	"net/http"
	"testing"

	appasset "github.com/erp/depreciation/internal/application/asset"
	"github.com/erp/depreciation/internal/domain/asset"
	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/erp/depreciation/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAssetRoutes(tenantID uuid.UUID, svc AssetService) *gin.Engine {
	engine := newTestEngine(tenantID)
	h := NewAssetHandler(svc)
	g := engine.Group("/api/v1/assets")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/compute", h.Compute)
	g.POST("/:id/validate", h.Validate)
	g.POST("/:id/close", h.Close)
	g.POST("/:id/draft", h.SetToDraft)
	g.POST("/:id/modify", h.ModifyDepreciation)
	g.GET("/:id/lines", h.Lines)
	g.GET("/:id/history", h.History)
	g.GET("/:id/residual", h.Residual)
	g.GET("/:id/editable-fields", h.EditableFields)
	return engine
}

func TestAssetHandler_Create(t *testing.T) {
	tenantID := uuid.New()
	categoryID := uuid.New()

	t.Run("creates draft asset", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)
		assetID := uuid.New()

		svc.On("Create", mock.Anything, tenantID, mock.MatchedBy(func(req appasset.CreateAssetRequest) bool {
			return req.Name == "Delivery van" &&
				req.CategoryID == categoryID &&
				req.PurchaseValue.Equal(decimal.NewFromInt(12000)) &&
				req.PurchaseDate.Equal(valueobject.NewDate(2024, 1, 15))
		})).Return(&appasset.AssetResponse{ID: assetID, Name: "Delivery van", State: "draft"}, nil)

		w := performRequest(t, engine, http.MethodPost, "/api/v1/assets", map[string]any{
			"name":           "Delivery van",
			"category_id":    categoryID,
			"purchase_value": "12000",
			"purchase_date":  "2024-01-15",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var got appasset.AssetResponse
		decodeData(t, w, &got)
		assert.Equal(t, assetID, got.ID)
		assert.Equal(t, "draft", got.State)
		svc.AssertExpectations(t)
	})

	t.Run("missing required fields", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)

		w := performRequest(t, engine, http.MethodPost, "/api/v1/assets", map[string]any{
			"purchase_value": "100",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "category_id")
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown depreciation method", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)

		w := performRequest(t, engine, http.MethodPost, "/api/v1/assets", map[string]any{
			"name":        "Press",
			"category_id": categoryID,
			"params":      map[string]any{"method": "sum-of-years"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)

		w := performRequest(t, engine, http.MethodPost, "/api/v1/assets", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("category is a view", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)
		svc.On("Create", mock.Anything, tenantID, mock.Anything).Return(nil, asset.ErrInvalidCategory)

		w := performRequest(t, engine, http.MethodPost, "/api/v1/assets", map[string]any{
			"name":        "Printer",
			"category_id": categoryID,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInvalidCategory, resp.Error.Code)
	})
}

func TestAssetHandler_TenantHeader(t *testing.T) {
	defaultTenant := uuid.New()
	headerTenant := uuid.New()
	assetID := uuid.New()

	svc := new(MockAssetService)
	engine := setupAssetRoutes(defaultTenant, svc)
	svc.On("GetByID", mock.Anything, headerTenant, assetID).Return(&appasset.AssetResponse{ID: assetID}, nil)

	w := performRequest(t, engine, http.MethodGet, "/api/v1/assets/"+assetID.String(), nil, "X-Tenant-ID", headerTenant.String())
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, engine, http.MethodGet, "/api/v1/assets/"+assetID.String(), nil, "X-Tenant-ID", "not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInvalidTenant, resp.Error.Code)

	svc.AssertExpectations(t)
}

func TestAssetHandler_GetByID(t *testing.T) {
	tenantID := uuid.New()

	t.Run("invalid id", func(t *testing.T) {
		engine := setupAssetRoutes(tenantID, new(MockAssetService))
		w := performRequest(t, engine, http.MethodGet, "/api/v1/assets/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)
		id := uuid.New()
		svc.On("GetByID", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		w := performRequest(t, engine, http.MethodGet, "/api/v1/assets/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})
}

func TestAssetHandler_List(t *testing.T) {
	tenantID := uuid.New()
	categoryID := uuid.New()
	svc := new(MockAssetService)
	engine := setupAssetRoutes(tenantID, svc)

	svc.On("List", mock.Anything, tenantID, mock.MatchedBy(func(f asset.AssetFilter) bool {
		return f.State != nil && *f.State == asset.AssetStateOpen &&
			f.CategoryID != nil && *f.CategoryID == categoryID &&
			f.ParentID == nil &&
			f.Page == 2 && f.PageSize == 10
	})).Return([]appasset.AssetResponse{{ID: uuid.New()}}, int64(11), nil)

	w := performRequest(t, engine, http.MethodGet,
		"/api/v1/assets?state=open&category_id="+categoryID.String()+"&page=2&page_size=10", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(11), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	svc.AssertExpectations(t)

	t.Run("rejects unknown state", func(t *testing.T) {
		w := performRequest(t, engine, http.MethodGet, "/api/v1/assets?state=sold", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAssetHandler_UpdateCarriesUser(t *testing.T) {
	tenantID := uuid.New()
	assetID := uuid.New()
	svc := new(MockAssetService)
	engine := setupAssetRoutes(tenantID, svc)

	svc.On("Update", mock.Anything, tenantID, assetID, mock.MatchedBy(func(req appasset.UpdateAssetRequest) bool {
		return req.User == "alice" && req.Name != nil && *req.Name == "Forklift"
	})).Return(&appasset.AssetResponse{ID: assetID, Name: "Forklift"}, nil)

	w := performRequest(t, engine, http.MethodPut, "/api/v1/assets/"+assetID.String(),
		map[string]any{"name": "Forklift", "user": "mallory"}, "X-User", "alice")

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	svc.AssertExpectations(t)
}

func TestAssetHandler_ModifyDepreciation(t *testing.T) {
	tenantID := uuid.New()
	assetID := uuid.New()

	t.Run("records modification", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)
		svc.On("ModifyDepreciation", mock.Anything, tenantID, assetID, mock.MatchedBy(func(req appasset.ModifyDepreciationRequest) bool {
			return req.Name == "Extend life" && req.User == "bob" &&
				req.MethodNumber != nil && *req.MethodNumber == 8
		})).Return(&appasset.BoardResponse{AssetID: assetID, DraftLines: 6}, nil)

		w := performRequest(t, engine, http.MethodPost, "/api/v1/assets/"+assetID.String()+"/modify",
			map[string]any{"name": "Extend life", "method_number": 8}, "X-User", "bob")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var board appasset.BoardResponse
		decodeData(t, w, &board)
		assert.Equal(t, 6, board.DraftLines)
		svc.AssertExpectations(t)
	})

	t.Run("rejects unknown method time", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)

		w := performRequest(t, engine, http.MethodPost, "/api/v1/assets/"+assetID.String()+"/modify",
			map[string]any{"name": "x", "method_time": "weekly"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAssetHandler_Compute(t *testing.T) {
	tenantID := uuid.New()
	assetID := uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, http.StatusOK},
		{"invalid configuration", shared.NewDomainError(asset.CodeInvalidScheduleConfiguration, "prorata requires number"), http.StatusUnprocessableEntity},
		{"locked", shared.ErrLockNotAcquired, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAssetService)
			engine := setupAssetRoutes(tenantID, svc)
			if tt.err != nil {
				svc.On("ComputeBoard", mock.Anything, tenantID, assetID).Return(nil, tt.err)
			} else {
				svc.On("ComputeBoard", mock.Anything, tenantID, assetID).Return(&appasset.BoardResponse{
					AssetID:       assetID,
					ValueResidual: decimal.NewFromInt(900),
					DraftLines:    5,
				}, nil)
			}

			w := performRequest(t, engine, http.MethodPost, "/api/v1/assets/"+assetID.String()+"/compute", nil)
			assert.Equal(t, tt.status, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestAssetHandler_StateTransitions(t *testing.T) {
	tenantID := uuid.New()
	assetID := uuid.New()
	svc := new(MockAssetService)
	engine := setupAssetRoutes(tenantID, svc)

	svc.On("Validate", mock.Anything, tenantID, assetID).Return(&appasset.AssetResponse{ID: assetID, State: "open"}, nil)
	svc.On("Close", mock.Anything, tenantID, assetID).Return(&appasset.AssetResponse{ID: assetID, State: "close"}, nil)
	svc.On("SetToDraft", mock.Anything, tenantID, assetID).Return(&appasset.AssetResponse{ID: assetID, State: "draft"}, nil)

	for path, state := range map[string]string{"validate": "open", "close": "close", "draft": "draft"} {
		w := performRequest(t, engine, http.MethodPost, "/api/v1/assets/"+assetID.String()+"/"+path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got appasset.AssetResponse
		decodeData(t, w, &got)
		assert.Equal(t, state, got.State)
	}
	svc.AssertExpectations(t)
}

func TestAssetHandler_Delete(t *testing.T) {
	tenantID := uuid.New()
	assetID := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)
		svc.On("Delete", mock.Anything, tenantID, assetID).Return(nil)

		w := performRequest(t, engine, http.MethodDelete, "/api/v1/assets/"+assetID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("posted entries", func(t *testing.T) {
		svc := new(MockAssetService)
		engine := setupAssetRoutes(tenantID, svc)
		svc.On("Delete", mock.Anything, tenantID, assetID).Return(asset.ErrHasPostedEntries)

		w := performRequest(t, engine, http.MethodDelete, "/api/v1/assets/"+assetID.String(), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeHasPostedEntries, resp.Error.Code)
	})
}

func TestAssetHandler_Lines(t *testing.T) {
	tenantID := uuid.New()
	assetID := uuid.New()
	lines := []appasset.LineResponse{
		{ID: uuid.New(), Sequence: 1, DepreciationDate: valueobject.NewDate(2024, 1, 31), State: "done"},
		{ID: uuid.New(), Sequence: 2, DepreciationDate: valueobject.NewDate(2024, 2, 29), State: "draft"},
		{ID: uuid.New(), Sequence: 3, DepreciationDate: valueobject.NewDate(2024, 3, 31), State: "draft"},
		{ID: uuid.New(), Sequence: 4, DepreciationDate: valueobject.NewDate(2024, 4, 30), State: "draft"},
	}

	svc := new(MockAssetService)
	engine := setupAssetRoutes(tenantID, svc)
	svc.On("Lines", mock.Anything, tenantID, assetID).Return(lines, nil)

	tests := []struct {
		name      string
		query     string
		sequences []int
	}{
		{"all", "", []int{1, 2, 3, 4}},
		{"inclusive range", "?from=2024-02-29&to=2024-03-31", []int{2, 3}},
		{"from only", "?from=2024-04-01", []int{4}},
		{"state", "?state=done", []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(t, engine, http.MethodGet, "/api/v1/assets/"+assetID.String()+"/lines"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var got []appasset.LineResponse
			decodeData(t, w, &got)
			seqs := make([]int, len(got))
			for i, l := range got {
				seqs[i] = l.Sequence
			}
			assert.Equal(t, tt.sequences, seqs)
		})
	}

	t.Run("bad date", func(t *testing.T) {
		w := performRequest(t, engine, http.MethodGet, "/api/v1/assets/"+assetID.String()+"/lines?from=31/01/2024", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotEmpty(t, resp.Error.Details)
		assert.Equal(t, "from", resp.Error.Details[0].Field)
	})
}

func TestAssetHandler_ResidualAndHistory(t *testing.T) {
	tenantID := uuid.New()
	assetID := uuid.New()
	svc := new(MockAssetService)
	engine := setupAssetRoutes(tenantID, svc)

	residual := &appasset.ResidualResponse{
		AssetID:     assetID,
		Depreciated: decimal.NewFromInt(400),
		Residual:    valueobject.MustNewMoney(decimal.NewFromInt(600), valueobject.Currency("EUR")),
	}
	svc.On("Residual", mock.Anything, tenantID, assetID).Return(residual, nil)
	svc.On("History", mock.Anything, tenantID, assetID).Return([]appasset.HistoryResponse{{Name: "Extend life", User: "bob"}}, nil)
	svc.On("EditableFields", mock.Anything, tenantID, assetID).Return(&appasset.EditableFieldsResponse{
		State:  "open",
		Fields: map[string]bool{"name": true, "purchase_value": false},
	}, nil)

	w := performRequest(t, engine, http.MethodGet, "/api/v1/assets/"+assetID.String()+"/residual", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, engine, http.MethodGet, "/api/v1/assets/"+assetID.String()+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []appasset.HistoryResponse
	decodeData(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "bob", history[0].User)

	w = performRequest(t, engine, http.MethodGet, "/api/v1/assets/"+assetID.String()+"/editable-fields", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fields appasset.EditableFieldsResponse
	decodeData(t, w, &fields)
	assert.False(t, fields.Fields["purchase_value"])

	svc.AssertExpectations(t)
}
