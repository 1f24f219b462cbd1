package router

import (
	"github.com/erp/depreciation/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers of the depreciation API
type Handlers struct {
	Category *handler.CategoryHandler
	Asset    *handler.AssetHandler
	Line     *handler.DepreciationLineHandler
	Ledger   *handler.LedgerHandler
	Health   *handler.HealthHandler
}

// DepreciationGroups builds the route groups served under /api/v1
func DepreciationGroups(h Handlers) []*DomainGroup {
	categories := NewDomainGroup("asset-categories", "/asset-categories")
	categories.POST("", h.Category.Create)
	categories.GET("", h.Category.List)
	categories.GET("/:id", h.Category.GetByID)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)

	assets := NewDomainGroup("assets", "/assets")
	assets.POST("", h.Asset.Create)
	assets.GET("", h.Asset.List)
	assets.GET("/:id", h.Asset.GetByID)
	assets.PUT("/:id", h.Asset.Update)
	assets.DELETE("/:id", h.Asset.Delete)
	assets.POST("/:id/compute", h.Asset.Compute)
	assets.POST("/:id/validate", h.Asset.Validate)
	assets.POST("/:id/close", h.Asset.Close)
	assets.POST("/:id/draft", h.Asset.SetToDraft)
	assets.POST("/:id/modify", h.Asset.ModifyDepreciation)
	assets.GET("/:id/lines", h.Asset.Lines)
	assets.GET("/:id/history", h.Asset.History)
	assets.GET("/:id/residual", h.Asset.Residual)
	assets.GET("/:id/editable-fields", h.Asset.EditableFields)

	lines := NewDomainGroup("depreciation-lines", "/depreciation-lines")
	lines.POST("/post", h.Line.Post)
	lines.POST("/:id/cancel", h.Line.Cancel)
	lines.POST("/:id/draft", h.Line.ResetToDraft)
	lines.DELETE("/:id", h.Line.Delete)

	ledger := NewDomainGroup("ledger", "/ledger")
	ledger.POST("/journals", h.Ledger.CreateJournal)
	ledger.GET("/journals", h.Ledger.ListJournals)
	periods := ledger.Group("periods", "/periods")
	periods.POST("", h.Ledger.CreatePeriod)
	periods.GET("", h.Ledger.ListPeriods)
	periods.GET("/:id", h.Ledger.GetPeriod)
	periods.POST("/:id/close", h.Ledger.ClosePeriod)
	periods.POST("/:id/compute-entries", h.Ledger.ComputeEntries)
	ledger.POST("/currency-rates", h.Ledger.CreateCurrencyRate)
	ledger.GET("/currency-rates", h.Ledger.ListCurrencyRates)
	ledger.GET("/moves/:id", h.Ledger.GetMove)

	system := NewDomainGroup("system", "")
	system.GET("/ping", h.Health.Ping)
	system.GET("/health", h.Health.Ready)

	return []*DomainGroup{categories, assets, lines, ledger, system}
}
