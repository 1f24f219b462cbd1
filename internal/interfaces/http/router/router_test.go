package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/depreciation/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "yes")
		c.Next()
	})

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Api"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("assets", "/assets")
		assert.Equal(t, "assets", g.Name())
		assert.Equal(t, "/assets", g.Prefix())
	})

	t.Run("methods", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) }).
			POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) }).
			PUT("/items/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) }).
			DELETE("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/test/items").Code)
		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/test/items").Code)
		assert.Equal(t, http.StatusAccepted, serve(engine, http.MethodPut, "/api/v1/test/items/1").Code)
		assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/api/v1/test/items/1").Code)
		assert.Equal(t, 4, g.RouteCount())
	})

	t.Run("group middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("ledger", "/ledger")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "ledger")
			c.Next()
		})
		periods := g.Group("periods", "/periods")
		periods.GET("", func(c *gin.Context) { c.String(http.StatusOK, "periods") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/ledger/periods")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "periods", w.Body.String())
		assert.Equal(t, "ledger", w.Header().Get("X-Group"))
		assert.Equal(t, 1, g.RouteCount())
	})
}

func TestDepreciationGroups(t *testing.T) {
	h := Handlers{
		Category: handler.NewCategoryHandler(nil),
		Asset:    handler.NewAssetHandler(nil),
		Line:     handler.NewDepreciationLineHandler(nil),
		Ledger:   handler.NewLedgerHandler(nil, nil),
		Health:   handler.NewHealthHandler(nil, nil, "test"),
	}

	engine := gin.New()
	r := NewRouter(engine)
	groups := DepreciationGroups(h)
	total := 0
	for _, g := range groups {
		r.Register(g)
		total += g.RouteCount()
	}
	r.Setup()

	assert.Len(t, engine.Routes(), total)

	routes := make(map[string]bool)
	for _, ri := range engine.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/asset-categories",
		"GET /api/v1/assets/:id/lines",
		"POST /api/v1/assets/:id/compute",
		"POST /api/v1/assets/:id/modify",
		"POST /api/v1/depreciation-lines/post",
		"DELETE /api/v1/depreciation-lines/:id",
		"POST /api/v1/ledger/periods/:id/compute-entries",
		"POST /api/v1/ledger/periods/:id/close",
		"GET /api/v1/ledger/moves/:id",
		"GET /api/v1/health",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	w := serve(engine, http.MethodGet, "/api/v1/ping")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
