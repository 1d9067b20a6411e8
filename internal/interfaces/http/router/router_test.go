package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func okHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouterSetup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("registers routes under default version", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		group := NewDomainGroup("ledger", "/ledger")
		group.GET("/accounts", okHandler)

		r.Register(group)
		r.Setup()

		w := serve(engine, http.MethodGet, "/api/v1/ledger/accounts")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("honours custom API version", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, WithAPIVersion("v2"))

		group := NewDomainGroup("ledger", "/ledger")
		group.GET("/accounts", okHandler)

		r.Register(group)
		r.Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/ledger/accounts").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/ledger/accounts").Code)
	})

	t.Run("applies group middleware to all registered routes", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		called := false
		r.Use(func(c *gin.Context) {
			called = true
			c.Next()
		})

		group := NewDomainGroup("ledger", "/ledger")
		group.GET("/accounts", okHandler)

		r.Register(group)
		r.Setup()

		w := serve(engine, http.MethodGet, "/api/v1/ledger/accounts")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called, "router middleware was not invoked")
	})
}

func TestDomainGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("registers all HTTP methods", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		group := NewDomainGroup("ledger", "/ledger")
		group.GET("/entries", okHandler).
			POST("/entries", okHandler).
			PUT("/entries/:id", okHandler).
			DELETE("/entries/:id", okHandler)

		r.Register(group)
		r.Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/ledger/entries").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/ledger/entries").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPut, "/api/v1/ledger/entries/1").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodDelete, "/api/v1/ledger/entries/1").Code)
	})

	t.Run("nests subgroups under parent prefix", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		group := NewDomainGroup("ledger", "/ledger")
		reports := group.Group("reports", "/reports")
		reports.GET("/trial-balance", okHandler)

		r.Register(group)
		r.Setup()

		w := serve(engine, http.MethodGet, "/api/v1/ledger/reports/trial-balance")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("applies group-local middleware", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		group := NewDomainGroup("ledger", "/ledger")
		group.Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})
		group.GET("/accounts", okHandler)

		r.Register(group)
		r.Setup()

		w := serve(engine, http.MethodGet, "/api/v1/ledger/accounts")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("exposes name and prefix", func(t *testing.T) {
		group := NewDomainGroup("ledger", "/ledger")
		assert.Equal(t, "ledger", group.Name())
		assert.Equal(t, "/ledger", group.Prefix())
	})
}
