package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campuskart/internal/container"
	handlers "github.com/oksasatya/campuskart/internal/interface/http"
	"github.com/oksasatya/campuskart/internal/interface/middleware"
)

// ItemModule wires the listing routes.
// Public: GET /api/items, GET /api/items/search, GET /api/items/:id
// Protected: POST /api/items, GET /api/items/my-items, PUT/DELETE /api/items/:id
type ItemModule struct {
	Handler  *handlers.ItemHandler
	Sessions middleware.SessionResolver
}

func NewItemModule(h *handlers.ItemHandler, sessions middleware.SessionResolver) *ItemModule {
	return &ItemModule{Handler: h, Sessions: sessions}
}

func (m *ItemModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	browseLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil)

	items := rg.Group("/items")
	items.GET("", browseLimiter, m.Handler.List)
	items.GET("/search", browseLimiter, m.Handler.Search)

	auth := items.Group("")
	auth.Use(middleware.Auth(m.Sessions, container.GetLogger()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("/my-items", m.Handler.Mine)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}

	items.GET("/:id", browseLimiter, m.Handler.Get)
}
