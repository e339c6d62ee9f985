package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campuskart/internal/container"
	handlers "github.com/oksasatya/campuskart/internal/interface/http"
	"github.com/oksasatya/campuskart/internal/interface/middleware"
)

// UserModule wires the authenticated account routes.
// Protected: GET /api/users/me
type UserModule struct {
	Handler  *handlers.UserHandler
	Sessions middleware.SessionResolver
}

func NewUserModule(h *handlers.UserHandler, sessions middleware.SessionResolver) *UserModule {
	return &UserModule{Handler: h, Sessions: sessions}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.Sessions, container.GetLogger()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/me", m.Handler.Me)
	}
}
