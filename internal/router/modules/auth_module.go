package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campuskart/internal/container"
	handlers "github.com/oksasatya/campuskart/internal/interface/http"
	"github.com/oksasatya/campuskart/internal/interface/middleware"
)

// AuthModule exposes the public account endpoints under /users.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")
	users.POST("/register", registerLimiter, m.Handler.Register)
	users.GET("/verify", verifyLimiter, m.Handler.Verify)
	users.POST("/verify/resend", resendLimiter, m.Handler.ResendVerification)
	users.POST("/login", loginLimiter, m.Handler.Login)
}
