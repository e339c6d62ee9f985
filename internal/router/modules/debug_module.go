package modules

import (
	"expvar"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campuskart/internal/container"
	"github.com/oksasatya/campuskart/internal/interface/middleware"
)

var (
	startedAt   = time.Now()
	publishOnce sync.Once
)

// DebugModule serves expvar under /debug/vars; mounted only when DEBUG_METRICS_ENABLED is set.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	publishOnce.Do(func() {
		expvar.Publish("uptime_seconds", expvar.Func(func() any {
			return int64(time.Since(startedAt) / time.Second)
		}))
		expvar.Publish("db_pool", expvar.Func(func() any {
			p := container.GetPGPool()
			if p == nil {
				return nil
			}
			s := p.Stat()
			return map[string]int32{
				"total":    s.TotalConns(),
				"idle":     s.IdleConns(),
				"acquired": s.AcquiredConns(),
				"max":      s.MaxConns(),
			}
		}))
	})
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
