package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP skips counting for loopback and RFC 1918 callers such as health probes.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(clientIP(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}
