package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campuskart/internal/domain/entity"
	"github.com/oksasatya/campuskart/pkg/helpers"
	"github.com/oksasatya/campuskart/pkg/response"
)

const unauthorizedMessage = "not authorized, token failed"

// SessionResolver maps a bearer token onto a stored user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.User, error)
}

// Auth requires a valid bearer session token. Every failure answers with the same
// 401 message; the actual reason is only logged.
// On success it sets userID (int64) and currentUser in both the Gin and request context.
func Auth(sessions SessionResolver, logger *logrus.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "not authorized, no token")
			return
		}
		u, err := sessions.ResolveSession(c.Request.Context(), token)
		if err != nil {
			helpers.RequestLogger(logger, c).WithError(err).Warn("session rejected")
			response.Abort(c, http.StatusUnauthorized, unauthorizedMessage)
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxCurrentUserKey, u)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), u))
		c.Next()
	}
}
