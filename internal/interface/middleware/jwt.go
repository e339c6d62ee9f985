package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campuskart/internal/domain/entity"
)

const (
	CtxUserIDKey      = "userID"
	CtxCurrentUserKey = "currentUser"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	currentUserKey
)

// BearerToken returns the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// WithIdentity attaches the authenticated user to ctx.
func WithIdentity(ctx context.Context, u *entity.User) context.Context {
	ctx = context.WithValue(ctx, userIDKey, u.ID)
	return context.WithValue(ctx, currentUserKey, u)
}

// UserIDFrom returns the authenticated user id stored in ctx.
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// CurrentUserFrom returns the authenticated user stored in ctx.
func CurrentUserFrom(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(currentUserKey).(*entity.User)
	return u, ok
}

// CurrentUserID reads the caller id set by Auth.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}
