package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campuskart/internal/application"
	"github.com/oksasatya/campuskart/internal/interface/middleware"
	"github.com/oksasatya/campuskart/pkg/response"
)

type UserHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, h.Logger, application.ErrUnauthenticated, nil)
		return
	}
	p, err := h.Svc.Profile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}
