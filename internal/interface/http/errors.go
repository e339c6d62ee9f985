package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campuskart/internal/application"
	"github.com/oksasatya/campuskart/pkg/helpers"
	"github.com/oksasatya/campuskart/pkg/response"
)

// StatusFor maps a service error kind onto an HTTP status.
func StatusFor(err error) int {
	switch application.KindOf(err) {
	case application.KindValidation:
		return http.StatusBadRequest
	case application.KindConflict:
		return http.StatusConflict
	case application.KindAuthentication:
		return http.StatusUnauthorized
	case application.KindAuthorization:
		return http.StatusForbidden
	case application.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the envelope for err. Dependency failures are logged and
// answered with a generic message so infrastructure details stay internal.
func respondError(c *gin.Context, logger *logrus.Logger, err error, details interface{}) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if logger == nil {
			logger = logrus.StandardLogger()
		}
		helpers.RequestLogger(logger, c).WithError(err).Error("request failed")
		msg := "internal server error"
		if errors.Is(err, application.ErrRegisteredUnnotified) {
			msg = application.ErrRegisteredUnnotified.Message
		}
		response.Error[any](c, status, msg, details)
		return
	}
	var ae *application.Error
	if errors.As(err, &ae) {
		response.Error[any](c, status, ae.Message, details)
		return
	}
	response.Error[any](c, status, err.Error(), details)
}
