package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campuskart/internal/application"
	"github.com/oksasatya/campuskart/pkg/response"
	"github.com/oksasatya/campuskart/pkg/validation"
)

// AuthHandler serves registration, email verification and login.
type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	FirstName string `json:"firstName" binding:"max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
	Email     string `json:"usiuEmail" binding:"max=254"`
	Password  string `json:"password" binding:"pwd"`
}

type loginRequest struct {
	Email    string `json:"usiuEmail"`
	Password string `json:"password"`
}

type resendRequest struct {
	Email string `json:"usiuEmail"`
}

const verifiedPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Email verified</title></head>
<body><h1>Email successfully verified!</h1><p>You can now log in to your account.</p></body></html>`

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	id, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		var details any
		if id > 0 {
			details = gin.H{"userId": id}
		}
		respondError(c, h.Logger, err, details)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"userId": id},
		"User registered successfully! Please check your email to verify your account.", nil)
}

// Verify is opened from the email link, so success renders a page rather than JSON.
func (h *AuthHandler) Verify(c *gin.Context) {
	if err := h.Svc.Verify(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(verifiedPage))
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil,
		"If the account exists and is unverified, a new verification email has been sent.", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, res, "Logged in successfully!", gin.H{"expires_at": res.ExpiresAt})
}
